package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
	"github.com/atelierline/studio/internal/design/repository"
	"github.com/atelierline/studio/internal/design/sse"
	"github.com/atelierline/studio/internal/shared/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransmittalService 图纸发放单服务。发放单记录的是"发出意图"：
// MarkSent成功即入账，后续投递通知失败只记日志，不回滚状态。
type TransmittalService struct {
	repo        *repository.TransmittalRepository
	drawingRepo *repository.DrawingRepository
	projectRepo *repository.ProjectRepository
	cache       *MatrixCache
	notifier    *notify.Client
	logger      *zap.Logger
	db          *gorm.DB
}

// NewTransmittalService 创建发放单服务
func NewTransmittalService(
	repo *repository.TransmittalRepository,
	drawingRepo *repository.DrawingRepository,
	projectRepo *repository.ProjectRepository,
	cache *MatrixCache,
	logger *zap.Logger,
	db *gorm.DB,
) *TransmittalService {
	return &TransmittalService{
		repo:        repo,
		drawingRepo: drawingRepo,
		projectRepo: projectRepo,
		cache:       cache,
		logger:      logger,
		db:          db,
	}
}

// SetNotifier 注入投递通知客户端（可选）
func (s *TransmittalService) SetNotifier(notifier *notify.Client) {
	s.notifier = notifier
}

// TransmittalItemRequest 发放单行项请求
type TransmittalItemRequest struct {
	DrawingID  string  `json:"drawing_id" binding:"required"`
	RevisionID *string `json:"revision_id"`
}

// CreateTransmittalRequest 创建发放单请求
type CreateTransmittalRequest struct {
	RecipientName     string                   `json:"recipient_name" binding:"required"`
	RecipientEmail    string                   `json:"recipient_email" binding:"required"`
	RecipientOrg      string                   `json:"recipient_org"`
	RecipientCategory string                   `json:"recipient_category"`
	Notes             string                   `json:"notes"`
	Items             []TransmittalItemRequest `json:"items" binding:"required"`
}

// List 获取项目发放单列表
func (s *TransmittalService) List(ctx context.Context, projectID string, page, pageSize int, status string) ([]entity.Transmittal, int64, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return s.repo.ListByProject(ctx, projectID, page, pageSize, status)
}

// Get 获取发放单详情
func (s *TransmittalService) Get(ctx context.Context, id string) (*entity.Transmittal, error) {
	transmittal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transmittal, nil
}

// Create 创建draft发放单。行项引用的图纸必须属于本项目，显式指定的
// 版本必须属于该图纸；版本号快照在此时先行写入（显式=该版本号，
// 隐式=图纸当前版本号），MarkSent时对隐式行项再冻结一次。
func (s *TransmittalService) Create(ctx context.Context, projectID, userID string, req *CreateTransmittalRequest) (*entity.Transmittal, error) {
	if strings.TrimSpace(req.RecipientEmail) == "" {
		return nil, fmt.Errorf("%w: recipient email is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: transmittal needs at least one item", ErrValidation)
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items := make([]entity.TransmittalItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		if itemReq.DrawingID == "" {
			return nil, fmt.Errorf("%w: item without drawing", ErrValidation)
		}
		drawing, err := s.drawingRepo.FindByID(ctx, itemReq.DrawingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: drawing %s", ErrNotFound, itemReq.DrawingID)
			}
			return nil, err
		}
		if drawing.ProjectID != projectID {
			return nil, fmt.Errorf("%w: drawing %s", ErrNotFound, itemReq.DrawingID)
		}

		snapshot := drawing.CurrentRevision
		if itemReq.RevisionID != nil && *itemReq.RevisionID != "" {
			rev, err := s.drawingRepo.FindRevision(ctx, *itemReq.RevisionID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: revision %s", ErrNotFound, *itemReq.RevisionID)
				}
				return nil, err
			}
			if rev.DrawingID != drawing.ID {
				return nil, fmt.Errorf("%w: revision %s does not belong to drawing %s", ErrInvalidState, rev.ID, drawing.ID)
			}
			snapshot = rev.Number
		}

		items = append(items, entity.TransmittalItem{
			ID:             uuid.New().String()[:32],
			DrawingID:      itemReq.DrawingID,
			RevisionID:     itemReq.RevisionID,
			RevisionNumber: snapshot,
		})
	}

	code, err := s.repo.GenerateCode(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transmittal code: %w", err)
	}

	category := req.RecipientCategory
	if category == "" {
		category = entity.RecipientCategoryOther
	}

	transmittal := &entity.Transmittal{
		ID:                uuid.New().String()[:32],
		Code:              code,
		ProjectID:         projectID,
		Status:            entity.TransmittalStatusDraft,
		Notes:             req.Notes,
		RecipientName:     req.RecipientName,
		RecipientEmail:    strings.TrimSpace(req.RecipientEmail),
		RecipientOrg:      req.RecipientOrg,
		RecipientCategory: category,
		CreatedBy:         userID,
	}
	if err := s.repo.CreateWithItems(ctx, transmittal, items); err != nil {
		return nil, fmt.Errorf("failed to create transmittal: %w", err)
	}
	return transmittal, nil
}

// MarkSent 把发放单置为已发送。行锁内检查draft状态、对未指定版本的
// 行项按图纸当前版本冻结快照、写入sent_at，一个事务完成。
// 重复发送返回ErrInvalidState，sent_at不会被改写。
func (s *TransmittalService) MarkSent(ctx context.Context, id string) (*entity.Transmittal, error) {
	sentAt := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transmittal, err := s.repo.LockForSend(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if transmittal.Status != entity.TransmittalStatusDraft {
			return fmt.Errorf("%w: transmittal already sent", ErrInvalidState)
		}

		// 隐式行项的快照冻结为发送时刻的当前版本
		snapshots := make(map[string]int)
		for _, item := range transmittal.Items {
			if item.RevisionID != nil && *item.RevisionID != "" {
				continue
			}
			var current int
			if err := tx.Model(&entity.Drawing{}).
				Select("current_revision").
				Where("id = ?", item.DrawingID).
				Scan(&current).Error; err != nil {
				return err
			}
			if current != item.RevisionNumber {
				snapshots[item.ID] = current
			}
		}

		return s.repo.MarkSentTx(tx, id, sentAt, snapshots)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// 锁后状态已检查过，UPDATE零行只剩并发发送一种解释
			return nil, fmt.Errorf("%w: transmittal already sent", ErrInvalidState)
		}
		return nil, err
	}

	transmittal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, transmittal.ProjectID)
	sse.PublishTransmittalSent(transmittal.ProjectID, transmittal.ID, transmittal.Code)

	// 投递是外部协作方的事：失败不影响已记录的发送状态
	if s.notifier != nil {
		if err := s.notifier.NotifyTransmittal(ctx, transmittal); err != nil {
			s.logger.Warn("Transmittal delivery notification failed",
				zap.String("transmittal_id", transmittal.ID),
				zap.String("recipient", transmittal.RecipientEmail),
				zap.Error(err),
			)
		}
	}

	return transmittal, nil
}
