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
	"github.com/google/uuid"
)

// DrawingService 图纸登记与版本管理
type DrawingService struct {
	repo        *repository.DrawingRepository
	projectRepo *repository.ProjectRepository
	cache       *MatrixCache
}

// NewDrawingService 创建图纸服务
func NewDrawingService(repo *repository.DrawingRepository, projectRepo *repository.ProjectRepository, cache *MatrixCache) *DrawingService {
	return &DrawingService{repo: repo, projectRepo: projectRepo, cache: cache}
}

// CreateDrawingRequest 创建图纸请求
type CreateDrawingRequest struct {
	Number      string `json:"number" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Discipline  string `json:"discipline"`
	Description string `json:"description"`
	FileRef     string `json:"file_ref"`
}

// AddRevisionRequest 新增版本请求
type AddRevisionRequest struct {
	Description string `json:"description"`
	FileRef     string `json:"file_ref"`
}

// List 获取项目图纸列表
func (s *DrawingService) List(ctx context.Context, projectID string, includeArchived bool) ([]entity.Drawing, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID, includeArchived)
}

// Get 获取图纸详情（含版本历史）
func (s *DrawingService) Get(ctx context.Context, id string) (*entity.Drawing, error) {
	drawing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return drawing, nil
}

// Create 创建图纸，版本1随图纸一并产生
func (s *DrawingService) Create(ctx context.Context, projectID, userID string, req *CreateDrawingRequest) (*entity.Drawing, error) {
	if strings.TrimSpace(req.Number) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: number and title are required", ErrValidation)
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	drawing := &entity.Drawing{
		ID:         uuid.New().String()[:32],
		ProjectID:  projectID,
		Number:     strings.TrimSpace(req.Number),
		Title:      req.Title,
		Discipline: req.Discipline,
		Status:     entity.DrawingStatusActive,
		CreatedBy:  userID,
	}
	rev := &entity.DrawingRevision{
		ID:          uuid.New().String()[:32],
		Description: req.Description,
		FileRef:     req.FileRef,
		IssuedBy:    userID,
		IssuedAt:    time.Now(),
	}
	if err := s.repo.CreateWithInitialRevision(ctx, drawing, rev); err != nil {
		return nil, fmt.Errorf("failed to create drawing: %w", err)
	}
	drawing.Revisions = []entity.DrawingRevision{*rev}
	return drawing, nil
}

// AddRevision 发布新版本。仓库层对图纸行加锁串行推进指针；
// 锁冲突（常见于两次并发发布）先内部重试一次，仍失败才向上抛ErrConflict。
func (s *DrawingService) AddRevision(ctx context.Context, drawingID, userID string, req *AddRevisionRequest) (*entity.DrawingRevision, error) {
	rev := &entity.DrawingRevision{
		ID:          uuid.New().String()[:32],
		Description: req.Description,
		FileRef:     req.FileRef,
		IssuedBy:    userID,
		IssuedAt:    time.Now(),
	}

	drawing, err := s.repo.AddRevision(ctx, drawingID, rev)
	if errors.Is(err, repository.ErrConflict) {
		rev.ID = uuid.New().String()[:32]
		drawing, err = s.repo.AddRevision(ctx, drawingID, rev)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		default:
			return nil, fmt.Errorf("failed to add revision: %w", err)
		}
	}

	s.cache.Invalidate(ctx, drawing.ProjectID)
	sse.PublishDrawingUpdate(drawing.ProjectID, drawingID, "revision_added")
	return rev, nil
}

// Archive 归档图纸，归档后不再出现在在用发放报表里，历史保留
func (s *DrawingService) Archive(ctx context.Context, drawingID string) (*entity.Drawing, error) {
	drawing, err := s.repo.FindByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if drawing.Status == entity.DrawingStatusArchived {
		return nil, fmt.Errorf("%w: drawing already archived", ErrInvalidState)
	}
	if err := s.repo.Archive(ctx, drawingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: drawing already archived", ErrInvalidState)
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, drawing.ProjectID)
	sse.PublishDrawingUpdate(drawing.ProjectID, drawingID, "archived")
	return s.repo.FindByID(ctx, drawingID)
}
