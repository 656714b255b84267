package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransmittalRepository struct {
	db *gorm.DB
}

func NewTransmittalRepository(db *gorm.DB) *TransmittalRepository {
	return &TransmittalRepository{db: db}
}

// ListByProject 获取项目发放单列表（按创建时间倒序）
func (r *TransmittalRepository) ListByProject(ctx context.Context, projectID string, page, pageSize int, status string) ([]entity.Transmittal, int64, error) {
	var transmittals []entity.Transmittal
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transmittal{}).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transmittals).Error
	return transmittals, total, err
}

// ListSentByProject 获取项目全部已发送发放单（发送时间升序，配发放矩阵折叠用）
func (r *TransmittalRepository) ListSentByProject(ctx context.Context, projectID string) ([]entity.Transmittal, error) {
	var transmittals []entity.Transmittal
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("project_id = ? AND status = ?", projectID, entity.TransmittalStatusSent).
		Order("sent_at ASC").
		Find(&transmittals).Error
	return transmittals, err
}

// FindByID 根据ID查找发放单（含行项和图纸）
func (r *TransmittalRepository) FindByID(ctx context.Context, id string) (*entity.Transmittal, error) {
	var transmittal entity.Transmittal
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Drawing").
		First(&transmittal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &transmittal, nil
}

// CreateWithItems 创建发放单和行项，同一事务提交
func (r *TransmittalRepository) CreateWithItems(ctx context.Context, transmittal *entity.Transmittal, items []entity.TransmittalItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transmittal).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].TransmittalID = transmittal.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		transmittal.Items = items
		return nil
	})
}

// MarkSentTx 在外层事务内把发放单置为已发送并冻结行项快照。
// 状态条件写在UPDATE里，draft→sent只允许发生一次。
func (r *TransmittalRepository) MarkSentTx(tx *gorm.DB, id string, sentAt time.Time, snapshots map[string]int) error {
	result := tx.Model(&entity.Transmittal{}).
		Where("id = ? AND status = ?", id, entity.TransmittalStatusDraft).
		Updates(map[string]interface{}{
			"status":     entity.TransmittalStatusSent,
			"sent_at":    sentAt,
			"updated_at": sentAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}

	for itemID, number := range snapshots {
		if err := tx.Model(&entity.TransmittalItem{}).
			Where("id = ?", itemID).
			Update("revision_number", number).Error; err != nil {
			return err
		}
	}
	return nil
}

// LockForSend 行锁读取发放单（MarkSent前取当前行项快照用）
func (r *TransmittalRepository) LockForSend(ctx context.Context, tx *gorm.DB, id string) (*entity.Transmittal, error) {
	var transmittal entity.Transmittal
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&transmittal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &transmittal, nil
}

// GenerateCode 生成项目内发放单编号 TX-NNNN
func (r *TransmittalRepository) GenerateCode(ctx context.Context, projectID string) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Transmittal{}).
		Select("COALESCE(MAX(code), 'TX-0000')").
		Where("project_id = ?", projectID).
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "TX-%04d", &seq)
	seq++
	return fmt.Sprintf("TX-%04d", seq), nil
}
