package repository

import (
	"context"
	"errors"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DrawingRepository struct {
	db *gorm.DB
}

func NewDrawingRepository(db *gorm.DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

// ListByProject 获取项目图纸列表，includeArchived=false时只返回在用图纸
func (r *DrawingRepository) ListByProject(ctx context.Context, projectID string, includeArchived bool) ([]entity.Drawing, error) {
	var drawings []entity.Drawing
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if !includeArchived {
		query = query.Where("status = ?", entity.DrawingStatusActive)
	}
	err := query.Order("number ASC").Find(&drawings).Error
	return drawings, err
}

// FindByID 根据ID查找图纸（含版本历史）
func (r *DrawingRepository) FindByID(ctx context.Context, id string) (*entity.Drawing, error) {
	var drawing entity.Drawing
	err := r.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("drawing_revisions.number ASC")
		}).
		Preload("Revisions.Issuer").
		First(&drawing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &drawing, nil
}

// FindRevision 根据ID查找版本
func (r *DrawingRepository) FindRevision(ctx context.Context, id string) (*entity.DrawingRevision, error) {
	var rev entity.DrawingRevision
	err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// CreateWithInitialRevision 创建图纸并写入版本1，同一事务提交
func (r *DrawingRepository) CreateWithInitialRevision(ctx context.Context, drawing *entity.Drawing, rev *entity.DrawingRevision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		drawing.CurrentRevision = 1
		if err := tx.Create(drawing).Error; err != nil {
			return err
		}
		rev.DrawingID = drawing.ID
		rev.Number = 1
		return tx.Create(rev).Error
	})
}

// AddRevision 在行锁内推进版本指针：锁定图纸行，读当前版本N，
// 写入版本N+1并把指针从N更新到N+1。指针更新带旧值条件，
// 0行受影响说明有并发写入绕过了锁（理论上不会发生），按冲突上报。
func (r *DrawingRepository) AddRevision(ctx context.Context, drawingID string, rev *entity.DrawingRevision) (*entity.Drawing, error) {
	var drawing entity.Drawing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&drawing, "id = ?", drawingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		current := drawing.CurrentRevision
		rev.DrawingID = drawingID
		rev.Number = current + 1
		if err := tx.Create(rev).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.Drawing{}).
			Where("id = ? AND current_revision = ?", drawingID, current).
			Updates(map[string]interface{}{
				"current_revision": current + 1,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}
		drawing.CurrentRevision = current + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}

// Archive 归档图纸
func (r *DrawingRepository) Archive(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.Drawing{}).
		Where("id = ? AND status = ?", id, entity.DrawingStatusActive).
		Updates(map[string]interface{}{
			"status":      entity.DrawingStatusArchived,
			"archived_at": &now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountRevisions 统计图纸版本数（测试/校验用）
func (r *DrawingRepository) CountRevisions(ctx context.Context, drawingID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DrawingRevision{}).
		Where("drawing_id = ?", drawingID).
		Count(&count).Error
	return count, err
}
