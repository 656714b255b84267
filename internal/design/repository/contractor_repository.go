package repository

import (
	"context"
	"errors"

	"github.com/atelierline/studio/internal/design/entity"
	"gorm.io/gorm"
)

type ContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

// List 获取承包商列表
func (r *ContractorRepository) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Contractor, int64, error) {
	var contractors []entity.Contractor
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Contractor{})
	if kw := filters["keyword"]; kw != "" {
		like := "%" + kw + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR organization ILIKE ?", like, like, like)
	}
	if trade := filters["trade"]; trade != "" {
		query = query.Where("trade = ?", trade)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&contractors).Error
	return contractors, total, err
}

// FindByID 根据ID查找承包商
func (r *ContractorRepository) FindByID(ctx context.Context, id string) (*entity.Contractor, error) {
	var contractor entity.Contractor
	err := r.db.WithContext(ctx).First(&contractor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contractor, nil
}

// Create 创建承包商
func (r *ContractorRepository) Create(ctx context.Context, contractor *entity.Contractor) error {
	return r.db.WithContext(ctx).Create(contractor).Error
}

// Update 更新承包商
func (r *ContractorRepository) Update(ctx context.Context, contractor *entity.Contractor) error {
	return r.db.WithContext(ctx).Save(contractor).Error
}

// Link 将承包商挂到项目下（重复挂载恢复active）
func (r *ContractorRepository) Link(ctx context.Context, link *entity.ProjectContractor) error {
	var existing entity.ProjectContractor
	err := r.db.WithContext(ctx).
		First(&existing, "project_id = ? AND contractor_id = ?", link.ProjectID, link.ContractorID).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&existing).
			Update("active", true).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(link).Error
}

// Unlink 停用项目下的承包商关联（保留历史行）
func (r *ContractorRepository) Unlink(ctx context.Context, projectID, contractorID string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ProjectContractor{}).
		Where("project_id = ? AND contractor_id = ?", projectID, contractorID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProject 获取项目的承包商关联（含承包商信息）
func (r *ContractorRepository) ListByProject(ctx context.Context, projectID string, activeOnly bool) ([]entity.ProjectContractor, error) {
	var links []entity.ProjectContractor
	query := r.db.WithContext(ctx).
		Preload("Contractor").
		Where("project_id = ?", projectID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("created_at ASC").Find(&links).Error
	return links, err
}
