package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelierline/studio/internal/design/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List 获取项目列表
func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	var projects []entity.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Project{}).Where("deleted_at IS NULL")
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if kw := filters["keyword"]; kw != "" {
		like := "%" + kw + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Client").
		Preload("Manager").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	return projects, total, err
}

// FindByID 根据ID查找项目（含客户/房间/阶段）
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("rooms.sort_order ASC, rooms.created_at ASC")
		}).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("design_stages.sequence ASC")
		}).
		First(&project, "id = ? AND deleted_at IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// GenerateCode 生成项目编号 PRJ-NNNN
func (r *ProjectRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Select("COALESCE(MAX(code), 'PRJ-0000')").
		Where("code LIKE 'PRJ-%'").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "PRJ-%04d", &seq)
	seq++
	return fmt.Sprintf("PRJ-%04d", seq), nil
}

// CreateRoom 创建房间
func (r *ProjectRepository) CreateRoom(ctx context.Context, room *entity.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// UpdateRoom 更新房间
func (r *ProjectRepository) UpdateRoom(ctx context.Context, room *entity.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// FindRoomByID 根据ID查找房间
func (r *ProjectRepository) FindRoomByID(ctx context.Context, id string) (*entity.Room, error) {
	var room entity.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// DeleteRoom 删除房间
func (r *ProjectRepository) DeleteRoom(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Room{}, "id = ?", id).Error
}

// CreateStage 创建设计阶段
func (r *ProjectRepository) CreateStage(ctx context.Context, stage *entity.DesignStage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

// UpdateStage 更新设计阶段
func (r *ProjectRepository) UpdateStage(ctx context.Context, stage *entity.DesignStage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

// FindStageByID 根据ID查找设计阶段
func (r *ProjectRepository) FindStageByID(ctx context.Context, id string) (*entity.DesignStage, error) {
	var stage entity.DesignStage
	err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}
