package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
	"github.com/atelierline/studio/internal/design/repository"
	"github.com/google/uuid"
)

// ProjectService 项目/房间/设计阶段服务
type ProjectService struct {
	repo       *repository.ProjectRepository
	clientRepo *repository.ClientRepository
}

// NewProjectService 创建项目服务
func NewProjectService(repo *repository.ProjectRepository, clientRepo *repository.ClientRepository) *ProjectService {
	return &ProjectService{repo: repo, clientRepo: clientRepo}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	ClientID    *string    `json:"client_id"`
	Description string     `json:"description"`
	ManagerID   string     `json:"manager_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	ClientID    *string    `json:"client_id"`
	Status      *string    `json:"status"`
	Description *string    `json:"description"`
	ManagerID   *string    `json:"manager_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// List 获取项目列表
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.repo.List(ctx, page, pageSize, filters)
}

// Get 获取项目详情
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// Create 创建项目
func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	if req.ClientID != nil && *req.ClientID != "" {
		if _, err := s.clientRepo.FindByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: client %s", ErrNotFound, *req.ClientID)
			}
			return nil, err
		}
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project code: %w", err)
	}

	managerID := req.ManagerID
	if managerID == "" {
		managerID = userID
	}

	project := &entity.Project{
		ID:          uuid.New().String()[:32],
		Code:        code,
		Name:        req.Name,
		ClientID:    req.ClientID,
		Status:      entity.ProjectStatusActive,
		Description: req.Description,
		ManagerID:   managerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// Update 更新项目
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.ClientID != nil {
		project.ClientID = req.ClientID
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ManagerID != nil {
		project.ManagerID = *req.ManagerID
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	Name      string   `json:"name" binding:"required"`
	Type      string   `json:"type"`
	AreaSqm   *float64 `json:"area_sqm"`
	SortOrder int      `json:"sort_order"`
	Notes     string   `json:"notes"`
}

// CreateRoom 给项目添加房间
func (s *ProjectService) CreateRoom(ctx context.Context, projectID string, req *CreateRoomRequest) (*entity.Room, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	room := &entity.Room{
		ID:        uuid.New().String()[:32],
		ProjectID: projectID,
		Name:      req.Name,
		Type:      req.Type,
		AreaSqm:   req.AreaSqm,
		SortOrder: req.SortOrder,
		Notes:     req.Notes,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// DeleteRoom 删除房间
func (s *ProjectService) DeleteRoom(ctx context.Context, projectID, roomID string) error {
	room, err := s.repo.FindRoomByID(ctx, roomID)
	if err != nil || room.ProjectID != projectID {
		return ErrNotFound
	}
	return s.repo.DeleteRoom(ctx, roomID)
}

// CreateStageRequest 创建设计阶段请求
type CreateStageRequest struct {
	Name     string     `json:"name" binding:"required"`
	Sequence int        `json:"sequence"`
	DueDate  *time.Time `json:"due_date"`
}

// UpdateStageRequest 更新设计阶段请求
type UpdateStageRequest struct {
	Name     *string    `json:"name"`
	Status   *string    `json:"status"`
	Sequence *int       `json:"sequence"`
	DueDate  *time.Time `json:"due_date"`
}

// CreateStage 给项目添加设计阶段
func (s *ProjectService) CreateStage(ctx context.Context, projectID string, req *CreateStageRequest) (*entity.DesignStage, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	stage := &entity.DesignStage{
		ID:        uuid.New().String()[:32],
		ProjectID: projectID,
		Name:      req.Name,
		Status:    "pending",
		Sequence:  req.Sequence,
		DueDate:   req.DueDate,
	}
	if err := s.repo.CreateStage(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return stage, nil
}

// UpdateStage 更新设计阶段
func (s *ProjectService) UpdateStage(ctx context.Context, projectID, stageID string, req *UpdateStageRequest) (*entity.DesignStage, error) {
	stage, err := s.repo.FindStageByID(ctx, stageID)
	if err != nil || stage.ProjectID != projectID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		stage.Name = *req.Name
	}
	if req.Status != nil {
		stage.Status = *req.Status
	}
	if req.Sequence != nil {
		stage.Sequence = *req.Sequence
	}
	if req.DueDate != nil {
		stage.DueDate = req.DueDate
	}

	if err := s.repo.UpdateStage(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	return stage, nil
}
