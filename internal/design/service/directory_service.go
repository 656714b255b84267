package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierline/studio/internal/design/entity"
	"github.com/atelierline/studio/internal/design/repository"
	"github.com/google/uuid"
)

// DirectoryService 客户与承包商通讯录
type DirectoryService struct {
	clientRepo     *repository.ClientRepository
	contractorRepo *repository.ContractorRepository
	projectRepo    *repository.ProjectRepository
}

// NewDirectoryService 创建通讯录服务
func NewDirectoryService(
	clientRepo *repository.ClientRepository,
	contractorRepo *repository.ContractorRepository,
	projectRepo *repository.ProjectRepository,
) *DirectoryService {
	return &DirectoryService{
		clientRepo:     clientRepo,
		contractorRepo: contractorRepo,
		projectRepo:    projectRepo,
	}
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Organization *string `json:"organization"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

// ListClients 获取客户列表
func (s *DirectoryService) ListClients(ctx context.Context, page, pageSize int, keyword string) ([]entity.Client, int64, error) {
	return s.clientRepo.List(ctx, page, pageSize, keyword)
}

// GetClient 获取客户详情
func (s *DirectoryService) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return client, nil
}

// CreateClient 创建客户
func (s *DirectoryService) CreateClient(ctx context.Context, userID string, req *CreateClientRequest) (*entity.Client, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	client := &entity.Client{
		ID:           uuid.New().String()[:32],
		Name:         req.Name,
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Organization: req.Organization,
		Address:      req.Address,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// UpdateClient 更新客户
func (s *DirectoryService) UpdateClient(ctx context.Context, id string, req *UpdateClientRequest) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Organization != nil {
		client.Organization = *req.Organization
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// CreateContractorRequest 创建承包商请求
type CreateContractorRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Trade        string `json:"trade"`
	Notes        string `json:"notes"`
}

// UpdateContractorRequest 更新承包商请求
type UpdateContractorRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Organization *string `json:"organization"`
	Trade        *string `json:"trade"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// ListContractors 获取承包商列表
func (s *DirectoryService) ListContractors(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Contractor, int64, error) {
	return s.contractorRepo.List(ctx, page, pageSize, filters)
}

// CreateContractor 创建承包商
func (s *DirectoryService) CreateContractor(ctx context.Context, userID string, req *CreateContractorRequest) (*entity.Contractor, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	contractor := &entity.Contractor{
		ID:           uuid.New().String()[:32],
		Name:         req.Name,
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Organization: req.Organization,
		Trade:        req.Trade,
		Status:       entity.ContractorStatusActive,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if err := s.contractorRepo.Create(ctx, contractor); err != nil {
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}
	return contractor, nil
}

// UpdateContractor 更新承包商
func (s *DirectoryService) UpdateContractor(ctx context.Context, id string, req *UpdateContractorRequest) (*entity.Contractor, error) {
	contractor, err := s.contractorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		contractor.Name = *req.Name
	}
	if req.Email != nil {
		contractor.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		contractor.Phone = *req.Phone
	}
	if req.Organization != nil {
		contractor.Organization = *req.Organization
	}
	if req.Trade != nil {
		contractor.Trade = *req.Trade
	}
	if req.Status != nil {
		contractor.Status = *req.Status
	}
	if req.Notes != nil {
		contractor.Notes = *req.Notes
	}

	if err := s.contractorRepo.Update(ctx, contractor); err != nil {
		return nil, fmt.Errorf("failed to update contractor: %w", err)
	}
	return contractor, nil
}

// LinkContractor 把承包商挂到项目
func (s *DirectoryService) LinkContractor(ctx context.Context, projectID, contractorID string) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return ErrNotFound
	}
	if _, err := s.contractorRepo.FindByID(ctx, contractorID); err != nil {
		return ErrNotFound
	}
	link := &entity.ProjectContractor{
		ID:           uuid.New().String()[:32],
		ProjectID:    projectID,
		ContractorID: contractorID,
		Active:       true,
	}
	return s.contractorRepo.Link(ctx, link)
}

// UnlinkContractor 停用项目承包商关联
func (s *DirectoryService) UnlinkContractor(ctx context.Context, projectID, contractorID string) error {
	err := s.contractorRepo.Unlink(ctx, projectID, contractorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ListProjectContractors 获取项目承包商
func (s *DirectoryService) ListProjectContractors(ctx context.Context, projectID string) ([]entity.ProjectContractor, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, ErrNotFound
	}
	return s.contractorRepo.ListByProject(ctx, projectID, false)
}
