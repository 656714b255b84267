package service

import (
	"context"
	"fmt"

	"github.com/atelierline/studio/internal/procurement/entity"
	"github.com/atelierline/studio/internal/procurement/repository"
	"github.com/google/uuid"
)

// SupplierService 供应商服务
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Country      string   `json:"country"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	Website      string   `json:"website"`
	LeadTimeDays *int     `json:"lead_time_days"`
	PaymentTerms string   `json:"payment_terms"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Status       *string `json:"status"`
	Country      *string `json:"country"`
	City         *string `json:"city"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	LeadTimeDays *int    `json:"lead_time_days"`
	PaymentTerms *string `json:"payment_terms"`
	Notes        *string `json:"notes"`
}

// List 供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate supplier code: %w", err)
	}

	var tags *entity.JSONBArray
	if len(req.Tags) > 0 {
		arr := make(entity.JSONBArray, len(req.Tags))
		for i, t := range req.Tags {
			arr[i] = t
		}
		tags = &arr
	}

	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		Category:     req.Category,
		Status:       entity.SupplierStatusActive,
		Country:      req.Country,
		City:         req.City,
		Address:      req.Address,
		Website:      req.Website,
		LeadTimeDays: req.LeadTimeDays,
		PaymentTerms: req.PaymentTerms,
		Tags:         tags,
		CreatedBy:    userID,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Category != nil {
		supplier.Category = *req.Category
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.LeadTimeDays != nil {
		supplier.LeadTimeDays = req.LeadTimeDays
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

// CreateContactRequest 创建联系人请求
type CreateContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateContact 创建联系人
func (s *SupplierService) CreateContact(ctx context.Context, supplierID string, req *CreateContactRequest) (*entity.SupplierContact, error) {
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}
	contact := &entity.SupplierContact{
		ID:         uuid.New().String()[:32],
		SupplierID: supplierID,
		Name:       req.Name,
		Title:      req.Title,
		Phone:      req.Phone,
		Email:      req.Email,
		IsPrimary:  req.IsPrimary,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// DeleteContact 删除联系人
func (s *SupplierService) DeleteContact(ctx context.Context, contactID string) error {
	return s.repo.DeleteContact(ctx, contactID)
}
