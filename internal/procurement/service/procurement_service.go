package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierline/studio/internal/procurement/entity"
	"github.com/atelierline/studio/internal/procurement/repository"
	"github.com/google/uuid"
)

// ErrInvalidState 操作与当前状态不符
var ErrInvalidState = errors.New("invalid state")

// ProcurementService 询价与发票服务
type ProcurementService struct {
	rfqRepo      *repository.RFQRepository
	invoiceRepo  *repository.InvoiceRepository
	supplierRepo *repository.SupplierRepository
}

func NewProcurementService(
	rfqRepo *repository.RFQRepository,
	invoiceRepo *repository.InvoiceRepository,
	supplierRepo *repository.SupplierRepository,
) *ProcurementService {
	return &ProcurementService{
		rfqRepo:      rfqRepo,
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
	}
}

// === 询价单(RFQ) ===

// CreateRFQRequest 创建询价单请求
type CreateRFQRequest struct {
	ProjectID string           `json:"project_id" binding:"required"`
	RoomID    *string          `json:"room_id"`
	Title     string           `json:"title" binding:"required"`
	DueDate   *time.Time       `json:"due_date"`
	Notes     string           `json:"notes"`
	Items     []CreateRFQItem  `json:"items"`
}

// CreateRFQItem 询价行项请求
type CreateRFQItem struct {
	ItemName      string  `json:"item_name" binding:"required"`
	Specification string  `json:"specification"`
	Quantity      float64 `json:"quantity" binding:"required"`
	Unit          string  `json:"unit"`
	Notes         string  `json:"notes"`
}

// ListRFQs 询价单列表
func (s *ProcurementService) ListRFQs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	return s.rfqRepo.FindAll(ctx, page, pageSize, filters)
}

// GetRFQ 询价单详情
func (s *ProcurementService) GetRFQ(ctx context.Context, id string) (*entity.RFQ, error) {
	return s.rfqRepo.FindByID(ctx, id)
}

// CreateRFQ 创建询价单
func (s *ProcurementService) CreateRFQ(ctx context.Context, userID string, req *CreateRFQRequest) (*entity.RFQ, error) {
	code, err := s.rfqRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rfq code: %w", err)
	}

	rfq := &entity.RFQ{
		ID:          uuid.New().String()[:32],
		Code:        code,
		ProjectID:   req.ProjectID,
		RoomID:      req.RoomID,
		Title:       req.Title,
		Status:      entity.RFQStatusOpen,
		DueDate:     req.DueDate,
		RequestedBy: userID,
		Notes:       req.Notes,
	}

	items := make([]entity.RFQItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		unit := itemReq.Unit
		if unit == "" {
			unit = "pcs"
		}
		items = append(items, entity.RFQItem{
			ID:            uuid.New().String()[:32],
			ItemName:      itemReq.ItemName,
			Specification: itemReq.Specification,
			Quantity:      itemReq.Quantity,
			Unit:          unit,
			Notes:         itemReq.Notes,
		})
	}

	if err := s.rfqRepo.CreateWithItems(ctx, rfq, items); err != nil {
		return nil, fmt.Errorf("failed to create rfq: %w", err)
	}
	return rfq, nil
}

// CreateQuoteRequest 录入报价请求
type CreateQuoteRequest struct {
	SupplierID   string     `json:"supplier_id" binding:"required"`
	TotalAmount  float64    `json:"total_amount" binding:"required"`
	Currency     string     `json:"currency"`
	LeadTimeDays *int       `json:"lead_time_days"`
	ValidUntil   *time.Time `json:"valid_until"`
	Notes        string     `json:"notes"`
}

// AddQuote 给开放的询价单录入供应商报价
func (s *ProcurementService) AddQuote(ctx context.Context, rfqID string, req *CreateQuoteRequest) (*entity.RFQQuote, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusOpen {
		return nil, fmt.Errorf("%w: rfq is %s", ErrInvalidState, rfq.Status)
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := &entity.RFQQuote{
		ID:           uuid.New().String()[:32],
		RFQID:        rfqID,
		SupplierID:   req.SupplierID,
		TotalAmount:  req.TotalAmount,
		Currency:     currency,
		LeadTimeDays: req.LeadTimeDays,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
	}
	if err := s.rfqRepo.CreateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	return quote, nil
}

// SelectQuote 选定报价，询价单转awarded
func (s *ProcurementService) SelectQuote(ctx context.Context, rfqID, quoteID string) (*entity.RFQ, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusOpen {
		return nil, fmt.Errorf("%w: rfq is %s", ErrInvalidState, rfq.Status)
	}

	quote, err := s.rfqRepo.FindQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.RFQID != rfqID {
		return nil, repository.ErrNotFound
	}

	if err := s.rfqRepo.SelectQuote(ctx, rfqID, quoteID); err != nil {
		return nil, fmt.Errorf("failed to select quote: %w", err)
	}
	return s.rfqRepo.FindByID(ctx, rfqID)
}

// === 发票 ===

// CreateInvoiceRequest 开票请求
type CreateInvoiceRequest struct {
	ProjectID  string     `json:"project_id" binding:"required"`
	RFQID      *string    `json:"rfq_id"`
	SupplierID string     `json:"supplier_id" binding:"required"`
	Amount     float64    `json:"amount" binding:"required"`
	Currency   string     `json:"currency"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes"`
}

// ListInvoices 发票列表
func (s *ProcurementService) ListInvoices(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.FindAll(ctx, page, pageSize, filters)
}

// GetInvoice 发票详情
func (s *ProcurementService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

// CreateInvoice 开票
func (s *ProcurementService) CreateInvoice(ctx context.Context, userID string, req *CreateInvoiceRequest) (*entity.Invoice, error) {
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	code, err := s.invoiceRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice code: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	invoice := &entity.Invoice{
		ID:         uuid.New().String()[:32],
		Code:       code,
		ProjectID:  req.ProjectID,
		RFQID:      req.RFQID,
		SupplierID: req.SupplierID,
		Amount:     req.Amount,
		Currency:   currency,
		Status:     entity.InvoiceStatusIssued,
		IssuedAt:   time.Now(),
		DueDate:    req.DueDate,
		CreatedBy:  userID,
		Notes:      req.Notes,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

// PayInvoice 标记发票已付款，重复付款返回ErrInvalidState
func (s *ProcurementService) PayInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.MarkPaid(ctx, id, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invoice is not payable", ErrInvalidState)
		}
		return nil, err
	}
	return s.invoiceRepo.FindByID(ctx, id)
}
