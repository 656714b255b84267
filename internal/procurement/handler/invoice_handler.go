package handler

import (
	"errors"

	"github.com/atelierline/studio/internal/procurement/repository"
	"github.com/atelierline/studio/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler 发票处理器
type InvoiceHandler struct {
	svc *service.ProcurementService
}

func NewInvoiceHandler(svc *service.ProcurementService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// ListInvoices 发票列表
// GET /api/v1/procurement/invoices?project_id=xxx&supplier_id=xxx&status=issued
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":  c.Query("project_id"),
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
	}

	items, total, err := h.svc.ListInvoices(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取发票列表失败: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// GetInvoice 发票详情
// GET /api/v1/procurement/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.svc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "发票不存在")
		return
	}
	Success(c, invoice)
}

// CreateInvoice 开票
// POST /api/v1/procurement/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	invoice, err := h.svc.CreateInvoice(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, err.Error())
			return
		}
		InternalError(c, "开票失败: "+err.Error())
		return
	}

	Created(c, invoice)
}

// PayInvoice 标记付款
// POST /api/v1/procurement/invoices/:id/pay
func (h *InvoiceHandler) PayInvoice(c *gin.Context) {
	invoice, err := h.svc.PayInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "发票不存在")
		case errors.Is(err, service.ErrInvalidState):
			Conflict(c, err.Error())
		default:
			InternalError(c, "付款失败: "+err.Error())
		}
		return
	}
	Success(c, invoice)
}
