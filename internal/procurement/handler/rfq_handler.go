package handler

import (
	"errors"

	"github.com/atelierline/studio/internal/procurement/repository"
	"github.com/atelierline/studio/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// RFQHandler 询价单处理器
type RFQHandler struct {
	svc *service.ProcurementService
}

func NewRFQHandler(svc *service.ProcurementService) *RFQHandler {
	return &RFQHandler{svc: svc}
}

// ListRFQs 询价单列表
// GET /api/v1/procurement/rfqs?project_id=xxx&status=open
func (h *RFQHandler) ListRFQs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id": c.Query("project_id"),
		"status":     c.Query("status"),
	}

	items, total, err := h.svc.ListRFQs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取询价单列表失败: "+err.Error())
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

// GetRFQ 询价单详情
// GET /api/v1/procurement/rfqs/:id
func (h *RFQHandler) GetRFQ(c *gin.Context) {
	rfq, err := h.svc.GetRFQ(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "询价单不存在")
		return
	}
	Success(c, rfq)
}

// CreateRFQ 创建询价单
// POST /api/v1/procurement/rfqs
func (h *RFQHandler) CreateRFQ(c *gin.Context) {
	var req service.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rfq, err := h.svc.CreateRFQ(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建询价单失败: "+err.Error())
		return
	}

	Created(c, rfq)
}

// AddQuote 录入报价
// POST /api/v1/procurement/rfqs/:id/quotes
func (h *RFQHandler) AddQuote(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.svc.AddQuote(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, err.Error())
		case errors.Is(err, service.ErrInvalidState):
			Conflict(c, err.Error())
		default:
			InternalError(c, "录入报价失败: "+err.Error())
		}
		return
	}

	Created(c, quote)
}

// SelectQuote 选定报价
// POST /api/v1/procurement/rfqs/:id/quotes/:quoteId/select
func (h *RFQHandler) SelectQuote(c *gin.Context) {
	rfq, err := h.svc.SelectQuote(c.Request.Context(), c.Param("id"), c.Param("quoteId"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, err.Error())
		case errors.Is(err, service.ErrInvalidState):
			Conflict(c, err.Error())
		default:
			InternalError(c, "选定报价失败: "+err.Error())
		}
		return
	}
	Success(c, rfq)
}
