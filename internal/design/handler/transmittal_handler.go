package handler

import (
	"github.com/atelierline/studio/internal/design/service"
	"github.com/gin-gonic/gin"
)

// TransmittalHandler 图纸发放单处理器
type TransmittalHandler struct {
	svc *service.TransmittalService
}

// NewTransmittalHandler 创建发放单处理器
func NewTransmittalHandler(svc *service.TransmittalService) *TransmittalHandler {
	return &TransmittalHandler{svc: svc}
}

// List GET /projects/:id/transmittals?status=draft
func (h *TransmittalHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	transmittals, total, err := h.svc.List(c.Request.Context(), c.Param("id"), page, pageSize, c.Query("status"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	Success(c, ListResponse{
		Items: transmittals,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// Get GET /transmittals/:transmittalId
func (h *TransmittalHandler) Get(c *gin.Context) {
	transmittal, err := h.svc.Get(c.Request.Context(), c.Param("transmittalId"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, transmittal)
}

// Create POST /projects/:id/transmittals
func (h *TransmittalHandler) Create(c *gin.Context) {
	var req service.CreateTransmittalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	transmittal, err := h.svc.Create(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, transmittal)
}

// MarkSent POST /transmittals/:transmittalId/send
func (h *TransmittalHandler) MarkSent(c *gin.Context) {
	transmittal, err := h.svc.MarkSent(c.Request.Context(), c.Param("transmittalId"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, transmittal)
}
