package handler

import (
	"github.com/atelierline/studio/internal/design/service"
	"github.com/gin-gonic/gin"
)

// DrawingHandler 图纸登记与版本处理器
type DrawingHandler struct {
	svc *service.DrawingService
}

// NewDrawingHandler 创建图纸处理器
func NewDrawingHandler(svc *service.DrawingService) *DrawingHandler {
	return &DrawingHandler{svc: svc}
}

// List GET /projects/:id/drawings?include_archived=true
func (h *DrawingHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	drawings, err := h.svc.List(c.Request.Context(), c.Param("id"), includeArchived)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": drawings})
}

// Get GET /drawings/:drawingId
func (h *DrawingHandler) Get(c *gin.Context) {
	drawing, err := h.svc.Get(c.Request.Context(), c.Param("drawingId"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, drawing)
}

// Create POST /projects/:id/drawings
func (h *DrawingHandler) Create(c *gin.Context) {
	var req service.CreateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	drawing, err := h.svc.Create(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, drawing)
}

// AddRevision POST /drawings/:drawingId/revisions
func (h *DrawingHandler) AddRevision(c *gin.Context) {
	var req service.AddRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rev, err := h.svc.AddRevision(c.Request.Context(), c.Param("drawingId"), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, rev)
}

// Archive POST /drawings/:drawingId/archive
func (h *DrawingHandler) Archive(c *gin.Context) {
	drawing, err := h.svc.Archive(c.Request.Context(), c.Param("drawingId"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, drawing)
}
