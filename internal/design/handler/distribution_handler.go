package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/atelierline/studio/internal/design/service"
	"github.com/gin-gonic/gin"
)

// DistributionHandler 发放矩阵与收件人目录处理器
type DistributionHandler struct {
	svc *service.DistributionService
}

// NewDistributionHandler 创建发放矩阵处理器
func NewDistributionHandler(svc *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{svc: svc}
}

// Matrix GET /projects/:id/distribution?include_archived=true
func (h *DistributionHandler) Matrix(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	cells, err := h.svc.BuildMatrix(c.Request.Context(), c.Param("id"), includeArchived)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"cells": cells})
}

// Recipients GET /projects/:id/recipients
func (h *DistributionHandler) Recipients(c *gin.Context) {
	recipients, err := h.svc.ListRecipients(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": recipients})
}

// Export GET /projects/:id/distribution/export
func (h *DistributionHandler) Export(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	f, err := h.svc.ExportMatrix(c.Request.Context(), c.Param("id"), includeArchived)
	if err != nil {
		ServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("distribution_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
