package handler

import (
	"github.com/atelierline/studio/internal/design/service"
	"github.com/gin-gonic/gin"
)

// DirectoryHandler 客户与承包商通讯录处理器
type DirectoryHandler struct {
	svc *service.DirectoryService
}

// NewDirectoryHandler 创建通讯录处理器
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// ListClients GET /clients
func (h *DirectoryHandler) ListClients(c *gin.Context) {
	page, pageSize := GetPagination(c)
	clients, total, err := h.svc.ListClients(c.Request.Context(), page, pageSize, c.Query("keyword"))
	if err != nil {
		InternalError(c, "获取客户列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: clients,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// GetClient GET /clients/:id
func (h *DirectoryHandler) GetClient(c *gin.Context) {
	client, err := h.svc.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, client)
}

// CreateClient POST /clients
func (h *DirectoryHandler) CreateClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.svc.CreateClient(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, client)
}

// UpdateClient PUT /clients/:id
func (h *DirectoryHandler) UpdateClient(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.svc.UpdateClient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, client)
}

// ListContractors GET /contractors
func (h *DirectoryHandler) ListContractors(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{}
	if trade := c.Query("trade"); trade != "" {
		filters["trade"] = trade
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}

	contractors, total, err := h.svc.ListContractors(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取承包商列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: contractors,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// CreateContractor POST /contractors
func (h *DirectoryHandler) CreateContractor(c *gin.Context) {
	var req service.CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	contractor, err := h.svc.CreateContractor(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, contractor)
}

// UpdateContractor PUT /contractors/:id
func (h *DirectoryHandler) UpdateContractor(c *gin.Context) {
	var req service.UpdateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	contractor, err := h.svc.UpdateContractor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, contractor)
}

// LinkContractor POST /projects/:id/contractors/:contractorId
func (h *DirectoryHandler) LinkContractor(c *gin.Context) {
	if err := h.svc.LinkContractor(c.Request.Context(), c.Param("id"), c.Param("contractorId")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "关联成功"})
}

// UnlinkContractor DELETE /projects/:id/contractors/:contractorId
func (h *DirectoryHandler) UnlinkContractor(c *gin.Context) {
	if err := h.svc.UnlinkContractor(c.Request.Context(), c.Param("id"), c.Param("contractorId")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "解除关联成功"})
}

// ListProjectContractors GET /projects/:id/contractors
func (h *DirectoryHandler) ListProjectContractors(c *gin.Context) {
	links, err := h.svc.ListProjectContractors(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": links})
}
