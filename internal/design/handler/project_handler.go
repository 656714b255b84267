package handler

import (
	"github.com/atelierline/studio/internal/design/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目/房间/设计阶段处理器
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}

	projects, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取项目列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: projects,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// Get GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, project)
}

// Create POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, project)
}

// Update PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, project)
}

// CreateRoom POST /projects/:id/rooms
func (h *ProjectHandler) CreateRoom(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	room, err := h.svc.CreateRoom(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, room)
}

// DeleteRoom DELETE /projects/:id/rooms/:roomId
func (h *ProjectHandler) DeleteRoom(c *gin.Context) {
	if err := h.svc.DeleteRoom(c.Request.Context(), c.Param("id"), c.Param("roomId")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "删除成功"})
}

// CreateStage POST /projects/:id/stages
func (h *ProjectHandler) CreateStage(c *gin.Context) {
	var req service.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	stage, err := h.svc.CreateStage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, stage)
}

// UpdateStage PUT /projects/:id/stages/:stageId
func (h *ProjectHandler) UpdateStage(c *gin.Context) {
	var req service.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	stage, err := h.svc.UpdateStage(c.Request.Context(), c.Param("id"), c.Param("stageId"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, stage)
}
