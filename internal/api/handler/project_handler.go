package handler

import (
	"github.com/gin-gonic/gin"

	"task-tracker/internal/dto"
	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// List 项目列表
// @Summary 获取当前用户拥有或参与的项目
// @Tags 项目
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ProjectResponse
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, projects)
}

// Create 创建项目
// @Summary 创建项目
// @Description owner 固定为当前用户
// @Tags 项目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateProjectRequest true "创建项目请求"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, project)
}

// GetByID 项目详情
// @Summary 获取项目详情
// @Tags 项目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, project)
}

// Update 更新项目
// @Summary 更新项目
// @Description 部分更新，不允许修改 owner
// @Tags 项目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param request body dto.UpdateProjectRequest true "更新项目请求"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, project)
}

// Transfer 转移项目所有权
// @Summary 转移项目所有权
// @Description 仅项目 owner 可操作，原 owner 降为 EDITOR
// @Tags 项目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param request body dto.TransferProjectRequest true "转移请求"
// @Success 200 {object} dto.ProjectResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/projects/{id}/transfer [post]
func (h *ProjectHandler) Transfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.TransferProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.TransferOwnership(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, project)
}

// Delete 删除项目
// @Summary 删除项目
// @Description 仅项目 owner 可删除，同时删除项目下的任务、评论和成员
// @Tags 项目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Project deleted successfully")
}
