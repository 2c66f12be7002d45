package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/dto"
	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List 任务列表
// @Summary 获取任务列表
// @Description 仅返回当前用户拥有或参与的项目中的任务，按ID升序
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param project_id query int false "项目ID"
// @Param priority query string false "优先级"
// @Param category query string false "分类"
// @Param status query string false "状态"
// @Param assignee_id query int false "指派人ID"
// @Param search query string false "标题/描述关键字"
// @Success 200 {array} dto.TaskResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var query dto.TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, http.StatusBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), currentUserID(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, tasks)
}

// Create 创建任务
// @Summary 创建任务
// @Description 需要项目 Owner 或 EDITOR 角色，不存在的指派人会被忽略
// @Tags 任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateTaskRequest true "创建任务请求"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, task)
}

// GetByID 任务详情
// @Summary 获取任务详情
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, task)
}

// Update 更新任务
// @Summary 更新任务
// @Description 部分更新；仅被指派的用户只能修改 status
// @Tags 任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body dto.UpdateTaskRequest true "更新任务请求"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, task)
}

// Delete 删除任务
// @Summary 删除任务
// @Description 同时删除所有子任务及评论
// @Tags 任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Task deleted successfully")
}

// Assign 指派任务
// @Summary 替换任务指派人
// @Tags 任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body dto.AssignTaskRequest true "指派请求"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/tasks/{id}/assignees [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.taskService.Assign(c.Request.Context(), currentUserID(c), id, &req); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Task assigned successfully")
}
