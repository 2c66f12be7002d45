package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/dto"
	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type ProjectMemberHandler struct {
	memberService service.ProjectMemberService
}

func NewProjectMemberHandler(memberService service.ProjectMemberService) *ProjectMemberHandler {
	return &ProjectMemberHandler{
		memberService: memberService,
	}
}

// List 成员列表
// @Summary 获取项目成员（包含 owner）
// @Tags 项目成员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {array} dto.ProjectMemberResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/projects/{id}/members [get]
func (h *ProjectMemberHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	members, err := h.memberService.List(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, members)
}

// Add 添加成员
// @Summary 添加项目成员
// @Tags 项目成员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param request body dto.ProjectMemberAddRequest true "添加成员请求"
// @Success 201 {object} utils.MessageResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/projects/{id}/members [post]
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ProjectMemberAddRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.memberService.Add(c.Request.Context(), currentUserID(c), id, &req); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, utils.MessageResponse{Message: "Member added successfully"})
}

// Remove 移除成员
// @Summary 移除项目成员
// @Tags 项目成员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param uid path int true "用户ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/projects/{id}/members/{uid} [delete]
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	var param dto.MemberParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.ErrorWithDetail(c, http.StatusBadRequest, "无效的ID", utils.FormatValidationError(err))
		return
	}

	if err := h.memberService.Remove(c.Request.Context(), currentUserID(c), param.ID, param.UserID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Member removed successfully")
}
