package handler

import (
	"github.com/gin-gonic/gin"

	"task-tracker/internal/dto"
	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 评论列表
// @Summary 获取任务评论（最新在前）
// @Tags 评论
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {array} dto.CommentResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/tasks/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, comments)
}

// Create 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body dto.CommentRequest true "评论内容"
// @Success 201 {object} dto.CommentResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), currentUserID(c), taskID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, comment)
}

// Update 修改评论
// @Summary 修改评论（仅作者）
// @Tags 评论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评论ID"
// @Param request body dto.CommentRequest true "评论内容"
// @Success 200 {object} dto.CommentResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, comment)
}

// Delete 删除评论
// @Summary 删除评论
// @Description 作者或项目 Owner/EDITOR 可删除
// @Tags 评论
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评论ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Comment deleted successfully")
}
