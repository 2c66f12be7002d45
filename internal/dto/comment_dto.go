package dto

import (
	"time"

	"task-tracker/internal/model"
)

// CommentRequest 创建/修改评论
type CommentRequest struct {
	TextComment string `json:"text_comment" binding:"required,min=1"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID           int64     `json:"id"`
	TextComment  string    `json:"text_comment"`
	CreationDate time.Time `json:"creation_date"`
	UpdatedAt    time.Time `json:"updated_at"`
	TaskID       int64     `json:"task_id"`
	AuthorID     int64     `json:"author_id"`
}

// NewCommentResponse 转换评论模型
func NewCommentResponse(c *model.Comment) *CommentResponse {
	return &CommentResponse{
		ID:           c.ID,
		TextComment:  c.Text,
		CreationDate: c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		TaskID:       c.TaskID,
		AuthorID:     c.AuthorID,
	}
}
