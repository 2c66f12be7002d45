package dto

import (
	"time"

	"task-tracker/internal/model"
)

// CreateProjectRequest 创建项目请求，owner 字段会被忽略
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Owner       *int64  `json:"owner"`
}

// UpdateProjectRequest 更新项目请求，仅包含可修改字段
// description 传 null 清空，color 传 null 恢复默认白色
type UpdateProjectRequest struct {
	Name        Optional[string] `json:"name" binding:"omitempty,min=1,max=128" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	Color       Optional[string] `json:"color" binding:"omitempty,hexcolor" swaggertype:"string"`
}

// TransferProjectRequest 转移项目所有权
type TransferProjectRequest struct {
	NewOwnerID int64 `json:"new_owner_id" binding:"required,gt=0"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Color        string    `json:"color"`
	Owner        int64     `json:"owner"`
	CreationDate time.Time `json:"creation_date"`
}

// NewProjectResponse 转换项目模型
func NewProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Color:        p.Color,
		Owner:        p.OwnerID,
		CreationDate: p.CreatedAt,
	}
}
