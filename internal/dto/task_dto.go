package dto

import (
	"time"

	"task-tracker/internal/model"
)

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required,max=128"`
	Description  *string    `json:"description"`
	Priority     string     `json:"priority" binding:"omitempty,oneof=None Low Medium High Critical"`
	Category     string     `json:"category" binding:"omitempty,oneof=None Bug Feature Improvement Documentation"`
	Status       string     `json:"status" binding:"omitempty,oneof=None ToDo InProgress Review Done"`
	DeadlineDate *time.Time `json:"deadline_date"`
	ProjectID    int64      `json:"project_id" binding:"required,gt=0"`
	ParentID     *int64     `json:"parent_id" binding:"omitempty,gt=0"`
	AssigneeIDs  []int64    `json:"assignee_ids"`
}

// UpdateTaskRequest 部分更新，未出现的字段不修改
// description、deadline_date、parent_id 传 null 表示清空
type UpdateTaskRequest struct {
	Title        Optional[string]    `json:"title" binding:"omitempty,min=1,max=128" swaggertype:"string"`
	Description  Optional[string]    `json:"description" swaggertype:"string"`
	Priority     Optional[string]    `json:"priority" binding:"omitempty,oneof=None Low Medium High Critical" swaggertype:"string"`
	Category     Optional[string]    `json:"category" binding:"omitempty,oneof=None Bug Feature Improvement Documentation" swaggertype:"string"`
	Status       Optional[string]    `json:"status" binding:"omitempty,oneof=None ToDo InProgress Review Done" swaggertype:"string"`
	DeadlineDate Optional[time.Time] `json:"deadline_date" swaggertype:"string" format:"date-time"`
	ParentID     Optional[int64]     `json:"parent_id" binding:"omitempty,gt=0" swaggertype:"integer"`
	AssigneeIDs  Optional[[]int64]   `json:"assignee_ids" swaggertype:"array,integer"`
}

// OnlyStatus 请求中是否只出现了 status，显式 null 也算出现
func (r *UpdateTaskRequest) OnlyStatus() bool {
	return !r.Title.Set &&
		!r.Description.Set &&
		!r.Priority.Set &&
		!r.Category.Set &&
		!r.DeadlineDate.Set &&
		!r.ParentID.Set &&
		!r.AssigneeIDs.Set
}

// AssignTaskRequest 替换任务指派人
type AssignTaskRequest struct {
	UserIDs []int64 `json:"user_ids" binding:"required"`
}

// TaskListQuery 任务列表过滤参数
type TaskListQuery struct {
	ProjectID  int64  `form:"project_id" binding:"omitempty,gt=0"`
	Priority   string `form:"priority" binding:"omitempty,oneof=None Low Medium High Critical"`
	Category   string `form:"category" binding:"omitempty,oneof=None Bug Feature Improvement Documentation"`
	Status     string `form:"status" binding:"omitempty,oneof=None ToDo InProgress Review Done"`
	AssigneeID int64  `form:"assignee_id" binding:"omitempty,gt=0"`
	Search     string `form:"search" binding:"omitempty,max=128"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Priority     string     `json:"priority"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	CreationDate time.Time  `json:"creation_date"`
	DeadlineDate *time.Time `json:"deadline_date"`
	ProjectID    int64      `json:"project_id"`
	ParentID     *int64     `json:"parent_id"`
	AssigneeIDs  []int64    `json:"assignee_ids"`
	SubtaskIDs   []int64    `json:"subtask_ids"`
}

// NewTaskResponse 转换任务模型
func NewTaskResponse(t *model.Task, assigneeIDs, subtaskIDs []int64) *TaskResponse {
	if assigneeIDs == nil {
		assigneeIDs = []int64{}
	}
	if subtaskIDs == nil {
		subtaskIDs = []int64{}
	}
	return &TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Category:     t.Category,
		Status:       t.Status,
		CreationDate: t.CreatedAt,
		DeadlineDate: t.Deadline,
		ProjectID:    t.ProjectID,
		ParentID:     t.ParentID,
		AssigneeIDs:  assigneeIDs,
		SubtaskIDs:   subtaskIDs,
	}
}
