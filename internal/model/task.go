package model

import "time"

const TaskTableName = "tasks"
const TaskAssigneeTableName = "task_assignees"

// Task 任务模型，ParentID 指向同项目内的父任务
type Task struct {
	BaseModel
	Title       string     `gorm:"size:128;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"size:20;not null;default:None" json:"priority"`
	Category    string     `gorm:"size:20;not null;default:None" json:"category"`
	Status      string     `gorm:"size:20;not null;default:None;index" json:"status"`
	Deadline    *time.Time `json:"deadline"`
	ProjectID   int64      `gorm:"column:project_id;not null;index" json:"project_id"`
	ParentID    *int64     `gorm:"column:parent_id;index" json:"parent_id"`
}

func (Task) TableName() string {
	return TaskTableName
}

// TaskAssignee 任务与用户的指派关系
type TaskAssignee struct {
	TaskID int64 `gorm:"column:task_id;primaryKey;autoIncrement:false" json:"task_id"`
	UserID int64 `gorm:"column:user_id;primaryKey;autoIncrement:false;index" json:"user_id"`
}

func (TaskAssignee) TableName() string {
	return TaskAssigneeTableName
}
