package dto

import "time"

// HealthResponse 健康检查
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// EnumItem 枚举值及展示名
type EnumItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EnumsResponse 所有枚举
type EnumsResponse struct {
	UserRoles      []EnumItem `json:"user_roles"`
	ProjectRoles   []EnumItem `json:"project_roles"`
	TaskPriorities []EnumItem `json:"task_priorities"`
	TaskCategories []EnumItem `json:"task_categories"`
	TaskStatuses   []EnumItem `json:"task_statuses"`
	Colors         []EnumItem `json:"colors"`
}

// InitDBResponse 初始化数据库结果
type InitDBResponse struct {
	Message  string `json:"message"`
	Users    int    `json:"users"`
	Projects int    `json:"projects"`
	Tasks    int    `json:"tasks"`
	Comments int    `json:"comments"`
}
