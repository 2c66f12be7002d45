package dto

// ProjectMemberAddRequest 添加成员请求
type ProjectMemberAddRequest struct {
	UserID int64  `json:"user_id" binding:"required,gt=0"`
	Role   string `json:"role" binding:"required,oneof=Owner EDITOR Viewer"`
}

// ProjectMemberResponse 成员响应，owner 行的 project_role 固定为 Owner
type ProjectMemberResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	UserRole    string `json:"user_role"`
	ProjectRole string `json:"project_role"`
}
