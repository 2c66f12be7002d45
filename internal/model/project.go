package model

const ProjectTableName = "projects"
const ProjectMemberTableName = "project_members"

// Project 项目模型
type Project struct {
	BaseModel
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Color       string  `gorm:"size:7;not null;default:#FFFFFF" json:"color"`
	OwnerID     int64   `gorm:"column:owner_id;not null;index" json:"owner"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Project) TableName() string {
	return ProjectTableName
}

// ProjectMember 项目成员，项目 owner 不写入此表
type ProjectMember struct {
	BaseModel
	ProjectID int64  `gorm:"column:project_id;not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    int64  `gorm:"column:user_id;not null;uniqueIndex:idx_project_user;index" json:"user_id"`
	Role      string `gorm:"size:20;not null" json:"role"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProjectMember) TableName() string {
	return ProjectMemberTableName
}
