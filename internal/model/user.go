package model

const UserTableName = "users"

// User 用户模型
type User struct {
	BaseModel
	Username     string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password     string `gorm:"size:255" json:"-"`                           // 不返回到前端；LDAP 用户为空
	Role         string `gorm:"size:20;not null;default:client" json:"role"` // admin / client，仅作展示
	AuthProvider string `gorm:"size:20;not null;default:local" json:"auth_provider"`
}

// TableName 指定表名
func (User) TableName() string {
	return UserTableName
}
