package constants

import "github.com/samber/lo"

// 用户全局角色（仅作展示，不参与项目内鉴权）
const (
	UserRoleAdmin  = "admin"
	UserRoleClient = "client"
)

// UserRoles 按固定顺序返回
var UserRoles = []string{UserRoleAdmin, UserRoleClient}

// 任务优先级
const (
	TaskPriorityNone     = "None"
	TaskPriorityLow      = "Low"
	TaskPriorityMedium   = "Medium"
	TaskPriorityHigh     = "High"
	TaskPriorityCritical = "Critical"
)

var TaskPriorities = []string{
	TaskPriorityNone,
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

// 任务分类
const (
	TaskCategoryNone          = "None"
	TaskCategoryBug           = "Bug"
	TaskCategoryFeature       = "Feature"
	TaskCategoryImprovement   = "Improvement"
	TaskCategoryDocumentation = "Documentation"
)

var TaskCategories = []string{
	TaskCategoryNone,
	TaskCategoryBug,
	TaskCategoryFeature,
	TaskCategoryImprovement,
	TaskCategoryDocumentation,
}

// 任务状态
const (
	TaskStatusNone       = "None"
	TaskStatusToDo       = "ToDo"
	TaskStatusInProgress = "InProgress"
	TaskStatusReview     = "Review"
	TaskStatusDone       = "Done"
)

var TaskStatuses = []string{
	TaskStatusNone,
	TaskStatusToDo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
}

// 项目颜色
const (
	ColorBlack  = "#000000"
	ColorRed    = "#FF0000"
	ColorOrange = "#FFA500"
	ColorYellow = "#FFFF00"
	ColorGreen  = "#00FF00"
	ColorCyan   = "#00FFFF"
	ColorBlue   = "#0000FF"
	ColorViolet = "#800080"
	ColorWhite  = "#FFFFFF"
)

// Color 颜色及其名称
type Color struct {
	Value string
	Name  string
}

// Colors 调色板，顺序即展示顺序
var Colors = []Color{
	{ColorBlack, "black"},
	{ColorRed, "red"},
	{ColorOrange, "orange"},
	{ColorYellow, "yellow"},
	{ColorGreen, "green"},
	{ColorCyan, "cyan"},
	{ColorBlue, "blue"},
	{ColorViolet, "violet"},
	{ColorWhite, "white"},
}

// IsValidColor 判断颜色是否在调色板中
func IsValidColor(value string) bool {
	return lo.ContainsBy(Colors, func(c Color) bool { return c.Value == value })
}

// 认证类型
const (
	AuthTypeLDAP  = "ldap"
	AuthTypeLocal = "local"
)

// JWT 相关
const (
	JWTTypeAccess  = "access"
	JWTTypeRefresh = "refresh"
)

// gin.Context 中保存的键
const (
	ContextUserIDKey = "user_id"
	ContextClaimsKey = "claims"
)

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
)
