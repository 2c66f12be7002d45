package model

const CommentTableName = "comments"

// Comment 任务评论，AuthorID 创建后不可修改
type Comment struct {
	BaseModel
	Text     string `gorm:"type:text;not null" json:"text"`
	TaskID   int64  `gorm:"column:task_id;not null;index" json:"task_id"`
	AuthorID int64  `gorm:"column:author_id;not null;index;<-:create" json:"author_id"`
}

func (Comment) TableName() string {
	return CommentTableName
}
