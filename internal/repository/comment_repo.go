package repository

import (
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id int64) (*model.Comment, error)
	ListByTask(taskID int64) ([]*model.Comment, error)
	UpdateText(id int64, text string) error
	Delete(id int64) error
	DeleteByTaskIDs(taskIDs []int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return dbError("创建评论失败", err)
	}
	return nil
}

func (r *commentRepository) FindByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, dbError("查询评论失败", err)
	}
	return &comment, nil
}

// ListByTask 按创建时间倒序
func (r *commentRepository) ListByTask(taskID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, dbError("查询评论列表失败", err)
	}
	return comments, nil
}

// UpdateText 只更新内容，作者不可变
func (r *commentRepository) UpdateText(id int64, text string) error {
	if err := r.db.Model(&model.Comment{}).Where("id = ?", id).Update("text", text).Error; err != nil {
		return dbError("更新评论失败", err)
	}
	return nil
}

func (r *commentRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Comment{}, id).Error; err != nil {
		return dbError("删除评论失败", err)
	}
	return nil
}

func (r *commentRepository) DeleteByTaskIDs(taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := r.db.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
		return dbError("删除评论失败", err)
	}
	return nil
}
