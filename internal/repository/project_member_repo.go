package repository

import (
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type ProjectMemberRepository interface {
	Create(member *model.ProjectMember) error
	FindByProjectAndUser(projectID, userID int64) (*model.ProjectMember, error)
	ListByProject(projectID int64) ([]*model.ProjectMember, error)
	Delete(id int64) error
	DeleteByProject(projectID int64) error
}

type projectMemberRepository struct {
	db *gorm.DB
}

func NewProjectMemberRepository(db *gorm.DB) ProjectMemberRepository {
	return &projectMemberRepository{db: db}
}

func (r *projectMemberRepository) Create(member *model.ProjectMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return dbError("添加项目成员失败", err)
	}
	return nil
}

func (r *projectMemberRepository) FindByProjectAndUser(projectID, userID int64) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		return nil, dbError("查询项目成员失败", err)
	}
	return &member, nil
}

func (r *projectMemberRepository) ListByProject(projectID int64) ([]*model.ProjectMember, error) {
	var members []*model.ProjectMember
	err := r.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, dbError("查询项目成员失败", err)
	}
	return members, nil
}

func (r *projectMemberRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.ProjectMember{}, id).Error; err != nil {
		return dbError("删除项目成员失败", err)
	}
	return nil
}

func (r *projectMemberRepository) DeleteByProject(projectID int64) error {
	if err := r.db.Where("project_id = ?", projectID).Delete(&model.ProjectMember{}).Error; err != nil {
		return dbError("删除项目成员失败", err)
	}
	return nil
}
