package repository

import (
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(id int64) (*model.Project, error)
	ListByUser(userID int64) ([]*model.Project, error)
	Update(project *model.Project) error
	Delete(id int64) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return dbError("创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(id int64) (*model.Project, error) {
	var project model.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, dbError("查询项目失败", err)
	}
	return &project, nil
}

// ListByUser 用户作为 owner 或成员的项目
func (r *projectRepository) ListByUser(userID int64) ([]*model.Project, error) {
	var projects []*model.Project
	memberOf := r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	err := r.db.Where("owner_id = ?", userID).
		Or("id IN (?)", memberOf).
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, dbError("查询项目列表失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(project *model.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		return dbError("更新项目失败", err)
	}
	return nil
}

func (r *projectRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.Project{}, id).Error; err != nil {
		return dbError("删除项目失败", err)
	}
	return nil
}
