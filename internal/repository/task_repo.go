package repository

import (
	"strings"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TaskFilter 任务列表过滤条件，零值表示不过滤
type TaskFilter struct {
	VisibleTo  int64 // 仅返回该用户作为 owner 或成员的项目中的任务
	ProjectID  int64
	Priority   string
	Category   string
	Status     string
	AssigneeID int64
	Search     string
}

type TaskRepository interface {
	Create(task *model.Task) error
	FindByID(id int64) (*model.Task, error)
	List(filter TaskFilter) ([]*model.Task, error)
	Update(task *model.Task) error
	ListIDsByProject(projectID int64) ([]int64, error)
	ListSubtaskIDs(parentIDs []int64) (map[int64][]int64, error)
	DeleteByIDs(ids []int64) error

	ReplaceAssignees(taskID int64, userIDs []int64) error
	ListAssigneeIDs(taskIDs []int64) (map[int64][]int64, error)
	IsAssignee(taskID, userID int64) (bool, error)
	DeleteAssigneesByTaskIDs(taskIDs []int64) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return dbError("创建任务失败", err)
	}
	return nil
}

func (r *taskRepository) FindByID(id int64) (*model.Task, error) {
	var task model.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, dbError("查询任务失败", err)
	}
	return &task, nil
}

func (r *taskRepository) List(filter TaskFilter) ([]*model.Task, error) {
	var tasks []*model.Task

	query := r.db.Model(&model.Task{})

	if filter.VisibleTo > 0 {
		owned := r.db.Model(&model.Project{}).Select("id").Where("owner_id = ?", filter.VisibleTo)
		memberOf := r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", filter.VisibleTo)
		query = query.Where(r.db.Where("project_id IN (?)", owned).Or("project_id IN (?)", memberOf))
	}
	if filter.ProjectID > 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID > 0 {
		assigned := r.db.Model(&model.TaskAssignee{}).Select("task_id").Where("user_id = ?", filter.AssigneeID)
		query = query.Where("id IN (?)", assigned)
	}

	// 关键字搜索，大小写不敏感
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		like := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, dbError("查询任务列表失败", err)
	}
	return tasks, nil
}

func (r *taskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return dbError("更新任务失败", err)
	}
	return nil
}

func (r *taskRepository) ListIDsByProject(projectID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.Model(&model.Task{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error; err != nil {
		return nil, dbError("查询任务失败", err)
	}
	return ids, nil
}

// ListSubtaskIDs 返回 parent_id -> 直接子任务 id 列表
func (r *taskRepository) ListSubtaskIDs(parentIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var rows []*model.Task
	err := r.db.Select("id", "parent_id").
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError("查询子任务失败", err)
	}
	for _, row := range rows {
		result[*row.ParentID] = append(result[*row.ParentID], row.ID)
	}
	return result, nil
}

func (r *taskRepository) DeleteByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("id IN ?", ids).Delete(&model.Task{}).Error; err != nil {
		return dbError("删除任务失败", err)
	}
	return nil
}

// ReplaceAssignees 用 userIDs 整体替换任务的指派人
func (r *taskRepository) ReplaceAssignees(taskID int64, userIDs []int64) error {
	if err := r.db.Where("task_id = ?", taskID).Delete(&model.TaskAssignee{}).Error; err != nil {
		return dbError("更新任务指派失败", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]*model.TaskAssignee, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, &model.TaskAssignee{TaskID: taskID, UserID: uid})
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return dbError("更新任务指派失败", err)
	}
	return nil
}

// ListAssigneeIDs 返回 task_id -> 指派人 id 列表
func (r *taskRepository) ListAssigneeIDs(taskIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	var rows []*model.TaskAssignee
	err := r.db.Where("task_id IN ?", taskIDs).
		Order("task_id ASC, user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError("查询任务指派失败", err)
	}
	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], row.UserID)
	}
	return result, nil
}

func (r *taskRepository) IsAssignee(taskID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.TaskAssignee{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	if err != nil {
		return false, dbError("查询任务指派失败", err)
	}
	return count > 0, nil
}

func (r *taskRepository) DeleteAssigneesByTaskIDs(taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := r.db.Where("task_id IN ?", taskIDs).Delete(&model.TaskAssignee{}).Error; err != nil {
		return dbError("删除任务指派失败", err)
	}
	return nil
}
