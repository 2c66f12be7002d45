package service

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	"task-tracker/internal/pkg/logger"
	"task-tracker/internal/repository"
	"task-tracker/pkg/constants"
	pkgErrors "task-tracker/pkg/errors"
)

type TaskService interface {
	List(ctx context.Context, userID int64, query *dto.TaskListQuery) ([]*dto.TaskResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, userID, id int64) (*dto.TaskResponse, error)
	Update(ctx context.Context, userID, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userID, id int64) error
	Assign(ctx context.Context, userID, id int64, req *dto.AssignTaskRequest) error
}

type taskService struct {
	store *repository.Store
	authz AuthorizationService
}

func NewTaskService(store *repository.Store, authz AuthorizationService) TaskService {
	return &taskService{
		store: store,
		authz: authz,
	}
}

// List 只返回用户作为 owner 或成员的项目中的任务，仅被指派不可见
func (s *taskService) List(ctx context.Context, userID int64, query *dto.TaskListQuery) ([]*dto.TaskResponse, error) {
	var responses []*dto.TaskResponse
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if query.ProjectID > 0 {
			role, err := s.authz.ResolveProjectRole(tx, query.ProjectID, userID)
			if err != nil {
				return err
			}
			if !role.Can(auth.PermTaskView) {
				return pkgErrors.ErrNoProjectAccess
			}
		}

		tasks, err := tx.Tasks.List(repository.TaskFilter{
			VisibleTo:  userID,
			ProjectID:  query.ProjectID,
			Priority:   query.Priority,
			Category:   query.Category,
			Status:     query.Status,
			AssigneeID: query.AssigneeID,
			Search:     query.Search,
		})
		if err != nil {
			return err
		}

		responses, err = s.toResponses(tx, tasks)
		return err
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// Create 创建任务，需要 Owner 或 EDITOR；不存在的指派人会被忽略
func (s *taskService) Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgErrors.BadRequest("任务标题不能为空")
	}

	var resp *dto.TaskResponse
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, role, err := s.authz.ProjectAccess(tx, req.ProjectID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermTaskCreate) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限才能创建任务")
		}

		if req.ParentID != nil {
			if err := s.validateParent(tx, req.ProjectID, 0, *req.ParentID); err != nil {
				return err
			}
		}

		task := &model.Task{
			Title:       title,
			Description: req.Description,
			Priority:    lo.Ternary(req.Priority == "", constants.TaskPriorityNone, req.Priority),
			Category:    lo.Ternary(req.Category == "", constants.TaskCategoryNone, req.Category),
			Status:      lo.Ternary(req.Status == "", constants.TaskStatusNone, req.Status),
			Deadline:    req.DeadlineDate,
			ProjectID:   req.ProjectID,
			ParentID:    req.ParentID,
		}
		if err := tx.Tasks.Create(task); err != nil {
			return err
		}

		assignees, err := existingUserIDs(tx, req.AssigneeIDs)
		if err != nil {
			return err
		}
		if err := tx.Tasks.ReplaceAssignees(task.ID, assignees); err != nil {
			return err
		}

		resp = dto.NewTaskResponse(task, assignees, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("任务已创建", zap.Int64("task_id", resp.ID), zap.Int64("project_id", resp.ProjectID))
	return resp, nil
}

// GetByID 任意可解析的角色（含 Assignee）都可读取
func (s *taskService) GetByID(ctx context.Context, userID, id int64) (*dto.TaskResponse, error) {
	var resp *dto.TaskResponse
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, role, err := s.authz.ResolveTaskAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermTaskView) {
			return pkgErrors.ErrNoTaskAccess
		}

		responses, err := s.toResponses(tx, []*model.Task{task})
		if err != nil {
			return err
		}
		resp = responses[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update 部分更新任务
//   - Viewer 不可修改
//   - Assignee 只能修改 status，包含其他字段时整个请求被拒绝
//   - 修改 assignee_ids 需要 task:reassign（仅 Owner）
func (s *taskService) Update(ctx context.Context, userID, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	var resp *dto.TaskResponse
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, role, err := s.authz.ResolveTaskAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if role == auth.RoleNone {
			return pkgErrors.ErrNoTaskAccess
		}

		if !role.Can(auth.PermTaskUpdate) {
			if !role.Can(auth.PermTaskStatus) {
				return pkgErrors.Forbidden("当前角色不能修改任务")
			}
			if !req.OnlyStatus() {
				return pkgErrors.Forbidden("被指派人只能修改任务状态")
			}
		}
		if req.AssigneeIDs.Set && !role.Can(auth.PermTaskReassign) {
			return pkgErrors.Forbidden("只有项目所有者可以修改指派人")
		}

		if err := s.applyPatch(tx, task, req); err != nil {
			return err
		}
		if err := tx.Tasks.Update(task); err != nil {
			return err
		}

		if req.AssigneeIDs.Set {
			assignees, err := existingUserIDs(tx, req.AssigneeIDs.Value)
			if err != nil {
				return err
			}
			if err := tx.Tasks.ReplaceAssignees(task.ID, assignees); err != nil {
				return err
			}
		}

		responses, err := s.toResponses(tx, []*model.Task{task})
		if err != nil {
			return err
		}
		resp = responses[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// applyPatch 逐字段应用更新
// title、priority、category、status、assignee_ids 不允许为 null
func (s *taskService) applyPatch(tx *repository.Store, task *model.Task, req *dto.UpdateTaskRequest) error {
	if field, ok := nullRequiredTaskField(req); ok {
		return pkgErrors.BadRequest("字段不能为 null: " + field)
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if title == "" {
			return pkgErrors.BadRequest("任务标题不能为空")
		}
		task.Title = title
	}
	if req.Description.Set {
		task.Description = req.Description.Ptr()
	}
	if req.Priority.Set {
		task.Priority = req.Priority.Value
	}
	if req.Category.Set {
		task.Category = req.Category.Value
	}
	if req.Status.Set {
		task.Status = req.Status.Value
	}
	if req.DeadlineDate.Set {
		task.Deadline = req.DeadlineDate.Ptr()
	}
	if req.ParentID.Set {
		if req.ParentID.Null {
			task.ParentID = nil
		} else {
			if err := s.validateParent(tx, task.ProjectID, task.ID, req.ParentID.Value); err != nil {
				return err
			}
			task.ParentID = req.ParentID.Ptr()
		}
	}
	return nil
}

func nullRequiredTaskField(req *dto.UpdateTaskRequest) (string, bool) {
	switch {
	case req.Title.Null:
		return "title", true
	case req.Priority.Null:
		return "priority", true
	case req.Category.Null:
		return "category", true
	case req.Status.Null:
		return "status", true
	case req.AssigneeIDs.Null:
		return "assignee_ids", true
	}
	return "", false
}

// Delete 删除任务及全部子任务，需要 Owner 或 EDITOR
func (s *taskService) Delete(ctx context.Context, userID, id int64) error {
	var deleted int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, role, err := s.authz.ResolveTaskAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if role == auth.RoleNone {
			return pkgErrors.ErrNoTaskAccess
		}
		if !role.Can(auth.PermTaskDelete) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限才能删除任务")
		}

		deleted, err = deleteTaskTree(tx, []int64{task.ID})
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("任务已删除", zap.Int64("task_id", id), zap.Int("total", deleted))
	return nil
}

// Assign 整体替换指派人，需要 Owner 或 EDITOR
func (s *taskService) Assign(ctx context.Context, userID, id int64, req *dto.AssignTaskRequest) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, role, err := s.authz.ResolveTaskAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if role == auth.RoleNone {
			return pkgErrors.ErrNoTaskAccess
		}
		if !role.Can(auth.PermTaskAssign) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限才能指派任务")
		}

		assignees, err := existingUserIDs(tx, req.UserIDs)
		if err != nil {
			return err
		}
		return tx.Tasks.ReplaceAssignees(task.ID, assignees)
	})
}

// validateParent 父任务必须存在于同一项目，且不能形成环
func (s *taskService) validateParent(tx *repository.Store, projectID, taskID, parentID int64) error {
	if taskID != 0 && parentID == taskID {
		return pkgErrors.BadRequest("任务不能作为自己的父任务")
	}

	parent, err := tx.Tasks.FindByID(parentID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return pkgErrors.BadRequest("父任务不存在")
		}
		return err
	}
	if parent.ProjectID != projectID {
		return pkgErrors.BadRequest("父任务必须属于同一项目")
	}
	if taskID == 0 {
		return nil
	}

	// 沿父链向上查找，遇到自身即为环
	visited := map[int64]struct{}{parent.ID: {}}
	for cur := parent; cur.ParentID != nil; {
		if *cur.ParentID == taskID {
			return pkgErrors.BadRequest("父任务不能是当前任务的子任务")
		}
		if _, ok := visited[*cur.ParentID]; ok {
			break
		}
		visited[*cur.ParentID] = struct{}{}

		next, err := tx.Tasks.FindByID(*cur.ParentID)
		if err != nil {
			if errors.Is(err, pkgErrors.ErrRecordNotFound) {
				break
			}
			return err
		}
		cur = next
	}
	return nil
}

func (s *taskService) toResponses(tx *repository.Store, tasks []*model.Task) ([]*dto.TaskResponse, error) {
	ids := lo.Map(tasks, func(t *model.Task, _ int) int64 { return t.ID })

	assignees, err := tx.Tasks.ListAssigneeIDs(ids)
	if err != nil {
		return nil, err
	}
	subtasks, err := tx.Tasks.ListSubtaskIDs(ids)
	if err != nil {
		return nil, err
	}

	return lo.Map(tasks, func(t *model.Task, _ int) *dto.TaskResponse {
		return dto.NewTaskResponse(t, assignees[t.ID], subtasks[t.ID])
	}), nil
}

// existingUserIDs 过滤掉不存在的用户 id，保持原顺序并去重
func existingUserIDs(tx *repository.Store, ids []int64) ([]int64, error) {
	ids = lo.Uniq(lo.Filter(ids, func(id int64, _ int) bool { return id > 0 }))
	if len(ids) == 0 {
		return []int64{}, nil
	}

	users, err := tx.Users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	found := lo.SliceToMap(users, func(u *model.User) (int64, struct{}) { return u.ID, struct{}{} })

	return lo.Filter(ids, func(id int64, _ int) bool {
		_, ok := found[id]
		return ok
	}), nil
}
