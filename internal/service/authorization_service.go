package service

import (
	"errors"

	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	"task-tracker/internal/repository"
	pkgErrors "task-tracker/pkg/errors"
)

// AuthorizationService 计算调用者在项目/任务上的有效角色
// 解析顺序：
//  1. projects.owner_id 等于用户 -> Owner（不落库）
//  2. project_members 中的记录 -> 其存储的角色
//  3. 仅针对任务：用户在指派人中 -> Assignee
//
// 角色 -> 权限 的关系写死在 internal/pkg/auth 的 RolePermissions 中
type AuthorizationService interface {
	// ResolveProjectRole 项目不存在或无关系时返回 RoleNone
	ResolveProjectRole(store *repository.Store, projectID, userID int64) (auth.Role, error)
	// ProjectAccess 项目不存在返回 404
	ProjectAccess(store *repository.Store, projectID, userID int64) (*model.Project, auth.Role, error)
	// ResolveTaskAccess 任务不存在返回 404，无权限时 role 为 RoleNone
	ResolveTaskAccess(store *repository.Store, taskID, userID int64) (*model.Task, auth.Role, error)
}

type authorizationService struct{}

// NewAuthorizationService 创建 AuthorizationService
func NewAuthorizationService() AuthorizationService {
	return &authorizationService{}
}

func (s *authorizationService) ResolveProjectRole(store *repository.Store, projectID, userID int64) (auth.Role, error) {
	project, err := store.Projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return auth.RoleNone, nil
		}
		return auth.RoleNone, err
	}
	return s.roleInProject(store, project, userID)
}

func (s *authorizationService) ProjectAccess(store *repository.Store, projectID, userID int64) (*model.Project, auth.Role, error) {
	project, err := store.Projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, auth.RoleNone, pkgErrors.ErrProjectNotFound
		}
		return nil, auth.RoleNone, err
	}

	role, err := s.roleInProject(store, project, userID)
	if err != nil {
		return nil, auth.RoleNone, err
	}
	return project, role, nil
}

func (s *authorizationService) ResolveTaskAccess(store *repository.Store, taskID, userID int64) (*model.Task, auth.Role, error) {
	task, err := store.Tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, auth.RoleNone, pkgErrors.ErrTaskNotFound
		}
		return nil, auth.RoleNone, err
	}

	role, err := s.ResolveProjectRole(store, task.ProjectID, userID)
	if err != nil {
		return nil, auth.RoleNone, err
	}
	if role != auth.RoleNone {
		return task, role, nil
	}

	assigned, err := store.Tasks.IsAssignee(task.ID, userID)
	if err != nil {
		return nil, auth.RoleNone, err
	}
	if assigned {
		return task, auth.RoleAssignee, nil
	}

	return task, auth.RoleNone, nil
}

func (s *authorizationService) roleInProject(store *repository.Store, project *model.Project, userID int64) (auth.Role, error) {
	if project.OwnerID == userID {
		return auth.RoleOwner, nil
	}

	member, err := store.Members.FindByProjectAndUser(project.ID, userID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			// 未加入该项目，视为无权限
			return auth.RoleNone, nil
		}
		return auth.RoleNone, err
	}
	return auth.Role(member.Role), nil
}
