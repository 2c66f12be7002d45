package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	"task-tracker/internal/pkg/logger"
	"task-tracker/internal/repository"
	pkgErrors "task-tracker/pkg/errors"
)

type ProjectMemberService interface {
	List(ctx context.Context, userID, projectID int64) ([]*dto.ProjectMemberResponse, error)
	Add(ctx context.Context, userID, projectID int64, req *dto.ProjectMemberAddRequest) error
	Remove(ctx context.Context, userID, projectID, targetID int64) error
}

type projectMemberService struct {
	store *repository.Store
	authz AuthorizationService
}

func NewProjectMemberService(store *repository.Store, authz AuthorizationService) ProjectMemberService {
	return &projectMemberService{
		store: store,
		authz: authz,
	}
}

// List 返回成员列表，并补充 owner 行
func (s *projectMemberService) List(ctx context.Context, userID, projectID int64) ([]*dto.ProjectMemberResponse, error) {
	var responses []*dto.ProjectMemberResponse
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, role, err := s.authz.ProjectAccess(tx, projectID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermMemberView) {
			return pkgErrors.ErrNoProjectAccess
		}

		members, err := tx.Members.ListByProject(projectID)
		if err != nil {
			return err
		}

		responses = make([]*dto.ProjectMemberResponse, 0, len(members)+1)
		seen := make(map[int64]struct{}, len(members)+1)
		for _, m := range members {
			if m.User == nil {
				continue
			}
			seen[m.UserID] = struct{}{}
			responses = append(responses, toMemberResponse(m.User, m.Role))
		}

		if _, ok := seen[project.OwnerID]; !ok {
			owner, err := tx.Users.FindByID(project.OwnerID)
			switch {
			case err == nil:
				responses = append(responses, toMemberResponse(owner, string(auth.RoleOwner)))
			case !errors.Is(err, pkgErrors.ErrRecordNotFound):
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// Add 添加成员，需要 Owner 或 EDITOR
func (s *projectMemberService) Add(ctx context.Context, userID, projectID int64, req *dto.ProjectMemberAddRequest) error {
	if !auth.IsMemberRole(req.Role) {
		return pkgErrors.BadRequest("无效的项目角色: " + req.Role)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, role, err := s.authz.ProjectAccess(tx, projectID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermMemberCreate) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限")
		}

		if _, err := tx.Users.FindByID(req.UserID); err != nil {
			if errors.Is(err, pkgErrors.ErrRecordNotFound) {
				return pkgErrors.ErrUserNotFound
			}
			return err
		}

		if project.OwnerID == req.UserID {
			return pkgErrors.Conflict("该用户是项目所有者")
		}

		if _, err := tx.Members.FindByProjectAndUser(projectID, req.UserID); err == nil {
			return pkgErrors.Conflict("用户已是项目成员")
		} else if !errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return err
		}

		return tx.Members.Create(&model.ProjectMember{
			ProjectID: projectID,
			UserID:    req.UserID,
			Role:      req.Role,
		})
	})
	if err != nil {
		return err
	}

	logger.Info("项目成员已添加",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", req.UserID),
		zap.String("role", req.Role))
	return nil
}

// Remove 移除成员
// owner 不能被移除；除 Owner 角色外不能移除自己
func (s *projectMemberService) Remove(ctx context.Context, userID, projectID, targetID int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, role, err := s.authz.ProjectAccess(tx, projectID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermMemberDelete) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限")
		}
		if project.OwnerID == targetID {
			return pkgErrors.Forbidden("不能移除项目所有者")
		}
		if targetID == userID && role != auth.RoleOwner {
			return pkgErrors.Forbidden("不能移除自己")
		}

		member, err := tx.Members.FindByProjectAndUser(projectID, targetID)
		if err != nil {
			if errors.Is(err, pkgErrors.ErrRecordNotFound) {
				return pkgErrors.NotFound("用户不是项目成员")
			}
			return err
		}
		return tx.Members.Delete(member.ID)
	})
}

func toMemberResponse(u *model.User, projectRole string) *dto.ProjectMemberResponse {
	return &dto.ProjectMemberResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		UserRole:    u.Role,
		ProjectRole: projectRole,
	}
}
