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

type ProjectService interface {
	List(ctx context.Context, userID int64) ([]*dto.ProjectResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetByID(ctx context.Context, userID, id int64) (*dto.ProjectResponse, error)
	Update(ctx context.Context, userID, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	TransferOwnership(ctx context.Context, userID, id int64, req *dto.TransferProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userID, id int64) error
}

type projectService struct {
	store *repository.Store
	authz AuthorizationService
}

func NewProjectService(store *repository.Store, authz AuthorizationService) ProjectService {
	return &projectService{
		store: store,
		authz: authz,
	}
}

// List 返回用户作为 owner 或成员的全部项目
func (s *projectService) List(ctx context.Context, userID int64) ([]*dto.ProjectResponse, error) {
	var projects []*model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		projects, err = tx.Projects.ListByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p *model.Project, _ int) *dto.ProjectResponse {
		return dto.NewProjectResponse(p)
	}), nil
}

// Create 创建项目，owner 固定为当前用户
func (s *projectService) Create(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	color, err := normalizeColor(req.Color)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       color,
		OwnerID:     userID,
	}
	if project.Name == "" {
		return nil, pkgErrors.BadRequest("项目名称不能为空")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.FindByID(userID); err != nil {
			if errors.Is(err, pkgErrors.ErrRecordNotFound) {
				return pkgErrors.ErrUserNotFound
			}
			return err
		}
		return tx.Projects.Create(project)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("项目已创建", zap.Int64("project_id", project.ID), zap.Int64("owner_id", userID))
	return dto.NewProjectResponse(project), nil
}

// GetByID 获取项目详情，任意项目角色可见
func (s *projectService) GetByID(ctx context.Context, userID, id int64) (*dto.ProjectResponse, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, role, err := s.authz.ProjectAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermProjectView) {
			return pkgErrors.ErrNoProjectAccess
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponse(project), nil
}

// Update 部分更新项目，需要 Owner 或 EDITOR
func (s *projectService) Update(ctx context.Context, userID, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, role, err := s.authz.ProjectAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermProjectUpdate) {
			return pkgErrors.Forbidden("需要 Owner 或 EDITOR 权限")
		}

		if req.Name.Set {
			name := strings.TrimSpace(req.Name.Value)
			if req.Name.Null || name == "" {
				return pkgErrors.BadRequest("项目名称不能为空")
			}
			p.Name = name
		}
		if req.Description.Set {
			p.Description = req.Description.Ptr()
		}
		if req.Color.Set {
			color, err := normalizeColor(req.Color.Ptr())
			if err != nil {
				return err
			}
			p.Color = color
		}

		if err := tx.Projects.Update(p); err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponse(project), nil
}

// TransferOwnership 转移所有权，仅当前 owner 可操作
// 原 owner 以 EDITOR 身份留在成员表中，新 owner 的成员记录被移除
func (s *projectService) TransferOwnership(ctx context.Context, userID, id int64, req *dto.TransferProjectRequest) (*dto.ProjectResponse, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, _, err := s.authz.ProjectAccess(tx, id, userID)
		if err != nil {
			return err
		}
		if p.OwnerID != userID {
			return pkgErrors.Forbidden("只有项目所有者可以转移项目")
		}
		if req.NewOwnerID == userID {
			return pkgErrors.BadRequest("新所有者与当前所有者相同")
		}

		if _, err := tx.Users.FindByID(req.NewOwnerID); err != nil {
			if errors.Is(err, pkgErrors.ErrRecordNotFound) {
				return pkgErrors.ErrUserNotFound
			}
			return err
		}

		// 移除新 owner 的成员记录
		member, err := tx.Members.FindByProjectAndUser(p.ID, req.NewOwnerID)
		switch {
		case err == nil:
			if err := tx.Members.Delete(member.ID); err != nil {
				return err
			}
		case !errors.Is(err, pkgErrors.ErrRecordNotFound):
			return err
		}

		// 原 owner 降为 EDITOR
		if err := tx.Members.Create(&model.ProjectMember{
			ProjectID: p.ID,
			UserID:    userID,
			Role:      string(auth.RoleEditor),
		}); err != nil {
			return err
		}

		p.OwnerID = req.NewOwnerID
		if err := tx.Projects.Update(p); err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("项目所有权已转移",
		zap.Int64("project_id", id),
		zap.Int64("from", userID),
		zap.Int64("to", req.NewOwnerID))
	return dto.NewProjectResponse(project), nil
}

// Delete 删除项目及其任务、成员，仅当前 owner 可操作
func (s *projectService) Delete(ctx context.Context, userID, id int64) error {
	var deletedTasks int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, _, err := s.authz.ProjectAccess(tx, id, userID)
		if err != nil {
			return err
		}
		// 成员表中的 Owner 角色不足以删除项目
		if p.OwnerID != userID {
			return pkgErrors.Forbidden("只有项目所有者可以删除项目")
		}

		taskIDs, err := tx.Tasks.ListIDsByProject(p.ID)
		if err != nil {
			return err
		}
		if deletedTasks, err = deleteTaskTree(tx, taskIDs); err != nil {
			return err
		}
		if err := tx.Members.DeleteByProject(p.ID); err != nil {
			return err
		}
		return tx.Projects.Delete(p.ID)
	})
	if err != nil {
		return err
	}

	logger.Info("项目已删除", zap.Int64("project_id", id), zap.Int("tasks", deletedTasks))
	return nil
}

// normalizeColor 空值使用默认白色，非调色板颜色返回 400
func normalizeColor(color *string) (string, error) {
	if color == nil || strings.TrimSpace(*color) == "" {
		return constants.ColorWhite, nil
	}
	c := strings.ToUpper(strings.TrimSpace(*color))
	if !constants.IsValidColor(c) {
		return "", pkgErrors.BadRequest("不支持的颜色: " + *color)
	}
	return c, nil
}
