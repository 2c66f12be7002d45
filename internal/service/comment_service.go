package service

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	"task-tracker/internal/repository"
	pkgErrors "task-tracker/pkg/errors"
)

type CommentService interface {
	List(ctx context.Context, userID, taskID int64) ([]*dto.CommentResponse, error)
	Create(ctx context.Context, userID, taskID int64, req *dto.CommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, userID, id int64, req *dto.CommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, userID, id int64) error
}

type commentService struct {
	store *repository.Store
	authz AuthorizationService
}

func NewCommentService(store *repository.Store, authz AuthorizationService) CommentService {
	return &commentService{
		store: store,
		authz: authz,
	}
}

// List 按创建时间倒序返回任务评论
func (s *commentService) List(ctx context.Context, userID, taskID int64) ([]*dto.CommentResponse, error) {
	var comments []*model.Comment
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, role, err := s.authz.ResolveTaskAccess(tx, taskID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermCommentView) {
			return pkgErrors.ErrNoTaskAccess
		}

		comments, err = tx.Comments.ListByTask(taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(comments, func(c *model.Comment, _ int) *dto.CommentResponse {
		return dto.NewCommentResponse(c)
	}), nil
}

// Create 作者固定为当前用户
func (s *commentService) Create(ctx context.Context, userID, taskID int64, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	text := strings.TrimSpace(req.TextComment)
	if text == "" {
		return nil, pkgErrors.BadRequest("评论内容不能为空")
	}

	comment := &model.Comment{
		Text:     text,
		TaskID:   taskID,
		AuthorID: userID,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, role, err := s.authz.ResolveTaskAccess(tx, taskID, userID)
		if err != nil {
			return err
		}
		if !role.Can(auth.PermCommentCreate) {
			return pkgErrors.ErrNoTaskAccess
		}
		return tx.Comments.Create(comment)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCommentResponse(comment), nil
}

// Update 只有作者可以修改，与项目角色无关
func (s *commentService) Update(ctx context.Context, userID, id int64, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	text := strings.TrimSpace(req.TextComment)
	if text == "" {
		return nil, pkgErrors.BadRequest("评论内容不能为空")
	}

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		c, err := s.findComment(tx, id)
		if err != nil {
			return err
		}
		if c.AuthorID != userID {
			return pkgErrors.Forbidden("只有评论作者可以修改评论")
		}

		if err := tx.Comments.UpdateText(c.ID, text); err != nil {
			return err
		}
		// 重新读取，带上数据库写入的 updated_at
		comment, err = s.findComment(tx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCommentResponse(comment), nil
}

// Delete 作者可删除自己的评论，否则需要项目内 Owner 或 EDITOR
func (s *commentService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		c, err := s.findComment(tx, id)
		if err != nil {
			return err
		}

		if c.AuthorID != userID {
			task, err := tx.Tasks.FindByID(c.TaskID)
			if err != nil {
				if errors.Is(err, pkgErrors.ErrRecordNotFound) {
					return pkgErrors.ErrTaskNotFound
				}
				return err
			}
			role, err := s.authz.ResolveProjectRole(tx, task.ProjectID, userID)
			if err != nil {
				return err
			}
			if !role.Can(auth.PermCommentDelete) {
				return pkgErrors.Forbidden("没有删除该评论的权限")
			}
		}

		return tx.Comments.Delete(c.ID)
	})
}

func (s *commentService) findComment(tx *repository.Store, id int64) (*model.Comment, error) {
	c, err := tx.Comments.FindByID(id)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}
