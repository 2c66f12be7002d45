package service

import (
	"time"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	pkgErrors "task-tracker/pkg/errors"
)

func (s *ServiceSuite) TestComment_CreateAndList() {
	first, err := s.comments.Create(s.ctx, s.assignee.ID, s.task.ID, &dto.CommentRequest{TextComment: "first"})
	s.Require().NoError(err)
	s.Equal(s.assignee.ID, first.AuthorID)

	second, err := s.comments.Create(s.ctx, s.viewer.ID, s.task.ID, &dto.CommentRequest{TextComment: "second"})
	s.Require().NoError(err)

	list, err := s.comments.List(s.ctx, s.editor.ID, s.task.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)

	_, err = s.comments.Create(s.ctx, s.outsider.ID, s.task.ID, &dto.CommentRequest{TextComment: "nope"})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.comments.List(s.ctx, s.outsider.ID, s.task.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.comments.List(s.ctx, s.owner.ID, 99999)
	s.requireCode(pkgErrors.CodeNotFound, err)
}

func (s *ServiceSuite) TestComment_UpdateOnlyAuthor() {
	c, err := s.comments.Create(s.ctx, s.viewer.ID, s.task.ID, &dto.CommentRequest{TextComment: "draft"})
	s.Require().NoError(err)

	_, err = s.comments.Update(s.ctx, s.owner.ID, c.ID, &dto.CommentRequest{TextComment: "hijack"})
	s.requireCode(pkgErrors.CodeForbidden, err)

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.DB().Model(&model.Comment{}).Where("id = ?", c.ID).UpdateColumn("updated_at", stale).Error)

	resp, err := s.comments.Update(s.ctx, s.viewer.ID, c.ID, &dto.CommentRequest{TextComment: "final"})
	s.Require().NoError(err)
	s.Equal("final", resp.TextComment)
	s.True(resp.UpdatedAt.After(stale), resp.UpdatedAt)
	s.Equal(c.CreationDate.Unix(), resp.CreationDate.Unix())

	_, err = s.comments.Update(s.ctx, s.viewer.ID, 99999, &dto.CommentRequest{TextComment: "x"})
	s.requireCode(pkgErrors.CodeNotFound, err)
}

func (s *ServiceSuite) TestComment_Delete() {
	c, err := s.comments.Create(s.ctx, s.assignee.ID, s.task.ID, &dto.CommentRequest{TextComment: "mine"})
	s.Require().NoError(err)

	err = s.comments.Delete(s.ctx, s.viewer.ID, c.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	s.Require().NoError(s.comments.Delete(s.ctx, s.editor.ID, c.ID))

	own, err := s.comments.Create(s.ctx, s.viewer.ID, s.task.ID, &dto.CommentRequest{TextComment: "own"})
	s.Require().NoError(err)
	s.NoError(s.comments.Delete(s.ctx, s.viewer.ID, own.ID))

	err = s.comments.Delete(s.ctx, s.viewer.ID, own.ID)
	s.requireCode(pkgErrors.CodeNotFound, err)
}
