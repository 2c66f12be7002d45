package service

import (
	"github.com/samber/lo"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	pkgErrors "task-tracker/pkg/errors"
)

func (s *ServiceSuite) TestProject_CreateForcesOwnerAndDefaultColor() {
	resp, err := s.projects.Create(s.ctx, s.editor.ID, &dto.CreateProjectRequest{
		Name:  "  Gemini ",
		Owner: ptr(s.owner.ID),
	})
	s.Require().NoError(err)
	s.Equal("Gemini", resp.Name)
	s.Equal(s.editor.ID, resp.Owner)
	s.Equal("#FFFFFF", resp.Color)

	resp, err = s.projects.Create(s.ctx, s.editor.ID, &dto.CreateProjectRequest{Name: "Red", Color: ptr("#ff0000")})
	s.Require().NoError(err)
	s.Equal("#FF0000", resp.Color)

	_, err = s.projects.Create(s.ctx, s.editor.ID, &dto.CreateProjectRequest{Name: "Odd", Color: ptr("#123456")})
	s.requireCode(pkgErrors.CodeBadRequest, err)
}

func (s *ServiceSuite) TestProject_List() {
	_, err := s.projects.Create(s.ctx, s.outsider.ID, &dto.CreateProjectRequest{Name: "Private"})
	s.Require().NoError(err)

	list, err := s.projects.List(s.ctx, s.viewer.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(s.project.ID, list[0].ID)

	list, err = s.projects.List(s.ctx, s.assignee.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestProject_Get() {
	_, err := s.projects.GetByID(s.ctx, s.viewer.ID, s.project.ID)
	s.NoError(err)

	_, err = s.projects.GetByID(s.ctx, s.outsider.ID, s.project.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.projects.GetByID(s.ctx, s.owner.ID, 99999)
	s.requireCode(pkgErrors.CodeNotFound, err)
}

func (s *ServiceSuite) TestProject_Update() {
	resp, err := s.projects.Update(s.ctx, s.editor.ID, s.project.ID, &dto.UpdateProjectRequest{
		Description: dto.Some("new description"),
	})
	s.Require().NoError(err)
	s.Equal("Apollo", resp.Name)
	s.Require().NotNil(resp.Description)
	s.Equal("new description", *resp.Description)

	_, err = s.projects.Update(s.ctx, s.viewer.ID, s.project.ID, &dto.UpdateProjectRequest{Name: dto.Some("x")})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.projects.Update(s.ctx, s.owner.ID, s.project.ID, &dto.UpdateProjectRequest{Name: dto.Some("  ")})
	s.requireCode(pkgErrors.CodeBadRequest, err)
	_, err = s.projects.Update(s.ctx, s.owner.ID, s.project.ID, &dto.UpdateProjectRequest{Name: dto.Null[string]()})
	s.requireCode(pkgErrors.CodeBadRequest, err)
}

func (s *ServiceSuite) TestProject_NullClearsDescriptionAndColor() {
	_, err := s.projects.Update(s.ctx, s.owner.ID, s.project.ID, &dto.UpdateProjectRequest{
		Description: dto.Some("temporary"),
		Color:       dto.Some("#ff0000"),
	})
	s.Require().NoError(err)

	resp, err := s.projects.Update(s.ctx, s.owner.ID, s.project.ID, &dto.UpdateProjectRequest{
		Description: dto.Null[string](),
		Color:       dto.Null[string](),
	})
	s.Require().NoError(err)
	s.Nil(resp.Description)
	s.Equal("#FFFFFF", resp.Color)
	s.Equal("Apollo", resp.Name)

	stored, err := s.store.Projects.FindByID(s.project.ID)
	s.Require().NoError(err)
	s.Nil(stored.Description)
}

func (s *ServiceSuite) TestProject_DeleteRequiresLiteralOwner() {
	// 成员表中的 Owner 角色不能删除项目
	s.addMember(s.outsider, auth.RoleOwner)
	err := s.projects.Delete(s.ctx, s.outsider.ID, s.project.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.projects.Delete(s.ctx, s.editor.ID, s.project.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)
}

func (s *ServiceSuite) TestProject_DeleteCascades() {
	sub, err := s.tasks.Create(s.ctx, s.editor.ID, &dto.CreateTaskRequest{
		Title: "Sub", ProjectID: s.project.ID, ParentID: ptr(s.task.ID),
	})
	s.Require().NoError(err)
	_, err = s.comments.Create(s.ctx, s.editor.ID, sub.ID, &dto.CommentRequest{TextComment: "hi"})
	s.Require().NoError(err)

	s.Require().NoError(s.projects.Delete(s.ctx, s.owner.ID, s.project.ID))

	for _, m := range []interface{}{&model.Project{}, &model.ProjectMember{}, &model.Task{}, &model.TaskAssignee{}, &model.Comment{}} {
		var count int64
		s.Require().NoError(s.store.DB().Model(m).Count(&count).Error)
		s.Zero(count, "%T", m)
	}
}

func (s *ServiceSuite) TestProject_EditorCreatesTaskThenOwnerDeletes() {
	t, err := s.tasks.Create(s.ctx, s.editor.ID, &dto.CreateTaskRequest{Title: "T", ProjectID: s.project.ID})
	s.Require().NoError(err)

	err = s.projects.Delete(s.ctx, s.editor.ID, s.project.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	s.Require().NoError(s.projects.Delete(s.ctx, s.owner.ID, s.project.ID))

	_, err = s.tasks.GetByID(s.ctx, s.owner.ID, t.ID)
	s.requireCode(pkgErrors.CodeNotFound, err)
}

func (s *ServiceSuite) TestProject_TransferOwnership() {
	_, err := s.projects.TransferOwnership(s.ctx, s.editor.ID, s.project.ID, &dto.TransferProjectRequest{NewOwnerID: s.editor.ID})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.projects.TransferOwnership(s.ctx, s.owner.ID, s.project.ID, &dto.TransferProjectRequest{NewOwnerID: 99999})
	s.requireCode(pkgErrors.CodeNotFound, err)

	resp, err := s.projects.TransferOwnership(s.ctx, s.owner.ID, s.project.ID, &dto.TransferProjectRequest{NewOwnerID: s.editor.ID})
	s.Require().NoError(err)
	s.Equal(s.editor.ID, resp.Owner)

	role, err := s.authz.ResolveProjectRole(s.store, s.project.ID, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleEditor, role)

	// 新 owner 不再保留成员记录
	_, err = s.store.Members.FindByProjectAndUser(s.project.ID, s.editor.ID)
	s.ErrorIs(err, pkgErrors.ErrRecordNotFound)
}

func (s *ServiceSuite) TestMembers_ListIncludesOwner() {
	list, err := s.members.List(s.ctx, s.viewer.ID, s.project.ID)
	s.Require().NoError(err)
	s.Len(list, 3)

	roles := lo.SliceToMap(list, func(m *dto.ProjectMemberResponse) (int64, string) { return m.ID, m.ProjectRole })
	s.Equal("Owner", roles[s.owner.ID])
	s.Equal("EDITOR", roles[s.editor.ID])
	s.Equal("Viewer", roles[s.viewer.ID])

	_, err = s.members.List(s.ctx, s.assignee.ID, s.project.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)
}

func (s *ServiceSuite) TestMembers_Add() {
	err := s.members.Add(s.ctx, s.viewer.ID, s.project.ID, &dto.ProjectMemberAddRequest{UserID: s.outsider.ID, Role: "Viewer"})
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.members.Add(s.ctx, s.editor.ID, s.project.ID, &dto.ProjectMemberAddRequest{UserID: 99999, Role: "Viewer"})
	s.requireCode(pkgErrors.CodeNotFound, err)

	err = s.members.Add(s.ctx, s.editor.ID, s.project.ID, &dto.ProjectMemberAddRequest{UserID: s.owner.ID, Role: "Viewer"})
	s.requireCode(pkgErrors.CodeConflict, err)

	err = s.members.Add(s.ctx, s.editor.ID, s.project.ID, &dto.ProjectMemberAddRequest{UserID: s.viewer.ID, Role: "EDITOR"})
	s.requireCode(pkgErrors.CodeConflict, err)

	s.Require().NoError(s.members.Add(s.ctx, s.editor.ID, s.project.ID, &dto.ProjectMemberAddRequest{UserID: s.outsider.ID, Role: "Viewer"}))
	role, err := s.authz.ResolveProjectRole(s.store, s.project.ID, s.outsider.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleViewer, role)
}

func (s *ServiceSuite) TestMembers_Remove() {
	err := s.members.Remove(s.ctx, s.editor.ID, s.project.ID, s.owner.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.members.Remove(s.ctx, s.editor.ID, s.project.ID, s.editor.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.members.Remove(s.ctx, s.editor.ID, s.project.ID, s.outsider.ID)
	s.requireCode(pkgErrors.CodeNotFound, err)

	err = s.members.Remove(s.ctx, s.viewer.ID, s.project.ID, s.editor.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	s.Require().NoError(s.members.Remove(s.ctx, s.editor.ID, s.project.ID, s.viewer.ID))
	role, err := s.authz.ResolveProjectRole(s.store, s.project.ID, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleNone, role)
}

func (s *ServiceSuite) TestMembers_OwnerRoleMayRemoveSelf() {
	s.addMember(s.outsider, auth.RoleOwner)
	s.NoError(s.members.Remove(s.ctx, s.outsider.ID, s.project.ID, s.outsider.ID))
}
