package service

import (
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	pkgErrors "task-tracker/pkg/errors"
)

func (s *ServiceSuite) TestResolveProjectRole() {
	cases := []struct {
		user *model.User
		want auth.Role
	}{
		{s.owner, auth.RoleOwner},
		{s.editor, auth.RoleEditor},
		{s.viewer, auth.RoleViewer},
		{s.assignee, auth.RoleNone},
		{s.outsider, auth.RoleNone},
	}
	for _, tc := range cases {
		role, err := s.authz.ResolveProjectRole(s.store, s.project.ID, tc.user.ID)
		s.Require().NoError(err)
		s.Equal(tc.want, role, tc.user.Username)
	}

	role, err := s.authz.ResolveProjectRole(s.store, 99999, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleNone, role)
}

func (s *ServiceSuite) TestResolveProjectRole_OwnerWinsOverMembership() {
	// 即使成员表里给 owner 存了 Viewer，也按 Owner 处理
	s.addMember(s.owner, auth.RoleViewer)

	role, err := s.authz.ResolveProjectRole(s.store, s.project.ID, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleOwner, role)
}

func (s *ServiceSuite) TestResolveTaskAccess() {
	_, role, err := s.authz.ResolveTaskAccess(s.store, s.task.ID, s.assignee.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleAssignee, role)

	_, role, err = s.authz.ResolveTaskAccess(s.store, s.task.ID, s.editor.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleEditor, role)

	_, role, err = s.authz.ResolveTaskAccess(s.store, s.task.ID, s.outsider.ID)
	s.Require().NoError(err)
	s.Equal(auth.RoleNone, role)

	_, _, err = s.authz.ResolveTaskAccess(s.store, 99999, s.owner.ID)
	s.ErrorIs(err, pkgErrors.ErrTaskNotFound)
}

func (s *ServiceSuite) TestProjectAccess_NotFound() {
	_, _, err := s.authz.ProjectAccess(s.store, 99999, s.owner.ID)
	s.ErrorIs(err, pkgErrors.ErrProjectNotFound)
}
