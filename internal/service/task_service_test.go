package service

import (
	"time"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	pkgErrors "task-tracker/pkg/errors"
)

func (s *ServiceSuite) TestTask_CreatePermissions() {
	_, err := s.tasks.Create(s.ctx, s.viewer.ID, &dto.CreateTaskRequest{Title: "x", ProjectID: s.project.ID})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.tasks.Create(s.ctx, s.assignee.ID, &dto.CreateTaskRequest{Title: "x", ProjectID: s.project.ID})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{Title: "x", ProjectID: 99999})
	s.requireCode(pkgErrors.CodeNotFound, err)

	resp, err := s.tasks.Create(s.ctx, s.editor.ID, &dto.CreateTaskRequest{Title: "x", ProjectID: s.project.ID})
	s.Require().NoError(err)
	s.Equal("None", resp.Priority)
	s.Equal("None", resp.Status)
	s.Empty(resp.AssigneeIDs)
	s.Empty(resp.SubtaskIDs)
}

func (s *ServiceSuite) TestTask_CreateSkipsUnknownAssignees() {
	resp, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title:       "Assigned",
		ProjectID:   s.project.ID,
		AssigneeIDs: []int64{s.viewer.ID, 99999, s.viewer.ID},
	})
	s.Require().NoError(err)
	s.Equal([]int64{s.viewer.ID}, resp.AssigneeIDs)
}

func (s *ServiceSuite) TestTask_ParentValidation() {
	other := &model.Project{Name: "Other", Color: "#FFFFFF", OwnerID: s.owner.ID}
	s.Require().NoError(s.store.Projects.Create(other))
	foreign, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{Title: "F", ProjectID: other.ID})
	s.Require().NoError(err)

	_, err = s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Sub", ProjectID: s.project.ID, ParentID: ptr(foreign.ID),
	})
	s.requireCode(pkgErrors.CodeBadRequest, err)

	_, err = s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Sub", ProjectID: s.project.ID, ParentID: ptr(int64(99999)),
	})
	s.requireCode(pkgErrors.CodeBadRequest, err)

	child, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Child", ProjectID: s.project.ID, ParentID: ptr(s.task.ID),
	})
	s.Require().NoError(err)
	grandchild, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Grandchild", ProjectID: s.project.ID, ParentID: ptr(child.ID),
	})
	s.Require().NoError(err)

	parent, err := s.tasks.GetByID(s.ctx, s.owner.ID, s.task.ID)
	s.Require().NoError(err)
	s.Equal([]int64{child.ID}, parent.SubtaskIDs)

	// 自身或后代不能作为父任务
	_, err = s.tasks.Update(s.ctx, s.owner.ID, s.task.ID, &dto.UpdateTaskRequest{ParentID: dto.Some(s.task.ID)})
	s.requireCode(pkgErrors.CodeBadRequest, err)
	_, err = s.tasks.Update(s.ctx, s.owner.ID, s.task.ID, &dto.UpdateTaskRequest{ParentID: dto.Some(grandchild.ID)})
	s.requireCode(pkgErrors.CodeBadRequest, err)

	// null 表示取消父任务
	resp, err := s.tasks.Update(s.ctx, s.owner.ID, grandchild.ID, &dto.UpdateTaskRequest{ParentID: dto.Null[int64]()})
	s.Require().NoError(err)
	s.Nil(resp.ParentID)
}

func (s *ServiceSuite) TestTask_AssigneeMayOnlyChangeStatus() {
	resp, err := s.tasks.GetByID(s.ctx, s.assignee.ID, s.task.ID)
	s.Require().NoError(err)
	s.Equal(s.task.ID, resp.ID)

	_, err = s.tasks.Update(s.ctx, s.assignee.ID, s.task.ID, &dto.UpdateTaskRequest{Title: dto.Some("x")})
	s.requireCode(pkgErrors.CodeForbidden, err)

	// 混合字段整体拒绝，状态也不应被修改
	_, err = s.tasks.Update(s.ctx, s.assignee.ID, s.task.ID, &dto.UpdateTaskRequest{
		Title: dto.Some("x"), Status: dto.Some("Done"),
	})
	s.requireCode(pkgErrors.CodeForbidden, err)
	stored, err := s.store.Tasks.FindByID(s.task.ID)
	s.Require().NoError(err)
	s.Equal("None", stored.Status)
	s.Equal("Launch", stored.Title)

	// 显式 null 同样算作修改其他字段
	_, err = s.tasks.Update(s.ctx, s.assignee.ID, s.task.ID, &dto.UpdateTaskRequest{
		Status: dto.Some("Done"), Title: dto.Null[string](), Description: dto.Null[string](),
	})
	s.requireCode(pkgErrors.CodeForbidden, err)
	stored, err = s.store.Tasks.FindByID(s.task.ID)
	s.Require().NoError(err)
	s.Equal("None", stored.Status)

	resp, err = s.tasks.Update(s.ctx, s.assignee.ID, s.task.ID, &dto.UpdateTaskRequest{Status: dto.Some("Done")})
	s.Require().NoError(err)
	s.Equal("Done", resp.Status)
}

func (s *ServiceSuite) TestTask_NullClearsOptionalFields() {
	deadline := time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)
	created, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title:        "Dated",
		ProjectID:    s.project.ID,
		Description:  ptr("notes"),
		DeadlineDate: &deadline,
	})
	s.Require().NoError(err)
	s.Require().NotNil(created.DeadlineDate)

	// 未出现的字段保持不变
	resp, err := s.tasks.Update(s.ctx, s.editor.ID, created.ID, &dto.UpdateTaskRequest{Priority: dto.Some("Low")})
	s.Require().NoError(err)
	s.NotNil(resp.DeadlineDate)
	s.NotNil(resp.Description)

	resp, err = s.tasks.Update(s.ctx, s.editor.ID, created.ID, &dto.UpdateTaskRequest{
		DeadlineDate: dto.Null[time.Time](),
		Description:  dto.Null[string](),
	})
	s.Require().NoError(err)
	s.Nil(resp.DeadlineDate)
	s.Nil(resp.Description)

	stored, err := s.store.Tasks.FindByID(created.ID)
	s.Require().NoError(err)
	s.Nil(stored.Deadline)
	s.Nil(stored.Description)
	s.Equal("Low", stored.Priority)
}

func (s *ServiceSuite) TestTask_NullRejectedForRequiredFields() {
	cases := map[string]*dto.UpdateTaskRequest{
		"title":        {Title: dto.Null[string]()},
		"priority":     {Priority: dto.Null[string]()},
		"category":     {Category: dto.Null[string]()},
		"status":       {Status: dto.Null[string]()},
		"assignee_ids": {AssigneeIDs: dto.Null[[]int64]()},
	}
	for field, req := range cases {
		_, err := s.tasks.Update(s.ctx, s.owner.ID, s.task.ID, req)
		s.requireCode(pkgErrors.CodeBadRequest, err)
		s.Contains(err.Error(), field)
	}

	stored, err := s.store.Tasks.FindByID(s.task.ID)
	s.Require().NoError(err)
	s.Equal("Launch", stored.Title)
}

func (s *ServiceSuite) TestTask_ViewerIsReadOnly() {
	_, err := s.tasks.GetByID(s.ctx, s.viewer.ID, s.task.ID)
	s.NoError(err)

	_, err = s.tasks.Update(s.ctx, s.viewer.ID, s.task.ID, &dto.UpdateTaskRequest{Status: dto.Some("Done")})
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.tasks.Delete(s.ctx, s.viewer.ID, s.task.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	err = s.tasks.Assign(s.ctx, s.viewer.ID, s.task.ID, &dto.AssignTaskRequest{UserIDs: []int64{s.viewer.ID}})
	s.requireCode(pkgErrors.CodeForbidden, err)
}

func (s *ServiceSuite) TestTask_OutsiderDenied() {
	_, err := s.tasks.GetByID(s.ctx, s.outsider.ID, s.task.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.tasks.Update(s.ctx, s.outsider.ID, s.task.ID, &dto.UpdateTaskRequest{Status: dto.Some("Done")})
	s.requireCode(pkgErrors.CodeForbidden, err)

	_, err = s.tasks.GetByID(s.ctx, s.outsider.ID, 99999)
	s.requireCode(pkgErrors.CodeNotFound, err)
}

func (s *ServiceSuite) TestTask_EditorUpdateAndReassign() {
	resp, err := s.tasks.Update(s.ctx, s.editor.ID, s.task.ID, &dto.UpdateTaskRequest{
		Title: dto.Some("Renamed"), Priority: dto.Some("High"),
	})
	s.Require().NoError(err)
	s.Equal("Renamed", resp.Title)
	s.Equal("High", resp.Priority)
	s.Equal([]int64{s.assignee.ID}, resp.AssigneeIDs)

	_, err = s.tasks.Update(s.ctx, s.editor.ID, s.task.ID, &dto.UpdateTaskRequest{AssigneeIDs: dto.Some([]int64{s.viewer.ID})})
	s.requireCode(pkgErrors.CodeForbidden, err)

	resp, err = s.tasks.Update(s.ctx, s.owner.ID, s.task.ID, &dto.UpdateTaskRequest{AssigneeIDs: dto.Some([]int64{s.viewer.ID})})
	s.Require().NoError(err)
	s.Equal([]int64{s.viewer.ID}, resp.AssigneeIDs)
}

func (s *ServiceSuite) TestTask_Assign() {
	s.Require().NoError(s.tasks.Assign(s.ctx, s.editor.ID, s.task.ID, &dto.AssignTaskRequest{
		UserIDs: []int64{s.editor.ID, 99999},
	}))

	resp, err := s.tasks.GetByID(s.ctx, s.owner.ID, s.task.ID)
	s.Require().NoError(err)
	s.Equal([]int64{s.editor.ID}, resp.AssigneeIDs)

	// 原指派人失去访问权限
	_, err = s.tasks.GetByID(s.ctx, s.assignee.ID, s.task.ID)
	s.requireCode(pkgErrors.CodeForbidden, err)
}

func (s *ServiceSuite) TestTask_List() {
	_, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Write docs", ProjectID: s.project.ID, Category: "Documentation",
	})
	s.Require().NoError(err)

	all, err := s.tasks.List(s.ctx, s.viewer.ID, &dto.TaskListQuery{})
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Less(all[0].ID, all[1].ID)

	docs, err := s.tasks.List(s.ctx, s.viewer.ID, &dto.TaskListQuery{ProjectID: s.project.ID, Search: "DOCS"})
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("Documentation", docs[0].Category)

	assigned, err := s.tasks.List(s.ctx, s.owner.ID, &dto.TaskListQuery{AssigneeID: s.assignee.ID})
	s.Require().NoError(err)
	s.Require().Len(assigned, 1)
	s.Equal(s.task.ID, assigned[0].ID)

	// 仅被指派不能在列表中看到任务
	visible, err := s.tasks.List(s.ctx, s.assignee.ID, &dto.TaskListQuery{})
	s.Require().NoError(err)
	s.Empty(visible)

	_, err = s.tasks.List(s.ctx, s.assignee.ID, &dto.TaskListQuery{ProjectID: s.project.ID})
	s.requireCode(pkgErrors.CodeForbidden, err)
}

func (s *ServiceSuite) TestTask_DeleteCascadesSubtree() {
	child, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Child", ProjectID: s.project.ID, ParentID: ptr(s.task.ID),
	})
	s.Require().NoError(err)
	grandchild, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{
		Title: "Grandchild", ProjectID: s.project.ID, ParentID: ptr(child.ID),
	})
	s.Require().NoError(err)
	sibling, err := s.tasks.Create(s.ctx, s.owner.ID, &dto.CreateTaskRequest{Title: "Sibling", ProjectID: s.project.ID})
	s.Require().NoError(err)
	_, err = s.comments.Create(s.ctx, s.owner.ID, grandchild.ID, &dto.CommentRequest{TextComment: "deep"})
	s.Require().NoError(err)

	s.Require().NoError(s.tasks.Delete(s.ctx, s.editor.ID, s.task.ID))

	for _, id := range []int64{s.task.ID, child.ID, grandchild.ID} {
		_, err := s.store.Tasks.FindByID(id)
		s.ErrorIs(err, pkgErrors.ErrRecordNotFound)
	}
	_, err = s.store.Tasks.FindByID(sibling.ID)
	s.NoError(err)

	var comments int64
	s.Require().NoError(s.store.DB().Model(&model.Comment{}).Count(&comments).Error)
	s.Zero(comments)
}
