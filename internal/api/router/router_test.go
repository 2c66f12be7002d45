package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"task-tracker/internal/dto"
	"task-tracker/internal/pkg/config"
	"task-tracker/internal/testutil"
)

type RouterSuite struct {
	suite.Suite
	engine *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	cfg := &config.Config{
		Server: config.ServerConfig{Name: "Task Manager API", Mode: gin.TestMode, AllowInitDB: true},
		Auth: config.AuthConfig{
			JWT:   config.JWTConfig{Secret: "router-test", AccessTokenExpire: 900, RefreshTokenExpire: 3600},
			Local: config.LocalConfig{Enabled: true},
		},
	}
	s.engine = Setup(cfg, testutil.NewDB(s.T()))
}

func (s *RouterSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// register 注册用户并返回 access token 和用户ID
func (s *RouterSuite) register(name string) (string, int64) {
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username":         name,
		"email":            name + "@example.com",
		"password":         "password123",
		"confirm_password": "password123",
		"role":             "client",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.decode(w, &resp)
	return resp.AccessToken, resp.User.ID
}

func (s *RouterSuite) createProject(token, name string) int64 {
	w := s.do(http.MethodPost, "/api/projects", token, gin.H{"name": name})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var p dto.ProjectResponse
	s.decode(w, &p)
	return p.ID
}

func (s *RouterSuite) TestHealthAndEnums() {
	w := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var health dto.HealthResponse
	s.decode(w, &health)
	s.Equal("ok", health.Status)
	s.Equal("Task Manager API", health.Service)

	w = s.do(http.MethodGet, "/api/enums", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var enums dto.EnumsResponse
	s.decode(w, &enums)
	s.NotEmpty(enums.Colors)
}

func (s *RouterSuite) TestAuthFlow() {
	w := s.do(http.MethodGet, "/api/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/projects", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	token, id := s.register("alice")

	w = s.do(http.MethodGet, "/api/auth/me", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	s.decode(w, &me)
	s.Equal(id, me.ID)

	// 重复邮箱
	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice2", "email": "alice@example.com",
		"password": "password123", "confirm_password": "password123", "role": "client",
	})
	s.Equal(http.StatusConflict, w.Code)

	// 校验失败
	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "x"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "details")

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	s.Require().Equal(http.StatusOK, w.Code)
	var login dto.AuthResponse
	s.decode(w, &login)

	// refresh token 既可放在请求体，也可放在 Authorization 头
	w = s.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh_token": login.RefreshToken})
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/auth/refresh", login.RefreshToken, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/auth/refresh", login.AccessToken, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	// refresh token 不能访问业务接口
	w = s.do(http.MethodGet, "/api/projects", login.RefreshToken, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestUsers() {
	_, id := s.register("alice")

	w := s.do(http.MethodGet, "/api/users", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var users []dto.UserResponse
	s.decode(w, &users)
	s.Len(users, 1)
	s.NotContains(w.Body.String(), "password")

	w = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", id), "", nil)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/users/99999", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/users/abc", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestEditorScenario() {
	ownerToken, _ := s.register("alice")
	editorToken, editorID := s.register("bob")
	pid := s.createProject(ownerToken, "Apollo")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", pid), ownerToken, gin.H{"user_id": editorID, "role": "EDITOR"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/tasks", editorToken, gin.H{"title": "T", "project_id": pid})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskResponse
	s.decode(w, &task)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", pid), editorToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", pid), ownerToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), ownerToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestAssigneeScenario() {
	ownerToken, _ := s.register("alice")
	assigneeToken, assigneeID := s.register("carol")
	pid := s.createProject(ownerToken, "Apollo")

	w := s.do(http.MethodPost, "/api/tasks", ownerToken, gin.H{
		"title": "T", "project_id": pid, "assignee_ids": []int64{assigneeID, 99999},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskResponse
	s.decode(w, &task)
	s.Equal([]int64{assigneeID}, task.AssigneeIDs)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	w = s.do(http.MethodGet, path, assigneeToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, path, assigneeToken, gin.H{"title": "x"})
	s.Equal(http.StatusForbidden, w.Code)

	// 显式 null 也是修改其他字段
	w = s.do(http.MethodPut, path, assigneeToken, `{"status":"Done","title":null,"description":null}`)
	s.Equal(http.StatusForbidden, w.Code, w.Body.String())
	w = s.do(http.MethodGet, path, ownerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &task)
	s.Equal("None", task.Status)
	s.Equal("T", task.Title)

	w = s.do(http.MethodPut, path, assigneeToken, gin.H{"status": "Done"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &task)
	s.Equal("Done", task.Status)

	w = s.do(http.MethodPost, path+"/comments", assigneeToken, gin.H{"text_comment": "done!"})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodGet, path+"/comments", ownerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var comments []dto.CommentResponse
	s.decode(w, &comments)
	s.Len(comments, 1)
}

func (s *RouterSuite) TestStrictUpdate() {
	ownerToken, ownerID := s.register("alice")
	pid := s.createProject(ownerToken, "Apollo")
	path := fmt.Sprintf("/api/projects/%d", pid)

	// owner 不是可修改字段
	w := s.do(http.MethodPut, path, ownerToken, gin.H{"owner": ownerID + 1})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, ownerToken, "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, ownerToken, gin.H{"color": "#00ff00"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var p dto.ProjectResponse
	s.decode(w, &p)
	s.Equal("#00FF00", p.Color)
	s.Equal("Apollo", p.Name)

	w = s.do(http.MethodPost, "/api/tasks", ownerToken, gin.H{"title": "T", "project_id": pid})
	s.Require().Equal(http.StatusCreated, w.Code)
	var task dto.TaskResponse
	s.decode(w, &task)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), ownerToken, gin.H{"project_id": pid + 1})
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), ownerToken, gin.H{"status": "Unknown"})
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), ownerToken, gin.H{"title": nil})
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), ownerToken, gin.H{"parent_id": 0})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestNullClearsFields() {
	ownerToken, _ := s.register("alice")
	pid := s.createProject(ownerToken, "Apollo")
	projectPath := fmt.Sprintf("/api/projects/%d", pid)

	w := s.do(http.MethodPut, projectPath, ownerToken, gin.H{"description": "draft", "color": "#FF0000"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, projectPath, ownerToken, `{"description":null,"color":null}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var p dto.ProjectResponse
	s.decode(w, &p)
	s.Nil(p.Description)
	s.Equal("#FFFFFF", p.Color)

	w = s.do(http.MethodPost, "/api/tasks", ownerToken, gin.H{
		"title": "T", "project_id": pid, "deadline_date": "2030-01-02T15:04:05Z", "description": "notes",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskResponse
	s.decode(w, &task)
	s.Require().NotNil(task.DeadlineDate)

	taskPath := fmt.Sprintf("/api/tasks/%d", task.ID)
	w = s.do(http.MethodPut, taskPath, ownerToken, `{"deadline_date":null,"description":null}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &task)
	s.Nil(task.DeadlineDate)
	s.Nil(task.Description)
	s.Equal("T", task.Title)
}

func (s *RouterSuite) TestMembersAndTransfer() {
	ownerToken, ownerID := s.register("alice")
	viewerToken, viewerID := s.register("dave")
	pid := s.createProject(ownerToken, "Apollo")
	members := fmt.Sprintf("/api/projects/%d/members", pid)

	w := s.do(http.MethodPost, members, ownerToken, gin.H{"user_id": viewerID, "role": "Viewer"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, members, ownerToken, gin.H{"user_id": viewerID, "role": "Viewer"})
	s.Equal(http.StatusConflict, w.Code)
	w = s.do(http.MethodPost, members, ownerToken, gin.H{"user_id": viewerID, "role": "Assignee"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, members, viewerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []dto.ProjectMemberResponse
	s.decode(w, &list)
	s.Len(list, 2)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/projects/%d", pid), viewerToken, gin.H{"name": "x"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/transfer", pid), ownerToken, gin.H{"new_owner_id": viewerID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var p dto.ProjectResponse
	s.decode(w, &p)
	s.Equal(viewerID, p.Owner)

	// 原 owner 已降为 EDITOR，不能再移除新 owner
	w = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", members, viewerID), ownerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", members, ownerID), viewerToken, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", pid), ownerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterSuite) TestInitDB() {
	w := s.do(http.MethodPost, "/api/init-db", "", nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.InitDBResponse
	s.decode(w, &resp)
	s.Equal(7, resp.Tasks)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "password123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.AuthResponse
	s.decode(w, &login)

	w = s.do(http.MethodGet, "/api/projects", login.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var projects []dto.ProjectResponse
	s.decode(w, &projects)
	s.Len(projects, 2)
}

func (s *RouterSuite) TestCORSPreflight() {
	w := s.do(http.MethodOptions, "/api/projects", "", nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}
