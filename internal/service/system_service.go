package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"task-tracker/internal/dto"
	"task-tracker/internal/fixtures"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/auth"
	"task-tracker/internal/pkg/config"
	"task-tracker/internal/pkg/crypto"
	"task-tracker/internal/pkg/database"
	"task-tracker/internal/pkg/logger"
	"task-tracker/internal/repository"
	"task-tracker/pkg/constants"
	pkgErrors "task-tracker/pkg/errors"
)

type SystemService interface {
	Health() *dto.HealthResponse
	Enums() *dto.EnumsResponse
	InitDB(ctx context.Context) (*dto.InitDBResponse, error)
}

type systemService struct {
	cfg   *config.ServerConfig
	store *repository.Store
	now   func() time.Time
}

func NewSystemService(cfg *config.ServerConfig, store *repository.Store) SystemService {
	return &systemService{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

func (s *systemService) Health() *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:    "ok",
		Timestamp: s.now(),
		Service:   s.cfg.Name,
	}
}

func (s *systemService) Enums() *dto.EnumsResponse {
	same := func(v string, _ int) dto.EnumItem { return dto.EnumItem{Value: v, Label: v} }

	return &dto.EnumsResponse{
		UserRoles: lo.Map(constants.UserRoles, func(v string, _ int) dto.EnumItem {
			return dto.EnumItem{Value: v, Label: capitalize(v)}
		}),
		ProjectRoles: lo.Map(auth.MemberRoles, func(r auth.Role, _ int) dto.EnumItem {
			return dto.EnumItem{Value: string(r), Label: string(r)}
		}),
		TaskPriorities: lo.Map(constants.TaskPriorities, same),
		TaskCategories: lo.Map(constants.TaskCategories, same),
		TaskStatuses:   lo.Map(constants.TaskStatuses, same),
		Colors: lo.Map(constants.Colors, func(c constants.Color, _ int) dto.EnumItem {
			return dto.EnumItem{Value: c.Value, Label: c.Name}
		}),
	}
}

// InitDB 删除并重建所有表，然后写入内置的初始化数据
func (s *systemService) InitDB(ctx context.Context) (*dto.InitDBResponse, error) {
	if !s.cfg.AllowInitDB {
		return nil, pkgErrors.Forbidden("当前环境未开启数据库初始化")
	}

	seed, err := fixtures.Load()
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "加载初始化数据失败", err)
	}

	hash, err := crypto.HashPassword(seed.Password)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "密码加密失败", err)
	}

	// mysql 的 DDL 会隐式提交，建表放在事务之外
	if err := database.Reset(s.store.DB().WithContext(ctx)); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "重建数据表失败", err)
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return s.seed(tx, seed, hash)
	})
	if err != nil {
		return nil, err
	}

	logger.Warn("数据库已重新初始化",
		zap.Int("users", len(seed.Users)),
		zap.Int("projects", len(seed.Projects)),
		zap.Int("tasks", len(seed.Tasks)),
		zap.Int("comments", len(seed.Comments)))

	return &dto.InitDBResponse{
		Message:  "数据库已初始化",
		Users:    len(seed.Users),
		Projects: len(seed.Projects),
		Tasks:    len(seed.Tasks),
		Comments: len(seed.Comments),
	}, nil
}

func (s *systemService) seed(tx *repository.Store, seed *fixtures.Seed, passwordHash string) error {
	users := make(map[string]int64, len(seed.Users))
	for _, u := range seed.Users {
		user := &model.User{
			Username:     u.Username,
			Email:        u.Email,
			Password:     passwordHash,
			Role:         u.Role,
			AuthProvider: constants.AuthTypeLocal,
		}
		if err := tx.Users.Create(user); err != nil {
			return err
		}
		users[u.Username] = user.ID
	}

	projects := make(map[string]int64, len(seed.Projects))
	for _, p := range seed.Projects {
		project := &model.Project{
			Name:        p.Name,
			Description: lo.EmptyableToPtr(p.Description),
			Color:       lo.Ternary(p.Color == "", constants.ColorWhite, p.Color),
			OwnerID:     users[p.Owner],
		}
		if err := tx.Projects.Create(project); err != nil {
			return err
		}
		projects[p.Name] = project.ID
	}

	tasks := make(map[string]int64, len(seed.Tasks))
	span := seed.DeadlineDays.Max - seed.DeadlineDays.Min + 1
	for _, t := range seed.Tasks {
		deadline := s.now().AddDate(0, 0, seed.DeadlineDays.Min+rand.IntN(span))
		task := &model.Task{
			Title:       t.Title,
			Description: lo.EmptyableToPtr(t.Description),
			Priority:    lo.Ternary(t.Priority == "", constants.TaskPriorityNone, t.Priority),
			Category:    lo.Ternary(t.Category == "", constants.TaskCategoryNone, t.Category),
			Status:      lo.Ternary(t.Status == "", constants.TaskStatusNone, t.Status),
			Deadline:    &deadline,
			ProjectID:   projects[t.Project],
		}
		if err := tx.Tasks.Create(task); err != nil {
			return err
		}
		assignees := lo.Map(t.Assignees, func(name string, _ int) int64 { return users[name] })
		if err := tx.Tasks.ReplaceAssignees(task.ID, lo.Uniq(assignees)); err != nil {
			return err
		}
		tasks[t.Title] = task.ID
	}

	for _, c := range seed.Comments {
		comment := &model.Comment{
			Text:     c.Text,
			TaskID:   tasks[c.Task],
			AuthorID: users[c.Author],
		}
		if err := tx.Comments.Create(comment); err != nil {
			return err
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
