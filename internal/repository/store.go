package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 聚合所有 repository，同一个 Store 内的操作共享同一个 *gorm.DB
type Store struct {
	db *gorm.DB

	Users    UserRepository
	Projects ProjectRepository
	Members  ProjectMemberRepository
	Tasks    TaskRepository
	Comments CommentRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Members:  NewProjectMemberRepository(db),
		Tasks:    NewTaskRepository(db),
		Comments: NewCommentRepository(db),
	}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext 返回绑定 ctx 的 Store，用于无需事务的只读查询
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction 在一个事务中执行 fn，fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
