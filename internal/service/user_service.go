package service

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	pkgErrors "task-tracker/pkg/errors"
)

type UserService interface {
	List(ctx context.Context) ([]*dto.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
}

type userService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) List(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.store.WithContext(ctx).Users.List()
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) *dto.UserResponse {
		return dto.NewUserResponse(u)
	}), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.store.WithContext(ctx).Users.FindByID(id)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.ErrUserNotFound
		}
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}
