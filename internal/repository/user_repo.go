package repository

import (
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int64) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByIDs(ids []int64) ([]*model.User, error)
	List() ([]*model.User, error)
	ExistsByEmailOrUsername(email, username string) (emailTaken, usernameTaken bool, err error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return dbError("创建用户失败", err)
	}
	return nil
}

func (r *userRepository) FindByID(id int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, dbError("查询用户失败", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, dbError("查询用户失败", err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, dbError("查询用户失败", err)
	}
	return &user, nil
}

// FindByIDs 批量查询，不存在的 id 直接忽略
func (r *userRepository) FindByIDs(ids []int64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, dbError("查询用户失败", err)
	}
	return users, nil
}

func (r *userRepository) List() ([]*model.User, error) {
	var users []*model.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, dbError("查询用户列表失败", err)
	}
	return users, nil
}

func (r *userRepository) ExistsByEmailOrUsername(email, username string) (bool, bool, error) {
	var users []*model.User
	if err := r.db.Where("email = ? OR username = ?", email, username).Find(&users).Error; err != nil {
		return false, false, dbError("查询用户失败", err)
	}

	var emailTaken, usernameTaken bool
	for _, u := range users {
		if u.Email == email {
			emailTaken = true
		}
		if u.Username == username {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, nil
}
