package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"task-tracker/internal/dto"
	"task-tracker/internal/model"
	"task-tracker/internal/pkg/config"
	"task-tracker/internal/pkg/crypto"
	"task-tracker/internal/pkg/jwt"
	"task-tracker/internal/pkg/logger"
	"task-tracker/internal/repository"
	"task-tracker/pkg/constants"
	pkgErrors "task-tracker/pkg/errors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error)
	CurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authService struct {
	cfg         *config.AuthConfig
	store       *repository.Store
	issuer      *jwt.Issuer
	ldapService LDAPService
}

func NewAuthService(
	cfg *config.AuthConfig,
	store *repository.Store,
	issuer *jwt.Issuer,
	ldapService LDAPService,
) AuthService {
	return &authService{
		cfg:         cfg,
		store:       store,
		issuer:      issuer,
		ldapService: ldapService,
	}
}

// Register 注册本地用户，邮箱或用户名重复返回 409
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, pkgErrors.BadRequest("两次输入的密码不一致")
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "密码加密失败", err)
	}

	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     hash,
		Role:         req.Role,
		AuthProvider: constants.AuthTypeLocal,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		emailTaken, usernameTaken, err := tx.Users.ExistsByEmailOrUsername(user.Email, user.Username)
		if err != nil {
			return err
		}
		if emailTaken {
			return pkgErrors.Conflict("邮箱已被使用")
		}
		if usernameTaken {
			return pkgErrors.Conflict("用户名已被使用")
		}
		return tx.Users.Create(user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("用户注册成功", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return s.issue(user, "注册成功")
}

// Login 本地登录使用邮箱，LDAP 登录使用用户名，首次 LDAP 登录时创建本地用户
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	authType := req.AuthType
	if authType == "" {
		authType = constants.AuthTypeLocal
	}

	var user *model.User
	var err error

	switch authType {
	case constants.AuthTypeLDAP:
		if !s.cfg.LDAP.Enabled {
			return nil, pkgErrors.BadRequest("LDAP认证未启用")
		}
		if req.Username == "" {
			return nil, pkgErrors.BadRequest("LDAP登录需要提供用户名")
		}
		info, err := s.ldapService.Authenticate(req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		if user, err = s.syncLDAPUser(ctx, info); err != nil {
			return nil, err
		}

	case constants.AuthTypeLocal:
		if !s.cfg.Local.Enabled {
			return nil, pkgErrors.BadRequest("本地认证未启用")
		}
		if req.Email == "" {
			return nil, pkgErrors.BadRequest("请提供邮箱")
		}
		if user, err = s.authenticateLocal(ctx, req.Email, req.Password); err != nil {
			return nil, err
		}

	default:
		return nil, pkgErrors.BadRequest("不支持的认证类型")
	}

	return s.issue(user, "登录成功")
}

func (s *authService) authenticateLocal(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.WithContext(ctx).Users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// LDAP 用户没有本地密码
	if user.Password == "" || !crypto.CheckPassword(password, user.Password) {
		return nil, pkgErrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) syncLDAPUser(ctx context.Context, info *LDAPUserInfo) (*model.User, error) {
	var user *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Users.FindByUsername(info.Username)
		if err == nil {
			if existing.AuthProvider != constants.AuthTypeLDAP {
				return pkgErrors.Conflict("用户名已被本地用户占用")
			}
			user = existing
			return nil
		}
		if !errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return err
		}

		email := strings.ToLower(strings.TrimSpace(info.Email))
		if email == "" {
			email = info.Username + "@ldap.local"
		}
		user = &model.User{
			Username:     info.Username,
			Email:        email,
			Role:         constants.UserRoleClient,
			AuthProvider: constants.AuthTypeLDAP,
		}
		if err := tx.Users.Create(user); err != nil {
			return err
		}
		logger.Info("LDAP用户首次登录，已创建本地用户", zap.String("username", user.Username))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RefreshToken 使用刷新Token换取新的访问Token
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	claims, err := s.issuer.ValidateToken(refreshToken, constants.JWTTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.store.WithContext(ctx).Users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, pkgErrors.ErrUserNotFound.Message)
		}
		return nil, err
	}

	accessToken, err := s.issuer.GenerateAccessToken(user.ID, user.Username, user.AuthProvider)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成AccessToken失败", err)
	}

	return &dto.RefreshTokenResponse{
		Message:     "Token已刷新",
		AccessToken: accessToken,
		ExpiresIn:   s.issuer.AccessExpire(),
	}, nil
}

// CurrentUser 当前登录用户
func (s *authService) CurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.store.WithContext(ctx).Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.ErrUserNotFound
		}
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) issue(user *model.User, message string) (*dto.AuthResponse, error) {
	accessToken, err := s.issuer.GenerateAccessToken(user.ID, user.Username, user.AuthProvider)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成AccessToken失败", err)
	}

	refreshToken, err := s.issuer.GenerateRefreshToken(user.ID, user.Username, user.AuthProvider)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成RefreshToken失败", err)
	}

	return &dto.AuthResponse{
		Message:      message,
		User:         dto.NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.issuer.AccessExpire(),
	}, nil
}
