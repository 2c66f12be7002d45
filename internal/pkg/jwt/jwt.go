package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task-tracker/internal/pkg/config"
	"task-tracker/pkg/constants"
	pkgErrors "task-tracker/pkg/errors"
)

// UserClaims 用户Claims
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	AuthType string `json:"auth_type"` // ldap or local
	Type     string `json:"type"`      // access or refresh
	jwt.RegisteredClaims
}

// Issuer 负责签发与校验Token
type Issuer struct {
	secret        []byte
	accessExpire  time.Duration
	refreshExpire time.Duration
	now           func() time.Time
}

// NewIssuer 创建Issuer
func NewIssuer(cfg *config.JWTConfig) *Issuer {
	return &Issuer{
		secret:        []byte(cfg.Secret),
		accessExpire:  time.Duration(cfg.AccessTokenExpire) * time.Second,
		refreshExpire: time.Duration(cfg.RefreshTokenExpire) * time.Second,
		now:           time.Now,
	}
}

// AccessExpire 访问Token有效期（秒）
func (i *Issuer) AccessExpire() int64 {
	return int64(i.accessExpire / time.Second)
}

// GenerateAccessToken 生成访问Token
func (i *Issuer) GenerateAccessToken(userID int64, username, authType string) (string, error) {
	return i.generate(userID, username, authType, constants.JWTTypeAccess, i.accessExpire)
}

// GenerateRefreshToken 生成刷新Token
func (i *Issuer) GenerateRefreshToken(userID int64, username, authType string) (string, error) {
	return i.generate(userID, username, authType, constants.JWTTypeRefresh, i.refreshExpire)
}

func (i *Issuer) generate(userID int64, username, authType, tokenType string, expire time.Duration) (string, error) {
	now := i.now()
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		AuthType: authType,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseToken 解析Token
func (i *Issuer) ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgErrors.ErrTokenExpired
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "解析Token失败", err)
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, pkgErrors.ErrInvalidToken
}

// ValidateToken 验证Token有效性及类型
func (i *Issuer) ValidateToken(tokenString, tokenType string) (*UserClaims, error) {
	claims, err := i.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != tokenType || claims.UserID <= 0 {
		return nil, pkgErrors.ErrInvalidToken
	}

	return claims, nil
}
