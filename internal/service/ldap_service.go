package service

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"task-tracker/internal/pkg/config"
	pkgErrors "task-tracker/pkg/errors"
)

// LDAPUserInfo 目录中查到的用户信息
type LDAPUserInfo struct {
	Username string
	Email    string
	DN       string
}

type LDAPService interface {
	Authenticate(username, password string) (*LDAPUserInfo, error)
}

type ldapService struct {
	cfg *config.LDAPConfig
}

func NewLDAPService(cfg *config.LDAPConfig) LDAPService {
	return &ldapService{
		cfg: cfg,
	}
}

func (s *ldapService) Authenticate(username, password string) (*LDAPUserInfo, error) {
	if !s.cfg.Enabled {
		return nil, pkgErrors.BadRequest("LDAP认证未启用")
	}
	// 空密码会被部分服务器当作匿名绑定
	if password == "" {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	// 连接LDAP服务器
	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// 搜索用户
	entry, err := s.searchUser(conn, username)
	if err != nil {
		return nil, err
	}

	// 验证密码
	if err := conn.Bind(entry.DN, password); err != nil {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	return &LDAPUserInfo{
		Username: username,
		Email:    entry.GetAttributeValue(s.cfg.Attributes.Email),
		DN:       entry.DN,
	}, nil
}

func (s *ldapService) connect() (*ldap.Conn, error) {
	scheme := "ldap"
	if s.cfg.UseSSL {
		scheme = "ldaps"
	}
	address := fmt.Sprintf("%s://%s:%d", scheme, s.cfg.Host, s.cfg.Port)

	conn, err := ldap.DialURL(address)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "LDAP连接失败", err)
	}

	// 使用管理员账号绑定
	if err := conn.Bind(s.cfg.BindDN, s.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "LDAP绑定失败", err)
	}

	return conn, nil
}

func (s *ldapService) searchUser(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	// 构建搜索过滤器
	filter := fmt.Sprintf(s.cfg.UserFilter, ldap.EscapeFilter(username))

	searchRequest := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		[]string{s.cfg.Attributes.Username, s.cfg.Attributes.Email},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "LDAP搜索失败", err)
	}

	if len(result.Entries) == 0 {
		return nil, pkgErrors.ErrInvalidCredentials
	}
	if len(result.Entries) > 1 {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "找到多个匹配的用户")
	}

	return result.Entries[0], nil
}
