package service

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"

	"github.com/vaixxakh/Lumiere-Lighting/internal/auth"
	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/user"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
)

// AccountService 账号能力：注册 / 登录走远端用户集合，
// 会话身份落在本地 session 集合（对应 user / adminToken 两个键）。
type AccountService struct {
	baseURL string
	store   *localstore.Store
	jwtCfg  *config.JWTConfig
	admin   *config.AdminConfig
}

// NewAccountService 创建账号服务
func NewAccountService(baseURL string, store *localstore.Store, jwtCfg *config.JWTConfig, admin *config.AdminConfig) *AccountService {
	return &AccountService{baseURL: baseURL, store: store, jwtCfg: jwtCfg, admin: admin}
}

func (s *AccountService) usersURL() string {
	return s.baseURL + "/users"
}

func (s *AccountService) fetchUsers() ([]*user.User, error) {
	var code int
	var list []*user.User
	err := gout.GET(s.usersURL()).
		SetTimeout(5 * time.Second).
		Code(&code).
		BindJSON(&list).
		Do()
	if err != nil {
		return nil, err
	}
	if code != 200 {
		return nil, fmt.Errorf("remote store returned %d", code)
	}
	return list, nil
}

// Register 注册：邮箱重复是显式业务错误，不作为故障抛出
func (s *AccountService) Register(name, email, password string) (*user.User, string, error) {
	existing, err := s.fetchUsers()
	if err != nil {
		return nil, "", err
	}
	for _, u := range existing {
		if u.Email == email {
			return nil, "", user.ErrEmailTaken
		}
	}

	var code int
	created := &user.User{}
	err = gout.POST(s.usersURL()).
		SetTimeout(5 * time.Second).
		SetJSON(&user.User{Name: name, Email: email, Password: password}).
		Code(&code).
		BindJSON(created).
		Do()
	if err != nil {
		return nil, "", err
	}
	if code != 200 && code != 201 {
		return nil, "", fmt.Errorf("remote store returned %d", code)
	}

	token, err := s.openSession(created, false)
	return created, token, err
}

// Login 登录：按邮箱+密码匹配远端用户集合
func (s *AccountService) Login(email, password string) (*user.User, string, error) {
	list, err := s.fetchUsers()
	if err != nil {
		return nil, "", err
	}
	for _, u := range list {
		if u.Email == email && u.Password == password {
			token, err := s.openSession(u, false)
			return u, token, err
		}
	}
	return nil, "", user.ErrInvalidCredentials
}

// AdminLogin 后台登录：固定管理员账号，签发带 admin 标记的令牌
func (s *AccountService) AdminLogin(email, password string) (string, error) {
	if email != s.admin.Email || password != s.admin.Password {
		return "", user.ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwtCfg, email, "admin", true)
	if err != nil {
		return "", err
	}
	// adminToken 会话标记与前台的 user 键对称
	_ = s.store.Put(localstore.CollSession, localstore.KeyAdminToken, token)
	return token, nil
}

// ListUsers 后台用户列表
func (s *AccountService) ListUsers() ([]*user.User, error) {
	return s.fetchUsers()
}

// Logout 清理本地会话身份
func (s *AccountService) Logout() error {
	return s.store.Delete(localstore.CollSession, localstore.KeyUser)
}

func (s *AccountService) openSession(u *user.User, admin bool) (string, error) {
	token, err := auth.GenerateToken(s.jwtCfg, u.Email, u.Name, admin)
	if err != nil {
		return "", err
	}
	_ = s.store.Put(localstore.CollSession, localstore.KeyUser, u)
	return token, nil
}
