package service

import (
	"crypto/subtle"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vasthra/saree-works/internal/config"
)

// LoginResult 登录成功后的令牌信息
type LoginResult struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// AuthService 定义认证业务逻辑接口。
// 单操作员模式：凭据来自环境配置，不落数据库。
type AuthService interface {
	Login(username, password string) (*LoginResult, error)
}

// authService 实现AuthService接口
type authService struct {
	config *config.Config
	jwtSvc JWTService
	logger *zap.Logger
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, jwtSvc JWTService, logger *zap.Logger) AuthService {
	return &authService{
		config: cfg,
		jwtSvc: jwtSvc,
		logger: logger,
	}
}

// Login 校验操作员凭据并签发访问令牌。
// 用户名比较使用常数时间，密码校验为 bcrypt。
func (s *authService) Login(username, password string) (*LoginResult, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Auth.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.config.Auth.PasswordHash), []byte(password))
	if !userMatch || passErr != nil {
		s.logger.Warn("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtSvc.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", zap.String("username", username))
	return &LoginResult{AccessToken: token, Username: username}, nil
}
