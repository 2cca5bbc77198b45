package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, username string, role models.Role, fullName string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(username, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser 表示登录响应中的用户信息
type LoginUser struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	Email    string      `json:"email,omitempty"`
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name"`
	jwt.RegisteredClaims
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	expire    time.Duration
	DB        *gorm.DB
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	expire := time.Duration(cfg.JWTExpireHrs) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "dormguard-http-service",
		expire:    expire,
		DB:        db,
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID uint, username string, role models.Role, fullName string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken 验证JWT令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// ExtractClaims 从令牌中提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Login 处理用户登录请求。先查管理员表（含前台账号），再查租户表，
// 在信任边界处将存储的角色字面值规范化为角色枚举
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	// 尝试查找管理员/前台用户
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}

		role, ok := models.ParseRole(admin.Role)
		if !ok || role == models.RoleTenant {
			// 数据库中出现未知角色字面值时拒绝登录，避免越权
			return nil, ErrInvalidCredentials
		}

		token, err := s.GenerateToken(admin.ID, admin.Username, role, admin.FullName)
		if err != nil {
			return nil, err
		}

		return &LoginResult{
			Token: token,
			User: LoginUser{
				UserID:   admin.ID,
				Username: admin.Username,
				FullName: admin.FullName,
				Role:     role,
				Email:    admin.Email,
			},
		}, nil
	}

	// 尝试查找租户
	var tenant models.Tenant
	if err := s.DB.Where("username = ?", username).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(tenant.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(tenant.ID, tenant.Username, models.RoleTenant, tenant.FullName)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: LoginUser{
			UserID:   tenant.ID,
			Username: tenant.Username,
			FullName: tenant.FullName,
			Role:     models.RoleTenant,
			Email:    tenant.Email,
		},
	}, nil
}
