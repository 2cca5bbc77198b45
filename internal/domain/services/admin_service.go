package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
	"dormguard-http-service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dashboardStatsKey Redis中仪表盘统计缓存的键
const dashboardStatsKey = "dormguard:dashboard:stats"

// dashboardStatsTTL 仪表盘统计缓存的过期时间
const dashboardStatsTTL = 5 * time.Second

// DashboardStats 仪表盘统计数据
type DashboardStats struct {
	ActiveTenants    int64 `json:"activeTenants"`
	PendingApprovals int64 `json:"pendingApprovals"`
	ActiveVisitors   int64 `json:"activeVisitors"`
	TodayVisitors    int64 `json:"todayVisitors"`
}

// InterfaceAdminService Admin服务接口
type InterfaceAdminService interface {
	CheckPassword(password, hash string) bool
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByUsername(username string) (*models.Admin, error)
	GetAllAdmins(page, pageSize int) ([]models.Admin, int64, error)
	RegisterAdmin(admin *models.Admin) error
	GetDashboardStats() (*DashboardStats, error)
}

// AdminService 提供管理员相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可为空，为空时统计不走缓存
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

// 1 CheckPassword 验证密码是否匹配
func (s *AdminService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// 2 GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// 3 GetAdminByUsername 根据用户名获取管理员
func (s *AdminService) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// 4 GetAllAdmins 获取所有管理员，支持分页
func (s *AdminService) GetAllAdmins(page, pageSize int) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64

	if err := s.DB.Model(&models.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Order("username ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&admins).Error; err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// 5 RegisterAdmin 创建管理员或前台账号。角色只接受 Admin / HelpDesk 字面值
func (s *AdminService) RegisterAdmin(admin *models.Admin) error {
	if admin.Username == "" || admin.Password == "" || admin.FullName == "" || admin.Email == "" {
		return ErrMissingField
	}

	if admin.Role == "" {
		admin.Role = models.AdminRoleAdmin
	}
	if admin.Role != models.AdminRoleAdmin && admin.Role != models.AdminRoleHelpDesk {
		return ErrInvalidStatus
	}

	// 验证用户名和邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Admin{}).
		Where("username = ? OR email = ?", admin.Username, admin.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExist
	}

	// 密码哈希由 BeforeCreate 钩子处理
	return s.DB.Create(admin).Error
}

// 6 GetDashboardStats 获取仪表盘统计。配置了Redis时短暂缓存，
// 缓存故障只记日志并回落到数据库查询
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	if s.Redis != nil {
		var cached DashboardStats
		if err := s.Redis.Get(dashboardStatsKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.computeDashboardStats()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(dashboardStatsKey, stats, dashboardStatsTTL); err != nil {
			logger.Warning("缓存仪表盘统计失败", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *AdminService) computeDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.DB.Model(&models.Tenant{}).
		Where("status = ?", models.TenantStatusActive).
		Count(&stats.ActiveTenants).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Visitor{}).
		Where("approval_status = ?", models.ApprovalStatusPending).
		Count(&stats.PendingApprovals).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.VisitorLog{}).
		Where("check_in_time IS NOT NULL AND check_out_time IS NULL").
		Count(&stats.ActiveVisitors).Error; err != nil {
		return nil, err
	}

	// 今日按服务器本地时区的自然日计算
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.DB.Model(&models.VisitorLog{}).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayStart.Add(24*time.Hour)).
		Count(&stats.TodayVisitors).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
