// @title           DormGuard HTTP Service API
// @version         1.0
// @description     Role-based dormitory visitor management backend: tenants pre-register visitors, admins approve requests and manage tenants and rooms, helpdesk staff check visitors in and out.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dormguard-http-service/internal/app/routes"
	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
	"dormguard-http-service/internal/infrastructure/database"
	"dormguard-http-service/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 加载.env文件。加载失败也继续执行，环境变量可能已通过其他方式设置
	envLoaded := godotenv.Load() == nil

	// 获取配置
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}
	if envLoaded {
		logger.Info("成功加载.env文件")
	} else {
		logger.Warning("无法加载.env文件，使用已有环境变量")
	}

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行数据库迁移
	switch cfg.DBMigrationMode {
	case "drop":
		logger.Warning("在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	default:
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		logger.Info("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	printSystemInfo(pool)

	port := cfg.ServerPort
	logger.Info("服务器启动", zap.String("addr", "0.0.0.0:"+port))
	if err := r.Run("0.0.0.0:" + port); err != nil {
		logger.Error("启动服务器失败", zap.Error(err))
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Room{},
		&models.Tenant{},
		&models.Visitor{},
		&models.VisitorLog{},
	)
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	if _, err := sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		logger.Warning("禁用外键约束检查失败", zap.Error(err))
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	tables := []string{"visitor_logs", "visitors", "tenants", "rooms", "admins"}
	for _, table := range tables {
		logger.Info("删除表", zap.String("table", table))
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			logger.Warning("删除表失败", zap.String("table", table), zap.Error(err))
		}
	}

	return autoMigrate(db)
}

// ensureAdminExists 确保系统中有管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return
	}

	// 密码哈希由 BeforeCreate 钩子处理
	admin := models.Admin{
		Username: "admin",
		Password: cfg.DefaultAdminPassword,
		FullName: "System Administrator",
		Email:    "admin@dormguard.local",
		Role:     models.AdminRoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("创建默认管理员失败: %v", err)
	}
	logger.Info("已创建默认管理员账户", zap.String("username", admin.Username))
}

// printSystemInfo 打印启动时的系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	stats, err := pool.Stats()
	if err != nil {
		logger.Warning("获取连接池统计失败", zap.Error(err))
		return
	}
	logger.Info("数据库连接池就绪",
		zap.Any("stats", stats),
		zap.Int("cpus", runtime.NumCPU()),
		zap.String("go_version", runtime.Version()),
	)
}
