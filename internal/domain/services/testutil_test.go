package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// setupTestDB 创建内存数据库并迁移全部模型
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Room{},
		&models.Tenant{},
		&models.Visitor{},
		&models.VisitorLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey: "test-secret",
		JWTExpireHrs: 1,
	}
}

// createRoom 建一个指定容量的房间
func createRoom(t *testing.T, db *gorm.DB, number string, capacity int) *models.Room {
	t.Helper()
	room := &models.Room{RoomNumber: number, Building: "A", Capacity: capacity}
	require.NoError(t, db.Create(room).Error)
	return room
}

// createTenant 通过服务注册一个在住租户
func createTenant(t *testing.T, db *gorm.DB, username string, roomID uint) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Username: username,
		Password: "Secret@123",
		FullName: "Tenant " + username,
		Email:    username + "@example.com",
		RoomID:   &roomID,
	}
	svc := NewTenantService(db, testConfig())
	require.NoError(t, svc.RegisterTenant(tenant))
	return tenant
}

// roomOccupants 读取房间当前入住人数
func roomOccupants(t *testing.T, db *gorm.DB, roomID uint) int {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room.CurrentOccupants
}
