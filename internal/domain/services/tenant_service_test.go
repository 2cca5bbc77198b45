package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
)

func TestRegisterTenantIncrementsOccupancy(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-101", 2)

	tenant := createTenant(t, db, "liming", room.ID)

	assert.Equal(t, 1, roomOccupants(t, db, room.ID))
	assert.Equal(t, models.TenantStatusActive, tenant.Status)

	// 密码必须以哈希形式入库
	var stored models.Tenant
	require.NoError(t, db.First(&stored, tenant.ID).Error)
	assert.NotEqual(t, "Secret@123", stored.Password)
	assert.GreaterOrEqual(t, len(stored.Password), 60)
}

func TestRegisterTenantRoomFull(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-102", 1)
	createTenant(t, db, "first", room.ID)

	svc := NewTenantService(db, testConfig())
	err := svc.RegisterTenant(&models.Tenant{
		Username: "second",
		Password: "Secret@123",
		FullName: "Second Tenant",
		Email:    "second@example.com",
		RoomID:   &room.ID,
	})
	assert.ErrorIs(t, err, ErrRoomFull)

	// 失败的注册不得留下租户行或改变入住人数
	var count int64
	db.Model(&models.Tenant{}).Where("username = ?", "second").Count(&count)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))
}

func TestRoomCapacityCycle(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-105", 2)
	svc := NewTenantService(db, testConfig())

	createTenant(t, db, "one", room.ID)
	two := createTenant(t, db, "two", room.ID)
	assert.Equal(t, 2, roomOccupants(t, db, room.ID))

	// 满员时第三人注册被拒
	err := svc.RegisterTenant(&models.Tenant{
		Username: "three",
		Password: "Secret@123",
		FullName: "Third Tenant",
		Email:    "three@example.com",
		RoomID:   &room.ID,
	})
	assert.ErrorIs(t, err, ErrRoomFull)

	// 一人搬出后空位释放，第三人可以入住
	require.NoError(t, svc.SetTenantStatus(two.ID, models.TenantStatusMovedOut))
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))

	err = svc.RegisterTenant(&models.Tenant{
		Username: "three",
		Password: "Secret@123",
		FullName: "Third Tenant",
		Email:    "three@example.com",
		RoomID:   &room.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, roomOccupants(t, db, room.ID))
}

func TestRegisterTenantDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-103", 4)
	createTenant(t, db, "dup", room.ID)

	svc := NewTenantService(db, testConfig())
	err := svc.RegisterTenant(&models.Tenant{
		Username: "dup",
		Password: "Secret@123",
		FullName: "Duplicate",
		Email:    "other@example.com",
		RoomID:   &room.ID,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))
}

func TestRegisterTenantMissingRoom(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTenantService(db, testConfig())

	missing := uint(999)
	err := svc.RegisterTenant(&models.Tenant{
		Username: "noroom",
		Password: "Secret@123",
		FullName: "No Room",
		Email:    "noroom@example.com",
		RoomID:   &missing,
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegisterTenantRollsBackOnInsertFailure(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-104", 4)

	// 在租户插入后注入失败，验证入住人数递增随事务一起回滚
	injected := errors.New("injected failure")
	require.NoError(t, db.Callback().Create().After("gorm:create").
		Register("fail_tenant_create", func(tx *gorm.DB) {
			if tx.Statement.Table == "tenants" {
				tx.AddError(injected)
			}
		}))
	defer db.Callback().Create().Remove("fail_tenant_create")

	svc := NewTenantService(db, testConfig())
	err := svc.RegisterTenant(&models.Tenant{
		Username: "unlucky",
		Password: "Secret@123",
		FullName: "Unlucky",
		Email:    "unlucky@example.com",
		RoomID:   &room.ID,
	})
	require.Error(t, err)

	assert.Equal(t, 0, roomOccupants(t, db, room.ID))
	var count int64
	db.Model(&models.Tenant{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestStatusTransitionOccupancy(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "B-201", 2)
	tenant := createTenant(t, db, "mover", room.ID)
	svc := NewTenantService(db, testConfig())

	// Active -> Moved Out 释放床位
	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusMovedOut))
	assert.Equal(t, 0, roomOccupants(t, db, room.ID))

	// Moved Out -> Active 重新占用床位
	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusActive))
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))

	// Active -> Suspended 不改变入住人数
	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusSuspended))
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))

	// Suspended -> Active 同样不改变
	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusActive))
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))

	// 同状态转换为无操作
	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusActive))
	assert.Equal(t, 1, roomOccupants(t, db, room.ID))
}

func TestMoveBackIntoFullRoomRejected(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "B-202", 1)
	mover := createTenant(t, db, "mover2", room.ID)
	svc := NewTenantService(db, testConfig())

	require.NoError(t, svc.SetTenantStatus(mover.ID, models.TenantStatusMovedOut))
	assert.Equal(t, 0, roomOccupants(t, db, room.ID))

	// 床位被别人占用后，原租户无法回迁
	createTenant(t, db, "newcomer", room.ID)
	err := svc.SetTenantStatus(mover.ID, models.TenantStatusActive)
	assert.ErrorIs(t, err, ErrRoomFull)

	// 失败的回迁不得改变状态
	var stored models.Tenant
	require.NoError(t, db.First(&stored, mover.ID).Error)
	assert.Equal(t, models.TenantStatusMovedOut, stored.Status)
}

func TestUpdateTenantFieldsAndStatus(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "B-203", 2)
	tenant := createTenant(t, db, "editable", room.ID)
	svc := NewTenantService(db, testConfig())

	newName := "Renamed Tenant"
	status := models.TenantStatusMovedOut
	updated, err := svc.UpdateTenant(tenant.ID, TenantUpdateFields{
		FullName: &newName,
		Status:   &status,
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.FullName)
	assert.Equal(t, models.TenantStatusMovedOut, updated.Status)
	assert.Equal(t, 0, roomOccupants(t, db, room.ID))
}

func TestUpdateTenantInvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "B-204", 2)
	tenant := createTenant(t, db, "strict", room.ID)
	svc := NewTenantService(db, testConfig())

	// 状态字面值大小写敏感
	bad := models.TenantStatus("active")
	_, err := svc.UpdateTenant(tenant.ID, TenantUpdateFields{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteTenantCascades(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "C-301", 2)
	tenant := createTenant(t, db, "leaver", room.ID)

	visitor := &models.Visitor{
		TenantID:       tenant.ID,
		FullName:       "Guest",
		Purpose:        "Visit",
		ExpectedDate:   "2030-01-01",
		ApprovalStatus: models.ApprovalStatusApproved,
	}
	require.NoError(t, db.Create(visitor).Error)
	require.NoError(t, db.Create(&models.VisitorLog{VisitorID: visitor.ID}).Error)

	svc := NewTenantService(db, testConfig())
	require.NoError(t, svc.DeleteTenant(tenant.ID))

	assert.Equal(t, 0, roomOccupants(t, db, room.ID))
	var visitors, logs int64
	db.Model(&models.Visitor{}).Count(&visitors)
	db.Model(&models.VisitorLog{}).Count(&logs)
	assert.EqualValues(t, 0, visitors)
	assert.EqualValues(t, 0, logs)

	_, err := svc.GetTenantByID(tenant.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestDeleteMovedOutTenantKeepsOccupancy(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "C-302", 2)
	tenant := createTenant(t, db, "gone", room.ID)
	svc := NewTenantService(db, testConfig())

	require.NoError(t, svc.SetTenantStatus(tenant.ID, models.TenantStatusMovedOut))
	require.NoError(t, svc.DeleteTenant(tenant.ID))

	// 已迁出的租户不占床位，删除时不再递减
	assert.Equal(t, 0, roomOccupants(t, db, room.ID))
}
