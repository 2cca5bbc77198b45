package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormguard-http-service/internal/domain/models"
)

func TestRegisterAdminValidatesRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, testConfig(), nil)

	err := svc.RegisterAdmin(&models.Admin{
		Username: "desk", Password: "Desk@123", FullName: "Desk",
		Email: "desk@example.com", Role: models.AdminRoleHelpDesk,
	})
	require.NoError(t, err)

	// 角色字面值大小写敏感
	err = svc.RegisterAdmin(&models.Admin{
		Username: "desk2", Password: "Desk@123", FullName: "Desk 2",
		Email: "desk2@example.com", Role: "helpdesk",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// 用户名唯一
	err = svc.RegisterAdmin(&models.Admin{
		Username: "desk", Password: "Desk@123", FullName: "Desk Again",
		Email: "desk3@example.com", Role: models.AdminRoleHelpDesk,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	// 缺省角色为 Admin
	admin := &models.Admin{
		Username: "boss", Password: "Boss@123", FullName: "Boss",
		Email: "boss@example.com",
	}
	require.NoError(t, svc.RegisterAdmin(admin))
	assert.Equal(t, models.AdminRoleAdmin, admin.Role)
}

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "F-601", 4)
	active := createTenant(t, db, "active1", room.ID)
	mover := createTenant(t, db, "mover1", room.ID)
	desk := createHelpDesk(t, db)

	tenantSvc := NewTenantService(db, testConfig())
	require.NoError(t, tenantSvc.SetTenantStatus(mover.ID, models.TenantStatusMovedOut))

	submitTestVisitor(t, db, active.ID, "Pending Guest")
	onSite := submitTestVisitor(t, db, active.ID, "On Site Guest")

	visitorSvc := NewVisitorService(db, testConfig())
	_, err := visitorSvc.UpdateStatus(onSite.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)

	logSvc := NewVisitorLogService(db, testConfig())
	_, err = logSvc.CheckIn(onSite.ID, desk.ID, "")
	require.NoError(t, err)

	svc := NewAdminService(db, testConfig(), nil)
	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.ActiveTenants)
	assert.EqualValues(t, 1, stats.PendingApprovals)
	assert.EqualValues(t, 1, stats.ActiveVisitors)
	assert.EqualValues(t, 1, stats.TodayVisitors)

	// 签出后在场访客归零，今日来访保持
	_, err = logSvc.CheckOut(onSite.ID)
	require.NoError(t, err)

	stats, err = svc.GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.ActiveVisitors)
	assert.EqualValues(t, 1, stats.TodayVisitors)
}

func TestDashboardStatsTodayWindow(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "F-602", 2)
	tenant := createTenant(t, db, "hist", room.ID)
	visitor := submitTestVisitor(t, db, tenant.ID, "Old Guest")

	// 昨天的记录不计入今日来访
	yesterday := time.Now().Add(-24 * time.Hour)
	out := yesterday.Add(time.Hour)
	require.NoError(t, db.Create(&models.VisitorLog{
		VisitorID:    visitor.ID,
		CheckInTime:  &yesterday,
		CheckOutTime: &out,
	}).Error)

	svc := NewAdminService(db, testConfig(), nil)
	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.TodayVisitors)
}
