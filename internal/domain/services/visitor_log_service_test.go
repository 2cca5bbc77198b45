package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
)

// createHelpDesk 建一个前台账号作为经办人
func createHelpDesk(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Username: "frontdesk",
		Password: "Desk@123",
		FullName: "Front Desk",
		Email:    "desk@example.com",
		Role:     models.AdminRoleHelpDesk,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestCheckInRequiresApproval(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "D-401", 2)
	tenant := createTenant(t, db, "host", room.ID)
	desk := createHelpDesk(t, db)
	visitor := submitTestVisitor(t, db, tenant.ID, "Pending Guest")

	logSvc := NewVisitorLogService(db, testConfig())

	// 待审批的访客不能签到
	_, err := logSvc.CheckIn(visitor.ID, desk.ID, "National ID")
	assert.ErrorIs(t, err, ErrNotApproved)

	// 已拒绝的访客同样不能签到
	visitorSvc := NewVisitorService(db, testConfig())
	_, err = visitorSvc.UpdateStatus(visitor.ID, models.ApprovalStatusDenied)
	require.NoError(t, err)
	_, err = logSvc.CheckIn(visitor.ID, desk.ID, "National ID")
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = logSvc.CheckIn(999, desk.ID, "")
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestCheckInCheckOutLifecycle(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "D-402", 2)
	tenant := createTenant(t, db, "host2", room.ID)
	desk := createHelpDesk(t, db)
	visitor := submitTestVisitor(t, db, tenant.ID, "Welcome Guest")

	visitorSvc := NewVisitorService(db, testConfig())
	_, err := visitorSvc.UpdateStatus(visitor.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)

	logSvc := NewVisitorLogService(db, testConfig())

	log, err := logSvc.CheckIn(visitor.ID, desk.ID, "Passport")
	require.NoError(t, err)
	require.NotNil(t, log.CheckInTime)
	assert.Nil(t, log.CheckOutTime)
	assert.Equal(t, desk.ID, log.ProcessedBy)
	assert.Equal(t, "Passport", log.IDLeft)

	// 未签出前不允许再次签到
	_, err = logSvc.CheckIn(visitor.ID, desk.ID, "Passport")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	active, err := logSvc.GetActiveLogs()
	require.NoError(t, err)
	assert.Len(t, active, 1)

	closed, err := logSvc.CheckOut(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, log.ID, closed.ID)
	require.NotNil(t, closed.CheckOutTime)

	// 没有未结束记录时签出失败
	_, err = logSvc.CheckOut(visitor.ID)
	assert.ErrorIs(t, err, ErrNoOpenSession)

	// 签出后可以再次来访
	second, err := logSvc.CheckIn(visitor.ID, desk.ID, "Passport")
	require.NoError(t, err)
	assert.NotEqual(t, log.ID, second.ID)

	history, err := logSvc.GetLogsByVisitor(visitor.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCheckOutClosesLatestOpenSession(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "D-403", 2)
	tenant := createTenant(t, db, "host3", room.ID)
	desk := createHelpDesk(t, db)
	visitor := submitTestVisitor(t, db, tenant.ID, "Repeat Guest")

	visitorSvc := NewVisitorService(db, testConfig())
	_, err := visitorSvc.UpdateStatus(visitor.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)

	logSvc := NewVisitorLogService(db, testConfig())

	first, err := logSvc.CheckIn(visitor.ID, desk.ID, "")
	require.NoError(t, err)
	_, err = logSvc.CheckOut(visitor.ID)
	require.NoError(t, err)

	second, err := logSvc.CheckIn(visitor.ID, desk.ID, "")
	require.NoError(t, err)

	closed, err := logSvc.CheckOut(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, closed.ID)

	// 第一条记录保持不变
	var stored models.VisitorLog
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.NotNil(t, stored.CheckOutTime)
}
