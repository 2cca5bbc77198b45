package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
)

// newVisitorService 创建一个时钟固定的访客服务
func newVisitorService(db *gorm.DB, now time.Time) *VisitorService {
	svc := NewVisitorService(db, testConfig()).(*VisitorService)
	svc.Now = func() time.Time { return now }
	return svc
}

func visitAt(t time.Time) (string, string) {
	return t.Format("2006-01-02"), t.Format("15:04")
}

func TestSubmitVisitorAdvanceNotice(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-101", 2)
	tenant := createTenant(t, db, "host", room.ID)

	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	svc := newVisitorService(db, now)

	t.Run("不足12小时拒绝", func(t *testing.T) {
		date, clock := visitAt(now.Add(11*time.Hour + 59*time.Minute))
		_, err := svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
			FullName:     "Early Guest",
			Purpose:      "Visit",
			ExpectedDate: date,
			ExpectedTime: clock,
		})
		assert.ErrorIs(t, err, ErrAdvanceNoticeTooShort)
	})

	t.Run("恰好12小时通过", func(t *testing.T) {
		date, clock := visitAt(now.Add(12 * time.Hour))
		visitor, err := svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
			FullName:     "Boundary Guest",
			Purpose:      "Visit",
			ExpectedDate: date,
			ExpectedTime: clock,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalStatusPending, visitor.ApprovalStatus)
	})

	t.Run("超过12小时通过", func(t *testing.T) {
		date, clock := visitAt(now.Add(48 * time.Hour))
		_, err := svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
			FullName:     "Late Guest",
			Purpose:      "Visit",
			ExpectedDate: date,
			ExpectedTime: clock,
		})
		assert.NoError(t, err)
	})

	t.Run("缺省时间按当天零点", func(t *testing.T) {
		// 次日零点距当前不足12小时，必须拒绝
		date := now.Add(24 * time.Hour).Format("2006-01-02")
		_, err := svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
			FullName:     "Midnight Guest",
			Purpose:      "Visit",
			ExpectedDate: date,
		})
		assert.NoError(t, err)

		sameDay := now.Format("2006-01-02")
		_, err = svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
			FullName:     "Today Guest",
			Purpose:      "Visit",
			ExpectedDate: sameDay,
		})
		assert.ErrorIs(t, err, ErrAdvanceNoticeTooShort)
	})
}

func TestSubmitVisitorValidation(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-102", 2)
	tenant := createTenant(t, db, "host2", room.ID)
	svc := newVisitorService(db, time.Now())

	_, err := svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
		FullName: "No Purpose", ExpectedDate: "2030-01-01",
	})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.SubmitVisitor(tenant.ID, SubmitVisitorRequest{
		FullName: "Bad Date", Purpose: "Visit", ExpectedDate: "not-a-date",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.SubmitVisitor(999, SubmitVisitorRequest{
		FullName: "Orphan", Purpose: "Visit", ExpectedDate: "2030-01-01",
	})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

// submitTestVisitor 提交一个有效的访客申请
func submitTestVisitor(t *testing.T, db *gorm.DB, tenantID uint, name string) *models.Visitor {
	t.Helper()
	svc := newVisitorService(db, time.Now())
	date, clock := visitAt(time.Now().Add(48 * time.Hour))
	visitor, err := svc.SubmitVisitor(tenantID, SubmitVisitorRequest{
		FullName:     name,
		Purpose:      "Family visit",
		ExpectedDate: date,
		ExpectedTime: clock,
	})
	require.NoError(t, err)
	return visitor
}

func TestUpdateStatusIdempotent(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-103", 2)
	tenant := createTenant(t, db, "host3", room.ID)
	visitor := submitTestVisitor(t, db, tenant.ID, "Guest")
	svc := newVisitorService(db, time.Now())

	approved, err := svc.UpdateStatus(visitor.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, approved.ApprovalStatus)

	// 重复批准按幂等成功处理
	again, err := svc.UpdateStatus(visitor.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, again.ApprovalStatus)

	// 无效字面值拒绝，大小写敏感
	_, err = svc.UpdateStatus(visitor.ID, models.ApprovalStatus("approved"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(999, models.ApprovalStatusDenied)
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestTenantEditPendingOnly(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-104", 2)
	tenant := createTenant(t, db, "host4", room.ID)
	visitor := submitTestVisitor(t, db, tenant.ID, "Editable Guest")
	svc := newVisitorService(db, time.Now())

	newName := "Renamed Guest"
	updated, err := svc.UpdateVisitorByTenant(visitor.ID, tenant.ID, VisitorUpdateFields{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)

	// 审批后禁止修改
	_, err = svc.UpdateStatus(visitor.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)
	_, err = svc.UpdateVisitorByTenant(visitor.ID, tenant.ID, VisitorUpdateFields{FullName: &newName})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// 审批后同样禁止撤回
	err = svc.DeleteVisitorByTenant(visitor.ID, tenant.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestTenantCannotTouchOthersVisitor(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-105", 4)
	owner := createTenant(t, db, "owner", room.ID)
	other := createTenant(t, db, "other", room.ID)
	visitor := submitTestVisitor(t, db, owner.ID, "Private Guest")
	svc := newVisitorService(db, time.Now())

	// 不泄露归属信息，统一返回未找到
	name := "Hijacked"
	_, err := svc.UpdateVisitorByTenant(visitor.ID, other.ID, VisitorUpdateFields{FullName: &name})
	assert.ErrorIs(t, err, ErrVisitorNotFound)

	err = svc.DeleteVisitorByTenant(visitor.ID, other.ID)
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestDeletePendingVisitor(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-106", 2)
	tenant := createTenant(t, db, "host6", room.ID)
	visitor := submitTestVisitor(t, db, tenant.ID, "Revoked Guest")
	svc := newVisitorService(db, time.Now())

	require.NoError(t, svc.DeleteVisitorByTenant(visitor.ID, tenant.ID))
	_, err := svc.GetVisitorByID(visitor.ID)
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestGetVisitorsByStatus(t *testing.T) {
	db := setupTestDB(t)
	room := createRoom(t, db, "A-107", 2)
	tenant := createTenant(t, db, "host7", room.ID)
	first := submitTestVisitor(t, db, tenant.ID, "First")
	submitTestVisitor(t, db, tenant.ID, "Second")
	svc := newVisitorService(db, time.Now())

	_, err := svc.UpdateStatus(first.ID, models.ApprovalStatusApproved)
	require.NoError(t, err)

	pending, err := svc.GetVisitorsByStatus(models.ApprovalStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := svc.GetVisitorsByStatus(models.ApprovalStatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	_, err = svc.GetVisitorsByStatus(models.ApprovalStatus("PENDING"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
