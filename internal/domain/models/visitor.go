package models

import "time"

// ApprovalStatus 访客审批状态，字符串字面值是对外契约的一部分（区分大小写）
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "Pending"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusDenied   ApprovalStatus = "Denied"
)

// ValidApprovalStatus 检查审批状态字面值是否合法
func ValidApprovalStatus(s string) bool {
	switch ApprovalStatus(s) {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusDenied:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer be edited by the
// submitting tenant.
func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusDenied
}

// Visitor represents a pre-registered visit request submitted by a tenant.
// The request must clear the 12-hour advance-notice rule at submission and
// stays owned by its tenant only while Pending.
type Visitor struct {
	ID             uint           `gorm:"primaryKey" json:"visitor_id"`
	TenantID       uint           `gorm:"not null" json:"tenant_id"`
	FullName       string         `gorm:"type:varchar(100);not null" json:"full_name"`
	ContactNumber  string         `gorm:"type:varchar(20)" json:"contact_number"`
	Purpose        string         `gorm:"type:varchar(200);not null" json:"purpose"`
	ExpectedDate   string         `gorm:"type:varchar(10);not null" json:"expected_date"` // 预计来访日期，格式 2006-01-02
	ExpectedTime   string         `gorm:"type:varchar(5)" json:"expected_time,omitempty"` // 预计来访时间，格式 15:04，可为空
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(10);default:'Pending'" json:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"`

	// Relations
	Tenant *Tenant      `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Logs   []VisitorLog `gorm:"foreignKey:VisitorID" json:"logs,omitempty"`
}
