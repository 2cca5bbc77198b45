package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TenantStatus 租户状态，字符串字面值是对外契约的一部分（区分大小写）
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "Active"
	TenantStatusMovedOut  TenantStatus = "Moved Out"
	TenantStatusSuspended TenantStatus = "Suspended"
)

// ValidTenantStatus 检查状态字面值是否合法
func ValidTenantStatus(s string) bool {
	switch TenantStatus(s) {
	case TenantStatusActive, TenantStatusMovedOut, TenantStatusSuspended:
		return true
	}
	return false
}

// Tenant represents dormitory residents with login credentials. A tenant
// occupies at most one room slot; the Status column together with RoomID
// determines whether that slot is counted in Room.CurrentOccupants.
type Tenant struct {
	ID                     uint         `gorm:"primaryKey" json:"tenant_id"`
	RoomID                 *uint        `json:"room_id"` // 关联的房间ID，可为空
	Username               string       `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password               string       `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	FullName               string       `gorm:"type:varchar(100);not null" json:"full_name"`
	ContactNumber          string       `gorm:"type:varchar(20)" json:"contact_number"`
	Email                  string       `gorm:"type:varchar(100);unique;not null" json:"email"`
	MoveInDate             time.Time    `json:"move_in_date"`
	Status                 TenantStatus `gorm:"type:varchar(20);default:'Active'" json:"status"`
	EmergencyContactName   string       `gorm:"type:varchar(100)" json:"emergency_contact_name,omitempty"`
	EmergencyContactNumber string       `gorm:"type:varchar(20)" json:"emergency_contact_number,omitempty"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`

	// Relations
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Visitors []Visitor `gorm:"foreignKey:TenantID" json:"visitors,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if t.Password != "" && len(t.Password) < 60 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(t.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		t.Password = string(hashed)
	}
	return nil
}
