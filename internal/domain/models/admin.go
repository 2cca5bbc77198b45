package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin represents back-office staff: both administrators and help-desk
// operators, distinguished by the Role column.
type Admin struct {
	BaseModel
	Username      string     `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password      string     `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	FullName      string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Email         string     `gorm:"type:varchar(100);unique" json:"email"`
	ContactNumber string     `gorm:"type:varchar(20)" json:"contact_number"`
	EmployedDate  *time.Time `json:"employed_date,omitempty"`
	Role          string     `gorm:"type:varchar(20);default:'Admin'" json:"role"` // "Admin" or "HelpDesk"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if a.Password != "" && len(a.Password) < 60 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.Password = string(hashed)
	}
	return nil
}
