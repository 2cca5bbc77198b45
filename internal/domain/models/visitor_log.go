package models

import "time"

// VisitorLog is one check-in-to-check-out session for an approved visitor.
// Rows are append-only: the single check-out write sets CheckOutTime, after
// which the row is never mutated again. A visitor has at most one open
// session (CheckInTime set, CheckOutTime null) at a time.
type VisitorLog struct {
	ID           uint       `gorm:"primaryKey" json:"log_id"`
	VisitorID    uint       `gorm:"not null;index" json:"visitor_id"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	IDLeft       string     `gorm:"type:varchar(50)" json:"id_left"` // 访客寄存的证件名称
	ProcessedBy  uint       `json:"processed_by"`                    // 办理入场的前台/管理员ID

	// Relations
	Visitor   *Visitor `gorm:"foreignKey:VisitorID" json:"visitor,omitempty"`
	Processor *Admin   `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"`
}

// Open reports whether the session is currently active.
func (l *VisitorLog) Open() bool {
	return l.CheckInTime != nil && l.CheckOutTime == nil
}
