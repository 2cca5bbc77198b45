package models

import "time"

// BaseModel holds the surrogate key and bookkeeping timestamps shared by
// all primary entities.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
