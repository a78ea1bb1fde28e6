package models

import "time"

const (
	TableStatusVacant  = "vacant"
	TableStatusActive  = "active"
	TableStatusBilling = "billing"
)

// Table invariant: Status == vacant <=> ActiveSessionID == nil.
type Table struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AdminUID        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_tenant_table_number" json:"admin_uid"`
	TableNumber     int       `gorm:"not null;uniqueIndex:idx_tenant_table_number" json:"table_number"`
	Status          string    `gorm:"type:varchar(20);not null;default:'vacant'" json:"status"`
	ActiveSessionID *string   `gorm:"type:varchar(100)" json:"active_session_id"`
	OTP             string    `gorm:"type:varchar(4);not null" json:"otp"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
