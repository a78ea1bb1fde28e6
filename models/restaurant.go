package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Restaurant is one tenant. Every other entity carries its AdminUID.
type Restaurant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminUID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"admin_uid"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Address    string    `gorm:"type:text" json:"address"`
	Role       string    `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`
	TableCount int       `gorm:"not null;default:0" json:"table_count"`
	PaymentID  string    `gorm:"type:varchar(100)" json:"payment_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
