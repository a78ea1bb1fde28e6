package models

import "time"

type MenuItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdminUID  string    `gorm:"type:varchar(64);not null;index" json:"admin_uid"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category  string    `gorm:"type:varchar(100)" json:"category"`
	Available bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
