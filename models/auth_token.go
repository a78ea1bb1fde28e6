package models

import "time"

// AuthToken is the revocation list: a row exists for every token invalidated
// before its natural expiry (logout). Expired rows are swept periodically.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"token"`
	AdminUID  string    `gorm:"type:varchar(64);not null;index" json:"admin_uid"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
