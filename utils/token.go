package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
)

// BlacklistToken records a token as revoked until its natural expiry.
// Expired rows are removed by the token sweeper service.
func BlacklistToken(db *gorm.DB, token, adminUID string, expiresAt time.Time) error {
	row := models.AuthToken{
		Token:     token,
		AdminUID:  adminUID,
		ExpiresAt: expiresAt,
	}
	return db.Create(&row).Error
}

// IsTokenBlacklisted checks the revocation list. Rows past expiry do not
// count even if the sweeper has not caught up yet.
func IsTokenBlacklisted(db *gorm.DB, token string) bool {
	var count int64
	db.Model(&models.AuthToken{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count)
	return count > 0
}
