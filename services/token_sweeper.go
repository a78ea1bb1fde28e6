package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

// TokenSweeper periodically deletes expired rows from the revocation list.
// A revoked token past its expiry is rejected by signature checking anyway,
// so sweeping is purely housekeeping.
type TokenSweeper struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewTokenSweeper(db *gorm.DB) *TokenSweeper {
	return &TokenSweeper{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: time.Hour,
	}
}

func (tsw *TokenSweeper) Start() {
	go func() {
		ticker := time.NewTicker(tsw.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				tsw.sweep()
			case <-tsw.StopChan:
				return
			}
		}
	}()
}

func (tsw *TokenSweeper) Stop() {
	close(tsw.StopChan)
}

func (tsw *TokenSweeper) sweep() {
	res := tsw.DB.Where("expires_at < ?", time.Now()).Delete(&models.AuthToken{})
	if res.Error != nil {
		utils.ErrorLogger.Printf("Error sweeping expired tokens: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Swept %d expired auth tokens", res.RowsAffected)
	}
}
