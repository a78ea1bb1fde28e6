package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

// ErrInvalidCode deliberately says no more than "invalid code": the caller
// must not learn which part of the lookup failed.
var ErrInvalidCode = errors.New("invalid code")

// SessionService binds customer visits to tables. A session is not a stored
// entity: it lives as active_session_id on the table and session_id on the
// visit's orders and bill.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Join validates the table code and returns the session id for the visit.
// Rejoining an active table with the correct code returns the existing
// session id without mutating anything, so a page reload is harmless.
func (ss *SessionService) Join(adminUID string, tableNumber int, code string) (string, bool, error) {
	var table models.Table
	if err := ss.DB.Where("admin_uid = ? AND table_number = ?", adminUID, tableNumber).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrTableNotFound
		}
		return "", false, err
	}

	if code != table.OTP {
		return "", false, ErrInvalidCode
	}

	if table.Status == models.TableStatusActive && table.ActiveSessionID != nil {
		return *table.ActiveSessionID, true, nil
	}

	sessionID := utils.GenerateSessionID()
	updates := map[string]interface{}{
		"status":            models.TableStatusActive,
		"active_session_id": sessionID,
		"updated_at":        time.Now(),
	}
	if err := ss.DB.Model(&models.Table{}).Where("id = ?", table.ID).Updates(updates).Error; err != nil {
		return "", false, err
	}
	return sessionID, false, nil
}

// Validate is the pure read customers poll: it reports false once staff has
// reset the table out from under the session. On success it also returns the
// table's current status.
func (ss *SessionService) Validate(adminUID string, tableNumber int, sessionID string) (bool, string, error) {
	var table models.Table
	if err := ss.DB.Where("admin_uid = ? AND table_number = ?", adminUID, tableNumber).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", ErrTableNotFound
		}
		return false, "", err
	}

	if table.Status == models.TableStatusVacant || table.ActiveSessionID == nil {
		return false, "", nil
	}
	if *table.ActiveSessionID != sessionID {
		return false, "", nil
	}
	return true, table.Status, nil
}
