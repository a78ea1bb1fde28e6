package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

var ErrTableNotFound = errors.New("table not found")

// TableService owns the physical-table registry: numbering, occupancy state
// and access codes. All mutations keep the invariant
// status == vacant <=> active_session_id == nil.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

// Initialize creates tables 1..count that do not exist yet, each vacant with
// a fresh code. Existing tables are never touched, so the call is idempotent.
func (ts *TableService) Initialize(adminUID string, count int) error {
	var existing []int
	if err := ts.DB.Model(&models.Table{}).
		Where("admin_uid = ?", adminUID).
		Pluck("table_number", &existing).Error; err != nil {
		return err
	}

	have := make(map[int]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	for n := 1; n <= count; n++ {
		if have[n] {
			continue
		}
		table := models.Table{
			AdminUID:    adminUID,
			TableNumber: n,
			Status:      models.TableStatusVacant,
			OTP:         utils.GenerateTableCode(),
		}
		if err := ts.DB.Create(&table).Error; err != nil {
			return err
		}
	}
	return nil
}

// Sync grows the registry like Initialize and removes tables numbered above
// newCount. The caller must have verified no table is occupied before
// shrinking; the registry itself does not re-check.
func (ts *TableService) Sync(adminUID string, newCount int) error {
	if err := ts.Initialize(adminUID, newCount); err != nil {
		return err
	}
	return ts.DB.
		Where("admin_uid = ? AND table_number > ?", adminUID, newCount).
		Delete(&models.Table{}).Error
}

// HasOccupiedTables reports whether any of the tenant's tables is non-vacant.
func (ts *TableService) HasOccupiedTables(adminUID string) (bool, error) {
	var count int64
	err := ts.DB.Model(&models.Table{}).
		Where("admin_uid = ? AND status != ?", adminUID, models.TableStatusVacant).
		Count(&count).Error
	return count > 0, err
}

// Reset forces the table vacant: session cleared, new code issued.
func (ts *TableService) Reset(table *models.Table) error {
	return ts.ResetTx(ts.DB, table)
}

// ResetTx is Reset running on the caller's transaction handle, so billing
// finalization can include the reset in its own transaction.
func (ts *TableService) ResetTx(tx *gorm.DB, table *models.Table) error {
	updates := map[string]interface{}{
		"status":            models.TableStatusVacant,
		"active_session_id": nil,
		"otp":               utils.GenerateTableCode(),
		"updated_at":        time.Now(),
	}
	if err := tx.Model(&models.Table{}).Where("id = ?", table.ID).Updates(updates).Error; err != nil {
		return err
	}
	table.Status = models.TableStatusVacant
	table.ActiveSessionID = nil
	table.OTP = updates["otp"].(string)
	return nil
}

// Cancel marks every active order on the table cancelled, then resets it.
// This is the only path that discards in-flight orders without billing them.
// Returns how many orders were cancelled.
func (ts *TableService) Cancel(table *models.Table) (int64, error) {
	var cancelled int64
	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("admin_uid = ? AND table_number = ? AND order_status = ?",
				table.AdminUID, table.TableNumber, models.OrderStatusActive).
			Updates(map[string]interface{}{
				"order_status": models.OrderStatusCancelled,
				"updated_at":   time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		cancelled = res.RowsAffected
		return ts.ResetTx(tx, table)
	})
	return cancelled, err
}

// RegenerateCode issues a new code without touching occupancy. The caller
// enforces that the table is vacant.
func (ts *TableService) RegenerateCode(table *models.Table) error {
	code := utils.GenerateTableCode()
	if err := ts.DB.Model(&models.Table{}).Where("id = ?", table.ID).
		Update("otp", code).Error; err != nil {
		return err
	}
	table.OTP = code
	return nil
}
