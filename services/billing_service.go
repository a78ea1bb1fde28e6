package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

var (
	ErrBillNotFound     = errors.New("bill not found")
	ErrBillAlreadyFinal = errors.New("bill is already finalized")
)

// BillLine is one merged billable line handed to Generate. The caller has
// already filtered items to accepted/processing/completed and merged
// identical menu items across the session's orders.
type BillLine struct {
	MenuItemID uint
	Name       string
	Price      float64
	Quantity   int
}

// BillingService computes bill snapshots and runs the finalize cascade.
type BillingService struct {
	DB     *gorm.DB
	Tables *TableService
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db, Tables: NewTableService(db)}
}

// Generate computes the bill arithmetic, mints the next bill number and
// persists a draft. The table moves to billing; occupancy and session are
// retained. Regenerating for the same session simply supersedes the earlier
// draft with a newer one.
func (bs *BillingService) Generate(adminUID, sessionID string, tableNumber int,
	lines []BillLine, discountPct, serviceChargePct float64, paymentMode string) (*models.Bill, error) {

	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price * float64(l.Quantity)
	}
	subtotal = utils.Round2(subtotal)
	discountAmount := utils.Round2(subtotal * discountPct / 100)
	afterDiscount := subtotal - discountAmount
	serviceChargeAmount := utils.Round2(afterDiscount * serviceChargePct / 100)
	total := utils.Round2(afterDiscount + serviceChargeAmount)

	bill := models.Bill{
		AdminUID:            adminUID,
		TableNumber:         tableNumber,
		SessionID:           sessionID,
		Subtotal:            subtotal,
		DiscountPct:         discountPct,
		DiscountAmount:      discountAmount,
		ServiceChargePct:    serviceChargePct,
		ServiceChargeAmount: serviceChargeAmount,
		Total:               total,
		PaymentMode:         paymentMode,
		IsFinal:             false,
	}

	err := bs.DB.Transaction(func(tx *gorm.DB) error {
		number, err := bs.nextBillNumber(tx, adminUID)
		if err != nil {
			return err
		}
		bill.BillNumber = number

		for _, l := range lines {
			bill.Items = append(bill.Items, models.BillItem{
				MenuItemID: l.MenuItemID,
				Name:       l.Name,
				Price:      l.Price,
				Quantity:   l.Quantity,
			})
		}
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}

		return tx.Model(&models.Table{}).
			Where("admin_uid = ? AND table_number = ?", adminUID, tableNumber).
			Updates(map[string]interface{}{
				"status":     models.TableStatusBilling,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// nextBillNumber increments the tenant's sequence atomically in place, so
// two concurrent generates cannot mint the same number. The date segment is
// informational; the counter never resets.
func (bs *BillingService) nextBillNumber(tx *gorm.DB, adminUID string) (string, error) {
	res := tx.Model(&models.BillSequence{}).
		Where("admin_uid = ?", adminUID).
		UpdateColumn("seq", gorm.Expr("seq + 1"))
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		row := models.BillSequence{AdminUID: adminUID, Seq: 1}
		if err := tx.Create(&row).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("BILL-%s-0001", time.Now().Format("20060102")), nil
	}

	var seq models.BillSequence
	if err := tx.Where("admin_uid = ?", adminUID).First(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("BILL-%s-%04d", time.Now().Format("20060102"), seq.Seq), nil
}

// Finalize closes a bill: final flag, one sales-history record, the
// session's orders completed, and the table reset. The four steps run in one
// transaction so a crash cannot leave them half-applied.
func (bs *BillingService) Finalize(adminUID string, billID uint) (*models.Bill, error) {
	var bill models.Bill

	err := bs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("admin_uid = ?", adminUID).
			First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBillNotFound
			}
			return err
		}

		if bill.IsFinal {
			return ErrBillAlreadyFinal
		}

		if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
			Update("is_final", true).Error; err != nil {
			return err
		}
		bill.IsFinal = true

		history := models.SalesHistory{
			AdminUID:    bill.AdminUID,
			BillID:      bill.ID,
			BillNumber:  bill.BillNumber,
			TotalAmount: bill.Total,
		}
		for _, item := range bill.Items {
			history.Items = append(history.Items, models.SalesItem{
				Name:     item.Name,
				Price:    item.Price,
				Quantity: item.Quantity,
			})
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Order{}).
			Where("admin_uid = ? AND session_id = ?", bill.AdminUID, bill.SessionID).
			Updates(map[string]interface{}{
				"order_status": models.OrderStatusCompleted,
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}

		var table models.Table
		if err := tx.Where("admin_uid = ? AND table_number = ?",
			bill.AdminUID, bill.TableNumber).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		return bs.Tables.ResetTx(tx, &table)
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
