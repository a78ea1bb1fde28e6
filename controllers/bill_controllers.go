package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/events"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

type BillController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillController(db *gorm.DB) *BillController {
	return &BillController{
		DB:      db,
		Billing: services.NewBillingService(db),
	}
}

// GenerateBill computes a draft bill for a table's current session. The
// controller gathers the session's active orders, keeps only billable items
// (accepted/processing/completed) and merges identical menu items before
// handing the lines to the billing engine.
func (bc *BillController) GenerateBill(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var req struct {
		TableNumber      int     `json:"table_number" binding:"required,gt=0"`
		DiscountPct      float64 `json:"discount_pct" binding:"gte=0,lte=100"`
		ServiceChargePct float64 `json:"service_charge_pct" binding:"gte=0,lte=100"`
		PaymentMode      string  `json:"payment_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	var table models.Table
	if err := bc.DB.Where("admin_uid = ? AND table_number = ?",
		adminUID, req.TableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	if table.ActiveSessionID == nil {
		utils.RespondError(c, http.StatusConflict,
			errors.New("table has no active session to bill"))
		return
	}
	sessionID := *table.ActiveSessionID

	var orders []models.Order
	if err := bc.DB.Preload("Items").
		Where("admin_uid = ? AND table_number = ? AND session_id = ? AND order_status = ?",
			adminUID, req.TableNumber, sessionID, models.OrderStatusActive).
		Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines := mergeBillableItems(orders)

	bill, err := bc.Billing.Generate(adminUID, sessionID, req.TableNumber,
		lines, req.DiscountPct, req.ServiceChargePct, req.PaymentMode)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastBillGenerated(*bill)
	utils.InfoLogger.Printf("Bill %s generated for table %d (%s)",
		bill.BillNumber, bill.TableNumber, adminUID)
	utils.RespondJSON(c, http.StatusCreated, "Bill generated", bill)
}

// mergeBillableItems flattens the session's orders into billable lines,
// summing quantities of the same menu item across orders.
func mergeBillableItems(orders []models.Order) []services.BillLine {
	var lines []services.BillLine
	index := make(map[uint]int)

	for _, order := range orders {
		for _, item := range order.Items {
			if !item.Billable() {
				continue
			}
			if pos, seen := index[item.MenuItemID]; seen {
				lines[pos].Quantity += item.Quantity
				continue
			}
			index[item.MenuItemID] = len(lines)
			lines = append(lines, services.BillLine{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Price:      item.Price,
				Quantity:   item.Quantity,
			})
		}
	}
	return lines
}

// FinalizeBill closes the bill: archives it to sales history, completes the
// session's orders and frees the table. Irreversible; a second call gets 409.
func (bc *BillController) FinalizeBill(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	billID, err := strconv.Atoi(c.Param("bill_id"))
	if err != nil || billID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid bill id"))
		return
	}

	bill, err := bc.Billing.Finalize(adminUID, uint(billID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBillNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrBillAlreadyFinal):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	events.BroadcastBillFinalized(*bill)
	utils.InfoLogger.Printf("Bill %s finalized (%s)", bill.BillNumber, adminUID)
	utils.RespondJSON(c, http.StatusOK, "Bill finalized", bill)
}

// GetBills -> the tenant's bills, optionally only finalized or only drafts.
func (bc *BillController) GetBills(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	query := bc.DB.Preload("Items").Where("admin_uid = ?", adminUID)
	if finalStr := c.Query("is_final"); finalStr != "" {
		isFinal, err := strconv.ParseBool(finalStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid is_final value"))
			return
		}
		query = query.Where("is_final = ?", isFinal)
	}

	var bills []models.Bill
	if err := query.Order("created_at desc").Find(&bills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bills", bills)
}

// GetBillByID -> one bill with its snapshot lines.
func (bc *BillController) GetBillByID(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	billID := c.Param("bill_id")

	var bill models.Bill
	if err := bc.DB.Preload("Items").
		Where("admin_uid = ?", adminUID).First(&bill, billID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("bill not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}
