package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/events"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// PlaceOrder creates an order from the customer's cart. Each line snapshots
// the menu item's name and price at placement time. As a side effect the
// table is bound (or re-bound) to the supplied session: placing an order is
// itself enough to start or continue a visit.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		AdminUID    string `json:"admin_uid" binding:"required"`
		SessionID   string `json:"session_id" binding:"required"`
		TableNumber int    `json:"table_number" binding:"required,gt=0"`
		Items       []struct {
			MenuItemID uint `json:"menu_item_id" binding:"required"`
			Quantity   int  `json:"quantity" binding:"required,gt=0"`
		} `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	var table models.Table
	if err := oc.DB.Where("admin_uid = ? AND table_number = ?",
		req.AdminUID, req.TableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	order := models.Order{
		AdminUID:    req.AdminUID,
		TableNumber: req.TableNumber,
		SessionID:   req.SessionID,
		OrderStatus: models.OrderStatusActive,
	}

	for _, line := range req.Items {
		var menuItem models.MenuItem
		if err := oc.DB.Where("admin_uid = ?", req.AdminUID).
			First(&menuItem, line.MenuItemID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
			Status:     models.ItemStatusPending,
		})
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).Where("id = ?", table.ID).
			Updates(map[string]interface{}{
				"status":            models.TableStatusActive,
				"active_session_id": req.SessionID,
				"updated_at":        time.Now(),
			}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCreated(order)
	utils.InfoLogger.Printf("Order %d placed: table %d, %d items (%s)",
		order.ID, order.TableNumber, len(order.Items), order.AdminUID)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrders -> the tenant's orders, optionally narrowed by status,
// session_id or table_number query parameters.
func (oc *OrderController) GetOrders(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	query := oc.DB.Preload("Items").Where("admin_uid = ?", adminUID)

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order status"))
			return
		}
		query = query.Where("order_status = ?", status)
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if tableStr := c.Query("table_number"); tableStr != "" {
		tableNumber, err := strconv.Atoi(tableStr)
		if err != nil || tableNumber <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table number"))
			return
		}
		query = query.Where("table_number = ?", tableNumber)
	}

	var orders []models.Order
	if err := query.Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetSessionOrders is the public read customers poll to follow their own
// orders' progress.
func (oc *OrderController) GetSessionOrders(c *gin.Context) {
	adminUID := c.Query("admin_uid")
	sessionID := c.Query("session_id")
	if adminUID == "" || sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("admin_uid and session_id are required"))
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("admin_uid = ? AND session_id = ?", adminUID, sessionID).
		Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

// UpdateItemStatus sets one line item's status by its position in the order.
// Only enum membership is checked; the admin UI shapes the practical path
// pending -> accepted -> processing -> completed (or rejected).
func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	orderID := c.Param("order_id")

	itemIndex, err := strconv.Atoi(c.Param("item_index"))
	if err != nil || itemIndex < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item index"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}
	if !models.ValidItemStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item status"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id asc")
	}).Where("admin_uid = ?", adminUID).First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if itemIndex >= len(order.Items) {
		utils.RespondError(c, http.StatusNotFound, errors.New("item index out of range"))
		return
	}

	item := order.Items[itemIndex]
	if err := oc.DB.Model(&models.OrderItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"updated_at": time.Now(),
		}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	item.Status = req.Status

	events.BroadcastOrderItemUpdate(order, item)
	utils.RespondJSON(c, http.StatusOK, "Item status updated", item)
}

// UpdateOrderStatus is the direct override used by billing (completed) and
// cancellation (cancelled).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order status"))
		return
	}

	var order models.Order
	if err := oc.DB.Where("admin_uid = ?", adminUID).First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	order.OrderStatus = req.Status
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderStatusUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
