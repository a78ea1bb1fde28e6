package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/controllers"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

func setupTestDBForBills(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Table{}, &models.Order{}, &models.OrderItem{},
		&models.Bill{}, &models.BillItem{}, &models.SalesHistory{},
		&models.SalesItem{}, &models.BillSequence{})
	if err != nil {
		t.Fatal(err)
	}

	session := "sess-bill-1"
	db.Create(&models.Table{
		AdminUID:        "demo",
		TableNumber:     5,
		Status:          models.TableStatusActive,
		ActiveSessionID: &session,
		OTP:             "3141",
	})

	// One order with an accepted, a completed and a rejected line. Only the
	// first two are billable.
	db.Create(&models.Order{
		AdminUID:    "demo",
		TableNumber: 5,
		SessionID:   session,
		OrderStatus: models.OrderStatusActive,
		Items: []models.OrderItem{
			{MenuItemID: 1, Name: "Item A", Price: 100.00, Quantity: 2, Status: models.ItemStatusAccepted},
			{MenuItemID: 2, Name: "Item B", Price: 50.00, Quantity: 1, Status: models.ItemStatusCompleted},
			{MenuItemID: 3, Name: "Item C", Price: 75.00, Quantity: 4, Status: models.ItemStatusRejected},
		},
	})
	return db
}

func setupBillRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(authAs("demo"))
	billCtrl := controllers.NewBillController(db)
	router.POST("/bills", billCtrl.GenerateBill)
	router.POST("/bills/:bill_id/finalize", billCtrl.FinalizeBill)
	router.GET("/bills/:bill_id", billCtrl.GetBillByID)
	return router
}

func generateBill(t *testing.T, router *gin.Engine, discount, serviceCharge float64) map[string]interface{} {
	payload := map[string]interface{}{
		"table_number":       5,
		"discount_pct":       discount,
		"service_charge_pct": serviceCharge,
		"payment_mode":       "cash",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/bills", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func TestGenerateBillArithmetic(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBills(t)
	router := setupBillRouter(db)

	// 2 x 100.00 + 1 x 50.00 = 250.00; 10% discount, 5% service charge.
	data := generateBill(t, router, 10, 5)

	assert.InDelta(t, 250.00, data["subtotal"].(float64), 0.001)
	assert.InDelta(t, 25.00, data["discount_amount"].(float64), 0.001)
	assert.InDelta(t, 11.25, data["service_charge_amount"].(float64), 0.001)
	assert.InDelta(t, 236.25, data["total"].(float64), 0.001)
	assert.Equal(t, false, data["is_final"])

	// Rejected items never reach the bill.
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)

	// Generating a bill moves the table to billing, session retained.
	var table models.Table
	db.Where("admin_uid = ? AND table_number = ?", "demo", 5).First(&table)
	assert.Equal(t, models.TableStatusBilling, table.Status)
	assert.NotNil(t, table.ActiveSessionID)
}

func TestBillNumberFormatAndSequence(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBills(t)
	router := setupBillRouter(db)

	first := generateBill(t, router, 0, 0)
	second := generateBill(t, router, 0, 0)

	pattern := regexp.MustCompile(`^BILL-\d{8}-\d{4}$`)
	assert.Regexp(t, pattern, first["bill_number"])
	assert.Regexp(t, pattern, second["bill_number"])

	// The per-tenant counter is monotonic, not daily.
	assert.Contains(t, first["bill_number"], "-0001")
	assert.Contains(t, second["bill_number"], "-0002")
}

func TestFinalizeCascadesAndIsNotRepeatable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBills(t)
	router := setupBillRouter(db)

	data := generateBill(t, router, 10, 5)
	billID := int(data["id"].(float64))

	req, _ := http.NewRequest("POST", fmt.Sprintf("/bills/%d/finalize", billID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bill is final, archived once, orders completed, table reset.
	var bill models.Bill
	db.First(&bill, billID)
	assert.True(t, bill.IsFinal)

	var historyCount int64
	db.Model(&models.SalesHistory{}).Where("bill_id = ?", billID).Count(&historyCount)
	assert.Equal(t, int64(1), historyCount)

	var history models.SalesHistory
	db.Preload("Items").Where("bill_id = ?", billID).First(&history)
	assert.InDelta(t, 236.25, history.TotalAmount, 0.001)
	assert.Len(t, history.Items, 2)

	var activeOrders int64
	db.Model(&models.Order{}).
		Where("admin_uid = ? AND session_id = ? AND order_status = ?",
			"demo", "sess-bill-1", models.OrderStatusActive).
		Count(&activeOrders)
	assert.Equal(t, int64(0), activeOrders)

	var table models.Table
	db.Where("admin_uid = ? AND table_number = ?", "demo", 5).First(&table)
	assert.Equal(t, models.TableStatusVacant, table.Status)
	assert.Nil(t, table.ActiveSessionID)
	assert.NotEqual(t, "3141", table.OTP)

	// Second finalize conflicts and must not double-write the archive.
	req, _ = http.NewRequest("POST", fmt.Sprintf("/bills/%d/finalize", billID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	db.Model(&models.SalesHistory{}).Where("bill_id = ?", billID).Count(&historyCount)
	assert.Equal(t, int64(1), historyCount)
}

func TestGenerateBillRequiresActiveSession(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBills(t)
	router := setupBillRouter(db)

	db.Create(&models.Table{
		AdminUID:    "demo",
		TableNumber: 6,
		Status:      models.TableStatusVacant,
		OTP:         "2718",
	})

	payload, _ := json.Marshal(map[string]interface{}{
		"table_number": 6,
		"payment_mode": "cash",
	})
	req, _ := http.NewRequest("POST", "/bills", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
