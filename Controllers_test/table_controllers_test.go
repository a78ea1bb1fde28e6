package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/controllers"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

func setupTestDBForTables(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatal(err)
	}
	return db
}

// authAs stands in for the auth middleware: it injects the tenant identity
// the controllers read from the context.
func authAs(adminUID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("admin_uid", adminUID)
		c.Next()
	}
}

func setupTableRouter(db *gorm.DB, adminUID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(authAs(adminUID))
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables/:table_id/reset", tableCtrl.ResetTable)
	router.POST("/tables/:table_id/cancel", tableCtrl.CancelTable)
	router.POST("/tables/:table_id/code", tableCtrl.RegenerateCode)
	return router
}

func TestInitializeCreatesExactlyOneTablePerNumber(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	ts := services.NewTableService(db)

	assert.NoError(t, ts.Initialize("demo", 10))
	// Second call must be a no-op for existing numbers.
	assert.NoError(t, ts.Initialize("demo", 10))

	for n := 1; n <= 10; n++ {
		var count int64
		db.Model(&models.Table{}).
			Where("admin_uid = ? AND table_number = ?", "demo", n).
			Count(&count)
		assert.Equal(t, int64(1), count, "table %d", n)
	}

	var tables []models.Table
	db.Where("admin_uid = ?", "demo").Find(&tables)
	for _, table := range tables {
		assert.Equal(t, models.TableStatusVacant, table.Status)
		assert.Nil(t, table.ActiveSessionID)
		assert.Len(t, table.OTP, 4)
	}
}

func TestSyncShrinkDeletesHighNumbers(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	ts := services.NewTableService(db)

	assert.NoError(t, ts.Initialize("demo", 8))
	assert.NoError(t, ts.Sync("demo", 5))

	var count int64
	db.Model(&models.Table{}).Where("admin_uid = ?", "demo").Count(&count)
	assert.Equal(t, int64(5), count)

	db.Model(&models.Table{}).
		Where("admin_uid = ? AND table_number > ?", "demo", 5).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestResetTableClearsSessionAndIssuesNewCode(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	session := "sess-test-1"
	table := models.Table{
		AdminUID:        "demo",
		TableNumber:     1,
		Status:          models.TableStatusActive,
		ActiveSessionID: &session,
		OTP:             "1234",
	}
	db.Create(&table)

	router := setupTableRouter(db, "demo")
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/reset", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Table
	db.First(&got, table.ID)
	assert.Equal(t, models.TableStatusVacant, got.Status)
	assert.Nil(t, got.ActiveSessionID)
	assert.NotEqual(t, "1234", got.OTP)
	assert.Len(t, got.OTP, 4)
}

func TestCancelTableCancelsActiveOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	session := "sess-cancel-1"
	table := models.Table{
		AdminUID:        "demo",
		TableNumber:     2,
		Status:          models.TableStatusActive,
		ActiveSessionID: &session,
		OTP:             "9876",
	}
	db.Create(&table)

	// Three active orders plus one already completed.
	for i := 0; i < 3; i++ {
		db.Create(&models.Order{
			AdminUID:    "demo",
			TableNumber: 2,
			SessionID:   session,
			OrderStatus: models.OrderStatusActive,
		})
	}
	db.Create(&models.Order{
		AdminUID:    "demo",
		TableNumber: 2,
		SessionID:   "sess-old",
		OrderStatus: models.OrderStatusCompleted,
	})

	router := setupTableRouter(db, "demo")
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/cancel", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["cancelled_orders"])

	var cancelled int64
	db.Model(&models.Order{}).
		Where("admin_uid = ? AND order_status = ?", "demo", models.OrderStatusCancelled).
		Count(&cancelled)
	assert.Equal(t, int64(3), cancelled)

	var got models.Table
	db.First(&got, table.ID)
	assert.Equal(t, models.TableStatusVacant, got.Status)
	assert.Nil(t, got.ActiveSessionID)
	assert.NotEqual(t, "9876", got.OTP)
}

func TestRegenerateCodeRefusedWhileOccupied(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	session := "sess-busy"
	table := models.Table{
		AdminUID:        "demo",
		TableNumber:     3,
		Status:          models.TableStatusActive,
		ActiveSessionID: &session,
		OTP:             "4444",
	}
	db.Create(&table)

	router := setupTableRouter(db, "demo")
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/code", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var got models.Table
	db.First(&got, table.ID)
	assert.Equal(t, "4444", got.OTP)
}

func TestRegenerateCodeWhileVacant(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{
		AdminUID:    "demo",
		TableNumber: 4,
		Status:      models.TableStatusVacant,
		OTP:         "5555",
	}
	db.Create(&table)

	router := setupTableRouter(db, "demo")
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/code", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Table
	db.First(&got, table.ID)
	assert.Len(t, got.OTP, 4)
	assert.Equal(t, models.TableStatusVacant, got.Status)
	assert.Nil(t, got.ActiveSessionID)
}

func TestTableNotVisibleAcrossTenants(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{
		AdminUID:    "other-tenant",
		TableNumber: 1,
		Status:      models.TableStatusVacant,
		OTP:         "0001",
	}
	db.Create(&table)

	router := setupTableRouter(db, "demo")
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/reset", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
