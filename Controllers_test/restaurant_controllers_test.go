package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/controllers"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

func setupTestDBForRestaurants(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Restaurant{}, &models.Table{},
		&models.Order{}, &models.OrderItem{})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func setupRestaurantRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	restaurantCtrl := controllers.NewRestaurantController(db)
	router.POST("/register", restaurantCtrl.Register)
	router.POST("/login", restaurantCtrl.Login)

	admin := router.Group("/admin")
	admin.Use(authAs("demo"))
	admin.GET("/profile", restaurantCtrl.GetProfile)
	admin.PATCH("/settings", restaurantCtrl.UpdateSettings)
	return router
}

func registerDemo(t *testing.T, router *gin.Engine, tableCount int) {
	payload, _ := json.Marshal(map[string]interface{}{
		"admin_uid":   "demo",
		"name":        "Demo Diner",
		"email":       "demo@example.com",
		"password":    "secret123",
		"table_count": tableCount,
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterInitializesTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRestaurants(t)
	router := setupRestaurantRouter(db)

	registerDemo(t, router, 10)

	var count int64
	db.Model(&models.Table{}).Where("admin_uid = ?", "demo").Count(&count)
	assert.Equal(t, int64(10), count)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRestaurants(t)
	router := setupRestaurantRouter(db)

	registerDemo(t, router, 3)

	payload, _ := json.Marshal(map[string]interface{}{
		"admin_uid":   "demo",
		"name":        "Copycat",
		"email":       "copy@example.com",
		"password":    "secret123",
		"table_count": 2,
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRestaurants(t)
	router := setupRestaurantRouter(db)

	registerDemo(t, router, 2)

	payload, _ := json.Marshal(map[string]string{
		"email":    "demo@example.com",
		"password": "secret123",
	})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "demo", data["admin_uid"])

	// Wrong password is rejected without detail.
	payload, _ = json.Marshal(map[string]string{
		"email":    "demo@example.com",
		"password": "wrong-password",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTableCountChangeRefusedWhileOccupied(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRestaurants(t)
	router := setupRestaurantRouter(db)

	registerDemo(t, router, 5)

	session := "sess-settings-1"
	db.Model(&models.Table{}).
		Where("admin_uid = ? AND table_number = ?", "demo", 2).
		Updates(map[string]interface{}{
			"status":            models.TableStatusActive,
			"active_session_id": session,
		})

	payload, _ := json.Marshal(map[string]interface{}{"table_count": 3})
	req, _ := http.NewRequest("PATCH", "/admin/settings", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The occupied table must still exist.
	var count int64
	db.Model(&models.Table{}).Where("admin_uid = ?", "demo").Count(&count)
	assert.Equal(t, int64(5), count)
}

func TestTableCountSyncWhenAllVacant(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRestaurants(t)
	router := setupRestaurantRouter(db)

	registerDemo(t, router, 5)

	payload, _ := json.Marshal(map[string]interface{}{"table_count": 8})
	req, _ := http.NewRequest("PATCH", "/admin/settings", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Where("admin_uid = ?", "demo").Count(&count)
	assert.Equal(t, int64(8), count)

	var restaurant models.Restaurant
	db.Where("admin_uid = ?", "demo").First(&restaurant)
	assert.Equal(t, 8, restaurant.TableCount)
}
