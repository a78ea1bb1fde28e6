package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

type RestaurantController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{
		DB:     db,
		Tables: services.NewTableService(db),
	}
}

// Register onboards a tenant and initializes its tables 1..table_count.
func (rc *RestaurantController) Register(c *gin.Context) {
	var req struct {
		AdminUID   string `json:"admin_uid" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=8"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		TableCount int    `json:"table_count" binding:"required,gte=1"`
		PaymentID  string `json:"payment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	var count int64
	rc.DB.Model(&models.Restaurant{}).
		Where("admin_uid = ? OR email = ?", req.AdminUID, req.Email).
		Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("identifier or email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	restaurant := models.Restaurant{
		AdminUID:   req.AdminUID,
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashed),
		Phone:      req.Phone,
		Address:    req.Address,
		Role:       models.RoleAdmin,
		TableCount: req.TableCount,
		PaymentID:  req.PaymentID,
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := rc.Tables.Initialize(restaurant.AdminUID, restaurant.TableCount); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant registered: %s (%d tables)",
		restaurant.AdminUID, restaurant.TableCount)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant registered", gin.H{
		"admin_uid": restaurant.AdminUID,
	})
}

// Login -> return JWT
func (rc *RestaurantController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.Where("email = ?", input.Email).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(restaurant.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(restaurant.AdminUID, restaurant.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful: %s", restaurant.AdminUID)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"admin_uid": restaurant.AdminUID,
		"role":      restaurant.Role,
	})
}

// Logout revokes the presented token until its natural expiry.
func (rc *RestaurantController) Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	adminUID := c.GetString("admin_uid")

	expiresAt := time.Now().Add(24 * time.Hour)
	if v, exists := c.Get("token_expires_at"); exists {
		if t, ok := v.(time.Time); ok {
			expiresAt = t
		}
	}

	if err := utils.BlacklistToken(rc.DB, tokenString, adminUID, expiresAt); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated tenant's record.
func (rc *RestaurantController) GetProfile(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var restaurant models.Restaurant
	if err := rc.DB.Where("admin_uid = ?", adminUID).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data", restaurant)
}

// UpdateSettings updates contact/payment fields. Changing table_count syncs
// the table registry and is refused while any table is occupied, so a shrink
// can never delete a table with customers at it.
func (rc *RestaurantController) UpdateSettings(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var req struct {
		Name       *string `json:"name"`
		Phone      *string `json:"phone"`
		Address    *string `json:"address"`
		PaymentID  *string `json:"payment_id"`
		TableCount *int    `json:"table_count" binding:"omitempty,gte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.Where("admin_uid = ?", adminUID).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.TableCount != nil && *req.TableCount != restaurant.TableCount {
		occupied, err := rc.Tables.HasOccupiedTables(adminUID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if occupied {
			utils.RespondError(c, http.StatusConflict,
				errors.New("cannot change table count while tables are occupied"))
			return
		}
		if err := rc.Tables.Sync(adminUID, *req.TableCount); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		restaurant.TableCount = *req.TableCount
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.PaymentID != nil {
		restaurant.PaymentID = *req.PaymentID
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Settings updated", restaurant)
}

// GetAllRestaurants -> superadmin only (router enforces the role).
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All restaurants", restaurants)
}

// DeleteRestaurant removes a tenant and everything it owns in one
// transaction.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	adminUID := c.Param("admin_uid")

	var restaurant models.Restaurant
	if err := rc.DB.Where("admin_uid = ?", adminUID).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		tx.Model(&models.Order{}).Where("admin_uid = ?", adminUID).Pluck("id", &orderIDs)
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}

		var billIDs []uint
		tx.Model(&models.Bill{}).Where("admin_uid = ?", adminUID).Pluck("id", &billIDs)
		if len(billIDs) > 0 {
			if err := tx.Where("bill_id IN ?", billIDs).Delete(&models.BillItem{}).Error; err != nil {
				return err
			}
		}

		var historyIDs []uint
		tx.Model(&models.SalesHistory{}).Where("admin_uid = ?", adminUID).Pluck("id", &historyIDs)
		if len(historyIDs) > 0 {
			if err := tx.Where("sales_history_id IN ?", historyIDs).Delete(&models.SalesItem{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&models.Order{}, &models.Bill{}, &models.SalesHistory{},
			&models.Table{}, &models.MenuItem{}, &models.AuthToken{},
			&models.BillSequence{},
		} {
			if err := tx.Where("admin_uid = ?", adminUID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %s deleted with all owned data", adminUID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"admin_uid": adminUID})
}
