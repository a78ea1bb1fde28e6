package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetPublicMenu -> the customer-facing menu for one tenant, available items only.
func (mc *MenuController) GetPublicMenu(c *gin.Context) {
	adminUID := c.Param("admin_uid")

	var items []models.MenuItem
	if err := mc.DB.Where("admin_uid = ? AND available = ?", adminUID, true).
		Order("category asc, name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", items)
}

// GetAllMenuItems -> admin view including unavailable items.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var items []models.MenuItem
	if err := mc.DB.Where("admin_uid = ?", adminUID).
		Order("category asc, name asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var req struct {
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price" binding:"required,gt=0"`
		Category  string  `json:"category"`
		Available *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	item := models.MenuItem{
		AdminUID:  adminUID,
		Name:      req.Name,
		Price:     utils.Round2(req.Price),
		Category:  req.Category,
		Available: true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (%s)", item.Name, adminUID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	itemID := c.Param("item_id")

	var item models.MenuItem
	if err := mc.DB.Where("admin_uid = ?", adminUID).First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var req struct {
		Name      *string  `json:"name"`
		Price     *float64 `json:"price" binding:"omitempty,gt=0"`
		Category  *string  `json:"category"`
		Available *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = utils.Round2(*req.Price)
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	itemID := c.Param("item_id")

	var item models.MenuItem
	if err := mc.DB.Where("admin_uid = ?", adminUID).First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": item.ID})
}
