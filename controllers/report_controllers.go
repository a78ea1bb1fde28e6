package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

// ReportController reads the sales archive. Everything here is read-only.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// GetTodaySales -> total and bill count for the current calendar day.
func (rc *ReportController) GetTodaySales(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var result struct {
		TotalSales float64 `json:"total_sales"`
		BillCount  int64   `json:"bill_count"`
	}

	if err := rc.DB.Model(&models.SalesHistory{}).
		Where("admin_uid = ? AND created_at >= ?", adminUID, startOfDay).
		Count(&result.BillCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.DB.Model(&models.SalesHistory{}).
		Where("admin_uid = ? AND created_at >= ?", adminUID, startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalSales)
	result.TotalSales = utils.Round2(result.TotalSales)

	utils.RespondJSON(c, http.StatusOK, "Today's sales", result)
}

// GetSalesRange -> sales history between from and to (inclusive),
// dates as YYYY-MM-DD query parameters.
func (rc *ReportController) GetSalesRange(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid from date, want YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid to date, want YYYY-MM-DD"))
		return
	}
	end := to.AddDate(0, 0, 1)

	var records []models.SalesHistory
	if err := rc.DB.Preload("Items").
		Where("admin_uid = ? AND created_at >= ? AND created_at < ?", adminUID, from, end).
		Order("created_at asc").Find(&records).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, r := range records {
		total += r.TotalAmount
	}

	utils.RespondJSON(c, http.StatusOK, "Sales in range", gin.H{
		"total_sales": utils.Round2(total),
		"bill_count":  len(records),
		"records":     records,
	})
}
