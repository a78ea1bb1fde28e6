package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/events"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		DB:     db,
		Tables: services.NewTableService(db),
	}
}

// findOwnedTable loads a table by id scoped to the requesting tenant. A table
// that exists but belongs elsewhere looks identical to one that does not
// exist.
func (tc *TableController) findOwnedTable(c *gin.Context) (*models.Table, bool) {
	adminUID := c.GetString("admin_uid")
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("admin_uid = ?", adminUID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return nil, false
	}
	return &table, true
}

// GetAllTables -> the tenant's tables with status and current code.
func (tc *TableController) GetAllTables(c *gin.Context) {
	adminUID := c.GetString("admin_uid")

	var tables []models.Table
	if err := tc.DB.Where("admin_uid = ?", adminUID).
		Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// ResetTable forces a table vacant with a fresh code.
func (tc *TableController) ResetTable(c *gin.Context) {
	table, ok := tc.findOwnedTable(c)
	if !ok {
		return
	}

	if err := tc.Tables.Reset(table); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(*table)
	utils.InfoLogger.Printf("Table %d reset by %s", table.TableNumber, table.AdminUID)
	utils.RespondJSON(c, http.StatusOK, "Table reset", table)
}

// CancelTable discards the table's in-flight orders and resets it.
func (tc *TableController) CancelTable(c *gin.Context) {
	table, ok := tc.findOwnedTable(c)
	if !ok {
		return
	}

	cancelled, err := tc.Tables.Cancel(table)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(*table)
	utils.InfoLogger.Printf("Table %d cancelled (%d orders) by %s",
		table.TableNumber, cancelled, table.AdminUID)
	utils.RespondJSON(c, http.StatusOK, "Table cancelled", gin.H{
		"table":            table,
		"cancelled_orders": cancelled,
	})
}

// RegenerateCode issues a new access code. Only permitted while the table is
// vacant; an occupied table keeps its code until reset.
func (tc *TableController) RegenerateCode(c *gin.Context) {
	table, ok := tc.findOwnedTable(c)
	if !ok {
		return
	}

	if table.Status != models.TableStatusVacant {
		utils.RespondError(c, http.StatusConflict,
			errors.New("code can only be regenerated while the table is vacant"))
		return
	}

	if err := tc.Tables.RegenerateCode(table); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(*table)
	utils.RespondJSON(c, http.StatusOK, "Code regenerated", table)
}
