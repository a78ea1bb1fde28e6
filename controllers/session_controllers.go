package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

type SessionController struct {
	DB       *gorm.DB
	Sessions *services.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:       db,
		Sessions: services.NewSessionService(db),
	}
}

// JoinTable binds a customer visit to a table: the public entry point,
// gated by the table's 4-digit code.
func (sc *SessionController) JoinTable(c *gin.Context) {
	var req struct {
		AdminUID    string `json:"admin_uid" binding:"required"`
		TableNumber int    `json:"table_number" binding:"required,gt=0"`
		Code        string `json:"code" binding:"required,len=4,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	sessionID, existing, err := sc.Sessions.Join(req.AdminUID, req.TableNumber, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidCode):
			utils.RespondError(c, http.StatusUnauthorized, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session joined", gin.H{
		"session_id":          sessionID,
		"is_existing_session": existing,
	})
}

// ValidateSession is the poll endpoint a customer uses to detect that staff
// reset the table underneath them. Inputs come as query parameters.
func (sc *SessionController) ValidateSession(c *gin.Context) {
	adminUID := c.Query("admin_uid")
	sessionID := c.Query("session_id")
	tableNumberStr := c.Query("table_number")

	tableNumber, err := strconv.Atoi(tableNumberStr)
	if adminUID == "" || sessionID == "" || err != nil || tableNumber <= 0 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("admin_uid, table_number and session_id are required"))
		return
	}

	valid, status, err := sc.Sessions.Validate(adminUID, tableNumber, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	data := gin.H{"valid": valid}
	if valid {
		data["table_status"] = status
	}
	utils.RespondJSON(c, http.StatusOK, "Session validity", data)
}
