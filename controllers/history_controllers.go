package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/services"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

type HistoryController struct {
	DB      *gorm.DB
	service *services.HistoryService
}

func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{
		DB:      db,
		service: services.NewHistoryService(db),
	}
}

// GetSessionHistory -> history poin untuk satu sesi meja (guest key).
// Endpoint informasional: tidak pernah error, degradasi ke history kosong.
func (hc *HistoryController) GetSessionHistory(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	tableNumber := c.Query("table_number")
	if restaurantID == "" || tableNumber == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant_id and table_number are required"))
		return
	}

	result := hc.service.SessionHistory(restaurantID, tableNumber)
	utils.RespondJSON(c, http.StatusOK, "Session history", result)
}

// GetEmailHistory -> gabungan ledger dan semua order untuk satu email
func (hc *HistoryController) GetEmailHistory(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("email is required"))
		return
	}

	result := hc.service.EmailHistory(email)
	utils.RespondJSON(c, http.StatusOK, "Email history", result)
}
