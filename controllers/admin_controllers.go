package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/services"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

type AdminController struct {
	DB        *gorm.DB
	migration *services.MigrationService
	claim     *services.ClaimService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		DB:        db,
		migration: services.NewMigrationService(db),
		claim:     services.NewClaimService(db),
	}
}

// BackfillIdentities -> operator memicu backfill guest identity.
// Idempoten, aman dipanggil berulang.
func (ac *AdminController) BackfillIdentities(c *gin.Context) {
	result, err := ac.migration.BackfillMissingIdentities()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Backfill completed", result)
}

// ClaimOrders -> merge identity guest ke customer asli
func (ac *AdminController) ClaimOrders(c *gin.Context) {
	type reqBody struct {
		TargetEmail string `json:"target_email" binding:"required"`
		GuestEmail  string `json:"guest_email" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ac.claim.ClaimOrders(body.TargetEmail, body.GuestEmail)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidClaimRequest):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrNoGuestOrders):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders claimed", result)
}
