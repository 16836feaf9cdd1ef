package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/services"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

type FeedbackController struct {
	DB      *gorm.DB
	service *services.FeedbackService
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{
		DB:      db,
		service: services.NewFeedbackService(db),
	}
}

// SubmitFeedback -> customer memberi rating item order dan mendapat poin.
// Email caller bisa datang dari token auth atau body; keduanya opsional,
// tanpa email order jatuh ke guest key meja.
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	idStr := c.Param("order_id")
	orderID, err := strconv.Atoi(idStr)
	if err != nil || orderID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	type reqBody struct {
		Items         []services.ItemFeedback `json:"items" binding:"required"`
		CustomerEmail string                  `json:"customer_email"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	callerEmail := body.CustomerEmail
	if v, ok := c.Get("email"); ok {
		if email, ok := v.(string); ok && email != "" {
			callerEmail = email
		}
	}

	result, err := fc.service.SubmitFeedback(uint(orderID), body.Items, callerEmail)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrFeedbackAlreadySubmitted):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.Is(err, services.ErrInvalidFeedbackItem):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Feedback submitted", result)
}
