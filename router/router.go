package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/controllers"
	"github.com/yeremiapane/restaurant-loyalty/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	feedbackCtrl := controllers.NewFeedbackController(db)
	historyCtrl := controllers.NewHistoryController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// -- CUSTOMER (tanpa login) --
	// Submit feedback; token opsional untuk membawa email caller
	feedback := r.Group("/")
	feedback.Use(middlewares.OptionalAuth())
	{
		feedback.POST("/orders/:order_id/feedback", feedbackCtrl.SubmitFeedback)
	}

	// History read-only
	r.GET("/history/session", historyCtrl.GetSessionHistory)
	r.GET("/history/email", historyCtrl.GetEmailHistory)

	// ----------------------------------------------------------------
	//                      OPERATOR ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.RequireAuth())

	admin.POST("/migrations/backfill", adminCtrl.BackfillIdentities)
	admin.POST("/claims", adminCtrl.ClaimOrders)

	return r
}
