package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/arcadia-soft/gamestore-api/controllers/payment"
	"github.com/arcadia-soft/gamestore-api/middleware"
	"github.com/arcadia-soft/gamestore-api/notify"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, notifier notify.Notifier) {
	payments := r.Group("/payments")
	{
		// Confirmation link target is public; the payment code gates it.
		payments.GET("/confirm", paymentControllers.ConfirmPaymentHandler(db, notifier))

		payments.POST("/:orderID/initiate", middleware.ValidateToken,
			paymentControllers.InitiatePaymentHandler(db, notifier))
	}
}
