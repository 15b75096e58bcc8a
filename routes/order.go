package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/arcadia-soft/gamestore-api/controllers/order"
	"github.com/arcadia-soft/gamestore-api/middleware"
	"github.com/arcadia-soft/gamestore-api/session"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, carts *session.Store) {
	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)

		authed := orders.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.POST("/checkout", orderControllers.CheckoutHandler(db, carts))
			authed.GET("/", orderControllers.GetMyOrdersHandler(db))
			authed.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
			authed.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(db))
		}
	}
}
