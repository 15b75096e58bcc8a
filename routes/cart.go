package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/arcadia-soft/gamestore-api/controllers/cart"
	"github.com/arcadia-soft/gamestore-api/middleware"
	"github.com/arcadia-soft/gamestore-api/session"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB, carts *session.Store) {
	cart := r.Group("/cart")
	cart.Use(middleware.ResolveSession)
	{
		cart.GET("/", cartControllers.GetCartHandler(db, carts))
		cart.POST("/", cartControllers.AddItemHandler(db, carts))
		cart.PUT("/:game_id", cartControllers.SetQuantityHandler(db, carts))
		cart.DELETE("/:game_id", cartControllers.RemoveItemHandler(carts))
		cart.DELETE("/", cartControllers.ClearCartHandler(carts))
	}
}
