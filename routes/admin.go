package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	gameControllers "github.com/arcadia-soft/gamestore-api/controllers/game"
	orderControllers "github.com/arcadia-soft/gamestore-api/controllers/order"
	reportControllers "github.com/arcadia-soft/gamestore-api/controllers/report"
	"github.com/arcadia-soft/gamestore-api/middleware"
)

// SetupAdminRoutes registers manager-only endpoints: catalog management,
// order overview and sales reports.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireManager)
	{
		admin.POST("/games", gameControllers.CreateGame(db))
		admin.PUT("/games/:id", gameControllers.UpdateGame(db))
		admin.POST("/games/:id/restock", gameControllers.RestockGame(db))

		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))

		admin.GET("/reports/top-games", reportControllers.TopGamesHandler(db))
		admin.GET("/reports/weekly-sales", reportControllers.WeeklySalesHandler(db))
	}
}
