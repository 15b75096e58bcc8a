package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	gameControllers "github.com/arcadia-soft/gamestore-api/controllers/game"
	reviewControllers "github.com/arcadia-soft/gamestore-api/controllers/review"
	"github.com/arcadia-soft/gamestore-api/middleware"
)

func SetupGameRoutes(r *gin.Engine, db *gorm.DB) {
	games := r.Group("/games")
	{
		games.GET("/", gameControllers.GetGames(db))
		games.GET("/:id", gameControllers.GetGameByID(db))
		games.GET("/:id/reviews", reviewControllers.ListGameReviewsHandler(db))

		games.POST("/:id/reviews", middleware.ValidateToken, reviewControllers.CreateReviewHandler(db))
	}
}
