package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// POST /games/:id/reviews
// Any authenticated user may review a game, one review per user per
// game. Purchase history is deliberately not checked.
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var game models.Game
		if err := db.First(&game, "id = ?", uint(gameID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
			return
		}

		review := models.Review{
			GameID:  uint(gameID),
			UserID:  c.GetString("user_id"),
			Rating:  input.Rating,
			Comment: input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this game"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GET /games/:id/reviews
func ListGameReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}

		var reviews []models.Review
		if err := db.
			Preload("User").
			Where("game_id = ?", uint(gameID)).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		var avgRating float64
		if len(reviews) > 0 {
			row := db.Model(&models.Review{}).
				Where("game_id = ?", uint(gameID)).
				Select("AVG(rating)").
				Row()
			if err := row.Scan(&avgRating); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews":        reviews,
			"average_rating": avgRating,
			"count":          len(reviews),
		})
	}
}
