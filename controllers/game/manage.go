package gameControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
)

type GameInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	GenreID     uint            `json:"genre_id" binding:"required"`
	TagIDs      []uint          `json:"tag_ids"`
}

type RestockInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// POST /admin/games
func CreateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input GameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var tags []models.Tag
		if len(input.TagIDs) > 0 {
			if err := db.Find(&tags, input.TagIDs).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tags"})
				return
			}
		}

		game := models.Game{
			Title:       input.Title,
			Description: input.Description,
			Price:       input.Price,
			Quantity:    input.Quantity,
			GenreID:     input.GenreID,
			Tags:        tags,
		}
		if err := db.Create(&game).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
			return
		}
		c.JSON(http.StatusCreated, game)
	}
}

// PUT /admin/games/:id
func UpdateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}
		var input GameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var game models.Game
		if err := db.First(&game, "id = ?", uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
			return
		}

		// Stock is intentionally not updated here: restock has its own
		// endpoint so an edit form can't silently race checkouts.
		updates := map[string]interface{}{
			"title":       input.Title,
			"description": input.Description,
			"price":       input.Price,
			"genre_id":    input.GenreID,
		}
		if err := db.Model(&game).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game updated"})
	}
}

// POST /admin/games/:id/restock
// Atomic increment; safe alongside concurrent checkout decrements.
func RestockGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}
		var input RestockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		res := db.Model(&models.Game{}).
			Where("id = ?", uint(id)).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", input.Quantity))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock game"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game restocked"})
	}
}
