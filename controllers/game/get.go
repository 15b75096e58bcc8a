package gameControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
)

// GET /games
// Lists purchasable games (stock > 0) with genre/tag filters, free-text
// search and sorting.
func GetGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Game{}).
			Preload("Genre").
			Preload("Tags").
			Where("quantity > 0")

		if genreID := c.Query("genre_id"); genreID != "" {
			if gid, err := strconv.ParseUint(genreID, 10, 64); err == nil {
				query = query.Where("genre_id = ?", uint(gid))
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre_id"})
				return
			}
		}

		if tagID := c.Query("tag_id"); tagID != "" {
			if tid, err := strconv.ParseUint(tagID, 10, 64); err == nil {
				query = query.
					Joins("JOIN game_tags gt ON gt.game_id = games.id").
					Where("gt.tag_id = ?", uint(tid))
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag_id"})
				return
			}
		}

		if search := c.Query("search"); search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", likePattern, likePattern)
		}

		switch c.DefaultQuery("sort", "title") {
		case "price_asc":
			query = query.Order("price ASC")
		case "price_desc":
			query = query.Order("price DESC")
		case "newest":
			query = query.Order("created_at DESC")
		default:
			query = query.Order("title ASC")
		}

		var games []models.Game
		if err := query.Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

// GET /games/:id
func GetGameByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}

		var game models.Game
		if err := db.Preload("Genre").Preload("Tags").First(&game, "id = ?", uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
			return
		}
		c.JSON(http.StatusOK, game)
	}
}
