package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/session"
)

type CartItemInput struct {
	GameID   uint `json:"game_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity"`
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

func gameIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("game_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game_id"})
		return 0, false
	}
	return uint(id), true
}

// POST /cart
func AddItemHandler(db *gorm.DB, carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		_, err := AddItem(c.Request.Context(), db, carts, sessionID(c), input.GameID, input.Quantity)
		var oos *models.OutOfStockError
		switch {
		case errors.Is(err, models.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Game does not exist"})
		case errors.As(err, &oos):
			c.JSON(http.StatusConflict, gin.H{"error": oos.Error(), "available": oos.Available})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		default:
			c.JSON(http.StatusCreated, gin.H{"message": "Added to cart"})
		}
	}
}

// PUT /cart/:game_id
func SetQuantityHandler(db *gorm.DB, carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, ok := gameIDParam(c)
		if !ok {
			return
		}
		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		clamped, err := SetQuantity(c.Request.Context(), db, carts, sessionID(c), gameID, input.Quantity)
		if errors.Is(err, models.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game does not exist"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if clamped {
			c.JSON(http.StatusOK, gin.H{"message": "Quantity reduced to available stock", "partial": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// DELETE /cart/:game_id
func RemoveItemHandler(carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, ok := gameIDParam(c)
		if !ok {
			return
		}
		if err := RemoveItem(c.Request.Context(), carts, sessionID(c), gameID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /cart
func ClearCartHandler(carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart
func GetCartHandler(db *gorm.DB, carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := Snapshot(c.Request.Context(), db, carts, sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
