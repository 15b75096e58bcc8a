package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/session"
)

// -------- Core Logic --------

// CancelOrder cancels a pending, unpaid order owned by the given user.
func CancelOrder(db *gorm.DB, orderID uint, userID string) (models.Order, error) {
	var order models.Order
	err := db.Preload("Customer").Preload("Items").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, models.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	if order.Customer.UserID != userID {
		return models.Order{}, models.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusPending {
		return models.Order{}, models.ErrAlreadyProcessed
	}

	if err := db.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		return models.Order{}, err
	}
	order.Status = models.OrderStatusCancelled
	BroadcastOrderUpdate(order)
	return order, nil
}

// -------- Handlers --------

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
		return 0, false
	}
	return uint(id), true
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB, carts *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		sid := c.GetString("session_id")

		order, err := Checkout(c.Request.Context(), db, carts, sid, userID)
		var insufficient *models.InsufficientStockError
		switch {
		case errors.Is(err, models.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{"error": insufficient.Error(), "available": insufficient.Available})
		case errors.Is(err, models.ErrGameNotFound):
			c.JSON(http.StatusConflict, gin.H{"error": "A game in your cart is no longer available"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		default:
			c.JSON(http.StatusCreated, order)
		}
	}
}

// GET /orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orders []models.Order
		if err := db.
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.user_id = ?", userID).
			Preload("Items").
			Preload("Items.Game").
			Order("orders.created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		var order models.Order
		if err := db.
			Preload("Customer").
			Preload("Customer.User").
			Preload("Items").
			Preload("Items.Game").
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		role, _ := c.Get("role")
		if roleStr, _ := role.(string); models.Role(roleStr) != models.RoleManager &&
			order.Customer.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Customer").
			Preload("Customer.User").
			Preload("Items").
			Preload("Items.Game").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// POST /orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		order, err := CancelOrder(db, orderID, c.GetString("user_id"))
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, models.ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		default:
			c.JSON(http.StatusOK, order)
		}
	}
}
