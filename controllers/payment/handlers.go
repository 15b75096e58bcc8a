package paymentControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/notify"
)

type InitiatePaymentRequest struct {
	Method string `json:"method" binding:"required"` // "card" or "email"
}

func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch models.PaymentMethod(method) {
	case models.PaymentMethodCard:
		return models.PaymentMethodCard, nil
	case models.PaymentMethodEmail:
		return models.PaymentMethodEmail, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// POST /payments/:orderID/initiate
func InitiatePaymentHandler(db *gorm.DB, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
			return
		}
		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method, err := mapPaymentMethod(req.Method)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := Initiate(db, notifier, uint(orderID), method)
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, models.ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "Order has already been processed"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		default:
			c.JSON(http.StatusOK, order)
		}
	}
}

// GET /payments/confirm?order_id=&code=
// Target of the emailed confirmation link, so it is a public GET; the
// payment code itself is the access gate.
func ConfirmPaymentHandler(db *gorm.DB, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
			return
		}
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		order, err := Confirm(db, notifier, uint(orderID), code)
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, models.ErrInvalidCode):
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid payment code"})
		case errors.Is(err, models.ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "Order has already been processed"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed", "order": order})
		}
	}
}
