package paymentControllers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	orderControllers "github.com/arcadia-soft/gamestore-api/controllers/order"
	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/notify"
)

// -------- Helpers --------

// generatePaymentCode returns an 8-character opaque token. Generated
// once per order; retries of the same order reuse the stored code.
func generatePaymentCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}

func loadOrder(db *gorm.DB, orderID uint) (models.Order, error) {
	var order models.Order
	err := db.Preload("Customer").Preload("Customer.User").Preload("Items").
		First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return order, err
}

func warnOnNotifyError(orderID uint, err error) {
	if err != nil {
		// The payment transition is already committed; delivery is
		// best-effort and never rolls it back.
		log.Printf("⚠️ Failed to notify customer for order #%d: %v", orderID, err)
	}
}

// -------- Core Logic --------

// Initiate starts payment for a pending order. Card payment simulates a
// synchronous gateway and completes immediately; email payment leaves
// the order pending and sends a confirmation link carrying the payment
// code.
func Initiate(db *gorm.DB, notifier notify.Notifier, orderID uint, method models.PaymentMethod) (models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status != models.OrderStatusPending {
		return models.Order{}, models.ErrAlreadyProcessed
	}

	code := order.PaymentCode
	if code == "" {
		code = generatePaymentCode()
	}

	switch method {
	case models.PaymentMethodCard:
		updates := map[string]interface{}{
			"status":         models.OrderStatusProcessing,
			"payment_status": models.PaymentStatusCompleted,
			"payment_method": models.PaymentMethodCard,
			"payment_code":   code,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			return models.Order{}, err
		}
		order.Status = models.OrderStatusProcessing
		order.PaymentStatus = models.PaymentStatusCompleted
		order.PaymentMethod = models.PaymentMethodCard
		order.PaymentCode = code

		warnOnNotifyError(order.ID, notifier.SendOrderConfirmation(order.Customer, order))
		orderControllers.BroadcastOrderUpdate(order)
		return order, nil

	case models.PaymentMethodEmail:
		updates := map[string]interface{}{
			"payment_method": models.PaymentMethodEmail,
			"payment_code":   code,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			return models.Order{}, err
		}
		order.PaymentMethod = models.PaymentMethodEmail
		order.PaymentCode = code

		warnOnNotifyError(order.ID, notifier.SendPaymentLink(order.Customer, order, code))
		return order, nil

	default:
		return models.Order{}, fmt.Errorf("unsupported payment method %q", method)
	}
}

// Confirm completes an out-of-band payment. The supplied code must match
// the order's payment code exactly; this equality check is the only
// access-control gate on confirmation. Confirming an already-completed
// payment is a safe no-op and does not re-send notifications.
// Cancelled orders are terminal and cannot be confirmed.
func Confirm(db *gorm.DB, notifier notify.Notifier, orderID uint, suppliedCode string) (models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.PaymentCode == "" || suppliedCode != order.PaymentCode {
		return models.Order{}, models.ErrInvalidCode
	}
	if order.PaymentStatus == models.PaymentStatusCompleted {
		return order, nil
	}
	if order.Status == models.OrderStatusCancelled {
		return models.Order{}, models.ErrAlreadyProcessed
	}

	updates := map[string]interface{}{
		"status":         models.OrderStatusProcessing,
		"payment_status": models.PaymentStatusCompleted,
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return models.Order{}, err
	}
	order.Status = models.OrderStatusProcessing
	order.PaymentStatus = models.PaymentStatusCompleted

	warnOnNotifyError(order.ID, notifier.SendOrderConfirmation(order.Customer, order))
	orderControllers.BroadcastOrderUpdate(order)
	return order, nil
}
