package notify

import (
	"fmt"
	"log"

	"github.com/arcadia-soft/gamestore-api/models"
)

// Notifier delivers customer-facing messages. Fire-and-forget from the
// core's perspective: a delivery failure is reported to the caller as an
// error but must never undo a committed payment transition.
type Notifier interface {
	SendOrderConfirmation(customer models.Customer, order models.Order) error
	SendPaymentLink(customer models.Customer, order models.Order, code string) error
}

// LogNotifier writes the messages to the application log. Stands in for
// a real mail gateway; BaseURL is the public address used in links.
type LogNotifier struct {
	BaseURL string
}

func (n *LogNotifier) SendOrderConfirmation(customer models.Customer, order models.Order) error {
	log.Printf("📧 [notify] to=%s order=#%d total=%s: your order is confirmed",
		customer.User.Email, order.ID, order.TotalAmount.StringFixed(2))
	return nil
}

func (n *LogNotifier) SendPaymentLink(customer models.Customer, order models.Order, code string) error {
	link := fmt.Sprintf("%s/payments/confirm?order_id=%d&code=%s", n.BaseURL, order.ID, code)
	log.Printf("📧 [notify] to=%s order=#%d: confirm your payment within 24 hours at %s",
		customer.User.Email, order.ID, link)
	return nil
}
