package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order lifecycle
	OrderStatusPending    OrderStatus = "pending"    // Created at checkout, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // Payment accepted, being fulfilled
	OrderStatusCompleted  OrderStatus = "completed"  // Delivered to the customer
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before payment

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	// Payment methods
	PaymentMethodNone  PaymentMethod = "none"
	PaymentMethodCard  PaymentMethod = "card"  // simulated synchronous gateway
	PaymentMethodEmail PaymentMethod = "email" // out-of-band confirmation link
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	Customer      Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status        OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod PaymentMethod   `gorm:"type:VARCHAR(20);default:'none'" json:"payment_method"`
	PaymentCode   string          `gorm:"type:VARCHAR(8)" json:"-"` // single-use confirmation token
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItem captures the unit price at the moment of purchase. The
// referenced Game may be repriced or restocked later; the captured Price
// stays the source of truth for this sale.
type OrderItem struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderID  uint            `gorm:"index" json:"order_id"`
	GameID   uint            `gorm:"not null" json:"game_id"`
	Game     Game            `gorm:"foreignKey:GameID" json:"game"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
