package orderControllers

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/session"
)

// getOrCreateCustomer provisions the Customer projection of a user on
// first checkout.
func getOrCreateCustomer(db *gorm.DB, userID string) (models.Customer, error) {
	var customer models.Customer
	err := db.Preload("User").Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{UserID: userID}
		if err := db.Create(&customer).Error; err != nil {
			return models.Customer{}, err
		}
		err = db.Preload("User").First(&customer, customer.ID).Error
	}
	return customer, err
}

// Checkout converts the session cart into a durable Order inside a
// single transaction. Every line re-reads live stock and decrements it
// with a conditional update, so two checkouts racing for the last unit
// cannot both succeed. Any failure rolls the whole transaction back:
// no partial orders, no partial stock decrements. The cart is cleared
// only after the transaction commits.
func Checkout(ctx context.Context, db *gorm.DB, carts *session.Store, sessionID, userID string) (models.Order, error) {
	cart, err := carts.Load(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}
	if cart.IsEmpty() {
		return models.Order{}, models.ErrEmptyCart
	}

	customer, err := getOrCreateCustomer(db, userID)
	if err != nil {
		return models.Order{}, err
	}

	gameIDs := make([]uint, 0, len(cart.Lines))
	for id := range cart.Lines {
		gameIDs = append(gameIDs, id)
	}
	sort.Slice(gameIDs, func(i, j int) bool { return gameIDs[i] < gameIDs[j] })

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			CustomerID:    customer.ID,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: models.PaymentMethodNone,
			TotalAmount:   decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(gameIDs))

		for _, gameID := range gameIDs {
			quantity := cart.Lines[gameID].Quantity

			var game models.Game
			if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrGameNotFound
				}
				return err
			}
			if game.Quantity < quantity {
				return &models.InsufficientStockError{GameID: game.ID, Title: game.Title, Available: game.Quantity}
			}

			// Conditional decrement: the WHERE guard makes the
			// check-and-decrement atomic per row, so the read above can
			// be stale without risking oversell.
			res := tx.Model(&models.Game{}).
				Where("id = ? AND quantity >= ?", gameID, quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var current models.Game
				if err := tx.First(&current, "id = ?", gameID).Error; err != nil {
					return err
				}
				return &models.InsufficientStockError{GameID: game.ID, Title: game.Title, Available: current.Quantity}
			}

			item := models.OrderItem{
				OrderID:  order.ID,
				GameID:   game.ID,
				Quantity: quantity,
				Price:    game.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
			total = total.Add(game.Price.Mul(decimal.NewFromInt(int64(quantity))))
		}

		if err := tx.Model(&order).Update("total_amount", total).Error; err != nil {
			return err
		}
		order.TotalAmount = total
		order.Items = items
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	order.Customer = customer
	if err := carts.Clear(ctx, sessionID); err != nil {
		// The order is committed; a leftover cart will self-heal on the
		// next read, so this is only worth a warning.
		log.Printf("⚠️ Failed to clear cart for session %s after order #%d: %v", sessionID, order.ID, err)
	}
	BroadcastOrderUpdate(order)
	return order, nil
}
