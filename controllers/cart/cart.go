package cartControllers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/session"
)

// -------- Snapshot Views --------

type CartLineView struct {
	GameID    uint            `json:"game_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	AddedAt   time.Time       `json:"added_at"`
}

type CartSummary struct {
	Items     []CartLineView  `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// -------- Core Logic --------

func fetchGame(db *gorm.DB, gameID uint) (models.Game, error) {
	var game models.Game
	if err := db.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Game{}, models.ErrGameNotFound
		}
		return models.Game{}, err
	}
	return game, nil
}

// AddItem inserts a game into the session cart or increments its
// quantity. The combined quantity is checked against live stock; AddedAt
// is recorded only on first insertion.
func AddItem(ctx context.Context, db *gorm.DB, carts *session.Store, sessionID string, gameID uint, quantity int) (session.Cart, error) {
	if quantity < 1 {
		return session.Cart{}, errors.New("quantity must be positive")
	}

	game, err := fetchGame(db, gameID)
	if err != nil {
		return session.Cart{}, err
	}

	cart, err := carts.Load(ctx, sessionID)
	if err != nil {
		return session.Cart{}, err
	}

	line, exists := cart.Lines[gameID]
	if line.Quantity+quantity > game.Quantity {
		return session.Cart{}, &models.OutOfStockError{GameID: game.ID, Title: game.Title, Available: game.Quantity}
	}

	line.Quantity += quantity
	if !exists {
		line.AddedAt = time.Now()
	}
	cart.Lines[gameID] = line

	if err := carts.Save(ctx, sessionID, cart); err != nil {
		return session.Cart{}, err
	}
	return cart, nil
}

// SetQuantity sets a line to an exact quantity. Zero or negative removes
// the line (a no-op when absent); a quantity above stock is clamped to
// what is available and reported via the clamped flag.
func SetQuantity(ctx context.Context, db *gorm.DB, carts *session.Store, sessionID string, gameID uint, quantity int) (clamped bool, err error) {
	cart, err := carts.Load(ctx, sessionID)
	if err != nil {
		return false, err
	}

	if quantity <= 0 {
		delete(cart.Lines, gameID)
		return false, carts.Save(ctx, sessionID, cart)
	}

	game, err := fetchGame(db, gameID)
	if err != nil {
		return false, err
	}

	line, exists := cart.Lines[gameID]
	if !exists {
		line.AddedAt = time.Now()
	}

	if quantity > game.Quantity {
		clamped = true
		quantity = game.Quantity
	}
	if quantity <= 0 {
		delete(cart.Lines, gameID)
	} else {
		line.Quantity = quantity
		cart.Lines[gameID] = line
	}

	return clamped, carts.Save(ctx, sessionID, cart)
}

// RemoveItem drops a line from the cart. Removing an absent line is a
// no-op.
func RemoveItem(ctx context.Context, carts *session.Store, sessionID string, gameID uint) error {
	cart, err := carts.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, exists := cart.Lines[gameID]; !exists {
		return nil
	}
	delete(cart.Lines, gameID)
	return carts.Save(ctx, sessionID, cart)
}

// Snapshot re-validates every cart line against the catalog. Lines whose
// game no longer exists are dropped and over-stock quantities clamped;
// corrections are persisted back to the session so the cart self-heals.
// Stock changes from concurrent checkouts make stale lines routine, not
// exceptional.
func Snapshot(ctx context.Context, db *gorm.DB, carts *session.Store, sessionID string) (CartSummary, error) {
	cart, err := carts.Load(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}

	summary := CartSummary{Items: []CartLineView{}, Total: decimal.Zero}
	changed := false

	ids := make([]uint, 0, len(cart.Lines))
	for id := range cart.Lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li, lj := cart.Lines[ids[i]], cart.Lines[ids[j]]
		if !li.AddedAt.Equal(lj.AddedAt) {
			return li.AddedAt.Before(lj.AddedAt)
		}
		return ids[i] < ids[j]
	})

	for _, gameID := range ids {
		line := cart.Lines[gameID]

		game, err := fetchGame(db, gameID)
		if errors.Is(err, models.ErrGameNotFound) {
			delete(cart.Lines, gameID)
			changed = true
			continue
		}
		if err != nil {
			return CartSummary{}, err
		}

		if line.Quantity > game.Quantity {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("only %d of %q available", game.Quantity, game.Title))
			changed = true
			if game.Quantity <= 0 {
				delete(cart.Lines, gameID)
				continue
			}
			line.Quantity = game.Quantity
			cart.Lines[gameID] = line
		}

		lineTotal := game.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		summary.Items = append(summary.Items, CartLineView{
			GameID:    game.ID,
			Title:     game.Title,
			UnitPrice: game.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			AddedAt:   line.AddedAt,
		})
		summary.Total = summary.Total.Add(lineTotal)
	}
	summary.ItemCount = len(summary.Items)

	if changed {
		if err := carts.Save(ctx, sessionID, cart); err != nil {
			return CartSummary{}, err
		}
	}
	return summary, nil
}
