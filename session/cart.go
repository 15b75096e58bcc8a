package session

import "time"

const CartVersion = 1

// CartLine is one tentative selection: how many copies and when the game
// first entered the cart.
type CartLine struct {
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Cart is the session-scoped selection blob. It lives only in session
// storage and is never part of durable state; quantities are ceilings
// re-validated against live stock on every read, not reservations.
type Cart struct {
	Version int               `json:"version"`
	Lines   map[uint]CartLine `json:"lines"`
}

func NewCart() Cart {
	return Cart{Version: CartVersion, Lines: make(map[uint]CartLine)}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
