package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CartItem is a weak reference to a booking with a display name and price captured
// when it was added.
type CartItem struct {
	BookingID uuid.UUID
	ParkName  string
	Quantity  int
	UnitPrice Money
}

func NewCartItem(bookingID uuid.UUID, parkName string, quantity int, unitPrice Money) (CartItem, error) {
	if quantity <= 0 {
		return CartItem{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if strings.TrimSpace(parkName) == "" {
		return CartItem{}, fmt.Errorf("%w: park name cannot be empty", ErrInvalidArgument)
	}
	return CartItem{
		BookingID: bookingID,
		ParkName:  parkName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

func (i CartItem) Subtotal() Money {
	return i.UnitPrice.MulInt(i.Quantity)
}

// CartSnapshot is a copy of the item mapping taken before a mutation.
type CartSnapshot map[uuid.UUID]CartItem

// Cart holds items keyed by booking id and a stack of prior states for undo.
type Cart struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	LastUpdatedAt time.Time

	items   map[uuid.UUID]CartItem
	history []CartSnapshot
}

func NewCart(id uuid.UUID) *Cart {
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := time.Now().UTC()
	return &Cart{
		ID:            id,
		CreatedAt:     now,
		LastUpdatedAt: now,
		items:         make(map[uuid.UUID]CartItem),
	}
}

// RestoreCart rebuilds a cart from storage. history is ordered oldest first.
func RestoreCart(id uuid.UUID, createdAt, lastUpdatedAt time.Time, items []CartItem, history []CartSnapshot) (*Cart, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: cart id cannot be empty", ErrInvalidArgument)
	}
	c := &Cart{
		ID:            id,
		CreatedAt:     createdAt,
		LastUpdatedAt: lastUpdatedAt,
		items:         make(map[uuid.UUID]CartItem, len(items)),
	}
	for _, item := range items {
		c.items[item.BookingID] = item
	}
	for _, snap := range history {
		c.history = append(c.history, cloneSnapshot(snap))
	}
	return c, nil
}

// Items returns the current items ordered by booking id.
func (c *Cart) Items() []CartItem {
	return sortedItems(c.items)
}

func (c *Cart) Item(bookingID uuid.UUID) (CartItem, bool) {
	item, ok := c.items[bookingID]
	return item, ok
}

func (c *Cart) Len() int {
	return len(c.items)
}

// History returns copies of the undo stack, oldest first.
func (c *Cart) History() []CartSnapshot {
	out := make([]CartSnapshot, 0, len(c.history))
	for _, snap := range c.history {
		out = append(out, cloneSnapshot(snap))
	}
	return out
}

func (c *Cart) AddOrUpdateItem(item CartItem) {
	c.snapshot()
	c.items[item.BookingID] = item
	c.touch()
}

// RemoveItem reports whether the booking was in the cart. A miss records no history.
func (c *Cart) RemoveItem(bookingID uuid.UUID) bool {
	if _, ok := c.items[bookingID]; !ok {
		return false
	}
	delete(c.items, bookingID)
	c.touch()
	return true
}

func (c *Cart) Clear() {
	c.snapshot()
	c.items = make(map[uuid.UUID]CartItem)
	c.touch()
}

// RemoveItems drops each item still in the cart unchanged: same booking,
// quantity and unit price. Items edited since are kept. One snapshot is taken
// when anything is removed. It returns the number removed.
func (c *Cart) RemoveItems(items []CartItem) int {
	var matched []uuid.UUID
	for _, want := range items {
		got, ok := c.items[want.BookingID]
		if ok && got.Quantity == want.Quantity && got.UnitPrice.Equal(want.UnitPrice) {
			matched = append(matched, want.BookingID)
		}
	}
	if len(matched) == 0 {
		return 0
	}

	c.snapshot()
	for _, id := range matched {
		delete(c.items, id)
	}
	c.touch()
	return len(matched)
}

// Undo restores the most recent snapshot. It returns false when there is nothing to undo.
func (c *Cart) Undo() bool {
	n := len(c.history)
	if n == 0 {
		return false
	}
	previous := c.history[n-1]
	c.history = c.history[:n-1]
	c.items = cloneSnapshot(previous)
	c.touch()
	return true
}

func (c *Cart) Total(aggregator func([]CartItem) (Money, error)) (Money, error) {
	return aggregator(c.Items())
}

func (c *Cart) snapshot() {
	c.history = append(c.history, cloneSnapshot(c.items))
}

func (c *Cart) touch() {
	c.LastUpdatedAt = time.Now().UTC()
}

func cloneSnapshot(items map[uuid.UUID]CartItem) CartSnapshot {
	clone := make(CartSnapshot, len(items))
	for k, v := range items {
		clone[k] = v
	}
	return clone
}

func sortedItems(items map[uuid.UUID]CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BookingID.String() < out[j].BookingID.String()
	})
	return out
}

// SortedItems returns the snapshot items ordered by booking id.
func (s CartSnapshot) SortedItems() []CartItem {
	return sortedItems(s)
}
