package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/internal/cart"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/enums"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

// fakeCartRepo is an in-memory cart.CartRepository with snapshot/restore
// support so the restoringTxRunner can mimic rollbacks.
type fakeCartRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

type cartSnapshot struct {
	carts map[uuid.UUID]models.Cart
	items map[uuid.UUID]models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (f *fakeCartRepo) snapshot() cartSnapshot {
	snap := cartSnapshot{
		carts: map[uuid.UUID]models.Cart{},
		items: map[uuid.UUID]models.CartItem{},
	}
	for id, c := range f.carts {
		snap.carts[id] = *c
	}
	for id, i := range f.items {
		snap.items[id] = *i
	}
	return snap
}

func (f *fakeCartRepo) restore(snap cartSnapshot) {
	f.carts = map[uuid.UUID]*models.Cart{}
	f.items = map[uuid.UUID]*models.CartItem{}
	for id, c := range snap.carts {
		copied := c
		f.carts[id] = &copied
	}
	for id, i := range snap.items {
		copied := i
		f.items[id] = &copied
	}
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return f }

func (f *fakeCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	for _, c := range f.carts {
		if c.UserID == userID && c.Status == enums.CartStatusActive {
			copied := *c
			copied.Items = nil
			for _, item := range f.items {
				if item.CartID == c.ID {
					copied.Items = append(copied.Items, *item)
				}
			}
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) Create(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = enums.CartStatusActive
	}
	f.carts[c.ID] = c
	return c, nil
}

func (f *fakeCartRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CartStatus) error {
	if c, ok := f.carts[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeCartRepo) UpdateSubtotal(ctx context.Context, id uuid.UUID, subtotal decimal.Decimal) error {
	if c, ok := f.carts[id]; ok {
		c.Subtotal = subtotal
	}
	return nil
}

func (f *fakeCartRepo) FindItemByHash(ctx context.Context, cartID uuid.UUID, hash string) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.CartID == cartID && item.ContentHash == hash {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	if item, ok := f.items[itemID]; ok && item.CartID == cartID {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCartRepo) SaveItem(ctx context.Context, item *models.CartItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if item, ok := f.items[itemID]; ok && item.CartID == cartID {
		delete(f.items, itemID)
	}
	return nil
}

func (f *fakeCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range f.items {
		if item.CartID == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeCartRepo) SumLineTotals(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range f.items {
		if item.CartID == cartID {
			sum = sum.Add(item.LineTotal)
		}
	}
	return sum, nil
}

// fakeOrderRepo is an in-memory OrderRepository enforcing the same
// (order_date, daily_number) uniqueness the real unique index provides.
type fakeOrderRepo struct {
	headers    map[uuid.UUID]*models.Order
	items      []models.OrderItem
	events     []models.OrderEvent
	failItems  error
	failEvents error
}

type orderSnapshot struct {
	headers map[uuid.UUID]models.Order
	items   []models.OrderItem
	events  []models.OrderEvent
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{headers: map[uuid.UUID]*models.Order{}}
}

func (f *fakeOrderRepo) snapshot() orderSnapshot {
	snap := orderSnapshot{headers: map[uuid.UUID]models.Order{}}
	for id, h := range f.headers {
		snap.headers[id] = *h
	}
	snap.items = append(snap.items, f.items...)
	snap.events = append(snap.events, f.events...)
	return snap
}

func (f *fakeOrderRepo) restore(snap orderSnapshot) {
	f.headers = map[uuid.UUID]*models.Order{}
	for id, h := range snap.headers {
		copied := h
		f.headers[id] = &copied
	}
	f.items = append([]models.OrderItem(nil), snap.items...)
	f.events = append([]models.OrderEvent(nil), snap.events...)
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) OrderRepository { return f }

func (f *fakeOrderRepo) MaxDailyNumber(ctx context.Context, orderDate types.Date) (int, error) {
	max := 0
	for _, h := range f.headers {
		if h.OrderDate == orderDate && h.DailyNumber > max {
			max = h.DailyNumber
		}
	}
	return max, nil
}

func (f *fakeOrderRepo) InsertHeader(ctx context.Context, order *models.Order) error {
	for _, h := range f.headers {
		if h.OrderDate == order.OrderDate && h.DailyNumber == order.DailyNumber {
			return uniqueViolation()
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	f.headers[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if f.failItems != nil {
		return f.failItems
	}
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeOrderRepo) InsertEvent(ctx context.Context, event *models.OrderEvent) error {
	if f.failEvents != nil {
		return f.failEvents
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeOrderRepo) DeleteHeader(ctx context.Context, orderID uuid.UUID) error {
	delete(f.headers, orderID)
	kept := f.items[:0]
	for _, item := range f.items {
		if item.OrderID != orderID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	keptEvents := f.events[:0]
	for _, event := range f.events {
		if event.OrderID != orderID {
			keptEvents = append(keptEvents, event)
		}
	}
	f.events = keptEvents
	return nil
}

func (f *fakeOrderRepo) headerCount() int { return len(f.headers) }

func (f *fakeOrderRepo) itemsFor(orderID uuid.UUID) []models.OrderItem {
	var out []models.OrderItem
	for _, item := range f.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out
}

func (f *fakeOrderRepo) eventsFor(orderID uuid.UUID) []models.OrderEvent {
	var out []models.OrderEvent
	for _, event := range f.events {
		if event.OrderID == orderID {
			out = append(out, event)
		}
	}
	return out
}
