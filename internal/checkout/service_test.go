package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/enums"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

type checkoutFixture struct {
	svc      Service
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
	notifier *recordingNotifier
	userID   uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	carts := newFakeCartRepo()
	orders := newFakeOrderRepo()
	notifier := &recordingNotifier{}
	userID := uuid.New()

	alloc, err := NewAllocator(orders, testAllocatorConfig(), testLogger())
	if err != nil {
		t.Fatalf("build allocator: %v", err)
	}

	svc, err := NewService(
		&restoringTxRunner{carts: carts, orders: orders},
		carts,
		orders,
		alloc,
		stubUserLoader{id: userID, name: "Karim Fahmy", phone: "+201001234567"},
		stubResolver{label: "Home - Nasr City"},
		notifier,
		nil,
		config.OrdersConfig{
			Timezone:          "Africa/Cairo",
			DisplayPrefix:     "OR",
			DisplayPadWidth:   4,
			AllocatorAttempts: 5,
		},
		testLogger(),
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	return &checkoutFixture{svc: svc, carts: carts, orders: orders, notifier: notifier, userID: userID}
}

func (f *checkoutFixture) seedCartWithLine(t *testing.T, qty int, unitTotal int64) *models.Cart {
	t.Helper()
	ctx := context.Background()

	activeCart, err := f.carts.Create(ctx, &models.Cart{UserID: f.userID, Subtotal: decimal.Zero})
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	line := &models.CartItem{
		ID:          uuid.New(),
		CartID:      activeCart.ID,
		MenuItemID:  uuid.New(),
		NameEn:      "Koshary",
		NameAr:      "كشري",
		BasePrice:   decimal.NewFromInt(unitTotal),
		AddonsPrice: decimal.Zero,
		Quantity:    qty,
		LineTotal:   decimal.NewFromInt(unitTotal * int64(qty)),
		ContentHash: "hash-a",
		Choices: []models.CartItemChoice{
			{
				ID:           uuid.New(),
				GroupNameEn:  "Extras",
				GroupNameAr:  "إضافات",
				OptionNameEn: "Extra sauce",
				OptionNameAr: "صلصة إضافية",
				ExtraPrice:   decimal.Zero,
			},
		},
	}
	if _, err := f.carts.CreateItem(ctx, line); err != nil {
		t.Fatalf("seed line: %v", err)
	}
	if err := f.carts.UpdateSubtotal(ctx, activeCart.ID, line.LineTotal); err != nil {
		t.Fatalf("seed subtotal: %v", err)
	}
	return activeCart
}

func TestSubmitMaterializesOrder(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	f.seedCartWithLine(t, 2, 120)

	order, err := f.svc.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if order.DisplayID != "OR0001" {
		t.Fatalf("expected OR0001 on an empty day, got %s", order.DisplayID)
	}
	if order.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing status, got %s", order.Status)
	}
	if order.ItemCount != 1 || !order.Subtotal.Equal(decimal.NewFromInt(240)) || !order.Total.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("unexpected totals: count=%d subtotal=%s total=%s", order.ItemCount, order.Subtotal, order.Total)
	}
	if order.CustomerName != "Karim Fahmy" || order.CustomerPhone != "+201001234567" {
		t.Fatalf("customer snapshot not copied")
	}
	if order.DeliveryLabel != "Home - Nasr City" {
		t.Fatalf("unexpected delivery label %q", order.DeliveryLabel)
	}

	items := f.orders.itemsFor(order.ID)
	if len(items) != 1 {
		t.Fatalf("expected one order line, got %d", len(items))
	}
	if items[0].NameAr != "كشري" || !items[0].LineTotal.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("line snapshot not copied: %+v", items[0])
	}
	if len(items[0].Choices) != 1 {
		t.Fatalf("expected one choice snapshot, got %d", len(items[0].Choices))
	}

	events := f.orders.eventsFor(order.ID)
	if len(events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(events))
	}
	if events[0].ActorType != enums.ActorCustomer || events[0].ToStatus != enums.OrderStatusProcessing {
		t.Fatalf("unexpected audit event: %+v", events[0])
	}

	// the old cart is handed off and a fresh empty one is active
	next, err := f.carts.FindActiveByUser(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("expected a fresh active cart: %v", err)
	}
	if len(next.Items) != 0 || !next.Subtotal.IsZero() {
		t.Fatalf("fresh cart must be empty")
	}

	if len(f.notifier.orders) != 1 || f.notifier.orders[0].ID != order.ID {
		t.Fatalf("expected exactly one notification for the new order")
	}
}

func TestSubmitSequentialDisplayIDs(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)

	f.seedCartWithLine(t, 1, 50)
	first, err := f.svc.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// refill the fresh cart and submit again the same day
	next, err := f.carts.FindActiveByUser(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("load fresh cart: %v", err)
	}
	line := &models.CartItem{
		ID: uuid.New(), CartID: next.ID, MenuItemID: uuid.New(),
		NameEn: "Falafel", NameAr: "فلافل",
		BasePrice: decimal.NewFromInt(40), Quantity: 1,
		LineTotal: decimal.NewFromInt(40), ContentHash: "hash-b",
	}
	if _, err := f.carts.CreateItem(context.Background(), line); err != nil {
		t.Fatalf("seed line: %v", err)
	}

	second, err := f.svc.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	if first.DisplayID != "OR0001" || second.DisplayID != "OR0002" {
		t.Fatalf("expected OR0001 then OR0002, got %s then %s", first.DisplayID, second.DisplayID)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	if _, err := f.carts.Create(ctx, &models.Cart{UserID: f.userID, Subtotal: decimal.Zero}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	_, err := f.svc.Submit(ctx, f.userID, types.DeliverySelection{})
	if err == nil {
		t.Fatal("expected validation error for an empty cart")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if f.orders.headerCount() != 0 {
		t.Fatal("no header may be written for a rejected submission")
	}
}

func TestSubmitWithoutActiveCart(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	_, err := f.svc.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestSubmitCompensatesAfterDownstreamFailure(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	seeded := f.seedCartWithLine(t, 2, 120)

	f.orders.failEvents = errors.New("disk full")

	_, err := f.svc.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err == nil {
		t.Fatal("expected the original failure to surface")
	}
	if !errors.Is(err, f.orders.failEvents) {
		t.Fatalf("original error must not be masked, got %v", err)
	}

	// no order with the allocated display id survives
	if f.orders.headerCount() != 0 {
		t.Fatal("compensating delete must remove the committed header")
	}

	// the source cart is untouched: still active, lines intact
	reloaded, err := f.carts.FindActiveByUser(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("active cart must survive a failed submission: %v", err)
	}
	if reloaded.ID != seeded.ID {
		t.Fatalf("the same cart must stay active")
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("cart lines must be intact, got %d", len(reloaded.Items))
	}

	if len(f.notifier.orders) != 0 {
		t.Fatal("no notification may be sent for a failed submission")
	}
}

func TestSubmitDeliveryResolutionFailureLeavesCartUntouched(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	f.seedCartWithLine(t, 1, 80)

	failing, err := NewService(
		&restoringTxRunner{carts: f.carts, orders: f.orders},
		f.carts,
		f.orders,
		mustAllocator(t, f.orders),
		stubUserLoader{id: f.userID, name: "Karim Fahmy", phone: "+201001234567"},
		stubResolver{err: pkgerrors.New(pkgerrors.CodeValidation, "delivery selection is invalid")},
		f.notifier,
		nil,
		config.OrdersConfig{Timezone: "Africa/Cairo", DisplayPrefix: "OR", DisplayPadWidth: 4, AllocatorAttempts: 5},
		testLogger(),
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = failing.Submit(context.Background(), f.userID, types.DeliverySelection{})
	if err == nil {
		t.Fatal("expected delivery resolution error")
	}
	if f.orders.headerCount() != 0 {
		t.Fatal("no header may be written before delivery resolution succeeds")
	}
	reloaded, err := f.carts.FindActiveByUser(context.Background(), f.userID)
	if err != nil || len(reloaded.Items) != 1 {
		t.Fatalf("cart must be untouched, err=%v", err)
	}
}

func mustAllocator(t *testing.T, store headerStore) *Allocator {
	t.Helper()
	alloc, err := NewAllocator(store, testAllocatorConfig(), testLogger())
	if err != nil {
		t.Fatalf("build allocator: %v", err)
	}
	return alloc
}

// restoringTxRunner mimics rollback semantics over the in-memory fakes:
// it snapshots their state before running fn and restores it on error.
type restoringTxRunner struct {
	carts  *fakeCartRepo
	orders *fakeOrderRepo
}

func (r *restoringTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	cartSnap := r.carts.snapshot()
	orderSnap := r.orders.snapshot()
	if err := fn(nil); err != nil {
		r.carts.restore(cartSnap)
		r.orders.restore(orderSnap)
		return err
	}
	return nil
}

type stubUserLoader struct {
	id    uuid.UUID
	name  string
	phone string
}

func (s stubUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id != s.id {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.User{ID: s.id, Name: s.name, Phone: s.phone}, nil
}

type stubResolver struct {
	label string
	err   error
}

func (s stubResolver) Resolve(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.label, nil
}

type recordingNotifier struct {
	orders []*models.Order
}

func (r *recordingNotifier) OrderSubmitted(ctx context.Context, order *models.Order) {
	r.orders = append(r.orders, order)
}
