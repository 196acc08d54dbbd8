package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/internal/cart"
	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/enums"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/metrics"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type labelResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (string, error)
}

type submissionNotifier interface {
	OrderSubmitted(ctx context.Context, order *models.Order)
}

type numberAllocator interface {
	AllocateAndInsert(ctx context.Context, order *models.Order) (int, error)
}

// Service materializes a submitted cart into an order: header, line
// snapshots, choice snapshots, cart handoff, and audit trail. A failure
// after the header commit triggers a compensating delete so callers never
// see a partially created order.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (*models.Order, error)
}

type service struct {
	tx       txRunner
	carts    cart.CartRepository
	orders   OrderRepository
	alloc    numberAllocator
	users    userLoader
	delivery labelResolver
	notifier submissionNotifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService wires the materializer. The metrics collector may be nil.
func NewService(
	tx txRunner,
	carts cart.CartRepository,
	orders OrderRepository,
	alloc numberAllocator,
	users userLoader,
	delivery labelResolver,
	notifier submissionNotifier,
	checkoutMetrics *metrics.CheckoutMetrics,
	cfg config.OrdersConfig,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if alloc == nil {
		return nil, fmt.Errorf("allocator required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if delivery == nil {
		return nil, fmt.Errorf("delivery resolver required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", cfg.Timezone, err)
	}
	return &service{
		tx:       tx,
		carts:    carts,
		orders:   orders,
		alloc:    alloc,
		users:    users,
		delivery: delivery,
		notifier: notifier,
		metrics:  checkoutMetrics,
		logg:     logg,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Submit turns the user's active cart into a durable order. On success the
// cart is emptied and handed off; on failure the cart is left untouched.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (*models.Order, error) {
	started := s.now()
	order, err := s.submit(ctx, userID, sel)
	s.metrics.ObserveDuration(submissionResult(err), s.now().Sub(started))
	s.metrics.IncSubmission(submissionResult(err))
	return order, err
}

func (s *service) submit(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	activeCart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	if len(activeCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	label, err := s.delivery.Resolve(ctx, userID, sel)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:        userID,
		OrderDate:     DayBucket(s.now(), s.loc),
		Status:        enums.OrderStatusProcessing,
		ItemCount:     len(activeCart.Items),
		Subtotal:      activeCart.Subtotal,
		Discount:      decimal.Zero,
		Total:         activeCart.Subtotal,
		CustomerName:  user.Name,
		CustomerPhone: user.Phone,
		LocationID:    sel.LocationID,
		CustomAddress: sel.CustomAddress,
		Lat:           sel.Lat,
		Lng:           sel.Lng,
		DeliveryLabel: label,
	}

	// The header commits on its own: a unique violation inside an open
	// transaction would poison it and make retries impossible.
	attempts, err := s.alloc.AllocateAndInsert(ctx, order)
	s.metrics.ObserveAllocatorAttempts(attempts)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		txCarts := s.carts.WithTx(tx)

		items := buildOrderItems(order.ID, activeCart.Items)
		if err := txOrders.InsertItems(ctx, items); err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}

		if err := txCarts.UpdateStatus(ctx, activeCart.ID, enums.CartStatusSubmitted); err != nil {
			return fmt.Errorf("mark cart submitted: %w", err)
		}
		if err := txCarts.ClearItems(ctx, activeCart.ID); err != nil {
			return fmt.Errorf("clear cart lines: %w", err)
		}
		if _, err := txCarts.Create(ctx, &models.Cart{UserID: userID, Subtotal: decimal.Zero}); err != nil {
			return fmt.Errorf("open next cart: %w", err)
		}

		event := &models.OrderEvent{
			OrderID:   order.ID,
			ActorType: enums.ActorCustomer,
			ActorID:   &userID,
			ToStatus:  enums.OrderStatusProcessing,
			Metadata: types.JSONMap{
				"display_id": order.DisplayID,
				"item_count": order.ItemCount,
				"total":      order.Total.String(),
			},
		}
		if err := txOrders.InsertEvent(ctx, event); err != nil {
			return fmt.Errorf("append order event: %w", err)
		}
		return nil
	}); err != nil {
		// Compensating delete: the header is already durable, so remove it
		// before surfacing the original failure. The caller must never hold
		// an order id that does not exist.
		if cleanupErr := s.orders.DeleteHeader(ctx, order.ID); cleanupErr != nil {
			s.logg.Error(ctx, "compensating delete failed after a broken materialization", cleanupErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize order")
	}

	// Fire-and-forget: the order is durable, notification failures are
	// logged inside the notifier and never surfaced.
	s.notifier.OrderSubmitted(ctx, order)

	return order, nil
}

func buildOrderItems(orderID uuid.UUID, lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		menuItemID := line.MenuItemID
		item := models.OrderItem{
			OrderID:      orderID,
			MenuItemID:   &menuItemID,
			NameEn:       line.NameEn,
			NameAr:       line.NameAr,
			BasePrice:    line.BasePrice,
			AddonsPrice:  line.AddonsPrice,
			Quantity:     line.Quantity,
			Note:         line.Note,
			LineTotal:    line.LineTotal,
			DisplayOrder: i,
		}
		for _, choice := range line.Choices {
			item.Choices = append(item.Choices, models.OrderItemChoice{
				OptionID:     choice.OptionID,
				GroupNameEn:  choice.GroupNameEn,
				GroupNameAr:  choice.GroupNameAr,
				OptionNameEn: choice.OptionNameEn,
				OptionNameAr: choice.OptionNameAr,
				ExtraPrice:   choice.ExtraPrice,
			})
		}
		items = append(items, item)
	}
	return items
}

func submissionResult(err error) string {
	if err == nil {
		return "ok"
	}
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation:
			return "validation"
		case pkgerrors.CodeNotFound:
			return "not_found"
		case pkgerrors.CodeConflict:
			return "conflict"
		}
	}
	return "error"
}

