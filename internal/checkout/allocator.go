package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

const orderNumberConstraint = "ux_orders_order_date_daily_number"

type headerStore interface {
	MaxDailyNumber(ctx context.Context, orderDate types.Date) (int, error)
	InsertHeader(ctx context.Context, order *models.Order) error
}

// Allocator assigns per-day order numbers optimistically: read the current
// maximum, propose max+1, and let the unique index on (order_date,
// daily_number) reject the loser of a concurrent race. No in-process lock,
// so it is safe across multiple instances.
type Allocator struct {
	store headerStore
	cfg   config.OrdersConfig
	logg  *logger.Logger
}

// NewAllocator builds an allocator over the provided header store.
func NewAllocator(store headerStore, cfg config.OrdersConfig, logg *logger.Logger) (*Allocator, error) {
	if store == nil {
		return nil, fmt.Errorf("header store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.AllocatorAttempts <= 0 {
		return nil, fmt.Errorf("allocator attempts must be positive")
	}
	if cfg.DisplayPadWidth <= 0 {
		return nil, fmt.Errorf("display pad width must be positive")
	}
	return &Allocator{store: store, cfg: cfg, logg: logg}, nil
}

// AllocateAndInsert fills in the order's daily number and display id and
// persists the header row. On a uniqueness conflict it re-reads the
// maximum and retries with a fresh counter, up to the configured bound.
// Returns the number of attempts used.
func (a *Allocator) AllocateAndInsert(ctx context.Context, order *models.Order) (int, error) {
	if order.OrderDate.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order date is required")
	}

	for attempt := 1; attempt <= a.cfg.AllocatorAttempts; attempt++ {
		max, err := a.store.MaxDailyNumber(ctx, order.OrderDate)
		if err != nil {
			return attempt, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read max daily number")
		}

		order.DailyNumber = max + 1
		order.DisplayID = FormatDisplayID(a.cfg.DisplayPrefix, a.cfg.DisplayPadWidth, order.DailyNumber)

		err = a.store.InsertHeader(ctx, order)
		if err == nil {
			return attempt, nil
		}
		if !db.IsUniqueViolation(err, orderNumberConstraint) {
			return attempt, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order header")
		}

		a.logg.Warn(a.logg.WithFields(ctx, map[string]any{
			"order_date":   order.OrderDate,
			"daily_number": order.DailyNumber,
			"attempt":      attempt,
		}), "order number taken by a concurrent submission, retrying")

		if a.cfg.AllocatorBackoff > 0 && attempt < a.cfg.AllocatorAttempts {
			select {
			case <-ctx.Done():
				return attempt, ctx.Err()
			case <-time.After(a.cfg.AllocatorBackoff):
			}
		}
	}

	return a.cfg.AllocatorAttempts, pkgerrors.New(pkgerrors.CodeConflict,
		fmt.Sprintf("could not allocate an order number after %d attempts", a.cfg.AllocatorAttempts))
}

// FormatDisplayID composes the human-facing order id, e.g. OR0007.
func FormatDisplayID(prefix string, width, counter int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, counter)
}

// DayBucket returns the business calendar day an order placed at the given
// moment belongs to.
func DayBucket(now time.Time, loc *time.Location) types.Date {
	return types.DateOf(now.In(loc))
}
