package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

// OrderRepository defines the persistence surface the materializer needs.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	MaxDailyNumber(ctx context.Context, orderDate types.Date) (int, error)
	InsertHeader(ctx context.Context, order *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	InsertEvent(ctx context.Context, event *models.OrderEvent) error
	DeleteHeader(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) OrderRepository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// MaxDailyNumber returns the highest counter assigned so far for the day
// bucket, zero when the day has no orders yet.
func (r *repository) MaxDailyNumber(ctx context.Context, orderDate types.Date) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("MAX(daily_number)").
		Where("order_date = ?", orderDate).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// InsertHeader writes the order header row. The unique index on
// (order_date, daily_number) rejects a concurrent insert of the same pair.
func (r *repository) InsertHeader(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// InsertItems writes the order line snapshots with their choices.
func (r *repository) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// InsertEvent appends an audit log entry.
func (r *repository) InsertEvent(ctx context.Context, event *models.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// DeleteHeader removes an order and everything hanging off it. Used only
// by the compensating-delete path after a failed materialization.
func (r *repository) DeleteHeader(ctx context.Context, orderID uuid.UUID) error {
	tx := r.db.WithContext(ctx)

	var errs error
	itemIDs := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.OrderItem{}).
		Select("id").
		Where("order_id = ?", orderID)

	errs = multierr.Append(errs, tx.Where("order_item_id IN (?)", itemIDs).Delete(&models.OrderItemChoice{}).Error)
	errs = multierr.Append(errs, tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error)
	errs = multierr.Append(errs, tx.Where("order_id = ?", orderID).Delete(&models.OrderEvent{}).Error)
	errs = multierr.Append(errs, tx.Where("id = ?", orderID).Delete(&models.Order{}).Error)
	return errs
}
