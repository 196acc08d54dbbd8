package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/enums"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type statusNotifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

// Actor identifies who is driving a status transition, recorded on the
// audit trail.
type Actor struct {
	Type enums.ActorType
	ID   *uuid.UUID
}

// Service is the post-submission order workflow: customer reads and the
// admin lifecycle.
type Service interface {
	GetDetail(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, target enums.OrderStatus) (*models.Order, error)
}

type service struct {
	tx       txRunner
	orders   OrderRepository
	notifier statusNotifier
	logg     *logger.Logger
}

// NewService wires the order workflow service.
func NewService(tx txRunner, orders OrderRepository, notifier statusNotifier, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, orders: orders, notifier: notifier, logg: logg}, nil
}

// GetDetail loads an order with its line snapshots, restricted to the
// owning user.
func (s *service) GetDetail(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// List returns the user's orders, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// UpdateStatus advances an order through its lifecycle. One forward step
// at a time, cancellation allowed until delivery, nothing leaves a
// terminal state. The transition and its audit row commit together.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, target enums.OrderStatus) (*models.Order, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", target))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	from := string(order.Status)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, target, target.IsTerminal()); err != nil {
			return err
		}
		return repo.InsertEvent(ctx, &models.OrderEvent{
			OrderID:    orderID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			FromStatus: &from,
			ToStatus:   target,
			Metadata: types.JSONMap{
				"display_id": order.DisplayID,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = target
	order.IsClosed = target.IsTerminal()
	s.notifier.OrderStatusChanged(ctx, order)
	return order, nil
}
