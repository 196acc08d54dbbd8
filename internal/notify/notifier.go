package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/metrics"
	"github.com/karimfahmy/sofra-backend/pkg/redis"
)

// submissionPayload is the wire shape broadcast on order submission.
type submissionPayload struct {
	OrderID       string    `json:"orderId"`
	DisplayID     string    `json:"displayId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	DeliveryLabel string    `json:"deliveryLabel"`
	TotalAmount   string    `json:"totalAmount"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Notifier broadcasts order lifecycle messages over pub/sub. Delivery is
// best effort: a failed publish is logged and counted, never surfaced to
// the submitting request.
type Notifier struct {
	publisher redis.Publisher
	cfg       config.NotifyConfig
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewNotifier wires the notifier. The metrics collector may be nil.
func NewNotifier(
	publisher redis.Publisher,
	cfg config.NotifyConfig,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (*Notifier, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Notifier{
		publisher: publisher,
		cfg:       cfg,
		logg:      logg,
		metrics:   checkoutMetrics,
	}, nil
}

// OrderSubmitted fans the submission payload out to the per-order channel
// and the shared admin channel.
func (n *Notifier) OrderSubmitted(ctx context.Context, order *models.Order) {
	payload := submissionPayload{
		OrderID:       order.ID.String(),
		DisplayID:     order.DisplayID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		DeliveryLabel: order.DeliveryLabel,
		TotalAmount:   order.Total.StringFixed(2),
		Status:        string(order.Status),
		SubmittedAt:   order.CreatedAt,
	}
	n.broadcast(ctx, payload)
}

// OrderStatusChanged republishes the order's current state after a status
// transition, on the same channels as submission.
func (n *Notifier) OrderStatusChanged(ctx context.Context, order *models.Order) {
	payload := submissionPayload{
		OrderID:       order.ID.String(),
		DisplayID:     order.DisplayID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		DeliveryLabel: order.DeliveryLabel,
		TotalAmount:   order.Total.StringFixed(2),
		Status:        string(order.Status),
		SubmittedAt:   order.CreatedAt,
	}
	n.broadcast(ctx, payload)
}

func (n *Notifier) broadcast(ctx context.Context, payload submissionPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		n.metrics.IncNotifyFailure()
		n.logg.Error(ctx, "encode order notification", err)
		return
	}

	channels := []string{
		n.OrderChannel(payload.OrderID),
		n.cfg.AdminChannel,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, channel := range channels {
		channel := channel
		group.Go(func() error {
			if err := n.publisher.Publish(groupCtx, channel, body); err != nil {
				n.metrics.IncNotifyFailure()
				n.logg.Error(n.logg.WithField(groupCtx, "channel", channel), "publish order notification", err)
			}
			return nil
		})
	}
	_ = group.Wait()
}

// OrderChannel returns the pub/sub channel dedicated to one order.
func (n *Notifier) OrderChannel(orderID string) string {
	return fmt.Sprintf("%s.%s", n.cfg.OrderChannelPrefix, orderID)
}
