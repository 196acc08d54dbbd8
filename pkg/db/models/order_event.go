package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/pkg/enums"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

// OrderEvent is the append-only audit trail for an order. Rows are
// never updated or deleted.
type OrderEvent struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index:ix_order_events_order_id"`
	ActorType  enums.ActorType   `gorm:"column:actor_type;type:actor_type;not null"`
	ActorID    *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	FromStatus *string           `gorm:"column:from_status"`
	ToStatus   enums.OrderStatus `gorm:"column:to_status;type:order_status;not null"`
	Metadata   types.JSONMap     `gorm:"column:metadata;type:jsonb"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
