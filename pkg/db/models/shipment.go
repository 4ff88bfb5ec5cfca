package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-labs/velora-backend/pkg/enums"
	"github.com/velora-labs/velora-backend/pkg/types"
)

// ShipmentEvent records every carrier webhook delivery verbatim,
// including ones with statuses we do not recognize.
type ShipmentEvent struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID     `gorm:"column:order_id;type:uuid;not null;index"`
	AWBNumber   string        `gorm:"column:awb_number;not null;default:''"`
	Status      string        `gorm:"column:status;not null"`
	StatusCode  string        `gorm:"column:status_code;not null;default:''"`
	Message     string        `gorm:"column:message;not null;default:''"`
	EventTime   *time.Time    `gorm:"column:event_time"`
	Location    string        `gorm:"column:location;not null;default:''"`
	CourierName string        `gorm:"column:courier_name;not null;default:''"`
	PaymentType string        `gorm:"column:payment_type;not null;default:''"`
	EDD         string        `gorm:"column:edd;not null;default:''"`
	RawPayload  types.JSONMap `gorm:"column:raw_payload;type:jsonb"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// TimelineEntry is an append-only customer-facing history line.
// Duplicate labels are allowed; entries are never edited or removed.
type TimelineEntry struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index"`
	Label     string                 `gorm:"column:label;not null"`
	Note      string                 `gorm:"column:note;not null;default:''"`
	Severity  enums.TimelineSeverity `gorm:"column:severity;type:text;not null;default:'INFO'"`
	Timestamp time.Time              `gorm:"column:timestamp;not null"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
