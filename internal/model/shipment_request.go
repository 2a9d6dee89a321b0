package model

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentRequest proposes sending a single item to an external destination.
// Status: "pending" | "approved" | "cancelled"; approved and cancelled are terminal.
type ShipmentRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity    int        `gorm:"not null"`
	Destination string     `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RequestedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

const StatusApproved = "approved"
