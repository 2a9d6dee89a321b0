package model

import (
	"time"

	"github.com/google/uuid"
)

// Operation is one immutable entry in the inventory ledger.
// Direction: "in" | "out". Entries are NEVER modified or deleted —
// corrections create new entries.
type Operation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction string    `gorm:"type:varchar(3);not null"`
	Quantity  int       `gorm:"not null"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	ActorName string    `gorm:"not null"`
	Notes     string
	// ReferenceID links to the originating request or delivery, if any
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)
