package model

import (
	"time"

	"github.com/google/uuid"
)

// StockRequest is a shop's proposal to draw inventory from the warehouse.
// Status: "pending" | "processing" | "completed" | "cancelled"
// pending ⇄ processing → {completed, cancelled}; terminal states are final.
type StockRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RequestedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	// Notes accumulates preparation remarks appended on return-for-revision
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Shop  *Shop              `gorm:"foreignKey:ShopID"`
	Lines []StockRequestLine `gorm:"foreignKey:StockRequestID"`
}

// StockRequestLine snapshots the requested item at submission time.
// Name and type are copies, never re-read from the catalog.
type StockRequestLine struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemCode       string    `gorm:"type:varchar(10);not null"`
	ItemName       string    `gorm:"not null"`
	ItemType       string    `gorm:"type:varchar(20);not null"`
	Quantity       int       `gorm:"not null"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)
