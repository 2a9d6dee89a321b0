package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierDelivery records a supplier-sourced intake event.
// Status: "received" | "processed". A delivery is "processed" once every line
// has been applied to the catalog and the ledger.
type SupplierDelivery struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DeliveryDate time.Time `gorm:"not null;index"`
	ReceivedBy   uuid.UUID `gorm:"type:uuid;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'received'"`
	Notes        string
	CreatedAt    time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Lines    []DeliveryLine `gorm:"foreignKey:DeliveryID"`
}

// DeliveryLine is a point-in-time snapshot of one delivered code.
type DeliveryLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code       string    `gorm:"type:varchar(10);not null"`
	Quantity   int       `gorm:"not null"`
	UnitCost   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	ExpiryDate *time.Time
}

const (
	StatusReceived  = "received"
	StatusProcessed = "processed"
)
