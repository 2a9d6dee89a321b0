package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a known product definition that may not be stocked yet.
// Delivery intake turns a Product into a catalog Item the first time it arrives.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
