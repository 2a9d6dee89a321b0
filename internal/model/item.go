package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stocked catalog entry — the single source of truth for on-hand quantity.
// Code is immutable once assigned: "<prefix><4-digit sequence>" (IC0001, DR0032, …).
// Type: "ice-cream" | "drink" | "kitchen" | "snack"
type Item struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code     string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Type     string    `gorm:"type:varchar(20);index;not null"`
	Name     string    `gorm:"index;not null"`
	Quantity int       `gorm:"not null;default:0"`
	// MinQuantity drives the low-stock alert cron
	MinQuantity int             `gorm:"not null;default:5"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ExpiryDate  *time.Time
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	TypeIceCream = "ice-cream"
	TypeDrink    = "drink"
	TypeKitchen  = "kitchen"
	TypeSnack    = "snack"
)

// CodePrefixes maps item type to its code prefix.
var CodePrefixes = map[string]string{
	TypeIceCream: "IC",
	TypeDrink:    "DR",
	TypeKitchen:  "KT",
	TypeSnack:    "NK",
}

// TypeForPrefix resolves a code prefix back to an item type.
// Unknown prefixes fall back to "kitchen" — deterministic default kept for
// compatibility with legacy delivery slips.
func TypeForPrefix(prefix string) string {
	for t, p := range CodePrefixes {
		if p == prefix {
			return t
		}
	}
	return TypeKitchen
}
