package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Type        string          `json:"type"         validate:"required,oneof=ice-cream drink kitchen snack"`
	Name        string          `json:"name"         validate:"required,min=2,max=150"`
	Quantity    int             `json:"quantity"     validate:"min=0"`
	MinQuantity int             `json:"min_quantity" validate:"min=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"    validate:"min=0"`
	ExpiryDate  *string         `json:"expiry_date"  validate:"omitempty,datetime=2006-01-02"`
}

// UpdateItemRequest changes item metadata only. Quantity is mutated solely
// through the ledger (adjust/set endpoints) so every change leaves an Operation.
type UpdateItemRequest struct {
	Name        string           `json:"name"         validate:"omitempty,min=2,max=150"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,min=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	ExpiryDate  *string          `json:"expiry_date"  validate:"omitempty,datetime=2006-01-02"`
}

type AdjustQuantityRequest struct {
	Delta  int    `json:"delta"  validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type SetQuantityRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Reason   string `json:"reason"   validate:"required,min=3"`
}

type ItemFilter struct {
	Type   string `form:"type"`
	Name   string `form:"name"`
	Active string `form:"active"` // "", "false", "all"
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiryDate  *string         `json:"expiry_date"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// LowStockAlert flags an item at or below its minimum quantity.
type LowStockAlert struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}
