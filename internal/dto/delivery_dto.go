package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DeliveryLineRequest struct {
	Code       string           `json:"code"        validate:"required"`
	Quantity   int              `json:"quantity"    validate:"required,gt=0"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	ExpiryDate *string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type SubmitDeliveryRequest struct {
	SupplierID   string                `json:"supplier_id"   validate:"required,uuid"`
	DeliveryDate *string               `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string                `json:"notes"`
	Lines        []DeliveryLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type DeliveryFilter struct {
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// Code classification values returned by the validation endpoint.
const (
	CodeInCatalog    = "in-catalog"
	CodeKnownProduct = "known-product"
	CodeInvalid      = "invalid"
)

// CodeCheckResponse is the advisory answer to "what is this scanned code?".
// It is re-validated server-side at commit time.
type CodeCheckResponse struct {
	Code            string `json:"code"`
	Classification  string `json:"classification"`
	Name            string `json:"name,omitempty"`
	Type            string `json:"type,omitempty"`
	CurrentQuantity *int   `json:"current_quantity,omitempty"`
}

type DeliveryLineResponse struct {
	Code       string           `json:"code"`
	Quantity   int              `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	ExpiryDate *string          `json:"expiry_date"`
}

type DeliveryResponse struct {
	ID           string                 `json:"id"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	DeliveryDate string                 `json:"delivery_date"`
	ReceivedBy   string                 `json:"received_by"`
	Status       string                 `json:"status"`
	Notes        string                 `json:"notes,omitempty"`
	Lines        []DeliveryLineResponse `json:"lines"`
	CreatedAt    string                 `json:"created_at"`
}

type DeliveryListResponse struct {
	Data  []DeliveryResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
