package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StockRequestLineRequest struct {
	ItemCode string `json:"item_code" validate:"required"`
	Quantity int    `json:"quantity"  validate:"required,gt=0"`
}

type SubmitStockRequest struct {
	ShopID string                    `json:"shop_id" validate:"required,uuid"`
	Lines  []StockRequestLineRequest `json:"lines"   validate:"required,min=1,dive"`
}

type ReturnForRevisionRequest struct {
	Notes string `json:"notes" validate:"required,min=3"`
}

type StockRequestFilter struct {
	Status string `form:"status"`
	ShopID string `form:"shop_id"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockRequestLineResponse struct {
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

type StockRequestResponse struct {
	ID          string                     `json:"id"`
	ShopID      string                     `json:"shop_id"`
	ShopName    string                     `json:"shop_name,omitempty"`
	Status      string                     `json:"status"`
	RequestedBy string                     `json:"requested_by"`
	ProcessedBy *string                    `json:"processed_by"`
	ProcessedAt *string                    `json:"processed_at"`
	Notes       string                     `json:"notes,omitempty"`
	Lines       []StockRequestLineResponse `json:"lines"`
	CreatedAt   string                     `json:"created_at"`
}

type StockRequestListResponse struct {
	Data  []StockRequestResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
