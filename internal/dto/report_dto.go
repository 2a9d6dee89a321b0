package dto

import "github.com/shopspring/decimal"

// ReportFilter bounds a report to a date window (inclusive).
type ReportFilter struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
}

type DirectionTotal struct {
	Direction string `json:"direction"`
	Quantity  int    `json:"quantity"`
	Count     int    `json:"count"`
}

type TypeTotal struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

type DestinationTotal struct {
	Destination string `json:"destination"`
	Quantity    int    `json:"quantity"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// InventoryReport is a pure projection — no field here is authoritative.
type InventoryReport struct {
	From             string             `json:"from"`
	To               string             `json:"to"`
	ByDirection      []DirectionTotal   `json:"by_direction"`
	ByItemType       []TypeTotal        `json:"by_item_type"`
	ByDestination    []DestinationTotal `json:"by_destination"`
	RequestsByStatus []StatusCount      `json:"requests_by_status"`
	DeliveriesCount  int                `json:"deliveries_count"`
	StockValuation   decimal.Decimal    `json:"stock_valuation"`
	GeneratedAt      string             `json:"generated_at"`
}
