package dto

type SubmitShipmentRequest struct {
	ItemID      string `json:"item_id"     validate:"required,uuid"`
	Quantity    int    `json:"quantity"    validate:"required,gt=0"`
	Destination string `json:"destination" validate:"required,min=2,max=200"`
}

type ShipmentRequestFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ShipmentRequestResponse struct {
	ID          string  `json:"id"`
	ItemID      string  `json:"item_id"`
	ItemCode    string  `json:"item_code,omitempty"`
	ItemName    string  `json:"item_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Destination string  `json:"destination"`
	Status      string  `json:"status"`
	RequestedBy string  `json:"requested_by"`
	ProcessedBy *string `json:"processed_by"`
	CreatedAt   string  `json:"created_at"`
}

type ShipmentRequestListResponse struct {
	Data  []ShipmentRequestResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
