package dto

type OperationResponse struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	ItemCode  string `json:"item_code,omitempty"`
	ItemName  string `json:"item_name,omitempty"`
	Direction string `json:"direction"`
	Quantity  int    `json:"quantity"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OperationListResponse struct {
	Data  []OperationResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
