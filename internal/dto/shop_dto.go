package dto

type CreateShopRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=150"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type ShopResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Active  bool    `json:"active"`
}
