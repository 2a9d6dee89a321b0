package dto

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=150"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Active  bool    `json:"active"`
}
