package dto

type CreateProductRequest struct {
	Code string `json:"code" validate:"required,len=6"`
	Name string `json:"name" validate:"required,min=2,max=150"`
	Type string `json:"type" validate:"required,oneof=ice-cream drink kitchen snack"`
}

type ProductResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}
