package dto

import "time"

// PartnerRequest entrada para crear o actualizar un cliente o proveedor.
type PartnerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// PartnerResponse salida de un cliente o proveedor.
type PartnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartnerListResponse lista paginada de clientes o proveedores.
type PartnerListResponse struct {
	Items []PartnerResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
