package dto

import "time"

// PartyRequest alta o modificación de un cliente o proveedor.
type PartyRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"max=40"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=300"`
}

// PartyResponse salida de un cliente o proveedor.
type PartyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
