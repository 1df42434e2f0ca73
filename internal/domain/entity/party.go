package entity

import "time"

// Client es un cliente de la tienda (colección clients).
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}

// Supplier es un proveedor (colección fournisseurs).
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}
