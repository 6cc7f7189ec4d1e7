package entity

import "time"

// Partner datos de contacto de una contraparte. Clientes y proveedores comparten esquema.
type Partner struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer cliente: contraparte de los comprobantes de salida.
type Customer Partner

// Supplier proveedor: contraparte de los comprobantes de entrada.
type Supplier Partner
