package entity

import "time"

// Contact es un contacto de un cliente ERP. Cada contacto con email se
// convierte en un cliente Shopify independiente, identificado por
// (customerNumber, índice del contacto).
type Contact struct {
	FullName string
	Email    string
	Phone    string
}

// Address dirección postal del ERP.
type Address struct {
	Street  string
	City    string
	Zip     string
	Country string // código de dos letras o nombre completo del país
	Phone   string
	Company string
}

// Customer es un cliente del ERP (solo lectura para la sincronización saliente).
type Customer struct {
	Number   int // clave única en el ERP
	FullName string
	Contacts []Contact
	Address  Address

	PricelistID int // lista de precios asignada; va como tag +P en Shopify

	// InvoiceCustomerNumber cliente de facturación; si está asignado, la
	// dirección publicada en Shopify sale de ese cliente y no de este.
	InvoiceCustomerNumber *int

	UpdatedAt time.Time
}

// NewCustomer datos para crear un cliente nuevo en el ERP (importación de pedidos).
type NewCustomer struct {
	FullName     string
	ContactName  string
	ContactEmail string
	Address      Address
}
