package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados financieros de un pedido Shopify que cambian el tipo de pedido ERP.
const (
	FinancialStatusPending = "pending"
	FinancialStatusPaid    = "paid"
)

// Claves de note_attributes que transportan el punto de recogida del transportista.
const (
	NotePickupPointID   = "pickup-point-id"
	NotePickupPointName = "pickup-point-name"
)

// ShopAddress dirección tal como llega de Shopify.
type ShopAddress struct {
	FirstName string
	LastName  string
	Company   string
	Address1  string
	Address2  string
	City      string
	Zip       string
	Country   string
	Phone     string
}

// ShopCustomer cliente embebido en un pedido Shopify. Tags puede contener la
// marca +C<number> que lo ata a un cliente ERP existente.
type ShopCustomer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Tags      string
}

// LineItem línea de pedido Shopify.
type LineItem struct {
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ShippingLine línea de envío de un pedido Shopify.
type ShippingLine struct {
	Code  string // método de envío; resuelve el código de entrega ERP
	Title string
	Price decimal.Decimal
}

// NoteAttribute atributo libre clave/valor del pedido.
type NoteAttribute struct {
	Name  string
	Value string
}

// ShopOrder es un pedido remoto de Shopify (la tienda es dueña de los pedidos).
type ShopOrder struct {
	ID              int64 // clave única remota
	Name            string
	CreatedAt       time.Time
	FinancialStatus string
	Gateway         string // pasarela de pago; resuelve la condición de pago ERP

	Customer        ShopCustomer
	BillingAddress  *ShopAddress
	ShippingAddress *ShopAddress

	LineItems      []LineItem
	ShippingLines  []ShippingLine
	NoteAttributes []NoteAttribute
}

// NoteAttribute devuelve el valor del atributo con ese nombre, o "".
func (o *ShopOrder) NoteAttribute(name string) string {
	for _, a := range o.NoteAttributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}
