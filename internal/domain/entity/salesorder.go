package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderRow línea de un pedido de venta ERP.
type SalesOrderRow struct {
	ArticleCode string
	Name        string // máximo 50 caracteres en el ERP
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// SalesOrder es el pedido de venta a crear en el ERP a partir de un pedido
// Shopify. Modelo de escritura: el ERP asigna el número al guardar.
type SalesOrder struct {
	ReferenceNumber string // número de pedido Shopify (YourOrderNumber)
	OrderDate       time.Time
	OrderType       int
	CustomerNumber  int

	PaymentTermCode    int
	DeliveryMethodCode int

	// DeliveryDate convención del ERP: un año después de la creación del
	// pedido; no es una promesa real de entrega.
	DeliveryDate time.Time

	OrdererName          string
	OrdererStreetAddress string
	OrdererCity          string

	DeliveryName          string
	DeliveryStreetAddress string
	DeliveryCity          string

	PickupPointID   string
	PickupPointName string

	Rows []SalesOrderRow
}
