package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article es un artículo del ERP (solo lectura para el motor de sincronización).
// Los artículos que comparten FamilyCode se representan en Shopify como
// variantes de un mismo producto.
type Article struct {
	Code       string // clave única en el ERP
	Name       string
	FamilyCode string // agrupa variantes de un mismo producto conceptual
	Type       int    // tipo de artículo ERP (solo algunos tipos se sincronizan)

	Price    decimal.Decimal
	Currency string
	VATRate  decimal.Decimal // porcentaje de IVA (ej. 24)
	Barcode  string
	WeightKg decimal.Decimal

	StockQuantity int
	MakeToOrder   bool   // fabricación bajo pedido (marca "Order" en los tags)
	GroupID       int    // referencia al grupo de producto ERP (puede estar obsoleta)
	VideoURL      string // metafield video-url en Shopify
	CommonName    string // título común de la familia; sobreescribe el título del producto

	// DeliveryDate fecha de disponibilidad calculada por el ERP; va como tag +D.
	DeliveryDate *time.Time

	UpdatedAt time.Time
}

// GramsFromWeight convierte el peso en kilogramos a gramos enteros (campo grams de Shopify).
func (a *Article) GramsFromWeight() int64 {
	return a.WeightKg.Mul(decimal.NewFromInt(1000)).IntPart()
}
