package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricelistItem es un precio específico del ERP: por lista de precios o por
// cliente, para un artículo y un escalón de cantidad. Solo lectura.
type PricelistItem struct {
	ArticleCode     string
	PricelistNumber *int // excluyente con CustomerNumber
	CustomerNumber  *int
	Quantity        int // escalón de cantidad (BatchSize); <=1 equivale a precio base

	ContractPrice decimal.Decimal
	DiscountPct   decimal.Decimal // si está en (0,100), deriva el precio desde el precio base
	Currency      string

	ValidFrom  *time.Time
	ValidUntil *time.Time

	UpdatedAt time.Time
}

// ValidAt indica si el precio está vigente en el instante dado.
// Un extremo nil de la ventana no restringe.
func (p *PricelistItem) ValidAt(at time.Time) bool {
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && at.After(*p.ValidUntil) {
		return false
	}
	return true
}
