package syncrules

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ResolvePrice resuelve el precio efectivo de un PricelistItem (servicio de dominio).
//
// Regla: si hay un porcentaje de descuento válido (0,100) el precio se deriva
// del precio base del artículo y SIEMPRE prevalece sobre un ContractPrice
// posiblemente obsoleto: precio = round(base * (100 - descuento) / 100, 2).
// En cualquier otro caso gana el precio de contrato tal cual.
//
// La precedencia es explícita aquí y en ningún otro sitio: todos los llamadores
// pasan por esta función, no hay rutas que la salten con un precio ad hoc.
func ResolvePrice(contractPrice, discountPct, basePrice decimal.Decimal) decimal.Decimal {
	if discountPct.GreaterThan(decimal.Zero) && discountPct.LessThan(hundred) {
		return basePrice.Mul(hundred.Sub(discountPct)).Div(hundred).Round(2)
	}
	return contractPrice
}
