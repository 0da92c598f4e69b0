package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tipos de entidad en la tabla de correspondencias.
const (
	EntityProduct  = "product"
	EntityCustomer = "customer"
	EntityOrder    = "order"
)

// VariantKey es la dimensión de variante que distingue precios específicos de
// un mismo artículo: (lista de precios | cliente, escalón de cantidad).
// La clave vacía (todo nil) identifica la variante base.
type VariantKey struct {
	PricelistNumber *int
	CustomerNumber  *int
	Quantity        *int
}

// BaseKey clave de la variante base (sin dimensión de precio).
func BaseKey() VariantKey { return VariantKey{} }

// IsBase indica si la clave corresponde a la variante base.
func (k VariantKey) IsBase() bool {
	return k.PricelistNumber == nil && k.CustomerNumber == nil && k.Quantity == nil
}

// ProductRef ids remotos de un artículo sincronizado: producto más el par de
// variantes (con IVA y exenta) y el libro de imágenes ya subidas.
type ProductRef struct {
	ProductID    int64
	VariantID    int64 // variante gravada
	VariantVatID int64 // variante exenta de IVA
	FamilyCode   string

	// ImageLedger lista delimitada "nombre=id;nombre=id" de imágenes ya
	// creadas en Shopify para el producto base.
	ImageLedger string
}

// ImageIDs descompone el libro de imágenes en un mapa nombre -> id remoto.
func (r *ProductRef) ImageIDs() map[string]int64 {
	out := map[string]int64{}
	for _, pair := range strings.Split(r.ImageLedger, ";") {
		name, idStr, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		out[name] = id
	}
	return out
}

// AppendImage agrega un par nombre=id al libro de imágenes.
func (r *ProductRef) AppendImage(name string, imageID int64) {
	entry := fmt.Sprintf("%s=%d", name, imageID)
	if r.ImageLedger == "" {
		r.ImageLedger = entry
		return
	}
	r.ImageLedger += ";" + entry
}

// LedgerNames nombres de imagen ya registrados, ordenados (para logs estables).
func (r *ProductRef) LedgerNames() []string {
	ids := r.ImageIDs()
	names := make([]string, 0, len(ids))
	for n := range ids {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CustomerRef ids remotos de un contacto de cliente sincronizado.
type CustomerRef struct {
	CustomerNumber int
	ContactIndex   int
	CustomerID     int64 // id de cliente Shopify
	AddressID      int64 // id de la dirección por defecto
}

// OrderRef enlace de un pedido Shopify ya importado al ERP.
type OrderRef struct {
	ShopifyOrderID int64
	ERPOrderNumber string
}
