package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// VariantPayload variante a crear/actualizar en Shopify. Option distingue la
// variante dentro del producto (código de artículo más sufijos de dimensión).
type VariantPayload struct {
	SKU               string
	Title             string
	Option            string
	Price             decimal.Decimal
	Barcode           string
	Grams             int64
	Taxable           bool
	InventoryQuantity int
}

// ProductPayload producto a crear/actualizar en Shopify.
type ProductPayload struct {
	Title       string
	Tags        string
	ProductType string
	Published   bool
	VideoURL    string // metafield namespace=erp key=video-url
	Variants    []VariantPayload
}

// AddressPayload dirección de un cliente Shopify. ID va solo en updates para
// que la actualización apunte a la misma dirección ya creada.
type AddressPayload struct {
	ID          int64
	FirstName   string
	LastName    string
	Company     string
	Address1    string
	City        string
	Zip         string
	CountryCode string
	Phone       string
}

// CustomerPayload cliente a crear/actualizar en Shopify.
type CustomerPayload struct {
	FirstName string
	LastName  string
	Email     string
	Tags      string
	Address   AddressPayload
}

// CreatedProduct resultado de crear un producto: el id del producto y los ids
// del par inicial de variantes (gravada y exenta), devueltos por valor.
type CreatedProduct struct {
	ProductID    int64
	VariantID    int64
	VariantVatID int64
}

// CreatedCustomer resultado de crear un cliente: id del cliente y de su
// dirección por defecto.
type CreatedCustomer struct {
	CustomerID int64
	AddressID  int64
}

// ShopGateway es el puerto hacia la plataforma de tienda. Una entidad por
// llamada remota (sin operaciones masivas); la implementación serializa las
// llamadas con un intervalo mínimo entre ellas y NO reintenta: un fallo de
// transporte sube al llamador, que decide saltar la entidad.
type ShopGateway interface {
	ListOrders(ctx context.Context, updatedAfter *time.Time) ([]*entity.ShopOrder, error)
	GetCustomer(ctx context.Context, customerID int64) (*entity.ShopCustomer, error)

	CreateProduct(ctx context.Context, p ProductPayload) (CreatedProduct, error)
	UpdateProduct(ctx context.Context, productID int64, p ProductPayload) error
	CreateVariant(ctx context.Context, productID int64, v VariantPayload) (int64, error)
	UpdateVariantPrice(ctx context.Context, variantID int64, price decimal.Decimal) error
	CreateImage(ctx context.Context, productID int64, filename, attachmentBase64 string, position int) (int64, error)

	CreateCustomer(ctx context.Context, c CustomerPayload) (CreatedCustomer, error)
	UpdateCustomer(ctx context.Context, customerID int64, c CustomerPayload) error
}

// ShopGatewayFactory construye un gateway atado a la cuenta y token de una tienda.
type ShopGatewayFactory func(store *entity.Store) ShopGateway
