package shopify

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cable del Admin REST API. Los precios viajan como string decimal.

type variantJSON struct {
	ID                int64  `json:"id,omitempty"`
	SKU               string `json:"sku"`
	Title             string `json:"title,omitempty"`
	Option1           string `json:"option1"`
	Price             string `json:"price"`
	Barcode           string `json:"barcode,omitempty"`
	Grams             int64  `json:"grams"`
	Taxable           bool   `json:"taxable"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type metafieldJSON struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type productJSON struct {
	ID          int64           `json:"id,omitempty"`
	Title       string          `json:"title"`
	Tags        string          `json:"tags"`
	ProductType string          `json:"product_type,omitempty"`
	Published   bool            `json:"published"`
	Variants    []variantJSON   `json:"variants,omitempty"`
	Metafields  []metafieldJSON `json:"metafields,omitempty"`
}

type productWrapper struct {
	Product productJSON `json:"product"`
}

type variantWrapper struct {
	Variant variantJSON `json:"variant"`
}

type imageJSON struct {
	ID         int64  `json:"id,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	Position   int    `json:"position,omitempty"`
}

type imageWrapper struct {
	Image imageJSON `json:"image"`
}

type addressJSON struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type customerJSON struct {
	ID        int64         `json:"id,omitempty"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Tags      string        `json:"tags"`
	Addresses []addressJSON `json:"addresses,omitempty"`
}

type customerWrapper struct {
	Customer customerJSON `json:"customer"`
}

type lineItemJSON struct {
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type shippingLineJSON struct {
	Code  string          `json:"code"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type noteAttributeJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type orderJSON struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	CreatedAt       time.Time           `json:"created_at"`
	FinancialStatus string              `json:"financial_status"`
	Gateway         string              `json:"gateway"`
	Customer        *customerJSON       `json:"customer"`
	BillingAddress  *addressJSON        `json:"billing_address"`
	ShippingAddress *addressJSON        `json:"shipping_address"`
	LineItems       []lineItemJSON      `json:"line_items"`
	ShippingLines   []shippingLineJSON  `json:"shipping_lines"`
	NoteAttributes  []noteAttributeJSON `json:"note_attributes"`
}

type ordersResponse struct {
	Orders []orderJSON `json:"orders"`
}
