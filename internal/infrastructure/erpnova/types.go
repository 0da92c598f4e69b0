package erpnova

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// Tipos de cable del API REST del ERP.

type articleJSON struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	FamilyCode    string          `json:"family_code"`
	Type          int             `json:"type"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	Barcode       string          `json:"barcode"`
	WeightKg      decimal.Decimal `json:"weight_kg"`
	StockQuantity int             `json:"stock_quantity"`
	MakeToOrder   bool            `json:"make_to_order"`
	GroupID       int             `json:"group_id"`
	VideoURL      string          `json:"video_url"`
	CommonName    string          `json:"common_name"`
	DeliveryDate  *time.Time      `json:"delivery_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (a articleJSON) toEntity() *entity.Article {
	return &entity.Article{
		Code:          a.Code,
		Name:          a.Name,
		FamilyCode:    a.FamilyCode,
		Type:          a.Type,
		Price:         a.Price,
		Currency:      a.Currency,
		VATRate:       a.VATRate,
		Barcode:       a.Barcode,
		WeightKg:      a.WeightKg,
		StockQuantity: a.StockQuantity,
		MakeToOrder:   a.MakeToOrder,
		GroupID:       a.GroupID,
		VideoURL:      a.VideoURL,
		CommonName:    a.CommonName,
		DeliveryDate:  a.DeliveryDate,
		UpdatedAt:     a.UpdatedAt,
	}
}

type productGroupJSON struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type contactJSON struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type addressJSON struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

func (a addressJSON) toEntity() entity.Address {
	return entity.Address{
		Street:  a.Street,
		City:    a.City,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
		Company: a.Company,
	}
}

type customerJSON struct {
	Number                int           `json:"number"`
	FullName              string        `json:"full_name"`
	Contacts              []contactJSON `json:"contacts"`
	Address               addressJSON   `json:"address"`
	PricelistID           int           `json:"pricelist_id"`
	InvoiceCustomerNumber *int          `json:"invoice_customer_number"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func (c customerJSON) toEntity() *entity.Customer {
	out := &entity.Customer{
		Number:                c.Number,
		FullName:              c.FullName,
		Address:               c.Address.toEntity(),
		PricelistID:           c.PricelistID,
		InvoiceCustomerNumber: c.InvoiceCustomerNumber,
		UpdatedAt:             c.UpdatedAt,
	}
	for _, ct := range c.Contacts {
		out.Contacts = append(out.Contacts, entity.Contact{
			FullName: ct.FullName,
			Email:    ct.Email,
			Phone:    ct.Phone,
		})
	}
	return out
}

type pricelistItemJSON struct {
	ArticleCode     string          `json:"article_code"`
	PricelistNumber *int            `json:"pricelist_number"`
	CustomerNumber  *int            `json:"customer_number"`
	Quantity        int             `json:"quantity"`
	ContractPrice   decimal.Decimal `json:"contract_price"`
	DiscountPct     decimal.Decimal `json:"discount_pct"`
	Currency        string          `json:"currency"`
	ValidFrom       *time.Time      `json:"valid_from"`
	ValidUntil      *time.Time      `json:"valid_until"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (p pricelistItemJSON) toEntity() *entity.PricelistItem {
	return &entity.PricelistItem{
		ArticleCode:     p.ArticleCode,
		PricelistNumber: p.PricelistNumber,
		CustomerNumber:  p.CustomerNumber,
		Quantity:        p.Quantity,
		ContractPrice:   p.ContractPrice,
		DiscountPct:     p.DiscountPct,
		Currency:        p.Currency,
		ValidFrom:       p.ValidFrom,
		ValidUntil:      p.ValidUntil,
		UpdatedAt:       p.UpdatedAt,
	}
}

type newCustomerJSON struct {
	FullName     string      `json:"full_name"`
	ContactName  string      `json:"contact_name"`
	ContactEmail string      `json:"contact_email"`
	Address      addressJSON `json:"address"`
}

type createdCustomerJSON struct {
	Number int `json:"number"`
}

type salesOrderRowJSON struct {
	ArticleCode string          `json:"article_code"`
	Name        string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type salesOrderJSON struct {
	ReferenceNumber string    `json:"reference_number"`
	OrderDate       time.Time `json:"order_date"`
	OrderType       int       `json:"order_type"`
	CustomerNumber  int       `json:"customer_number"`

	PaymentTermCode    int `json:"payment_term_code"`
	DeliveryMethodCode int `json:"delivery_method_code"`

	DeliveryDate time.Time `json:"delivery_date"`

	OrdererName          string `json:"orderer_name,omitempty"`
	OrdererStreetAddress string `json:"orderer_street_address,omitempty"`
	OrdererCity          string `json:"orderer_city,omitempty"`

	DeliveryName          string `json:"delivery_name,omitempty"`
	DeliveryStreetAddress string `json:"delivery_street_address,omitempty"`
	DeliveryCity          string `json:"delivery_city,omitempty"`

	PickupPointID   string `json:"pickup_point_id,omitempty"`
	PickupPointName string `json:"pickup_point_name,omitempty"`

	Rows []salesOrderRowJSON `json:"rows"`
}

type createdSalesOrderJSON struct {
	OrderNumber string `json:"order_number"`
}
