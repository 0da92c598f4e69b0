package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/pkg/config"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

const apiVersion = "2023-10"

// APIError error devuelto por el Admin API con su cuerpo, para diagnóstico.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("shopify api error: %s", e.Status)
	}
	return fmt.Sprintf("shopify api error: %s: %s", e.Status, e.Body)
}

var _ ports.ShopGateway = (*Gateway)(nil)

// Gateway implementación del puerto ShopGateway sobre el Admin REST API.
// Todas las llamadas pasan por el throttle de intervalo mínimo; no hay
// reintento: el error sube al llamador, que decide saltar la entidad.
type Gateway struct {
	http     *resty.Client
	throttle *throttle
	log      *logger.Logger
}

// NewGateway construye el gateway atado a la cuenta y token de la tienda.
func NewGateway(store *entity.Store, cfg config.ShopifyConfig, log *logger.Logger) *Gateway {
	glog := logger.FromZerolog(log.With().Str("shop", store.Account).Logger())
	httpClient := resty.New().
		SetBaseURL(fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", store.Account, apiVersion)).
		SetHeader("X-Shopify-Access-Token", store.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	installCallLogging(httpClient, glog)

	return &Gateway{
		http:     httpClient,
		throttle: newThrottle(cfg.MinCallInterval),
		log:      glog,
	}
}

// installCallLogging registra cada petición y respuesta del Admin API en el
// logger. Los hooks cubren todas las operaciones del gateway por igual.
func installCallLogging(c *resty.Client, log *logger.Logger) {
	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		log.Debug().Str("method", req.Method).Str("url", req.URL).Msg("llamada al admin api")
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("elapsed", resp.Time()).
			Msg("respuesta del admin api")
		return nil
	})
}

// request arma una petición ya pasada por el throttle.
func (g *Gateway) request(ctx context.Context) *resty.Request {
	g.throttle.wait()
	return g.http.R().SetContext(ctx)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("shopify request: %w", err)
	}
	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}
	return nil
}

// ListOrders trae los pedidos actualizados después de updatedAfter (nil = todos).
func (g *Gateway) ListOrders(ctx context.Context, updatedAfter *time.Time) ([]*entity.ShopOrder, error) {
	var result ordersResponse
	req := g.request(ctx).
		SetQueryParam("status", "any").
		SetQueryParam("limit", "250").
		SetResult(&result)
	if updatedAfter != nil {
		req.SetQueryParam("updated_at_min", updatedAfter.UTC().Format(time.RFC3339))
	}
	resp, err := req.Get("/orders.json")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	orders := make([]*entity.ShopOrder, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, orderFromJSON(o))
	}
	g.log.Debug().Int("orders", len(orders)).Msg("pedidos descargados")
	return orders, nil
}

// GetCustomer trae un cliente por id, (nil, nil) si no existe.
func (g *Gateway) GetCustomer(ctx context.Context, customerID int64) (*entity.ShopCustomer, error) {
	var result customerWrapper
	resp, err := g.request(ctx).SetResult(&result).
		Get(fmt.Sprintf("/customers/%d.json", customerID))
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	c := result.Customer
	return &entity.ShopCustomer{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Tags:      c.Tags,
	}, nil
}

// CreateProduct crea el producto con su par inicial de variantes y devuelve
// los tres ids remotos. La variante exenta se identifica por su option1.
func (g *Gateway) CreateProduct(ctx context.Context, p ports.ProductPayload) (ports.CreatedProduct, error) {
	body := productWrapper{Product: productToJSON(p)}
	var result productWrapper
	resp, err := g.request(ctx).SetBody(body).SetResult(&result).Post("/products.json")
	if err := checkResponse(resp, err); err != nil {
		return ports.CreatedProduct{}, err
	}

	created := ports.CreatedProduct{ProductID: result.Product.ID}
	for i, v := range result.Product.Variants {
		if i < len(p.Variants) && !p.Variants[i].Taxable {
			created.VariantVatID = v.ID
		} else {
			created.VariantID = v.ID
		}
	}
	g.log.Info().Int64("product_id", created.ProductID).Str("title", p.Title).Msg("producto creado")
	return created, nil
}

// UpdateProduct actualiza título, tags y publicación sin tocar las variantes.
func (g *Gateway) UpdateProduct(ctx context.Context, productID int64, p ports.ProductPayload) error {
	body := productToJSON(p)
	body.ID = productID
	body.Variants = nil
	resp, err := g.request(ctx).SetBody(productWrapper{Product: body}).
		Put(fmt.Sprintf("/products/%d.json", productID))
	return checkResponse(resp, err)
}

// CreateVariant agrega una variante a un producto existente.
func (g *Gateway) CreateVariant(ctx context.Context, productID int64, v ports.VariantPayload) (int64, error) {
	var result variantWrapper
	resp, err := g.request(ctx).
		SetBody(variantWrapper{Variant: variantToJSON(v)}).
		SetResult(&result).
		Post(fmt.Sprintf("/products/%d/variants.json", productID))
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}
	return result.Variant.ID, nil
}

// UpdateVariantPrice actualiza solo el precio de una variante.
func (g *Gateway) UpdateVariantPrice(ctx context.Context, variantID int64, price decimal.Decimal) error {
	body := map[string]any{"variant": map[string]any{
		"id":    variantID,
		"price": price.StringFixed(2),
	}}
	resp, err := g.request(ctx).SetBody(body).
		Put(fmt.Sprintf("/variants/%d.json", variantID))
	return checkResponse(resp, err)
}

// CreateImage sube una imagen en base64 al producto y devuelve su id remoto.
func (g *Gateway) CreateImage(ctx context.Context, productID int64, filename, attachmentBase64 string, position int) (int64, error) {
	var result imageWrapper
	resp, err := g.request(ctx).
		SetBody(imageWrapper{Image: imageJSON{
			Filename:   filename,
			Attachment: attachmentBase64,
			Position:   position,
		}}).
		SetResult(&result).
		Post(fmt.Sprintf("/products/%d/images.json", productID))
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}
	return result.Image.ID, nil
}

// CreateCustomer crea el cliente con su dirección por defecto.
func (g *Gateway) CreateCustomer(ctx context.Context, c ports.CustomerPayload) (ports.CreatedCustomer, error) {
	var result customerWrapper
	resp, err := g.request(ctx).
		SetBody(customerWrapper{Customer: customerToJSON(c)}).
		SetResult(&result).
		Post("/customers.json")
	if err := checkResponse(resp, err); err != nil {
		return ports.CreatedCustomer{}, err
	}
	created := ports.CreatedCustomer{CustomerID: result.Customer.ID}
	if len(result.Customer.Addresses) > 0 {
		created.AddressID = result.Customer.Addresses[0].ID
	}
	g.log.Info().Int64("customer_id", created.CustomerID).Str("email", c.Email).Msg("cliente creado")
	return created, nil
}

// UpdateCustomer actualiza el cliente y su dirección conocida.
func (g *Gateway) UpdateCustomer(ctx context.Context, customerID int64, c ports.CustomerPayload) error {
	body := customerToJSON(c)
	body.ID = customerID
	resp, err := g.request(ctx).SetBody(customerWrapper{Customer: body}).
		Put(fmt.Sprintf("/customers/%d.json", customerID))
	return checkResponse(resp, err)
}

func productToJSON(p ports.ProductPayload) productJSON {
	out := productJSON{
		Title:       p.Title,
		Tags:        p.Tags,
		ProductType: p.ProductType,
		Published:   p.Published,
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, variantToJSON(v))
	}
	if p.VideoURL != "" {
		out.Metafields = []metafieldJSON{{
			Namespace: "erp",
			Key:       "video-url",
			Value:     p.VideoURL,
			Type:      "single_line_text_field",
		}}
	}
	return out
}

func variantToJSON(v ports.VariantPayload) variantJSON {
	return variantJSON{
		SKU:               v.SKU,
		Option1:           v.Option,
		Price:             v.Price.StringFixed(2),
		Barcode:           v.Barcode,
		Grams:             v.Grams,
		Taxable:           v.Taxable,
		InventoryQuantity: v.InventoryQuantity,
	}
}

func customerToJSON(c ports.CustomerPayload) customerJSON {
	return customerJSON{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Tags:      c.Tags,
		Addresses: []addressJSON{{
			ID:        c.Address.ID,
			FirstName: c.Address.FirstName,
			LastName:  c.Address.LastName,
			Company:   c.Address.Company,
			Address1:  c.Address.Address1,
			City:      c.Address.City,
			Zip:       c.Address.Zip,
			Country:   c.Address.CountryCode,
			Phone:     c.Address.Phone,
		}},
	}
}

func orderFromJSON(o orderJSON) *entity.ShopOrder {
	order := &entity.ShopOrder{
		ID:              o.ID,
		Name:            o.Name,
		CreatedAt:       o.CreatedAt,
		FinancialStatus: o.FinancialStatus,
		Gateway:         o.Gateway,
		BillingAddress:  shopAddressFromJSON(o.BillingAddress),
		ShippingAddress: shopAddressFromJSON(o.ShippingAddress),
	}
	if o.Customer != nil {
		order.Customer = entity.ShopCustomer{
			ID:        o.Customer.ID,
			Email:     o.Customer.Email,
			FirstName: o.Customer.FirstName,
			LastName:  o.Customer.LastName,
			Tags:      o.Customer.Tags,
		}
	}
	for _, it := range o.LineItems {
		order.LineItems = append(order.LineItems, entity.LineItem{
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	for _, sl := range o.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, entity.ShippingLine{
			Code:  sl.Code,
			Title: sl.Title,
			Price: sl.Price,
		})
	}
	for _, na := range o.NoteAttributes {
		order.NoteAttributes = append(order.NoteAttributes, entity.NoteAttribute{
			Name:  na.Name,
			Value: na.Value,
		})
	}
	return order
}

func shopAddressFromJSON(a *addressJSON) *entity.ShopAddress {
	if a == nil {
		return nil
	}
	return &entity.ShopAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Zip:       a.Zip,
		Country:   a.Country,
		Phone:     a.Phone,
	}
}
