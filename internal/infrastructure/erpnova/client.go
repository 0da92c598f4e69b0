package erpnova

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/pkg/config"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// APIError error del API del ERP con el cuerpo de la respuesta.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("erp api error: %s", e.Status)
	}
	return fmt.Sprintf("erp api error: %s: %s", e.Status, e.Body)
}

var _ ports.ERP = (*Client)(nil)

// Client implementación del puerto ERP sobre el API REST del ERP, atado a una
// empresa. Los endpoints cuelgan de /companies/{n}/.
type Client struct {
	http    *resty.Client
	company int
	log     *logger.Logger
}

// NewClient construye el cliente ERP para una empresa.
func NewClient(company int, cfg config.ERPConfig, log *logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		httpClient.SetAuthScheme("Bearer")
		httpClient.SetAuthToken(cfg.APIKey)
	}
	return &Client{
		http:    httpClient,
		company: company,
		log:     logger.FromZerolog(log.With().Int("company", company).Logger()),
	}
}

func (c *Client) path(format string, args ...any) string {
	return fmt.Sprintf("/companies/%d", c.company) + fmt.Sprintf(format, args...)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("erp request: %w", err)
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

// ListArticles trae los artículos cambiados desde since (nil = todos).
func (c *Client) ListArticles(ctx context.Context, since *time.Time) ([]*entity.Article, error) {
	var result []articleJSON
	req := c.http.R().SetContext(ctx).SetResult(&result)
	if since != nil {
		req.SetQueryParam("changed_since", since.UTC().Format(time.RFC3339))
	}
	resp, err := req.Get(c.path("/articles"))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	articles := make([]*entity.Article, 0, len(result))
	for _, a := range result {
		articles = append(articles, a.toEntity())
	}
	return articles, nil
}

// GetArticle trae un artículo por código, (nil, nil) si no existe.
func (c *Client) GetArticle(ctx context.Context, code string) (*entity.Article, error) {
	var result articleJSON
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Get(c.path("/articles/%s", code))
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return result.toEntity(), nil
}

// ProductGroupDescription descripción del grupo de producto. La referencia
// puede estar obsoleta; el 404 sube como error y el llamador lo degrada.
func (c *Client) ProductGroupDescription(ctx context.Context, groupID int) (string, error) {
	var result productGroupJSON
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Get(c.path("/product-groups/%d", groupID))
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return result.Description, nil
}

// ListCustomers trae los clientes cambiados desde since (nil = todos).
func (c *Client) ListCustomers(ctx context.Context, since *time.Time) ([]*entity.Customer, error) {
	var result []customerJSON
	req := c.http.R().SetContext(ctx).SetResult(&result)
	if since != nil {
		req.SetQueryParam("changed_since", since.UTC().Format(time.RFC3339))
	}
	resp, err := req.Get(c.path("/customers"))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	customers := make([]*entity.Customer, 0, len(result))
	for _, cu := range result {
		customers = append(customers, cu.toEntity())
	}
	return customers, nil
}

// GetCustomer trae un cliente por número, (nil, nil) si no existe.
func (c *Client) GetCustomer(ctx context.Context, number int) (*entity.Customer, error) {
	var result customerJSON
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Get(c.path("/customers/%d", number))
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return result.toEntity(), nil
}

// GeneralPricelist trae los precios de una lista general; nil si no existe.
func (c *Client) GeneralPricelist(ctx context.Context, pricelistNumber int) ([]*entity.PricelistItem, error) {
	return c.pricelist(ctx, c.path("/pricelists/%d/items", pricelistNumber))
}

// CustomerPricelist trae los precios específicos de un cliente; nil si no tiene.
func (c *Client) CustomerPricelist(ctx context.Context, customerNumber int) ([]*entity.PricelistItem, error) {
	return c.pricelist(ctx, c.path("/customers/%d/prices", customerNumber))
}

func (c *Client) pricelist(ctx context.Context, path string) ([]*entity.PricelistItem, error) {
	var result []pricelistItemJSON
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get(path)
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		// lista inexistente: caso rutinario
		return nil, nil
	}
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	items := make([]*entity.PricelistItem, 0, len(result))
	for _, it := range result {
		items = append(items, it.toEntity())
	}
	return items, nil
}

// CreateCustomer crea un cliente en el ERP y devuelve su número asignado.
func (c *Client) CreateCustomer(ctx context.Context, in entity.NewCustomer) (int, error) {
	body := newCustomerJSON{
		FullName:     in.FullName,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		Address: addressJSON{
			Street:  in.Address.Street,
			City:    in.Address.City,
			Zip:     in.Address.Zip,
			Country: in.Address.Country,
			Phone:   in.Address.Phone,
			Company: in.Address.Company,
		},
	}
	var result createdCustomerJSON
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&result).
		Post(c.path("/customers"))
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}
	c.log.Info().Int("customer", result.Number).Msg("cliente creado en el ERP")
	return result.Number, nil
}

// CreateSalesOrder crea el pedido de venta y devuelve el número que asigna el ERP.
func (c *Client) CreateSalesOrder(ctx context.Context, order *entity.SalesOrder) (string, error) {
	body := salesOrderJSON{
		ReferenceNumber:       order.ReferenceNumber,
		OrderDate:             order.OrderDate,
		OrderType:             order.OrderType,
		CustomerNumber:        order.CustomerNumber,
		PaymentTermCode:       order.PaymentTermCode,
		DeliveryMethodCode:    order.DeliveryMethodCode,
		DeliveryDate:          order.DeliveryDate,
		OrdererName:           order.OrdererName,
		OrdererStreetAddress:  order.OrdererStreetAddress,
		OrdererCity:           order.OrdererCity,
		DeliveryName:          order.DeliveryName,
		DeliveryStreetAddress: order.DeliveryStreetAddress,
		DeliveryCity:          order.DeliveryCity,
		PickupPointID:         order.PickupPointID,
		PickupPointName:       order.PickupPointName,
	}
	for _, row := range order.Rows {
		body.Rows = append(body.Rows, salesOrderRowJSON{
			ArticleCode: row.ArticleCode,
			Name:        row.Name,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
		})
	}
	var result createdSalesOrderJSON
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&result).
		Post(c.path("/salesorders"))
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	c.log.Info().Str("order", result.OrderNumber).Str("reference", order.ReferenceNumber).
		Msg("pedido de venta creado en el ERP")
	return result.OrderNumber, nil
}
