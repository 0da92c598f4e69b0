package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

func testGateway(srv *httptest.Server) *Gateway {
	return testGatewayWithLog(srv, logger.Nop())
}

func testGatewayWithLog(srv *httptest.Server, log *logger.Logger) *Gateway {
	client := resty.New().SetBaseURL(srv.URL)
	installCallLogging(client, log)
	return &Gateway{
		http:     client,
		throttle: newThrottle(0),
		log:      log,
	}
}

func TestGateway_CreateProductMapeaLasVariantes(t *testing.T) {
	var received productWrapper
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product":{"id":100,"variants":[{"id":201,"option1":"A100"},{"id":202,"option1":"A100-0"}]}}`))
	}))
	defer srv.Close()

	g := testGateway(srv)
	created, err := g.CreateProduct(context.Background(), ports.ProductPayload{
		Title: "Artículo A100",
		Variants: []ports.VariantPayload{
			{SKU: "A100", Option: "A100", Price: decimal.NewFromFloat(19.90), Taxable: true},
			{SKU: "A100-0", Option: "A100-0", Price: decimal.NewFromFloat(19.90)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ProductID)
	assert.Equal(t, int64(201), created.VariantID)
	assert.Equal(t, int64(202), created.VariantVatID)

	require.Len(t, received.Product.Variants, 2)
	assert.Equal(t, "19.90", received.Product.Variants[0].Price, "el precio viaja como string decimal")
	assert.True(t, received.Product.Variants[0].Taxable)
	assert.False(t, received.Product.Variants[1].Taxable)
}

func TestGateway_ListOrdersParseaElPedido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders.json", r.URL.Path)
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[{
			"id": 9001, "name": "#1001", "created_at": "2026-08-20T12:00:00Z",
			"financial_status": "paid", "gateway": "klarna",
			"customer": {"id": 55, "email": "ana@demo.fi", "tags": "+C1200"},
			"line_items": [{"sku": "A100", "quantity": 2, "price": "19.90"}],
			"shipping_lines": [{"code": "posti", "title": "Posti", "price": "7.90"}],
			"note_attributes": [{"name": "pickup-point-id", "value": "P-77"}]
		}]}`))
	}))
	defer srv.Close()

	g := testGateway(srv)
	orders, err := g.ListOrders(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, int64(9001), o.ID)
	assert.Equal(t, "+C1200", o.Customer.Tags)
	require.Len(t, o.LineItems, 1)
	assert.True(t, o.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, "P-77", o.NoteAttribute("pickup-point-id"))
}

func TestGateway_GetCustomerInexistente(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	g := testGateway(srv)
	customer, err := g.GetCustomer(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, customer, "404 es ausencia rutinaria, no error")
}

func TestGateway_ErrorDelAPIIncluyeElCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"title":["can't be blank"]}}`))
	}))
	defer srv.Close()

	g := testGateway(srv)
	_, err := g.CreateProduct(context.Background(), ports.ProductPayload{})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "can't be blank")
}

// TestGateway_TodaLlamadaQuedaEnLog verifica que cualquier operación del
// gateway deja rastro de petición y respuesta, incluidas las que no loguean
// nada por su cuenta (como la actualización de precio).
func TestGateway_TodaLlamadaQuedaEnLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/variants/601.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"variant":{"id":601}}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	g := testGatewayWithLog(srv, logger.FromZerolog(zerolog.New(&buf)))

	err := g.UpdateVariantPrice(context.Background(), 601, decimal.NewFromFloat(12.50))
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "llamada al admin api")
	assert.Contains(t, logged, "respuesta del admin api")
	assert.Contains(t, logged, "/variants/601.json")
	assert.Contains(t, logged, `"status":200`)
	assert.Contains(t, logged, `"method":"PUT"`)
}
