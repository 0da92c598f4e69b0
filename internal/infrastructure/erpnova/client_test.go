package erpnova

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/pkg/config"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(1, config.ERPConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, logger.Nop())
}

func TestClient_ListArticlesFiltraPorFecha(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/companies/1/articles", r.URL.Path)
		assert.Equal(t, "2026-08-01T00:00:00Z", r.URL.Query().Get("changed_since"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"code": "A100", "name": "Tornillo", "family_code": "FAM1", "type": 5,
			"price": "19.90", "currency": "EUR", "vat_rate": "24", "weight_kg": "0.25",
			"stock_quantity": 12, "updated_at": "2026-08-15T10:00:00Z"
		}]`))
	}))
	defer srv.Close()

	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	articles, err := testClient(srv).ListArticles(context.Background(), &since)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	a := articles[0]
	assert.Equal(t, "A100", a.Code)
	assert.Equal(t, 5, a.Type)
	assert.True(t, a.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, int64(250), a.GramsFromWeight())
}

func TestClient_GetArticleInexistente(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	article, err := testClient(srv).GetArticle(context.Background(), "NADA")

	require.NoError(t, err)
	assert.Nil(t, article, "artículo borrado es ausencia rutinaria")
}

func TestClient_PricelistInexistenteEsVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	items, err := testClient(srv).GeneralPricelist(context.Background(), 7)

	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestClient_CreateSalesOrderEnviaLasLineas(t *testing.T) {
	var received salesOrderJSON
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/companies/1/salesorders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_number": "SO-123"}`))
	}))
	defer srv.Close()

	order := &entity.SalesOrder{
		ReferenceNumber: "#1001",
		OrderType:       1,
		CustomerNumber:  1200,
		Rows: []entity.SalesOrderRow{
			{ArticleCode: "A100", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("19.90")},
		},
	}
	number, err := testClient(srv).CreateSalesOrder(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, "SO-123", number)
	assert.Equal(t, "#1001", received.ReferenceNumber)
	require.Len(t, received.Rows, 1)
	assert.Equal(t, "A100", received.Rows[0].ArticleCode)
}

func TestClient_ErrorDelAPIIncluyeElCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`company database is locked`))
	}))
	defer srv.Close()

	_, err := testClient(srv).ListArticles(context.Background(), nil)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "locked")
}
