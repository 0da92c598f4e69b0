package ports

import (
	"context"
	"time"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// ERP es el puerto de acceso al ERP para una empresa concreta (el cliente se
// construye ya atado al número de empresa de la tienda). Lecturas filtradas
// por instante de cambio; escrituras solo para clientes y pedidos de venta.
//
// Ausencia rutinaria (lista de precios inexistente, artículo borrado) se
// devuelve como resultado vacío/nil, nunca como error.
type ERP interface {
	// Catálogo. since nil = todos los artículos (corrida completa).
	ListArticles(ctx context.Context, since *time.Time) ([]*entity.Article, error)
	GetArticle(ctx context.Context, code string) (*entity.Article, error)
	// ProductGroupDescription descripción del grupo de producto; la referencia
	// puede estar obsoleta en el ERP y fallar, el llamador lo trata como "sin grupo".
	ProductGroupDescription(ctx context.Context, groupID int) (string, error)

	// Clientes.
	ListCustomers(ctx context.Context, since *time.Time) ([]*entity.Customer, error)
	GetCustomer(ctx context.Context, number int) (*entity.Customer, error)

	// Precios. Una lista inexistente devuelve nil, no error.
	GeneralPricelist(ctx context.Context, pricelistNumber int) ([]*entity.PricelistItem, error)
	CustomerPricelist(ctx context.Context, customerNumber int) ([]*entity.PricelistItem, error)

	// Escrituras (importación de pedidos).
	CreateCustomer(ctx context.Context, in entity.NewCustomer) (int, error)
	CreateSalesOrder(ctx context.Context, order *entity.SalesOrder) (string, error)
}

// ERPFactory construye un cliente ERP atado a una empresa.
type ERPFactory func(company int) ERP
