package repository

import (
	"context"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// CorrespondenceRepository define el puerto para el almacén de correspondencias:
// el join durable entre claves del ERP e ids remotos de Shopify.
//
// Garantía de idempotencia: los Lookup* se consultan siempre antes de cualquier
// Create remoto; re-ejecutar con la misma ventana (o una más amplia) nunca
// re-crea una entidad ya mapeada, solo la actualiza. Las entradas son
// append-only: nunca se borran y solo se actualizan en sitio para adjuntar un
// id remoto descubierto después (ej. una imagen nueva en el libro).
//
// Ausencia es caso rutinario, no excepcional: los Lookup* devuelven (nil, nil)
// cuando no hay entrada.
type CorrespondenceRepository interface {
	// Productos. La clave base (VariantKey vacía) identifica el producto; las
	// claves con dimensión identifican variantes de precio específico.
	LookupProduct(ctx context.Context, storeID, articleCode string, key entity.VariantKey) (*entity.ProductRef, error)
	LookupProductByFamily(ctx context.Context, storeID, familyCode string) (*entity.ProductRef, error)
	InsertProduct(ctx context.Context, storeID, articleCode string, key entity.VariantKey, ref entity.ProductRef) error
	// AttachImage adjunta un par nombre=id al libro de imágenes de la entrada base.
	AttachImage(ctx context.Context, storeID, articleCode, imageName string, imageID int64) error

	// Clientes, clave (customerNumber, contactIndex).
	LookupCustomer(ctx context.Context, storeID string, customerNumber, contactIndex int) (*entity.CustomerRef, error)
	LookupCustomerByRemoteID(ctx context.Context, storeID string, shopifyCustomerID int64) (*entity.CustomerRef, error)
	InsertCustomer(ctx context.Context, storeID string, ref entity.CustomerRef) error
	// ListCustomerNumbers números ERP distintos con correspondencia en la tienda
	// (alimenta la pasada de precios específicos por cliente).
	ListCustomerNumbers(ctx context.Context, storeID string) ([]int, error)

	// Pedidos, clave id remoto del pedido.
	LookupOrder(ctx context.Context, storeID string, shopifyOrderID int64) (*entity.OrderRef, error)
	InsertOrder(ctx context.Context, storeID string, ref entity.OrderRef) error
}
