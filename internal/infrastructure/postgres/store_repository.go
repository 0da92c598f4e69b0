package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
// Los mappings de códigos (condiciones de pago, métodos de entrega) viven como
// JSONB; los tipos de artículo como INT[].
type StoreRepo struct {
	pool *pgxpool.Pool
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepo {
	return &StoreRepo{pool: pool}
}

const storeColumns = `
	id, name, account, access_token, erp_company,
	article_types, pricelist_limit, sync_images, payment_terms, delivery_methods,
	order_type_regular, order_type_pending, shipping_article_code,
	cod_payment_term_code, cod_fee_article_code, cod_fee_amount,
	last_catalog_sync, last_order_sync, created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(
		&s.ID, &s.Name, &s.Account, &s.AccessToken, &s.ERPCompany,
		&s.ArticleTypes, &s.PricelistLimit, &s.SyncImages, &s.PaymentTerms, &s.DeliveryMethods,
		&s.OrderTypeRegular, &s.OrderTypePending, &s.ShippingArticleCode,
		&s.CODPaymentTermCode, &s.CODFeeArticleCode, &s.CODFeeAmount,
		&s.LastCatalogSync, &s.LastOrderSync, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene una tienda por ID, (nil, nil) si no existe.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	s, err := scanStore(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store by id: %w", err)
	}
	return s, nil
}

// List devuelve todas las tiendas registradas.
func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Create persiste una tienda nueva.
func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.pool.Exec(ctx, query,
		store.ID, store.Name, store.Account, store.AccessToken, store.ERPCompany,
		store.ArticleTypes, store.PricelistLimit, store.SyncImages, store.PaymentTerms, store.DeliveryMethods,
		store.OrderTypeRegular, store.OrderTypePending, store.ShippingArticleCode,
		store.CODPaymentTermCode, store.CODFeeArticleCode, store.CODFeeAmount,
		store.LastCatalogSync, store.LastOrderSync, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// AdvanceCheckpoints avanza los checkpoints de la tienda. GREATEST garantiza
// la monotonía aunque dos corridas terminen fuera de orden.
func (r *StoreRepo) AdvanceCheckpoints(ctx context.Context, storeID string, catalogAt, orderAt time.Time) error {
	query := `
		UPDATE stores SET
			last_catalog_sync = GREATEST(COALESCE(last_catalog_sync, 'epoch'::timestamptz), $2),
			last_order_sync   = GREATEST(COALESCE(last_order_sync, 'epoch'::timestamptz), $3),
			updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID, catalogAt, orderAt)
	if err != nil {
		return fmt.Errorf("advance checkpoints: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advance checkpoints: tienda %s no existe", storeID)
	}
	return nil
}
