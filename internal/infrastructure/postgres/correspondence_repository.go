package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storesync-api/internal/domain"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
)

var _ repository.CorrespondenceRepository = (*CorrespondenceRepo)(nil)

// CorrespondenceRepo almacén de correspondencias sobre PostgreSQL: una sola
// tabla append-only con las tres clases de entidad. La clave natural es
// (store_id, entity_type, erp_key, contact_index, dimensión de variante); la
// unicidad la garantiza un índice con COALESCE sobre los campos NULLables de
// la dimensión.
type CorrespondenceRepo struct {
	pool *pgxpool.Pool
}

// NewCorrespondenceRepository construye el adaptador del almacén de correspondencias.
func NewCorrespondenceRepository(pool *pgxpool.Pool) *CorrespondenceRepo {
	return &CorrespondenceRepo{pool: pool}
}

// LookupProduct busca la entrada de un artículo con la dimensión exacta.
// IS NOT DISTINCT FROM empareja también los NULL de la clave base.
func (r *CorrespondenceRepo) LookupProduct(ctx context.Context, storeID, articleCode string, key entity.VariantKey) (*entity.ProductRef, error) {
	query := `
		SELECT remote_id, remote_variant_id, remote_variant_vat_id, family_code, image_ledger
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2 AND erp_key = $3
		  AND pricelist_number IS NOT DISTINCT FROM $4
		  AND customer_number IS NOT DISTINCT FROM $5
		  AND quantity IS NOT DISTINCT FROM $6`
	var ref entity.ProductRef
	err := r.pool.QueryRow(ctx, query, storeID, entity.EntityProduct, articleCode,
		key.PricelistNumber, key.CustomerNumber, key.Quantity).
		Scan(&ref.ProductID, &ref.VariantID, &ref.VariantVatID, &ref.FamilyCode, &ref.ImageLedger)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup product %s: %w", articleCode, err)
	}
	return &ref, nil
}

// LookupProductByFamily busca la entrada base de cualquier artículo de la
// familia. La más antigua gana: todos los artículos de la familia cuelgan del
// primer producto creado.
func (r *CorrespondenceRepo) LookupProductByFamily(ctx context.Context, storeID, familyCode string) (*entity.ProductRef, error) {
	query := `
		SELECT remote_id, remote_variant_id, remote_variant_vat_id, family_code, image_ledger
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2 AND family_code = $3
		  AND pricelist_number IS NULL AND customer_number IS NULL AND quantity IS NULL
		ORDER BY id LIMIT 1`
	var ref entity.ProductRef
	err := r.pool.QueryRow(ctx, query, storeID, entity.EntityProduct, familyCode).
		Scan(&ref.ProductID, &ref.VariantID, &ref.VariantVatID, &ref.FamilyCode, &ref.ImageLedger)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup product by family %s: %w", familyCode, err)
	}
	return &ref, nil
}

// InsertProduct registra la correspondencia de un artículo (base o con dimensión).
func (r *CorrespondenceRepo) InsertProduct(ctx context.Context, storeID, articleCode string, key entity.VariantKey, ref entity.ProductRef) error {
	query := `
		INSERT INTO correspondences
			(store_id, entity_type, erp_key, pricelist_number, customer_number, quantity,
			 remote_id, remote_variant_id, remote_variant_vat_id, family_code, image_ledger)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(ctx, query, storeID, entity.EntityProduct, articleCode,
		key.PricelistNumber, key.CustomerNumber, key.Quantity,
		ref.ProductID, ref.VariantID, ref.VariantVatID, ref.FamilyCode, ref.ImageLedger)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, articleCode)
		}
		return fmt.Errorf("insert product link %s: %w", articleCode, err)
	}
	return nil
}

// AttachImage adjunta nombre=id al libro de imágenes de la entrada base.
func (r *CorrespondenceRepo) AttachImage(ctx context.Context, storeID, articleCode, imageName string, imageID int64) error {
	entry := fmt.Sprintf("%s=%d", imageName, imageID)
	query := `
		UPDATE correspondences SET
			image_ledger = CASE WHEN image_ledger = '' THEN $4 ELSE image_ledger || ';' || $4 END,
			updated_at = now()
		WHERE store_id = $1 AND entity_type = $2 AND erp_key = $3
		  AND pricelist_number IS NULL AND customer_number IS NULL AND quantity IS NULL`
	tag, err := r.pool.Exec(ctx, query, storeID, entity.EntityProduct, articleCode, entry)
	if err != nil {
		return fmt.Errorf("attach image %s a %s: %w", imageName, articleCode, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attach image: no hay entrada base para %s", articleCode)
	}
	return nil
}

// LookupCustomer busca el contacto (customerNumber, contactIndex).
func (r *CorrespondenceRepo) LookupCustomer(ctx context.Context, storeID string, customerNumber, contactIndex int) (*entity.CustomerRef, error) {
	query := `
		SELECT remote_id, remote_address_id
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2 AND erp_key = $3 AND contact_index = $4`
	ref := entity.CustomerRef{CustomerNumber: customerNumber, ContactIndex: contactIndex}
	err := r.pool.QueryRow(ctx, query, storeID, entity.EntityCustomer,
		strconv.Itoa(customerNumber), contactIndex).
		Scan(&ref.CustomerID, &ref.AddressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup customer %d/%d: %w", customerNumber, contactIndex, err)
	}
	return &ref, nil
}

// LookupCustomerByRemoteID busca un contacto por el id de cliente Shopify.
func (r *CorrespondenceRepo) LookupCustomerByRemoteID(ctx context.Context, storeID string, shopifyCustomerID int64) (*entity.CustomerRef, error) {
	query := `
		SELECT erp_key, contact_index, remote_id, remote_address_id
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2 AND remote_id = $3
		ORDER BY id LIMIT 1`
	var ref entity.CustomerRef
	var erpKey string
	err := r.pool.QueryRow(ctx, query, storeID, entity.EntityCustomer, shopifyCustomerID).
		Scan(&erpKey, &ref.ContactIndex, &ref.CustomerID, &ref.AddressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup customer by remote id %d: %w", shopifyCustomerID, err)
	}
	number, err := strconv.Atoi(erpKey)
	if err != nil {
		return nil, fmt.Errorf("clave ERP corrupta %q: %w", erpKey, err)
	}
	ref.CustomerNumber = number
	return &ref, nil
}

// InsertCustomer registra la correspondencia de un contacto.
func (r *CorrespondenceRepo) InsertCustomer(ctx context.Context, storeID string, ref entity.CustomerRef) error {
	query := `
		INSERT INTO correspondences
			(store_id, entity_type, erp_key, contact_index, remote_id, remote_address_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, storeID, entity.EntityCustomer,
		strconv.Itoa(ref.CustomerNumber), ref.ContactIndex, ref.CustomerID, ref.AddressID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cliente %d/%d", domain.ErrDuplicate, ref.CustomerNumber, ref.ContactIndex)
		}
		return fmt.Errorf("insert customer link %d/%d: %w", ref.CustomerNumber, ref.ContactIndex, err)
	}
	return nil
}

// ListCustomerNumbers números ERP distintos con correspondencia en la tienda.
func (r *CorrespondenceRepo) ListCustomerNumbers(ctx context.Context, storeID string) ([]int, error) {
	query := `
		SELECT DISTINCT erp_key
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2
		ORDER BY erp_key`
	rows, err := r.pool.Query(ctx, query, storeID, entity.EntityCustomer)
	if err != nil {
		return nil, fmt.Errorf("list customer numbers: %w", err)
	}
	defer rows.Close()
	var numbers []int
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan customer number: %w", err)
		}
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("clave ERP corrupta %q: %w", key, err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// LookupOrder busca el enlace de un pedido por su id remoto.
func (r *CorrespondenceRepo) LookupOrder(ctx context.Context, storeID string, shopifyOrderID int64) (*entity.OrderRef, error) {
	query := `
		SELECT remote_id, erp_order_number
		FROM correspondences
		WHERE store_id = $1 AND entity_type = $2 AND remote_id = $3`
	var ref entity.OrderRef
	err := r.pool.QueryRow(ctx, query, storeID, entity.EntityOrder, shopifyOrderID).
		Scan(&ref.ShopifyOrderID, &ref.ERPOrderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup order %d: %w", shopifyOrderID, err)
	}
	return &ref, nil
}

// InsertOrder registra el enlace de un pedido importado.
func (r *CorrespondenceRepo) InsertOrder(ctx context.Context, storeID string, ref entity.OrderRef) error {
	query := `
		INSERT INTO correspondences
			(store_id, entity_type, erp_key, remote_id, erp_order_number)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, storeID, entity.EntityOrder,
		strconv.FormatInt(ref.ShopifyOrderID, 10), ref.ShopifyOrderID, ref.ERPOrderNumber)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pedido %d", domain.ErrDuplicate, ref.ShopifyOrderID)
		}
		return fmt.Errorf("insert order link %d: %w", ref.ShopifyOrderID, err)
	}
	return nil
}
