package syncjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// Estados legibles de una corrida, en el orden en que se emiten.
const (
	StatusStarting          = "starting"
	StatusUpdatingCustomers = "updating customers"
	StatusUpdatingProducts  = "updating products"
	StatusUpdatingPrices    = "updating prices"
	StatusUpdatingOrders    = "updating orders"
	StatusFinished          = "finished"
	StatusError             = "error updating shop"
)

// RunSummary resultado de una corrida: contadores por componente.
type RunSummary struct {
	StoreID    string    `json:"store_id"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Customers  Stats     `json:"customers"`
	Catalog    Stats     `json:"catalog"`
	Prices     Stats     `json:"prices"`
	Orders     Stats     `json:"orders"`
}

// Runner orquesta una corrida completa por tienda: clientes → catálogo →
// precios → pedidos, en ese orden fijo, y avanza los checkpoints solo cuando
// toda la corrida termina sin error no recuperado. Una corrida por tienda a la
// vez; el disparo concurrente devuelve ErrRunInProgress.
type Runner struct {
	stores      repository.StoreRepository
	corr        repository.CorrespondenceRepository
	erpFactory  ports.ERPFactory
	shopFactory ports.ShopGatewayFactory
	assets      ports.AssetStore
	notifier    ports.Notifier
	log         *logger.Logger

	mu      sync.Mutex
	running map[string]bool
}

// NewRunner construye el orquestador con todas sus dependencias inyectadas.
func NewRunner(stores repository.StoreRepository, corr repository.CorrespondenceRepository,
	erpFactory ports.ERPFactory, shopFactory ports.ShopGatewayFactory,
	assets ports.AssetStore, notifier ports.Notifier, log *logger.Logger) *Runner {
	return &Runner{
		stores:      stores,
		corr:        corr,
		erpFactory:  erpFactory,
		shopFactory: shopFactory,
		assets:      assets,
		notifier:    notifier,
		log:         log,
		running:     map[string]bool{},
	}
}

// IsRunning indica si hay una corrida activa para la tienda.
func (r *Runner) IsRunning(storeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[storeID]
}

// Run ejecuta una corrida para la tienda en el modo dado (regular o full).
// El modo full ignora los checkpoints, procesa todas las entidades y fuerza la
// pasada de imágenes.
func (r *Runner) Run(ctx context.Context, storeID, mode string) (summary *RunSummary, err error) {
	if mode != entity.ModeRegular && mode != entity.ModeFull {
		return nil, fmt.Errorf("%w: modo %q", domain.ErrInvalidInput, mode)
	}

	if !r.tryAcquire(storeID) {
		return nil, domain.ErrRunInProgress
	}
	defer r.release(storeID)

	store, err := r.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("cargar tienda %s: %w", storeID, err)
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}

	startedAt := time.Now()
	rlog := logger.FromZerolog(r.log.With().Str("store", storeID).Logger())

	var catalogSince, orderSince *time.Time
	full := mode == entity.ModeFull
	if !full {
		catalogSince = store.LastCatalogSync
		orderSince = store.LastOrderSync
	}

	rlog.Info().Str("mode", mode).
		Interface("last_catalog_sync", store.LastCatalogSync).
		Interface("last_order_sync", store.LastOrderSync).
		Msg("iniciando corrida de sincronización")
	r.notifier.Status(storeID, StatusStarting)

	// Cualquier excepción no clasificada de los componentes se captura una
	// sola vez aquí: corrida fallida, checkpoints intactos.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fallo inesperado en la corrida: %v", rec)
			rlog.Error().Interface("panic", rec).Msg("corrida abortada por fallo inesperado")
			r.notifier.Status(storeID, StatusError)
			summary = nil
		}
	}()

	erp := r.erpFactory(store.ERPCompany)
	shop := r.shopFactory(store)

	sum := &RunSummary{StoreID: storeID, Mode: mode, StartedAt: startedAt}

	r.notifier.Status(storeID, StatusUpdatingCustomers)
	sum.Customers, err = NewCustomerSync(store, erp, shop, r.corr, rlog).Run(ctx, catalogSince)
	if err != nil {
		return r.fail(rlog, storeID, "clientes", err)
	}

	if err := ctx.Err(); err != nil {
		return r.fail(rlog, storeID, "cancelación", err)
	}
	r.notifier.Status(storeID, StatusUpdatingProducts)
	sum.Catalog, err = NewCatalogSync(store, erp, shop, r.assets, r.corr, rlog).Run(ctx, catalogSince, full)
	if err != nil {
		return r.fail(rlog, storeID, "catálogo", err)
	}

	if err := ctx.Err(); err != nil {
		return r.fail(rlog, storeID, "cancelación", err)
	}
	r.notifier.Status(storeID, StatusUpdatingPrices)
	sum.Prices, err = NewPricingSync(store, erp, shop, r.corr, rlog).Run(ctx, catalogSince)
	if err != nil {
		return r.fail(rlog, storeID, "precios", err)
	}

	if err := ctx.Err(); err != nil {
		return r.fail(rlog, storeID, "cancelación", err)
	}
	r.notifier.Status(storeID, StatusUpdatingOrders)
	sum.Orders, err = NewOrderImport(store, erp, shop, r.corr, rlog).Run(ctx, orderSince)
	if err != nil {
		return r.fail(rlog, storeID, "pedidos", err)
	}

	// Corrida completa sin error no recuperado: avanzar checkpoints al
	// instante de arranque (lo procesado después de startedAt cae en la
	// siguiente ventana).
	if err := r.stores.AdvanceCheckpoints(ctx, storeID, startedAt, startedAt); err != nil {
		return r.fail(rlog, storeID, "checkpoints", err)
	}

	sum.FinishedAt = time.Now()
	rlog.Info().
		Interface("customers", sum.Customers).
		Interface("catalog", sum.Catalog).
		Interface("prices", sum.Prices).
		Interface("orders", sum.Orders).
		Dur("elapsed", sum.FinishedAt.Sub(startedAt)).
		Msg("corrida finalizada")
	r.notifier.Status(storeID, StatusFinished)
	return sum, nil
}

func (r *Runner) fail(rlog *logger.Logger, storeID, phase string, err error) (*RunSummary, error) {
	rlog.Error().Err(err).Str("phase", phase).Msg("corrida fallida; los checkpoints no avanzan")
	r.notifier.Status(storeID, StatusError)
	return nil, fmt.Errorf("sincronizar %s: %w", phase, err)
}

func (r *Runner) tryAcquire(storeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[storeID] {
		return false
	}
	r.running[storeID] = true
	return true
}

func (r *Runner) release(storeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, storeID)
}
