package syncjob

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/internal/domain/syncrules"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// PricingSync reconcilia precios específicos del ERP (por lista de precios y
// por cliente) como variantes de Shopify con dimensión
// (lista|cliente, escalón de cantidad). Las dos pasadas son independientes e
// insensibles al orden; ambas desembocan en updatePricelistItem.
type PricingSync struct {
	store *entity.Store
	erp   ports.ERP
	shop  ports.ShopGateway
	corr  repository.CorrespondenceRepository
	log   *logger.Logger

	// now inyectable para validar ventanas de vigencia en tests.
	now func() time.Time
}

// NewPricingSync construye el componente con sus dependencias inyectadas.
func NewPricingSync(store *entity.Store, erp ports.ERP, shop ports.ShopGateway,
	corr repository.CorrespondenceRepository, log *logger.Logger) *PricingSync {
	return &PricingSync{store: store, erp: erp, shop: shop, corr: corr, log: log, now: time.Now}
}

// Run procesa las listas de precios 0..PricelistLimit y después las listas
// específicas de los clientes conocidos de la tienda, filtradas por fecha de
// edición >= since (nil = todas).
func (s *PricingSync) Run(ctx context.Context, since *time.Time) (Stats, error) {
	var stats Stats

	// Pasada (a): listas de precios generales.
	for n := 0; n <= s.store.PricelistLimit; n++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		items, err := s.erp.GeneralPricelist(ctx, n)
		if err != nil {
			s.log.Error().Err(err).Int("pricelist", n).Msg("leer lista de precios")
			stats.Failed++
			continue
		}
		if len(items) == 0 {
			// lista inexistente o vacía: caso rutinario
			continue
		}
		s.log.Info().Int("pricelist", n).Int("items", len(items)).Msg("precios específicos de lista")
		s.runItems(ctx, items, since, &stats)
	}

	// Pasada (b): listas específicas de los clientes con correspondencia.
	numbers, err := s.corr.ListCustomerNumbers(ctx, s.store.ID)
	if err != nil {
		return stats, fmt.Errorf("listar clientes de la tienda: %w", err)
	}
	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		items, err := s.erp.CustomerPricelist(ctx, number)
		if err != nil {
			s.log.Error().Err(err).Int("customer", number).Msg("leer precios del cliente")
			stats.Failed++
			continue
		}
		if len(items) == 0 {
			continue
		}
		s.log.Info().Int("customer", number).Int("items", len(items)).Msg("precios específicos de cliente")
		s.runItems(ctx, items, since, &stats)
	}

	return stats, nil
}

func (s *PricingSync) runItems(ctx context.Context, items []*entity.PricelistItem, since *time.Time, stats *Stats) {
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		if since != nil && item.UpdatedAt.Before(*since) {
			continue
		}
		s.updatePricelistItem(ctx, item, stats)
	}
}

// updatePricelistItem operación compartida por ambas pasadas: resuelve el
// precio efectivo, valida vigencia y moneda, y crea o actualiza el par de
// variantes con la dimensión del ítem sobre el producto base ya sincronizado.
func (s *PricingSync) updatePricelistItem(ctx context.Context, item *entity.PricelistItem, stats *Stats) {
	ilog := s.log.With().Str("article", item.ArticleCode).Logger()

	article, err := s.erp.GetArticle(ctx, item.ArticleCode)
	if err != nil {
		ilog.Error().Err(err).Msg("leer artículo del precio específico")
		stats.Failed++
		return
	}
	if article == nil {
		ilog.Warn().Msg("el artículo del precio específico ya no existe en el ERP")
		stats.Skipped++
		return
	}

	price := syncrules.ResolvePrice(item.ContractPrice, item.DiscountPct, article.Price)

	if !item.ValidAt(s.now()) {
		stats.Skipped++
		return
	}
	if item.Currency != "" && article.Currency != "" && item.Currency != article.Currency {
		ilog.Warn().Str("item_currency", item.Currency).Str("article_currency", article.Currency).
			Msg("moneda del precio distinta a la del artículo")
		stats.Skipped++
		return
	}

	key := variantKeyFor(item)

	base, err := s.corr.LookupProduct(ctx, s.store.ID, item.ArticleCode, entity.BaseKey())
	if err != nil {
		ilog.Error().Err(err).Msg("buscar producto base")
		stats.Failed++
		return
	}
	if base == nil {
		// No se puede poner precio a un producto que nunca se sincronizó.
		ilog.Debug().Msg("producto no está en Shopify")
		stats.Skipped++
		return
	}

	scoped, err := s.corr.LookupProduct(ctx, s.store.ID, item.ArticleCode, key)
	if err != nil {
		ilog.Error().Err(err).Msg("buscar variante específica")
		stats.Failed++
		return
	}

	if scoped == nil {
		s.createScopedVariants(ctx, article, item, key, base, price, stats)
		return
	}

	// Variante ya creada: actualizar el precio en sitio en ambas gemelas.
	if err := s.shop.UpdateVariantPrice(ctx, scoped.VariantID, price); err != nil {
		ilog.Error().Err(err).Int64("variant_id", scoped.VariantID).Msg("actualizar precio de variante")
		stats.Failed++
		return
	}
	if scoped.VariantVatID != 0 {
		if err := s.shop.UpdateVariantPrice(ctx, scoped.VariantVatID, price); err != nil {
			ilog.Error().Err(err).Int64("variant_id", scoped.VariantVatID).Msg("actualizar precio de variante exenta")
		}
	}
	stats.Updated++
}

// createScopedVariants crea el par de variantes con dimensión de precio sobre
// el producto base y registra la correspondencia. Igual que en el catálogo, la
// entrada se inserta tras la primera variante para que el reintento no duplique.
func (s *PricingSync) createScopedVariants(ctx context.Context, article *entity.Article, item *entity.PricelistItem,
	key entity.VariantKey, base *entity.ProductRef, price decimal.Decimal, stats *Stats) {
	ilog := s.log.With().Str("article", item.ArticleCode).Int64("product_id", base.ProductID).Logger()

	pair := variantPair(article, key, price)
	taxableID, err := s.shop.CreateVariant(ctx, base.ProductID, pair[0])
	if err != nil {
		ilog.Error().Err(err).Msg("crear variante de precio específico")
		stats.Failed++
		return
	}
	var vatID int64
	if id, err := s.shop.CreateVariant(ctx, base.ProductID, pair[1]); err != nil {
		ilog.Error().Err(err).Msg("crear variante exenta de precio específico")
	} else {
		vatID = id
	}

	ref := entity.ProductRef{
		ProductID:    base.ProductID,
		VariantID:    taxableID,
		VariantVatID: vatID,
		FamilyCode:   article.FamilyCode,
	}
	if err := s.corr.InsertProduct(ctx, s.store.ID, item.ArticleCode, key, ref); err != nil {
		ilog.Error().Err(err).Msg("registrar correspondencia de variante específica")
		stats.Failed++
		return
	}
	ilog.Info().Int64("variant_id", taxableID).Msg("precio específico creado")
	stats.Created++
}

// variantKeyFor deriva la dimensión de variante del ítem: (lista|cliente) y el
// escalón de cantidad solo cuando es mayor que 1.
func variantKeyFor(item *entity.PricelistItem) entity.VariantKey {
	key := entity.VariantKey{
		PricelistNumber: item.PricelistNumber,
		CustomerNumber:  item.CustomerNumber,
	}
	if item.Quantity > 1 {
		q := item.Quantity
		key.Quantity = &q
	}
	return key
}
