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

// CatalogSync reconcilia artículos del ERP con productos y variantes de
// Shopify. Los artículos que comparten familia se agrupan como variantes de un
// mismo producto; cada artículo aporta un par de variantes (gravada y exenta).
type CatalogSync struct {
	store  *entity.Store
	erp    ports.ERP
	shop   ports.ShopGateway
	assets ports.AssetStore
	corr   repository.CorrespondenceRepository
	log    *logger.Logger
}

// NewCatalogSync construye el componente con sus dependencias inyectadas.
func NewCatalogSync(store *entity.Store, erp ports.ERP, shop ports.ShopGateway,
	assets ports.AssetStore, corr repository.CorrespondenceRepository, log *logger.Logger) *CatalogSync {
	return &CatalogSync{store: store, erp: erp, shop: shop, assets: assets, corr: corr, log: log}
}

// Run procesa los artículos cambiados desde since (nil = todos). syncImages
// habilita la pasada de imágenes además del flag de la tienda (modo full).
// Devuelve error solo ante fallos fatales (ERP inaccesible, DB local); los
// fallos por entidad se registran y la entidad se salta.
func (s *CatalogSync) Run(ctx context.Context, since *time.Time, syncImages bool) (Stats, error) {
	var stats Stats

	articles, err := s.erp.ListArticles(ctx, since)
	if err != nil {
		return stats, fmt.Errorf("listar artículos del ERP: %w", err)
	}
	s.log.Info().Int("articles", len(articles)).Msg("artículos encontrados en el ERP")

	imagesEnabled := s.store.SyncImages || syncImages

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !s.store.RecognizesArticleType(article.Type) {
			continue
		}
		if article.Name == "" {
			s.log.Warn().Str("article", article.Code).Msg("artículo sin nombre, no se puede crear el producto")
			stats.Skipped++
			continue
		}

		ref, err := s.syncArticle(ctx, article, &stats)
		if err != nil {
			return stats, err
		}
		if ref != nil && imagesEnabled {
			s.syncArticleImages(ctx, article, ref, &stats)
		}
	}

	return stats, nil
}

// syncArticle reconcilia un artículo: update si ya está mapeado, variante de
// un producto existente si otra referencia de la familia ya lo está, producto
// nuevo en caso contrario. Devuelve la referencia remota del artículo (nil si
// la entidad se saltó por un fallo remoto). Error solo ante fallo del almacén
// de correspondencias.
func (s *CatalogSync) syncArticle(ctx context.Context, article *entity.Article, stats *Stats) (*entity.ProductRef, error) {
	alog := s.log.With().Str("article", article.Code).Logger()

	ref, err := s.corr.LookupProduct(ctx, s.store.ID, article.Code, entity.BaseKey())
	if err != nil {
		return nil, fmt.Errorf("buscar correspondencia de %s: %w", article.Code, err)
	}

	group := s.groupDescription(ctx, article)
	payload := s.productPayload(article, group)

	if ref != nil {
		// Ya mapeado: recalcular campos derivados y actualizar en sitio.
		if err := s.shop.UpdateProduct(ctx, ref.ProductID, payload); err != nil {
			alog.Error().Err(err).Int64("product_id", ref.ProductID).Msg("actualizar producto en Shopify")
			stats.Failed++
			return nil, nil
		}
		alog.Info().Int64("product_id", ref.ProductID).Msg("producto actualizado")
		stats.Updated++
		return ref, nil
	}

	// Regla de agrupación: misma familia => mismo producto, una fila por
	// combinación precio/IVA.
	if article.FamilyCode != "" {
		famRef, err := s.corr.LookupProductByFamily(ctx, s.store.ID, article.FamilyCode)
		if err != nil {
			return nil, fmt.Errorf("buscar familia %s: %w", article.FamilyCode, err)
		}
		if famRef != nil {
			return s.createVariantsOn(ctx, famRef.ProductID, article, stats)
		}
	}

	payload.Variants = variantPair(article, entity.BaseKey(), article.Price)
	created, err := s.shop.CreateProduct(ctx, payload)
	if err != nil {
		alog.Error().Err(err).Msg("crear producto en Shopify")
		stats.Failed++
		return nil, nil
	}

	newRef := entity.ProductRef{
		ProductID:    created.ProductID,
		VariantID:    created.VariantID,
		VariantVatID: created.VariantVatID,
		FamilyCode:   article.FamilyCode,
	}
	if err := s.corr.InsertProduct(ctx, s.store.ID, article.Code, entity.BaseKey(), newRef); err != nil {
		return nil, fmt.Errorf("registrar correspondencia de %s: %w", article.Code, err)
	}
	alog.Info().Int64("product_id", created.ProductID).Msg("producto creado")
	stats.Created++
	return &newRef, nil
}

// createVariantsOn agrega el par de variantes del artículo a un producto
// existente de su familia y registra la correspondencia con el id de ese
// producto. La correspondencia se inserta tras la primera variante creada:
// si la gemela exenta falla, el reintento de la siguiente corrida encuentra
// la entrada y no duplica.
func (s *CatalogSync) createVariantsOn(ctx context.Context, productID int64, article *entity.Article, stats *Stats) (*entity.ProductRef, error) {
	alog := s.log.With().Str("article", article.Code).Int64("product_id", productID).Logger()

	pair := variantPair(article, entity.BaseKey(), article.Price)
	taxableID, err := s.shop.CreateVariant(ctx, productID, pair[0])
	if err != nil {
		alog.Error().Err(err).Msg("crear variante gravada")
		stats.Failed++
		return nil, nil
	}
	var vatID int64
	if id, err := s.shop.CreateVariant(ctx, productID, pair[1]); err != nil {
		alog.Error().Err(err).Msg("crear variante exenta")
	} else {
		vatID = id
	}

	ref := entity.ProductRef{
		ProductID:    productID,
		VariantID:    taxableID,
		VariantVatID: vatID,
		FamilyCode:   article.FamilyCode,
	}
	if err := s.corr.InsertProduct(ctx, s.store.ID, article.Code, entity.BaseKey(), ref); err != nil {
		return nil, fmt.Errorf("registrar correspondencia de %s: %w", article.Code, err)
	}
	alog.Info().Int64("variant_id", taxableID).Msg("artículo agregado como variante de su familia")
	stats.Created++
	return &ref, nil
}

// syncArticleImages sube las imágenes locales del artículo que aún no figuran
// en el libro de imágenes del producto. Fallos de archivo o de subida se
// registran y no interrumpen el resto.
func (s *CatalogSync) syncArticleImages(ctx context.Context, article *entity.Article, ref *entity.ProductRef, stats *Stats) {
	images, err := s.assets.FindImages(ctx, article.Code)
	if err != nil {
		s.log.Warn().Err(err).Str("article", article.Code).Msg("no se pudo leer el directorio de imágenes")
		return
	}
	known := ref.ImageIDs()
	position := len(known)
	for _, img := range images {
		if _, ok := known[img.Name]; ok {
			continue
		}
		position++
		imageID, err := s.shop.CreateImage(ctx, ref.ProductID, img.Name, img.Base64, position)
		if err != nil {
			s.log.Error().Err(err).Str("image", img.Name).Msg("crear imagen de producto")
			stats.Failed++
			continue
		}
		if err := s.corr.AttachImage(ctx, s.store.ID, article.Code, img.Name, imageID); err != nil {
			s.log.Error().Err(err).Str("image", img.Name).Msg("registrar imagen en el libro")
			continue
		}
		ref.AppendImage(img.Name, imageID)
		s.log.Info().Str("image", img.Name).Int64("image_id", imageID).Msg("imagen de producto creada")
	}
}

// groupDescription resuelve la descripción del grupo de producto. Una
// referencia obsoleta en el ERP se trata como "sin grupo", no aborta el artículo.
func (s *CatalogSync) groupDescription(ctx context.Context, article *entity.Article) string {
	if article.GroupID == 0 {
		return ""
	}
	desc, err := s.erp.ProductGroupDescription(ctx, article.GroupID)
	if err != nil {
		s.log.Debug().Err(err).Str("article", article.Code).Int("group", article.GroupID).
			Msg("grupo de producto no resoluble, se continúa sin grupo")
		return ""
	}
	return desc
}

// productPayload arma el payload de producto con los campos derivados: tags,
// metafield video-url y título común de la familia cuando existe.
func (s *CatalogSync) productPayload(article *entity.Article, groupDescription string) ports.ProductPayload {
	title := article.Name
	if article.CommonName != "" {
		title = article.CommonName
	}
	return ports.ProductPayload{
		Title:       title,
		Tags:        syncrules.BuildProductTags(article, groupDescription),
		ProductType: "Product",
		Published:   true,
		VideoURL:    article.VideoURL,
	}
}

// variantPair arma las dos variantes de un artículo para la clave y el precio
// dados: la gravada y su gemela exenta de IVA (sufijo -0 en el SKU). La usa
// tanto el catálogo (precio base) como la sincronización de precios (precio
// específico resuelto).
func variantPair(article *entity.Article, key entity.VariantKey, price decimal.Decimal) []ports.VariantPayload {
	taxable := ports.VariantPayload{
		SKU:               article.Code,
		Title:             article.Name,
		Option:            variantOption(article.Code, key, true),
		Price:             price,
		Barcode:           article.Barcode,
		Grams:             article.GramsFromWeight(),
		Taxable:           true,
		InventoryQuantity: article.StockQuantity,
	}
	exempt := taxable
	exempt.SKU = article.Code + "-0"
	exempt.Option = variantOption(article.Code, key, false)
	exempt.Taxable = false
	return []ports.VariantPayload{taxable, exempt}
}

// variantOption deriva el valor de option1 de una variante: código de artículo
// más la dimensión de precio y el sufijo -0 para la gemela exenta.
func variantOption(articleCode string, key entity.VariantKey, taxable bool) string {
	opt := articleCode
	if key.PricelistNumber != nil {
		opt = fmt.Sprintf("%s-P%d", opt, *key.PricelistNumber)
	}
	if key.CustomerNumber != nil {
		opt = fmt.Sprintf("%s-C%d", opt, *key.CustomerNumber)
	}
	if key.Quantity != nil {
		opt = fmt.Sprintf("%s-Q%d", opt, *key.Quantity)
	}
	if !taxable {
		opt += "-0"
	}
	return opt
}
