package syncjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/internal/domain/syncrules"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// erpNameLimit límite del ERP para nombres de línea de pedido.
const erpNameLimit = 50

// OrderImport trae pedidos de Shopify y crea los pedidos de venta en el ERP,
// reconciliando (o creando) el cliente ERP correspondiente. La verificación de
// existencia por id remoto corre SIEMPRE antes de cualquier mutación en el
// ERP: el mismo pedido nunca se importa dos veces.
type OrderImport struct {
	store *entity.Store
	erp   ports.ERP
	shop  ports.ShopGateway
	corr  repository.CorrespondenceRepository
	log   *logger.Logger
}

// NewOrderImport construye el componente con sus dependencias inyectadas.
func NewOrderImport(store *entity.Store, erp ports.ERP, shop ports.ShopGateway,
	corr repository.CorrespondenceRepository, log *logger.Logger) *OrderImport {
	return &OrderImport{store: store, erp: erp, shop: shop, corr: corr, log: log}
}

// Run importa los pedidos creados/actualizados después de since (nil = todos).
func (s *OrderImport) Run(ctx context.Context, since *time.Time) (Stats, error) {
	var stats Stats

	orders, err := s.shop.ListOrders(ctx, since)
	if err != nil {
		return stats, fmt.Errorf("listar pedidos de Shopify: %w", err)
	}
	s.log.Info().Int("orders", len(orders)).Msg("pedidos cargados de Shopify")

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.importOrder(ctx, order, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// importOrder importa un pedido. Un pedido ya enlazado es un no-op exitoso.
func (s *OrderImport) importOrder(ctx context.Context, order *entity.ShopOrder, stats *Stats) error {
	olog := s.log.With().Int64("order_id", order.ID).Str("order", order.Name).Logger()

	existing, err := s.corr.LookupOrder(ctx, s.store.ID, order.ID)
	if err != nil {
		return fmt.Errorf("buscar enlace del pedido %d: %w", order.ID, err)
	}
	if existing != nil {
		olog.Debug().Str("erp_order", existing.ERPOrderNumber).Msg("pedido ya importado")
		stats.Skipped++
		return nil
	}

	customerNumber, err := s.resolveERPCustomer(ctx, order)
	if err != nil {
		olog.Error().Err(err).Msg("resolver cliente ERP del pedido")
		stats.Failed++
		return nil
	}

	sales := s.buildSalesOrder(order, customerNumber)

	erpNumber, err := s.erp.CreateSalesOrder(ctx, sales)
	if err != nil {
		olog.Error().Err(err).Msg("crear pedido de venta en el ERP")
		stats.Failed++
		return nil
	}
	if err := s.corr.InsertOrder(ctx, s.store.ID, entity.OrderRef{
		ShopifyOrderID: order.ID,
		ERPOrderNumber: erpNumber,
	}); err != nil {
		return fmt.Errorf("registrar enlace del pedido %d: %w", order.ID, err)
	}
	olog.Info().Str("erp_order", erpNumber).Msg("pedido de venta creado")
	stats.Created++
	return nil
}

// resolveERPCustomer resuelve el cliente ERP de un pedido en tres niveles:
// tag +C validado del cliente remoto, correspondencia por id remoto, y como
// último recurso la creación de un cliente ERP nuevo (que queda registrado).
func (s *OrderImport) resolveERPCustomer(ctx context.Context, order *entity.ShopOrder) (int, error) {
	tags := order.Customer.Tags
	if tags == "" && order.Customer.ID > 0 {
		remote, err := s.shop.GetCustomer(ctx, order.Customer.ID)
		if err != nil {
			s.log.Debug().Err(err).Int64("customer_id", order.Customer.ID).Msg("leer cliente remoto para tags")
		} else if remote != nil {
			tags = remote.Tags
		}
	}
	if number, ok := syncrules.ParseCustomerNumberTag(tags); ok {
		return number, nil
	}

	if order.Customer.ID > 0 {
		ref, err := s.corr.LookupCustomerByRemoteID(ctx, s.store.ID, order.Customer.ID)
		if err != nil {
			return 0, fmt.Errorf("buscar cliente por id remoto: %w", err)
		}
		if ref != nil {
			return ref.CustomerNumber, nil
		}
	}

	return s.createERPCustomer(ctx, order)
}

// createERPCustomer crea el cliente en el ERP a partir de los datos del pedido
// y registra la correspondencia para que el siguiente pedido del mismo cliente
// remoto no lo duplique.
func (s *OrderImport) createERPCustomer(ctx context.Context, order *entity.ShopOrder) (int, error) {
	address := order.BillingAddress
	if address == nil {
		address = order.ShippingAddress
	}

	contactName := strings.TrimSpace(order.Customer.FirstName + " " + order.Customer.LastName)
	fullName := contactName
	if address != nil && address.Company != "" {
		// La razón social se promueve a nombre principal del ERP.
		fullName = address.Company
	}

	in := entity.NewCustomer{
		FullName:     fullName,
		ContactName:  contactName,
		ContactEmail: order.Customer.Email,
	}
	if address != nil {
		in.Address = entity.Address{
			Street:  strings.TrimSpace(address.Address1 + " " + address.Address2),
			City:    address.City,
			Zip:     address.Zip,
			Country: syncrules.CountryCode(address.Country),
			Phone:   address.Phone,
			Company: address.Company,
		}
	}

	number, err := s.erp.CreateCustomer(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("crear cliente en el ERP: %w", err)
	}
	s.log.Info().Int("customer", number).Int64("customer_id", order.Customer.ID).Msg("cliente ERP creado desde pedido")

	if order.Customer.ID > 0 {
		if err := s.corr.InsertCustomer(ctx, s.store.ID, entity.CustomerRef{
			CustomerNumber: number,
			ContactIndex:   0,
			CustomerID:     order.Customer.ID,
		}); err != nil {
			return 0, fmt.Errorf("registrar correspondencia del cliente nuevo: %w", err)
		}
	}
	return number, nil
}

// buildSalesOrder traduce el pedido Shopify al modelo de escritura del ERP.
func (s *OrderImport) buildSalesOrder(order *entity.ShopOrder, customerNumber int) *entity.SalesOrder {
	orderType := s.store.OrderTypeRegular
	if order.FinancialStatus == entity.FinancialStatusPending {
		orderType = s.store.OrderTypePending
	}

	paymentTerm, _ := resolveCode(s.store.PaymentTerms, order.Gateway)

	sales := &entity.SalesOrder{
		ReferenceNumber: order.Name,
		OrderDate:       order.CreatedAt,
		OrderType:       orderType,
		CustomerNumber:  customerNumber,
		PaymentTermCode: paymentTerm,
		// Convención del campo ERP, no una promesa real de entrega.
		DeliveryDate:    order.CreatedAt.AddDate(1, 0, 0),
		PickupPointID:   order.NoteAttribute(entity.NotePickupPointID),
		PickupPointName: order.NoteAttribute(entity.NotePickupPointName),
	}

	if a := order.BillingAddress; a != nil {
		sales.OrdererName = strings.TrimSpace(a.FirstName + " " + a.LastName)
		sales.OrdererStreetAddress = strings.TrimSpace(a.Address1 + " " + a.Address2)
		sales.OrdererCity = strings.TrimSpace(a.Zip + " " + a.City)
	}
	if a := order.ShippingAddress; a != nil {
		sales.DeliveryName = strings.TrimSpace(a.FirstName + " " + a.LastName)
		sales.DeliveryStreetAddress = strings.TrimSpace(a.Address1 + " " + a.Address2)
		sales.DeliveryCity = strings.TrimSpace(a.Zip + " " + a.City)
	}

	for _, item := range order.LineItems {
		sales.Rows = append(sales.Rows, entity.SalesOrderRow{
			ArticleCode: item.SKU,
			Quantity:    decimal.NewFromInt(int64(item.Quantity)),
			UnitPrice:   item.UnitPrice,
		})
	}

	for _, line := range order.ShippingLines {
		if code, ok := resolveCode(s.store.DeliveryMethods, line.Code); ok {
			sales.DeliveryMethodCode = code
		}
		sales.Rows = append(sales.Rows, entity.SalesOrderRow{
			ArticleCode: s.store.ShippingArticleCode,
			Name:        syncrules.Truncate(line.Title, erpNameLimit),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   line.Price,
		})
	}

	// Recargo fijo contra reembolso.
	if s.store.CODPaymentTermCode != 0 && paymentTerm == s.store.CODPaymentTermCode && s.store.CODFeeArticleCode != "" {
		fee, err := decimal.NewFromString(s.store.CODFeeAmount)
		if err != nil {
			s.log.Warn().Str("amount", s.store.CODFeeAmount).Msg("recargo contra reembolso mal configurado")
			fee = decimal.Zero
		}
		sales.Rows = append(sales.Rows, entity.SalesOrderRow{
			ArticleCode: s.store.CODFeeArticleCode,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   fee,
		})
	}

	return sales
}

// resolveCode busca el primer mapping cuyo fragmento aparece en el texto
// (case-insensitive). Primera coincidencia gana.
func resolveCode(mappings []entity.CodeMapping, text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	lower := strings.ToLower(text)
	for _, m := range mappings {
		if m.Match != "" && strings.Contains(lower, strings.ToLower(m.Match)) {
			return m.Code, true
		}
	}
	return 0, false
}
