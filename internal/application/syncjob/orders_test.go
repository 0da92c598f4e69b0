package syncjob_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storesync-api/internal/application/syncjob"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

func orderStore() *entity.Store {
	s := testStore()
	s.OrderTypeRegular = 1
	s.OrderTypePending = 9
	s.PaymentTerms = []entity.CodeMapping{
		{Match: "klarna", Code: 14},
		{Match: "cash on delivery", Code: 30},
	}
	s.DeliveryMethods = []entity.CodeMapping{
		{Match: "posti", Code: 2},
		{Match: "pickup", Code: 7},
	}
	s.ShippingArticleCode = "RAHTI"
	s.CODPaymentTermCode = 30
	s.CODFeeArticleCode = "COD-FEE"
	s.CODFeeAmount = "5.90"
	return s
}

func shopOrder(id int64) *entity.ShopOrder {
	return &entity.ShopOrder{
		ID:              id,
		Name:            "#1001",
		CreatedAt:       time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		FinancialStatus: entity.FinancialStatusPaid,
		Gateway:         "Klarna Checkout",
		Customer: entity.ShopCustomer{
			ID:        55,
			Email:     "ana@demo.fi",
			FirstName: "Ana",
			LastName:  "García",
			Tags:      "+C1200",
		},
		LineItems: []entity.LineItem{
			{SKU: "A100", Quantity: 2, UnitPrice: decimal.NewFromFloat(19.90)},
		},
	}
}

// TestOrderImport_CreaPedidoDeVenta verifica el camino feliz: tag +C resuelve
// el cliente y el pedido de venta se crea con sus líneas.
func TestOrderImport_CreaPedidoDeVenta(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	shop.orders = []*entity.ShopOrder{shopOrder(9001)}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	stats, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	require.Len(t, erp.createdOrders, 1)
	sales := erp.createdOrders[0]
	assert.Equal(t, "#1001", sales.ReferenceNumber)
	assert.Equal(t, 1200, sales.CustomerNumber, "el tag +C gana sin tocar el ERP")
	assert.Equal(t, 1, sales.OrderType)
	assert.Equal(t, 14, sales.PaymentTermCode, "klarna se resuelve por substring")
	require.Len(t, sales.Rows, 1)
	assert.Equal(t, "A100", sales.Rows[0].ArticleCode)
	assert.True(t, sales.Rows[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, erp.createdCustomers, "no se crea ningún cliente")

	ref, _ := corr.LookupOrder(context.Background(), store.ID, 9001)
	require.NotNil(t, ref)
	assert.Equal(t, "SO-001", ref.ERPOrderNumber)
}

// TestOrderImport_MismoPedidoNoSeImportaDosVeces verifica la deduplicación por
// id remoto: la segunda importación es un no-op que sigue siendo éxito.
func TestOrderImport_MismoPedidoNoSeImportaDosVeces(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	shop.orders = []*entity.ShopOrder{shopOrder(9001)}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	first, err := imp.Run(context.Background(), nil)
	require.NoError(t, err)
	second, err := imp.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Zero(t, second.Created)
	assert.Len(t, erp.createdOrders, 1, "exactamente un pedido de venta en el ERP")
}

// TestOrderImport_TagDesdeClienteRemoto verifica que cuando el pedido viene
// sin tags embebidos, se consultan los del cliente remoto.
func TestOrderImport_TagDesdeClienteRemoto(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.Customer.Tags = ""
	shop.orders = []*entity.ShopOrder{o}
	shop.remoteCustomers[55] = &entity.ShopCustomer{ID: 55, Tags: "vip, +C1300"}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdOrders, 1)
	assert.Equal(t, 1300, erp.createdOrders[0].CustomerNumber)
}

// TestOrderImport_ClientePorIdRemoto verifica el segundo nivel de resolución:
// la correspondencia por id remoto cuando no hay tag +C válido.
func TestOrderImport_ClientePorIdRemoto(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.Customer.Tags = "mayorista"
	shop.orders = []*entity.ShopOrder{o}
	require.NoError(t, corr.InsertCustomer(context.Background(), store.ID, entity.CustomerRef{
		CustomerNumber: 1450, ContactIndex: 0, CustomerID: 55,
	}))

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdOrders, 1)
	assert.Equal(t, 1450, erp.createdOrders[0].CustomerNumber)
	assert.Empty(t, erp.createdCustomers)
}

// TestOrderImport_ClienteNuevoEnERP verifica el último recurso: crear el
// cliente en el ERP y registrar la correspondencia para el siguiente pedido.
func TestOrderImport_ClienteNuevoEnERP(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.Customer.Tags = ""
	o.BillingAddress = &entity.ShopAddress{
		FirstName: "Ana", LastName: "García",
		Company:  "Demo Oy",
		Address1: "Calle Mayor 1", City: "Helsinki", Zip: "00100", Country: "Finland",
	}
	shop.orders = []*entity.ShopOrder{o}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdCustomers, 1)
	created := erp.createdCustomers[0]
	assert.Equal(t, "Demo Oy", created.FullName, "la razón social se promueve a nombre principal")
	assert.Equal(t, "Ana García", created.ContactName)
	assert.Equal(t, "FI", created.Address.Country)

	require.Len(t, erp.createdOrders, 1)
	assert.Equal(t, 9001, erp.createdOrders[0].CustomerNumber)

	ref, _ := corr.LookupCustomerByRemoteID(context.Background(), store.ID, 55)
	require.NotNil(t, ref, "el cliente nuevo queda enlazado a su id remoto")
	assert.Equal(t, 9001, ref.CustomerNumber)

	// El segundo pedido del mismo cliente remoto reutiliza el número ERP.
	shop.orders = append(shop.orders, func() *entity.ShopOrder {
		o2 := shopOrder(9002)
		o2.Customer.Tags = ""
		return o2
	}())
	_, err = imp.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, erp.createdCustomers, 1, "no se duplica el cliente ERP")
}

// TestOrderImport_LineaDeEnvioYMetodoDeEntrega verifica la línea de envío con
// el artículo fijo, el nombre truncado y el código de entrega resuelto.
func TestOrderImport_LineaDeEnvioYMetodoDeEntrega(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.ShippingLines = []entity.ShippingLine{{
		Code:  "posti-express",
		Title: "Posti Express entrega a domicilio en veinticuatro horas laborables",
		Price: decimal.NewFromFloat(7.90),
	}}
	shop.orders = []*entity.ShopOrder{o}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdOrders, 1)
	sales := erp.createdOrders[0]
	assert.Equal(t, 2, sales.DeliveryMethodCode)
	require.Len(t, sales.Rows, 2)
	envio := sales.Rows[1]
	assert.Equal(t, "RAHTI", envio.ArticleCode)
	assert.LessOrEqual(t, len([]rune(envio.Name)), 50)
	assert.True(t, envio.UnitPrice.Equal(decimal.NewFromFloat(7.90)))
}

// TestOrderImport_RecargoContraReembolso verifica la línea de recargo fijo
// cuando la condición de pago resuelta es la de contra reembolso.
func TestOrderImport_RecargoContraReembolso(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.Gateway = "Cash on Delivery (COD)"
	shop.orders = []*entity.ShopOrder{o}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdOrders, 1)
	sales := erp.createdOrders[0]
	assert.Equal(t, 30, sales.PaymentTermCode)
	recargo := sales.Rows[len(sales.Rows)-1]
	assert.Equal(t, "COD-FEE", recargo.ArticleCode)
	assert.True(t, recargo.UnitPrice.Equal(decimal.RequireFromString("5.90")))
}

// TestOrderImport_PedidoPendienteYFechaDeEntrega verifica el tipo de pedido
// para pago pendiente y la convención de fecha de entrega a un año.
func TestOrderImport_PedidoPendienteYFechaDeEntrega(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.FinancialStatus = entity.FinancialStatusPending
	o.NoteAttributes = []entity.NoteAttribute{
		{Name: entity.NotePickupPointID, Value: "P-77"},
		{Name: entity.NotePickupPointName, Value: "Kiosko Centro"},
	}
	shop.orders = []*entity.ShopOrder{o}

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	_, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, erp.createdOrders, 1)
	sales := erp.createdOrders[0]
	assert.Equal(t, 9, sales.OrderType)
	assert.Equal(t, o.CreatedAt.AddDate(1, 0, 0), sales.DeliveryDate)
	assert.Equal(t, "P-77", sales.PickupPointID)
	assert.Equal(t, "Kiosko Centro", sales.PickupPointName)
}

// TestOrderImport_FalloDelERPNoDejaEnlace verifica que un fallo al crear el
// pedido de venta deja el pedido sin enlazar, listo para el reintento.
func TestOrderImport_FalloDelERPNoDejaEnlace(t *testing.T) {
	store := orderStore()
	erp := newFakeERP()
	shop := newFakeShop()
	corr := newFakeCorr()
	o := shopOrder(9001)
	o.Customer.Tags = "sin numero"
	o.Customer.ID = 0 // sin cliente remoto: la creación en el ERP falla aguas arriba
	shop.orders = []*entity.ShopOrder{o}
	erp.createCustomerErr = assert.AnError

	imp := syncjob.NewOrderImport(store, erp, shop, corr, logger.Nop())
	stats, err := imp.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	ref, _ := corr.LookupOrder(context.Background(), store.ID, 9001)
	assert.Nil(t, ref)
	assert.Empty(t, erp.createdOrders)
}
