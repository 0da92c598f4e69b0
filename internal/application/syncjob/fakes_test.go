package syncjob_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// Fakes en memoria de los puertos y repositorios, para ejercitar los
// componentes de sincronización sin DB ni red.

func keyString(k entity.VariantKey) string {
	s := ""
	if k.PricelistNumber != nil {
		s += fmt.Sprintf("P%d", *k.PricelistNumber)
	}
	if k.CustomerNumber != nil {
		s += fmt.Sprintf("C%d", *k.CustomerNumber)
	}
	if k.Quantity != nil {
		s += fmt.Sprintf("Q%d", *k.Quantity)
	}
	return s
}

// ── CorrespondenceRepository ─────────────────────────────────────────────────

type fakeCorr struct {
	mu        sync.Mutex
	products  map[string]*entity.ProductRef  // articleCode|variantKey
	customers map[string]*entity.CustomerRef // number/contactIndex
	byRemote  map[int64]*entity.CustomerRef
	orders    map[int64]*entity.OrderRef
}

func newFakeCorr() *fakeCorr {
	return &fakeCorr{
		products:  map[string]*entity.ProductRef{},
		customers: map[string]*entity.CustomerRef{},
		byRemote:  map[int64]*entity.CustomerRef{},
		orders:    map[int64]*entity.OrderRef{},
	}
}

func (f *fakeCorr) productKey(articleCode string, key entity.VariantKey) string {
	return articleCode + "|" + keyString(key)
}

func (f *fakeCorr) LookupProduct(_ context.Context, _ string, articleCode string, key entity.VariantKey) (*entity.ProductRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.products[f.productKey(articleCode, key)]
	if !ok {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (f *fakeCorr) LookupProductByFamily(_ context.Context, _ string, familyCode string) (*entity.ProductRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Solo entradas base agrupan familia; las variantes de precio no anclan.
	for k, ref := range f.products {
		if strings.HasSuffix(k, "|") && ref.FamilyCode == familyCode {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCorr) InsertProduct(_ context.Context, _ string, articleCode string, key entity.VariantKey, ref entity.ProductRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.productKey(articleCode, key)
	if _, ok := f.products[k]; ok {
		return fmt.Errorf("correspondencia duplicada para %s", k)
	}
	f.products[k] = &ref
	return nil
}

func (f *fakeCorr) AttachImage(_ context.Context, _ string, articleCode, imageName string, imageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.products[articleCode+"|"]
	if !ok {
		return fmt.Errorf("no hay entrada base para %s", articleCode)
	}
	ref.AppendImage(imageName, imageID)
	return nil
}

func (f *fakeCorr) LookupCustomer(_ context.Context, _ string, customerNumber, contactIndex int) (*entity.CustomerRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.customers[fmt.Sprintf("%d/%d", customerNumber, contactIndex)]
	if !ok {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (f *fakeCorr) LookupCustomerByRemoteID(_ context.Context, _ string, shopifyCustomerID int64) (*entity.CustomerRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.byRemote[shopifyCustomerID]
	if !ok {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (f *fakeCorr) InsertCustomer(_ context.Context, _ string, ref entity.CustomerRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := fmt.Sprintf("%d/%d", ref.CustomerNumber, ref.ContactIndex)
	if _, ok := f.customers[k]; ok {
		return fmt.Errorf("correspondencia de cliente duplicada para %s", k)
	}
	f.customers[k] = &ref
	if ref.CustomerID > 0 {
		f.byRemote[ref.CustomerID] = &ref
	}
	return nil
}

func (f *fakeCorr) ListCustomerNumbers(_ context.Context, _ string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[int]bool{}
	var out []int
	for _, ref := range f.customers {
		if !seen[ref.CustomerNumber] {
			seen[ref.CustomerNumber] = true
			out = append(out, ref.CustomerNumber)
		}
	}
	return out, nil
}

func (f *fakeCorr) LookupOrder(_ context.Context, _ string, shopifyOrderID int64) (*entity.OrderRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.orders[shopifyOrderID]
	if !ok {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (f *fakeCorr) InsertOrder(_ context.Context, _ string, ref entity.OrderRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[ref.ShopifyOrderID]; ok {
		return fmt.Errorf("enlace de pedido duplicado para %d", ref.ShopifyOrderID)
	}
	f.orders[ref.ShopifyOrderID] = &ref
	return nil
}

// ── ShopGateway ──────────────────────────────────────────────────────────────

type createdVariant struct {
	productID int64
	payload   ports.VariantPayload
}

type fakeShop struct {
	mu     sync.Mutex
	nextID int64

	createdProducts  []ports.ProductPayload
	updatedProducts  map[int64]ports.ProductPayload
	createdVariants  []createdVariant
	variantPrices    map[int64]decimal.Decimal
	createdImages    map[int64][]string
	createdCustomers []ports.CustomerPayload
	updatedCustomers map[int64]ports.CustomerPayload

	orders          []*entity.ShopOrder
	remoteCustomers map[int64]*entity.ShopCustomer

	failCreateProduct  error
	failCreateCustomer error
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		nextID:           1000,
		updatedProducts:  map[int64]ports.ProductPayload{},
		variantPrices:    map[int64]decimal.Decimal{},
		createdImages:    map[int64][]string{},
		updatedCustomers: map[int64]ports.CustomerPayload{},
		remoteCustomers:  map[int64]*entity.ShopCustomer{},
	}
}

func (f *fakeShop) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeShop) ListOrders(_ context.Context, _ *time.Time) ([]*entity.ShopOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, nil
}

func (f *fakeShop) GetCustomer(_ context.Context, customerID int64) (*entity.ShopCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remoteCustomers[customerID], nil
}

func (f *fakeShop) CreateProduct(_ context.Context, p ports.ProductPayload) (ports.CreatedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateProduct != nil {
		return ports.CreatedProduct{}, f.failCreateProduct
	}
	f.createdProducts = append(f.createdProducts, p)
	return ports.CreatedProduct{ProductID: f.id(), VariantID: f.id(), VariantVatID: f.id()}, nil
}

func (f *fakeShop) UpdateProduct(_ context.Context, productID int64, p ports.ProductPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedProducts[productID] = p
	return nil
}

func (f *fakeShop) CreateVariant(_ context.Context, productID int64, v ports.VariantPayload) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdVariants = append(f.createdVariants, createdVariant{productID: productID, payload: v})
	return f.id(), nil
}

func (f *fakeShop) UpdateVariantPrice(_ context.Context, variantID int64, price decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variantPrices[variantID] = price
	return nil
}

func (f *fakeShop) CreateImage(_ context.Context, productID int64, filename, _ string, _ int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdImages[productID] = append(f.createdImages[productID], filename)
	return f.id(), nil
}

func (f *fakeShop) CreateCustomer(_ context.Context, c ports.CustomerPayload) (ports.CreatedCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateCustomer != nil {
		return ports.CreatedCustomer{}, f.failCreateCustomer
	}
	f.createdCustomers = append(f.createdCustomers, c)
	return ports.CreatedCustomer{CustomerID: f.id(), AddressID: f.id()}, nil
}

func (f *fakeShop) UpdateCustomer(_ context.Context, customerID int64, c ports.CustomerPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedCustomers[customerID] = c
	return nil
}

// ── ERP ──────────────────────────────────────────────────────────────────────

type fakeERP struct {
	mu        sync.Mutex
	articles  []*entity.Article
	groups    map[int]string
	groupErr  error
	customers []*entity.Customer

	generalPricelists  map[int][]*entity.PricelistItem
	customerPricelists map[int][]*entity.PricelistItem

	createdCustomers   []entity.NewCustomer
	nextCustomerNumber int
	createdOrders      []*entity.SalesOrder

	listArticlesErr   error
	createCustomerErr error
}

func newFakeERP() *fakeERP {
	return &fakeERP{
		groups:             map[int]string{},
		generalPricelists:  map[int][]*entity.PricelistItem{},
		customerPricelists: map[int][]*entity.PricelistItem{},
		nextCustomerNumber: 9000,
	}
}

func (f *fakeERP) ListArticles(_ context.Context, since *time.Time) ([]*entity.Article, error) {
	if f.listArticlesErr != nil {
		return nil, f.listArticlesErr
	}
	if since == nil {
		return f.articles, nil
	}
	var out []*entity.Article
	for _, a := range f.articles {
		if !a.UpdatedAt.Before(*since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeERP) GetArticle(_ context.Context, code string) (*entity.Article, error) {
	for _, a := range f.articles {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeERP) ProductGroupDescription(_ context.Context, groupID int) (string, error) {
	if f.groupErr != nil {
		return "", f.groupErr
	}
	return f.groups[groupID], nil
}

func (f *fakeERP) ListCustomers(_ context.Context, since *time.Time) ([]*entity.Customer, error) {
	if since == nil {
		return f.customers, nil
	}
	var out []*entity.Customer
	for _, c := range f.customers {
		if !c.UpdatedAt.Before(*since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeERP) GetCustomer(_ context.Context, number int) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.Number == number {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeERP) GeneralPricelist(_ context.Context, pricelistNumber int) ([]*entity.PricelistItem, error) {
	return f.generalPricelists[pricelistNumber], nil
}

func (f *fakeERP) CustomerPricelist(_ context.Context, customerNumber int) ([]*entity.PricelistItem, error) {
	return f.customerPricelists[customerNumber], nil
}

func (f *fakeERP) CreateCustomer(_ context.Context, in entity.NewCustomer) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCustomerErr != nil {
		return 0, f.createCustomerErr
	}
	f.createdCustomers = append(f.createdCustomers, in)
	f.nextCustomerNumber++
	return f.nextCustomerNumber, nil
}

func (f *fakeERP) CreateSalesOrder(_ context.Context, order *entity.SalesOrder) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdOrders = append(f.createdOrders, order)
	return fmt.Sprintf("SO-%03d", len(f.createdOrders)), nil
}

// ── StoreRepository ──────────────────────────────────────────────────────────

type fakeStores struct {
	mu       sync.Mutex
	stores   map[string]*entity.Store
	advanced [][2]time.Time
}

func newFakeStores(stores ...*entity.Store) *fakeStores {
	m := map[string]*entity.Store{}
	for _, s := range stores {
		m[s.ID] = s
	}
	return &fakeStores{stores: m}
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) List(_ context.Context) ([]*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Store
	for _, s := range f.stores {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStores) Create(_ context.Context, store *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStores) AdvanceCheckpoints(_ context.Context, storeID string, catalogAt, orderAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[storeID]
	if !ok {
		return fmt.Errorf("tienda %s no existe", storeID)
	}
	// monotónico: nunca retrocede
	if s.LastCatalogSync == nil || catalogAt.After(*s.LastCatalogSync) {
		s.LastCatalogSync = &catalogAt
	}
	if s.LastOrderSync == nil || orderAt.After(*s.LastOrderSync) {
		s.LastOrderSync = &orderAt
	}
	f.advanced = append(f.advanced, [2]time.Time{catalogAt, orderAt})
	return nil
}

// ── AssetStore / Notifier ────────────────────────────────────────────────────

type fakeAssets struct {
	images map[string][]ports.ImageFile
}

func (f *fakeAssets) FindImages(_ context.Context, articleCode string) ([]ports.ImageFile, error) {
	return f.images[articleCode], nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	statuses []string
}

func (f *fakeNotifier) Status(_ string, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func (f *fakeNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.statuses...)
}
