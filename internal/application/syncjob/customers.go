package syncjob

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/internal/domain/syncrules"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// CustomerSync reconcilia clientes y contactos del ERP con clientes de
// Shopify. Cada contacto con email de un cliente ERP se convierte en un
// cliente Shopify independiente, con clave (número de cliente, índice del
// contacto).
type CustomerSync struct {
	store *entity.Store
	erp   ports.ERP
	shop  ports.ShopGateway
	corr  repository.CorrespondenceRepository
	log   *logger.Logger
}

// NewCustomerSync construye el componente con sus dependencias inyectadas.
func NewCustomerSync(store *entity.Store, erp ports.ERP, shop ports.ShopGateway,
	corr repository.CorrespondenceRepository, log *logger.Logger) *CustomerSync {
	return &CustomerSync{store: store, erp: erp, shop: shop, corr: corr, log: log}
}

// Run procesa los clientes cambiados desde since (nil = todos).
func (s *CustomerSync) Run(ctx context.Context, since *time.Time) (Stats, error) {
	var stats Stats

	customers, err := s.erp.ListCustomers(ctx, since)
	if err != nil {
		return stats, fmt.Errorf("listar clientes del ERP: %w", err)
	}
	s.log.Info().Int("customers", len(customers)).Msg("clientes encontrados en el ERP")

	for _, customer := range customers {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i, contact := range customer.Contacts {
			if err := s.syncContact(ctx, customer, i, contact, &stats); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

// syncContact reconcilia un contacto: create si no hay correspondencia, update
// reutilizando la dirección ya creada si la hay. Error solo ante fallo del
// almacén de correspondencias.
func (s *CustomerSync) syncContact(ctx context.Context, customer *entity.Customer, index int, contact entity.Contact, stats *Stats) error {
	clog := s.log.With().Int("customer", customer.Number).Int("contact", index).Logger()

	if contact.Email == "" {
		clog.Warn().Msg("contacto sin email, la plataforma lo exige; se salta")
		stats.Skipped++
		return nil
	}

	ref, err := s.corr.LookupCustomer(ctx, s.store.ID, customer.Number, index)
	if err != nil {
		return fmt.Errorf("buscar correspondencia de cliente %d/%d: %w", customer.Number, index, err)
	}

	payload := s.customerPayload(ctx, customer, contact)

	if ref == nil {
		created, err := s.shop.CreateCustomer(ctx, payload)
		if err != nil {
			clog.Error().Err(err).Msg("crear cliente en Shopify")
			stats.Failed++
			return nil
		}
		newRef := entity.CustomerRef{
			CustomerNumber: customer.Number,
			ContactIndex:   index,
			CustomerID:     created.CustomerID,
			AddressID:      created.AddressID,
		}
		if err := s.corr.InsertCustomer(ctx, s.store.ID, newRef); err != nil {
			return fmt.Errorf("registrar correspondencia de cliente %d/%d: %w", customer.Number, index, err)
		}
		clog.Info().Int64("customer_id", created.CustomerID).Msg("cliente creado en Shopify")
		stats.Created++
		return nil
	}

	// Update sobre la misma dirección: el id conocido viaja en el payload.
	payload.Address.ID = ref.AddressID
	if err := s.shop.UpdateCustomer(ctx, ref.CustomerID, payload); err != nil {
		clog.Error().Err(err).Int64("customer_id", ref.CustomerID).Msg("actualizar cliente en Shopify")
		stats.Failed++
		return nil
	}
	clog.Info().Int64("customer_id", ref.CustomerID).Msg("cliente actualizado")
	stats.Updated++
	return nil
}

// customerPayload arma el payload Shopify de un contacto: nombre partido en
// first/last, tags +C/+P y una dirección tomada del cliente de facturación
// cuando el cliente ERP tiene uno asignado.
func (s *CustomerSync) customerPayload(ctx context.Context, customer *entity.Customer, contact entity.Contact) ports.CustomerPayload {
	name := contact.FullName
	if name == "" {
		name = customer.FullName
	}
	first, last := syncrules.SplitFullName(name)

	address := customer.Address
	if customer.InvoiceCustomerNumber != nil {
		invoice, err := s.erp.GetCustomer(ctx, *customer.InvoiceCustomerNumber)
		if err != nil || invoice == nil {
			s.log.Debug().Int("customer", customer.Number).Int("invoice_customer", *customer.InvoiceCustomerNumber).
				Msg("cliente de facturación no resoluble, se usa la dirección propia")
		} else {
			address = invoice.Address
		}
	}

	return ports.CustomerPayload{
		FirstName: first,
		LastName:  last,
		Email:     contact.Email,
		Tags:      syncrules.BuildCustomerTags(customer.Number, customer.PricelistID),
		Address: ports.AddressPayload{
			FirstName:   first,
			LastName:    last,
			Company:     address.Company,
			Address1:    address.Street,
			City:        address.City,
			Zip:         address.Zip,
			CountryCode: syncrules.CountryCode(address.Country),
			Phone:       address.Phone,
		},
	}
}
