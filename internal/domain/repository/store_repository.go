package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (DIP).
// Incluye el contrato de checkpoints: GetByID los lee, AdvanceCheckpoints los
// avanza solo hacia adelante y SOLO debe llamarse tras una corrida sin errores
// no recuperados; una corrida parcial no avanza y el reintento reprocesa la
// misma ventana.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	List(ctx context.Context) ([]*entity.Store, error)
	Create(ctx context.Context, store *entity.Store) error
	AdvanceCheckpoints(ctx context.Context, storeID string, catalogAt, orderAt time.Time) error
}
