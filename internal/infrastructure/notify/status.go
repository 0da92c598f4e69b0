package notify

import (
	"sync"
	"time"

	"github.com/jhoicas/storesync-api/internal/application/ports"
)

var _ ports.Notifier = (*StatusBoard)(nil)

// StatusEntry último estado conocido de una tienda.
type StatusEntry struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusBoard registro en memoria del último estado de corrida por tienda.
// Alimenta el endpoint de estado; no persiste entre reinicios.
type StatusBoard struct {
	mu      sync.RWMutex
	entries map[string]StatusEntry
}

// NewStatusBoard construye el tablero vacío.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{entries: map[string]StatusEntry{}}
}

// Status registra el estado actual de la corrida de una tienda.
func (b *StatusBoard) Status(storeID, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[storeID] = StatusEntry{Status: status, UpdatedAt: time.Now()}
}

// Last devuelve el último estado de la tienda, ok=false si nunca corrió.
func (b *StatusBoard) Last(storeID string) (StatusEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.entries[storeID]
	return entry, ok
}
