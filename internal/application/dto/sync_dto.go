package dto

import (
	"time"

	"github.com/jhoicas/storesync-api/internal/application/syncjob"
)

// StoreResponse salida de una tienda (sin el access token).
type StoreResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Account         string     `json:"account"`
	ERPCompany      int        `json:"erp_company"`
	LastCatalogSync *time.Time `json:"last_catalog_sync"`
	LastOrderSync   *time.Time `json:"last_order_sync"`
}

// SyncRunResponse salida de una corrida de sincronización terminada.
type SyncRunResponse struct {
	Summary *syncjob.RunSummary `json:"summary"`
}

// SyncStatusResponse último estado conocido de la corrida de una tienda.
type SyncStatusResponse struct {
	StoreID   string     `json:"store_id"`
	Running   bool       `json:"running"`
	Status    string     `json:"status,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
