package ports

// Notifier recibe los estados cortos legibles de una corrida ("starting",
// "updating products", "finished", "error updating shop") para la capa de
// presentación. Entrega fire-and-forget: debe ser seguro llamarlo desde la
// goroutine de la corrida y no puede bloquear la sincronización.
type Notifier interface {
	Status(storeID, status string)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(storeID, status string)

// Status implementa Notifier.
func (f NotifierFunc) Status(storeID, status string) { f(storeID, status) }
