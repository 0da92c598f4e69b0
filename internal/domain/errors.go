package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrStoreNotFound = errors.New("tienda no encontrada")

	// ErrRunInProgress indica que ya hay una corrida activa para la tienda;
	// el disparo concurrente es un no-op (una corrida por tienda a la vez).
	ErrRunInProgress = errors.New("sincronización en curso para la tienda")
)
