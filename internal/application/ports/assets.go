package ports

import "context"

// ImageFile imagen local de un artículo ya codificada para el API de Shopify.
type ImageFile struct {
	Name   string // nombre de archivo, clave en el libro de imágenes
	Base64 string // contenido codificado base64
}

// AssetStore localiza imágenes de artículos en el almacenamiento local.
// El núcleo de sincronización no toca el filesystem directamente.
type AssetStore interface {
	// FindImages imágenes cuyo nombre corresponde al código de artículo,
	// ordenadas por nombre. Sin imágenes devuelve lista vacía, no error.
	FindImages(ctx context.Context, articleCode string) ([]ImageFile, error)
}
