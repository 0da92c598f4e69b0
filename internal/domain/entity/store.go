package entity

import "time"

// UpdateMode modo de actualización de una corrida de sincronización.
const (
	ModeRegular = "regular" // incremental, acotado por checkpoints
	ModeFull    = "full"    // ignora checkpoints, procesa todo y fuerza re-subida de imágenes
)

// CodeMapping asocia un texto de la tienda (pasarela de pago, método de envío)
// con un código paramétrico del ERP. La resolución es por substring, primera
// coincidencia gana.
type CodeMapping struct {
	Match string `json:"match"` // fragmento a buscar (case-insensitive)
	Code  int    `json:"code"`  // código ERP resultante
}

// Store representa una cuenta de tienda Shopify enlazada a una empresa del ERP.
// Inmutable durante una corrida salvo los checkpoints, que solo avanza el
// orquestador al final de una corrida completamente exitosa.
type Store struct {
	ID          string
	Name        string
	Account     string // subdominio de la tienda (account.myshopify.com)
	AccessToken string
	ERPCompany  int // número de empresa en el ERP

	// Configuración de sincronización por tienda.
	ArticleTypes    []int         // tipos de artículo reconocidos (ej. 5, 25, 44)
	PricelistLimit  int           // se recorren las listas de precios 0..N
	SyncImages      bool          // subir imágenes de artículos desde el directorio de assets
	PaymentTerms    []CodeMapping // pasarela de pago -> condición de pago ERP
	DeliveryMethods []CodeMapping // método de envío -> código de entrega ERP

	// Parámetros de importación de pedidos.
	OrderTypeRegular    int    // tipo de pedido ERP para pedidos pagados
	OrderTypePending    int    // tipo de pedido ERP para pedidos con pago pendiente
	ShippingArticleCode string // artículo fijo para las líneas de envío
	CODPaymentTermCode  int    // condición de pago contra reembolso
	CODFeeArticleCode   string // artículo del recargo contra reembolso
	CODFeeAmount        string // recargo fijo (decimal en texto, se parsea al construir la línea)

	// Checkpoints: instante de la última sincronización exitosa por dirección.
	// Monotónicos no decrecientes; nil = nunca sincronizado (corrida completa).
	LastCatalogSync *time.Time // pull de catálogo/clientes/precios desde el ERP
	LastOrderSync   *time.Time // pull de pedidos desde Shopify

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecognizesArticleType indica si el tipo de artículo está habilitado para esta tienda.
func (s *Store) RecognizesArticleType(articleType int) bool {
	for _, t := range s.ArticleTypes {
		if t == articleType {
			return true
		}
	}
	return false
}
