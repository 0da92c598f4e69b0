package syncrules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/storesync-api/internal/domain/entity"
)

// Tags Shopify: metadatos advisory sobre la entidad remota, nunca se usan para
// matching — con la única excepción del tag +C de cliente, que la importación
// de pedidos lee como heurística best-effort (ver ParseCustomerNumberTag).

const tagDateLayout = "2006-01-02"

// BuildProductTags arma la cadena de tags de un producto Shopify a partir del
// artículo: tipo (+T), marca "Order" para fabricación bajo pedido, descripción
// del grupo de producto, IVA (+V) y fecha de entrega calculada (+D).
// groupDescription llega resuelta (o vacía si la referencia ERP está obsoleta).
func BuildProductTags(article *entity.Article, groupDescription string) string {
	tags := []string{fmt.Sprintf("+T%d", article.Type)}
	if article.MakeToOrder {
		tags = append(tags, "Order")
	}
	if groupDescription != "" {
		tags = append(tags, groupDescription)
	}
	tags = append(tags, "+V"+article.VATRate.String())
	if article.DeliveryDate != nil {
		tags = append(tags, "+D"+article.DeliveryDate.Format(tagDateLayout))
	}
	return strings.Join(tags, ", ")
}

// BuildCustomerTags arma los tags de un cliente Shopify: número de cliente ERP
// (+C) y lista de precios asignada (+P).
func BuildCustomerTags(customerNumber, pricelistID int) string {
	return fmt.Sprintf("+C%d, +P%d", customerNumber, pricelistID)
}

// ParseCustomerNumberTag busca en los tags de un cliente Shopify la marca
// +C<número> que lo ata a un cliente ERP. Devuelve el primer token +C cuyo
// resto sea estrictamente numérico; tokens +C malformados se ignoran.
func ParseCustomerNumberTag(tags string) (int, bool) {
	for _, token := range strings.FieldsFunc(tags, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		rest, ok := strings.CutPrefix(token, "+C")
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			continue
		}
		return n, true
	}
	return 0, false
}
