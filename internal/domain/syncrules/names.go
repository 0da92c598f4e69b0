package syncrules

import "strings"

// SplitFullName separa un nombre completo del ERP en (nombre, apellido) para
// Shopify: el último token es el apellido, el resto el nombre. Un solo token
// va al apellido (razones sociales de una palabra quedan como last_name).
func SplitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// Truncate recorta una cadena a n runas (límite de 50 caracteres del ERP en
// nombres de línea de pedido).
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
