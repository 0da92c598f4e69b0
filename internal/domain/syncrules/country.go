package syncrules

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryCodes tabla de referencia nombre de país -> código ISO de dos letras.
// Las claves van ya plegadas (minúsculas, sin diacríticos).
var countryCodes = map[string]string{
	"finland":        "FI",
	"suomi":          "FI",
	"sweden":         "SE",
	"sverige":        "SE",
	"norway":         "NO",
	"norge":          "NO",
	"denmark":        "DK",
	"danmark":        "DK",
	"estonia":        "EE",
	"germany":        "DE",
	"deutschland":    "DE",
	"united kingdom": "GB",
	"great britain":  "GB",
	"united states":  "US",
	"netherlands":    "NL",
	"belgium":        "BE",
	"france":         "FR",
	"spain":          "ES",
	"espana":         "ES",
	"portugal":       "PT",
	"italy":          "IT",
	"italia":         "IT",
	"poland":         "PL",
	"polska":         "PL",
	"lithuania":      "LT",
	"latvia":         "LV",
	"russia":         "RU",
	"colombia":       "CO",
	"mexico":         "MX",
	"canada":         "CA",
	"australia":      "AU",
	"japan":          "JP",
	"china":          "CN",
	"switzerland":    "CH",
	"austria":        "AT",
	"ireland":        "IE",
	"iceland":        "IS",
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldCountry pliega un nombre para comparación: minúsculas y sin diacríticos.
func foldCountry(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// CountryCode normaliza el campo país de una dirección: un código de dos
// letras pasa tal cual (en mayúsculas); un nombre completo se busca en la
// tabla de referencia sin distinguir mayúsculas ni diacríticos. Sin
// coincidencia, el campo queda en blanco.
func CountryCode(country string) string {
	c := strings.TrimSpace(country)
	if c == "" {
		return ""
	}
	if len(c) == 2 {
		return strings.ToUpper(c)
	}
	if code, ok := countryCodes[foldCountry(c)]; ok {
		return code
	}
	return ""
}
