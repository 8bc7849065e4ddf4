package pipeline

import (
	"strings"

	"monedero/internal/util"
)

// Banking-operation prefixes that carry no merchant information.
var fallbackSkipTokens = map[string]struct{}{
	"COMPRA": {}, "PAGO": {}, "RECIBO": {}, "ADEUDO": {}, "CARGO": {},
	"ABONO": {}, "OPERACION": {}, "MOVIMIENTO": {},
	"EN": {}, "DE": {}, "DEL": {}, "LA": {}, "EL": {}, "A": {},
	"CARD": {}, "TARJ": {}, "TARJETA": {}, "REF": {}, "REFERENCIA": {},
	"AUT": {}, "AUTH": {},
}

// Fallback produces a last-resort label for a sanitized line when neither
// the rule engine nor the AI stage delivered one. It never returns an
// empty string and its confidence is always below 0.5.
func Fallback(sanitized string) (string, float64) {
	for _, tok := range strings.Fields(strings.ToUpper(sanitized)) {
		if _, skip := fallbackSkipTokens[tok]; skip {
			continue
		}
		if len([]rune(tok)) < 2 || !util.IsAlphabetic(tok) {
			continue
		}
		return util.TitleCase(tok), 0.35
	}
	return "Movimiento", 0.2
}
