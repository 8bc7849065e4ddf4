package pipeline

import (
	"strings"

	"monedero/internal"
	"monedero/internal/util"
)

type merchantRule struct {
	Key        string
	Substr     string
	Label      string
	Confidence float64
}

type operationRule struct {
	Key        string
	Token      string
	Label      string
	Hint       internal.TypeHint
	Confidence float64
}

type transferRule struct {
	Key        string
	Token      string
	Label      string
	Confidence float64
}

// Rule tables are ordered and immutable. Within a class the longest
// matching substring wins; across classes the precedence is fixed:
// merchant > operation > transfer.
var merchantRules = []merchantRule{
	{"mercadona", "MERCADONA", "Mercadona", 0.95},
	{"carrefour", "CARREFOUR", "Carrefour", 0.95},
	{"lidl", "LIDL", "Lidl", 0.95},
	{"dia", "DIA", "Dia", 0.90},
	{"aldi", "ALDI", "Aldi", 0.95},
	{"alcampo", "ALCAMPO", "Alcampo", 0.95},
	{"eroski", "EROSKI", "Eroski", 0.95},
	{"consum", "CONSUM", "Consum", 0.92},
	{"el_corte_ingles", "CORTE INGLES", "El Corte Ingles", 0.95},
	{"amazon", "AMAZON", "Amazon", 0.95},
	{"aliexpress", "ALIEXPRESS", "AliExpress", 0.95},
	{"zara", "ZARA", "Zara", 0.92},
	{"primark", "PRIMARK", "Primark", 0.95},
	{"decathlon", "DECATHLON", "Decathlon", 0.95},
	{"ikea", "IKEA", "Ikea", 0.95},
	{"mediamarkt", "MEDIA MARKT", "MediaMarkt", 0.95},
	{"mediamarkt", "MEDIAMARKT", "MediaMarkt", 0.95},
	{"spotify", "SPOTIFY", "Spotify", 0.98},
	{"netflix", "NETFLIX", "Netflix", 0.98},
	{"hbo", "HBO", "HBO", 0.95},
	{"disney_plus", "DISNEY", "Disney+", 0.92},
	{"glovo", "GLOVO", "Glovo", 0.95},
	{"uber_eats", "UBER EATS", "Uber Eats", 0.95},
	{"uber", "UBER", "Uber", 0.92},
	{"cabify", "CABIFY", "Cabify", 0.95},
	{"renfe", "RENFE", "Renfe", 0.95},
	{"repsol", "REPSOL", "Repsol", 0.95},
	{"cepsa", "CEPSA", "Cepsa", 0.95},
	{"iberdrola", "IBERDROLA", "Iberdrola", 0.95},
	{"endesa", "ENDESA", "Endesa", 0.95},
	{"movistar", "MOVISTAR", "Movistar", 0.95},
	{"vodafone", "VODAFONE", "Vodafone", 0.95},
	{"orange", "ORANGE", "Orange", 0.90},
	{"vueling", "VUELING", "Vueling", 0.95},
	{"ryanair", "RYANAIR", "Ryanair", 0.95},
	{"booking", "BOOKING", "Booking.com", 0.92},
	{"airbnb", "AIRBNB", "Airbnb", 0.95},
	{"paypal", "PAYPAL", "PayPal", 0.92},
	{"apple", "APPLE", "Apple", 0.92},
	{"google", "GOOGLE", "Google", 0.92},
	{"mcdonalds", "MCDONALD", "McDonald's", 0.95},
	{"burger_king", "BURGER KING", "Burger King", 0.95},
	{"telepizza", "TELEPIZZA", "Telepizza", 0.95},
	{"dominos", "DOMINOS", "Domino's", 0.92},
	{"starbucks", "STARBUCKS", "Starbucks", 0.95},
}

var operationRules = []operationRule{
	{"comision", "COMISION", "Bank Fee", internal.HintFee, 0.85},
	{"cajero", "CAJERO", "ATM Withdrawal", internal.HintATM, 0.85},
	{"nomina", "NOMINA", "Salary", internal.HintSalary, 0.88},
	{"devolucion", "DEVOLUCION", "Refund", internal.HintRefund, 0.85},
}

var transferRules = []transferRule{
	{"transferencia", "TRANSFERENCIA", "Transfer", 0.85},
	{"bizum", "BIZUM", "Bizum", 0.85},
	{"sepa", "SEPA", "Transfer", 0.85},
}

// Honorifics and connectives skipped when extracting the counterparty name
// from a transfer line. The first token that survives is assumed to be a
// first name; that assumption is a documented heuristic, not a guarantee.
var transferSkipTokens = map[string]struct{}{
	"SR": {}, "SRA": {}, "SRTA": {}, "MR": {}, "MRS": {}, "MS": {}, "MISS": {},
	"DON": {}, "DOÑA": {}, "DR": {}, "DRA": {}, "D": {}, "DA": {},
	"A": {}, "DE": {}, "DEL": {}, "PARA": {},
	// Redaction markers the sanitizer leaves behind.
	"REF": {}, "REFERENCIA": {}, "CARD": {}, "TARJ": {}, "TARJETA": {},
	"AUT": {}, "AUTH": {},
}

// Match runs the sanitized line through the rule cascade. The zero result
// (nil Simplified, confidence 0) signals that the line must defer to the
// AI stage.
func Match(sanitized string) internal.SimplificationResult {
	s := strings.ToUpper(strings.TrimSpace(sanitized))
	if s == "" {
		return internal.SimplificationResult{}
	}

	if res, ok := matchMerchant(s); ok {
		return res
	}
	if res, ok := matchOperation(s); ok {
		return res
	}
	if res, ok := matchTransfer(s); ok {
		return res
	}
	return internal.SimplificationResult{}
}

func matchMerchant(s string) (internal.SimplificationResult, bool) {
	tokens := map[string]struct{}{}
	for _, t := range strings.Fields(s) {
		tokens[t] = struct{}{}
	}

	var best *merchantRule
	for i := range merchantRules {
		rule := &merchantRules[i]
		if !strings.Contains(s, rule.Substr) {
			continue
		}
		// Short keys like DIA match too many innocent substrings, so they
		// must stand alone as a token.
		if len(rule.Substr) < 4 {
			if _, ok := tokens[rule.Substr]; !ok {
				continue
			}
		}
		if best == nil || len(rule.Substr) > len(best.Substr) {
			best = rule
		}
	}
	if best == nil {
		return internal.SimplificationResult{}, false
	}

	return internal.SimplificationResult{
		Simplified:  util.StringPtr(best.Label),
		Confidence:  best.Confidence,
		MatchedRule: util.StringPtr("merchant:" + best.Key),
		TypeHint:    internal.HintMerchant,
	}, true
}

func matchOperation(s string) (internal.SimplificationResult, bool) {
	// Operation keys are whole tokens: NOMINA inside DENOMINACION is not a
	// salary line.
	tokens := map[string]struct{}{}
	for _, t := range strings.Fields(s) {
		tokens[t] = struct{}{}
	}

	var best *operationRule
	for i := range operationRules {
		rule := &operationRules[i]
		if _, ok := tokens[rule.Token]; !ok {
			continue
		}
		if best == nil || len(rule.Token) > len(best.Token) {
			best = rule
		}
	}
	if best == nil {
		return internal.SimplificationResult{}, false
	}

	return internal.SimplificationResult{
		Simplified:  util.StringPtr(best.Label),
		Confidence:  best.Confidence,
		MatchedRule: util.StringPtr("operation:" + best.Key),
		TypeHint:    best.Hint,
	}, true
}

func matchTransfer(s string) (internal.SimplificationResult, bool) {
	fields := strings.Fields(s)

	var best *transferRule
	triggerAt := -1
	for i := range transferRules {
		rule := &transferRules[i]
		for pos, tok := range fields {
			if tok != rule.Token {
				continue
			}
			if best == nil || len(rule.Token) > len(best.Token) {
				best = rule
				triggerAt = pos
			}
			break
		}
	}
	if best == nil {
		return internal.SimplificationResult{}, false
	}

	label := best.Label
	confidence := 0.80
	if name, ok := transferName(fields[triggerAt+1:]); ok {
		label = best.Label + " " + name
		confidence = 0.85
	}

	return internal.SimplificationResult{
		Simplified:  util.StringPtr(label),
		Confidence:  confidence,
		MatchedRule: util.StringPtr("transfer:" + best.Key),
		TypeHint:    internal.HintTransfer,
	}, true
}

// transferName picks the first token after the trigger that is neither an
// honorific, a connective, nor another trigger, and Title-Cases it.
func transferName(tokens []string) (string, bool) {
	triggers := map[string]struct{}{}
	for _, r := range transferRules {
		triggers[r.Token] = struct{}{}
	}

	for _, tok := range tokens {
		if _, skip := transferSkipTokens[tok]; skip {
			continue
		}
		if _, skip := triggers[tok]; skip {
			continue
		}
		if len([]rune(tok)) < 2 || !util.IsAlphabetic(tok) {
			continue
		}
		return util.TitleCase(tok), true
	}
	return "", false
}
