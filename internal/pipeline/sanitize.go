package pipeline

import (
	"regexp"
	"strings"

	"monedero/internal/util"
)

// Redaction patterns for PII that must never leave the system. All of them
// are RE2, so matching stays linear in input length. Marker words (CARD,
// REF, AUT) survive redaction; only the payload is removed. Payloads may
// span several space-separated groups ("CARD*1234 5678"), so each marker
// pattern consumes repeated groups.
var (
	rePhone   = regexp.MustCompile(`\+\d{1,3}(?:[ .-]?\d){6,12}`)
	reIBAN    = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`)
	reCard    = regexp.MustCompile(`\b(CARD|TARJETA|TARJ)\s*\*?\s*[\dX*]{2,}(?:\s+[\dX*]{2,})*`)
	reAuth    = regexp.MustCompile(`\b(AUTH|AUT)\b[.:]?\s*[A-Z0-9]*\d[A-Z0-9]*(?:\s+[A-Z0-9]*\d[A-Z0-9]*)*`)
	reRef     = regexp.MustCompile(`\b(REF|REFERENCIA)\b[.:]?\s*\d{5,}(?:\s+\d{2,})*`)
	reLongNum = regexp.MustCompile(`\b\d{9,}\b`)
)

// Sanitize uppercases a raw statement line and strips card references,
// IBAN-like codes, phone numbers, authorization codes and long numeric
// references. Merchant tokens (AMAZON.ES, MERCADONA) pass through
// untouched. Idempotent: applying it to its own output is a no-op.
func Sanitize(raw string) string {
	s := strings.ToUpper(raw)
	s = rePhone.ReplaceAllString(s, " ")
	s = reIBAN.ReplaceAllString(s, " ")
	s = reCard.ReplaceAllString(s, "$1")
	s = reAuth.ReplaceAllString(s, "$1")
	s = reRef.ReplaceAllString(s, "$1")
	s = reLongNum.ReplaceAllString(s, " ")
	return util.CollapseSpaces(s)
}
