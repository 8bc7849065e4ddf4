package internal

type TypeHint string

const (
	HintMerchant TypeHint = "merchant"
	HintFee      TypeHint = "fee"
	HintATM      TypeHint = "atm"
	HintSalary   TypeHint = "salary"
	HintRefund   TypeHint = "refund"
	HintTransfer TypeHint = "transfer"
	HintNone     TypeHint = ""
)

type ResultSource string

const (
	SourceRule     ResultSource = "rule"
	SourceAI       ResultSource = "ai"
	SourceFallback ResultSource = "fallback"
)

// SimplificationResult is the outcome of the deterministic rule stage.
// A nil Simplified with zero Confidence signals the line must go to the
// AI stage.
type SimplificationResult struct {
	Simplified  *string  `json:"simplified"`
	Confidence  float64  `json:"confidence"`
	MatchedRule *string  `json:"matchedRule"`
	TypeHint    TypeHint `json:"typeHint,omitempty"`
}

func (r SimplificationResult) Matched() bool {
	return r.Simplified != nil
}

// BatchItem is one unresolved line sent to the external model. ID is an
// opaque correlation key supplied by the caller.
type BatchItem struct {
	ID                   string `json:"id"`
	SanitizedDescription string `json:"description"`
}

// AIRawResult is one record as returned by the model. Untrusted: any
// field may be missing, out of range, or oversized.
type AIRawResult struct {
	ID         string  `json:"id"`
	Simplified string  `json:"simplified"`
	Confidence float64 `json:"confidence"`
}

// ValidatedAIResult is an AIRawResult after clamping and truncation, or a
// synthesized fallback when the model produced nothing usable for the id.
type ValidatedAIResult struct {
	ID         string       `json:"id"`
	Simplified string       `json:"simplified"`
	Confidence float64      `json:"confidence"`
	Source     ResultSource `json:"source"`
}

// LabeledLine is one fully processed statement line, ready to hand back
// to the import pipeline or the review export.
type LabeledLine struct {
	LineNo      int          `json:"lineNo"`
	RawLine     string       `json:"rawLine"`
	Sanitized   string       `json:"sanitized"`
	Simplified  string       `json:"simplified"`
	Confidence  float64      `json:"confidence"`
	MatchedRule *string      `json:"matchedRule"`
	TypeHint    TypeHint     `json:"typeHint,omitempty"`
	Source      ResultSource `json:"source"`
}

// RunStats counts how each stage of the cascade resolved lines in one run.
type RunStats struct {
	Total    int `json:"total"`
	Rule     int `json:"rule"`
	AI       int `json:"ai"`
	Fallback int `json:"fallback"`
}

type RunRow struct {
	ID        int
	TraceID   string
	InputRef  string
	Total     int
	Rule      int
	AI        int
	Fallback  int
	CreatedAt string
}
