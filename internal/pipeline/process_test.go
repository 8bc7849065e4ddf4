package pipeline

import (
	"context"
	"io"
	"testing"

	"monedero/internal"
	"monedero/internal/logger"
)

type stubSimplifier struct {
	calls int
	items []internal.BatchItem
}

func (s *stubSimplifier) SimplifyBatch(_ context.Context, items []internal.BatchItem) map[string]internal.ValidatedAIResult {
	s.calls++
	s.items = items
	out := make(map[string]internal.ValidatedAIResult, len(items))
	for _, item := range items {
		out[item.ID] = internal.ValidatedAIResult{
			ID:         item.ID,
			Simplified: "Tienda Local",
			Confidence: 0.7,
			Source:     internal.SourceAI,
		}
	}
	return out
}

func TestLabelLinesCascade(t *testing.T) {
	stub := &stubSimplifier{}
	labeler := NewLabeler(stub, logger.NewWithWriter(io.Discard))

	rawLines := []string{
		"COMPRA MERCADONA VALENCIA CARD*1234",
		"BIZUM A SR JUAN PEREZ REF:123456789012",
		"COMISION MANTENIMIENTO CUENTA",
		"COMPRA TIENDA LOCAL DESCONOCIDA CARD*9999",
	}

	lines, stats := labeler.LabelLines(context.Background(), rawLines)
	if len(lines) != len(rawLines) {
		t.Fatalf("len = %d, want %d", len(lines), len(rawLines))
	}

	if lines[0].Simplified != "Mercadona" || lines[0].Source != internal.SourceRule {
		t.Fatalf("line 1: %+v", lines[0])
	}
	if lines[1].Simplified != "Bizum Juan" {
		t.Fatalf("line 2: %+v", lines[1])
	}
	if lines[2].Simplified != "Bank Fee" || lines[2].TypeHint != internal.HintFee {
		t.Fatalf("line 3: %+v", lines[2])
	}
	if lines[3].Simplified != "Tienda Local" || lines[3].Source != internal.SourceAI {
		t.Fatalf("line 4: %+v", lines[3])
	}

	if stub.calls != 1 {
		t.Fatalf("ai calls = %d, want 1", stub.calls)
	}
	if len(stub.items) != 1 {
		t.Fatalf("ai items = %d, want 1", len(stub.items))
	}
	if stub.items[0].SanitizedDescription != "COMPRA TIENDA LOCAL DESCONOCIDA CARD" {
		t.Fatalf("ai got %q", stub.items[0].SanitizedDescription)
	}

	want := internal.RunStats{Total: 4, Rule: 3, AI: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestLabelLinesAllResolvedSkipsAI(t *testing.T) {
	stub := &stubSimplifier{}
	labeler := NewLabeler(stub, logger.NewWithWriter(io.Discard))

	lines, stats := labeler.LabelLines(context.Background(), []string{"COMPRA LIDL", "NOMINA EMPRESA"})
	if stub.calls != 0 {
		t.Fatalf("ai calls = %d, want 0", stub.calls)
	}
	if len(lines) != 2 || stats.Rule != 2 {
		t.Fatalf("lines=%d stats=%+v", len(lines), stats)
	}
}

func TestLabelLinesEmpty(t *testing.T) {
	stub := &stubSimplifier{}
	labeler := NewLabeler(stub, logger.NewWithWriter(io.Discard))

	lines, stats := labeler.LabelLines(context.Background(), nil)
	if len(lines) != 0 || stats.Total != 0 || stub.calls != 0 {
		t.Fatalf("lines=%d stats=%+v calls=%d", len(lines), stats, stub.calls)
	}
}
