package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"monedero/internal"
	"monedero/internal/ai"
	"monedero/internal/config"
	"monedero/internal/logger"
	"monedero/internal/storage"
)

// End-to-end without a network: the client has no credential, so anything
// the rules miss comes out of the local heuristic.
func TestLabelStoreExportSmoke(t *testing.T) {
	log := logger.NewWithWriter(io.Discard)
	cfg := config.Config{AIRateLimitRPS: 1000, AITimeoutMs: 1000}

	client := ai.NewClient(cfg, Fallback, log)
	labeler := NewLabeler(client, log)

	rawLines := []string{
		"COMPRA MERCADONA VALENCIA CARD*1234",
		"BIZUM A SR JUAN PEREZ REF:123456789012",
		"COMPRA TIENDA LOCAL DESCONOCIDA CARD*9999",
	}
	lines, stats := labeler.LabelLines(context.Background(), rawLines)
	if stats.Total != 3 || stats.Rule != 2 || stats.Fallback != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "data", "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	runID, err := db.InsertRun("trace-smoke", "smoke.txt", stats)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if err := db.InsertLines(runID, lines); err != nil {
		t.Fatalf("insert lines: %v", err)
	}

	stored, err := db.GetRunLines(runID)
	if err != nil {
		t.Fatalf("get run lines: %v", err)
	}
	if len(stored) != len(lines) {
		t.Fatalf("stored %d lines, want %d", len(stored), len(lines))
	}
	for i, line := range stored {
		if line.LineNo != i+1 {
			t.Fatalf("line %d out of order: %+v", i, line)
		}
		if line.Simplified == "" {
			t.Fatalf("line %d has empty label", i)
		}
	}
	if stored[0].Simplified != "Mercadona" || stored[0].Source != internal.SourceRule {
		t.Fatalf("line 1: %+v", stored[0])
	}
	if stored[2].Source != internal.SourceFallback {
		t.Fatalf("line 3: %+v", stored[2])
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || int64(runs[0].ID) != runID || runs[0].Total != 3 {
		t.Fatalf("runs = %+v", runs)
	}

	outPath := filepath.Join(dir, "out", "smoke.xlsx")
	if err := ExportLinesToXLSX(stored, outPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat export: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("export file is empty")
	}
}
