package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"monedero/internal"
)

// ExportLinesToXLSX writes a labeled run as a review sheet, one row per
// statement line.
func ExportLinesToXLSX(lines []internal.LabeledLine, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"line_no", "raw_line", "sanitized", "simplified",
		"confidence", "matched_rule", "type_hint", "source",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, line := range lines {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, line.LineNo)
		set(2, line.RawLine)
		set(3, line.Sanitized)
		set(4, line.Simplified)
		set(5, line.Confidence)
		set(6, derefString(line.MatchedRule))
		set(7, string(line.TypeHint))
		set(8, string(line.Source))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
