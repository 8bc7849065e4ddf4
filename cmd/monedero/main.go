package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"monedero/internal/ai"
	"monedero/internal/config"
	"monedero/internal/logger"
	"monedero/internal/pipeline"
	"monedero/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "label":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "text file with one statement description per line")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		rawLines, err := readLines(*input)
		must(err)
		if len(rawLines) == 0 {
			must(fmt.Errorf("no lines in %s", *input))
		}

		client := ai.NewClient(cfg, pipeline.Fallback, log)
		labeler := pipeline.NewLabeler(client, log)
		lines, stats := labeler.LabelLines(context.Background(), rawLines)

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runID, err := db.InsertRun(uuid.NewString(), *input, stats)
		must(err)
		must(db.InsertLines(runID, lines))

		if strings.TrimSpace(*output) != "" {
			must(pipeline.ExportLinesToXLSX(lines, *output))
		}
		fmt.Printf("label done run=%d total=%d rule=%d ai=%d fallback=%d\n",
			runID, stats.Total, stats.Rule, stats.AI, stats.Fallback)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("run=%d trace=%s input=%s total=%d rule=%d ai=%d fallback=%d at=%s\n",
				run.ID, run.TraceID, run.InputRef, run.Total, run.Rule, run.AI, run.Fallback, run.CreatedAt)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int64("runId", 0, "run id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *runID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--runId and --out are required"))
		}

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		lines, err := db.GetRunLines(*runID)
		must(err)
		if len(lines) == 0 {
			must(fmt.Errorf("no lines for runId=%d", *runID))
		}
		must(pipeline.ExportLinesToXLSX(lines, *out))
		fmt.Printf("exported %d lines to %s\n", len(lines), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func readLines(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(blob), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, "\r"))
	}
	return out, nil
}

func usage() {
	fmt.Println("usage: monedero <command>")
	fmt.Println("commands:")
	fmt.Println("  label --input=descriptions.txt [--output=./out/result.xlsx]")
	fmt.Println("  runs:list [--limit=20]")
	fmt.Println("  export:xlsx --runId=1 --out=./out/result.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
