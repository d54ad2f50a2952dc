// Command carreport renders an HTML chart page for a dataset: missing-rate
// bars, box plots of the numeric columns, and value-count bars for the
// categorical ones.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/internal/pipeline"
	"carprep/internal/profile"
	"carprep/internal/report"
)

func main() {
	var (
		cfgPath string
		outPath string
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/profile.json", "pipeline config JSON path")
	flag.StringVar(&outPath, "out", "profile.html", "output HTML path")
	flag.Parse()

	p, err := loadConfig(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	for _, iss := range config.ValidatePipeline(p) {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			os.Exit(1)
		}
	}

	ctx := context.Background()
	dict := dataset.CarListing()

	columns, rows, _, err := pipeline.LoadRows(ctx, p)
	if err != nil {
		fatalf("read: %v", err)
	}

	prof, err := profile.Run(ctx, p.Job, columns, rows, profile.Options{
		Workers: p.Runtime.ProfileWorkers,
	})
	if err != nil {
		fatalf("profile: %v", err)
	}

	if err := report.WriteHTML(outPath, prof, dict); err != nil {
		fatalf("report: %v", err)
	}
	log.Printf("wrote %s (%d rows, %d columns)", outPath, prof.Rows, len(prof.Columns))
}

func loadConfig(path string) (config.Pipeline, error) {
	var p config.Pipeline
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return p, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
