// Command carprofile profiles the raw listings CSV against the data
// dictionary: per-column types, missing rates, value counts, descriptive
// statistics, duplicate rows, and the resulting data-quality findings.
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
	"carprep/internal/storage/sqlite"
)

func main() {
	var (
		cfgPath  string
		outPath  string
		jsonOut  bool
		saveProf bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/profile.json", "pipeline config JSON path")
	flag.StringVar(&outPath, "out", "", "write the Markdown report here instead of stdout")
	flag.BoolVar(&jsonOut, "json", false, "emit the raw profile as JSON instead of Markdown")
	flag.BoolVar(&saveProf, "save", false, "persist the profile into the configured SQLite database")
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

	if hdr, err := pipeline.PeekHeader(ctx, p, 8192); err != nil {
		log.Printf("preflight: %v", err)
	} else if hdr != nil {
		log.Printf("preflight: remote header %v", hdr)
	}

	columns, rows, dropped, err := pipeline.LoadRows(ctx, p)
	if err != nil {
		fatalf("read: %v", err)
	}
	if dropped > 0 {
		log.Printf("read: soft-dropped %d malformed lines", dropped)
	}

	prof, err := profile.Run(ctx, p.Job, columns, rows, profile.Options{
		Workers: p.Runtime.ProfileWorkers,
	})
	if err != nil {
		fatalf("profile: %v", err)
	}
	findings := profile.Check(prof, dict)

	if saveProf {
		if p.Storage.Kind != "sqlite" {
			fatalf("save: storage.kind must be sqlite, got %q", p.Storage.Kind)
		}
		repo, closeRepo, err := sqlite.NewRepository(ctx, sqlite.Config{DSN: p.Storage.DB.DSN, Table: p.Storage.DB.Table})
		if err != nil {
			fatalf("save: %v", err)
		}
		defer closeRepo()
		if err := repo.SaveProfile(ctx, prof); err != nil {
			fatalf("save: %v", err)
		}
		log.Printf("profile saved to %s", p.Storage.DB.DSN)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fatalf("create %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(prof); err != nil {
			fatalf("encode: %v", err)
		}
		return
	}
	fmt.Fprint(out, report.Markdown(prof, dict, findings))
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
