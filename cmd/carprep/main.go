// Command carprep runs the cleaning pipeline: it reads the raw listings
// CSV, optionally splits it into train/test, executes the configured
// transform chain, and loads the result into the configured sink.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/internal/metrics"
	"carprep/internal/metrics/prompush"
	"carprep/internal/pipeline"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/clean.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.Parse()

	p, err := loadConfig(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid: %s", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %s", cfgPath)
		return
	}

	initMetrics(p.Job, metricsBackendFlg, pushGatewayURLFlg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	if err := run(context.Background(), p); err != nil {
		fatalf("run: %v", err)
	}
}

func run(ctx context.Context, p config.Pipeline) error {
	start := time.Now()
	dict := dataset.CarListing()

	columns, rows, dropped, err := pipeline.LoadRows(ctx, p)
	if err != nil {
		return err
	}
	log.Printf("read: rows=%d dropped=%d columns=%d", len(rows), dropped, len(columns))

	fr, err := pipeline.NewFrames(columns, rows, p.Split)
	if err != nil {
		return err
	}
	if fr.Split {
		log.Printf("split: train=%d test=%d (fraction=%.2f seed=%d)",
			len(fr.Train), len(fr.Test), p.Split.TrainFraction, p.Split.Seed)
	}

	var c pipeline.Counters
	if err := pipeline.RunTransforms(p.Job, p.Transform, dict, &fr, &c); err != nil {
		return err
	}

	if err := pipeline.Load(ctx, p, dict, fr, &c); err != nil {
		return err
	}

	log.Printf(
		"done in %s: loaded=%d bound_dropped=%d dedup_removed=%d validate_rejected=%d",
		time.Since(start).Truncate(time.Millisecond),
		c.Loaded, c.BoundDropped, c.DedupRemoved, c.ValidateRejected,
	)
	return nil
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

// initMetrics installs the selected metrics backend. The default nop
// backend stays in place when nothing (or "none") is selected.
func initMetrics(job, backendName, gatewayURL string) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		if job == "" {
			job = "carprep"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gatewayURL, job)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
