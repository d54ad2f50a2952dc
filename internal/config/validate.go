// This file adds a lightweight linter for Pipeline values: static checks over
// a decoded Pipeline returning a list of issues (errors and warnings) that
// callers surface in the CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.kind", "transform[1].options").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so an Issue can be handled as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownTransformKinds lists the transform implementations the runner wires.
var knownTransformKinds = map[string]struct{}{
	"coerce":     {},
	"impute":     {},
	"bound":      {},
	"round":      {},
	"dedup":      {},
	"fix_models": {},
	"encode":     {},
	"scale":      {},
	"drop":       {},
	"validate":   {},
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and output tables",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateSplit(p.Split)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}

	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		if strings.TrimSpace(s.HTTP.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  "http source requires a non-empty url",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", s.Kind),
		})
	}

	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  "parser.kind must not be empty",
		})
	}
	if p.Kind != "csv" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q; only \"csv\" is implemented", p.Kind),
		})
	}
	if fp := p.Options.Int("fields_per_record", 0); fp < -1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.fields_per_record",
			Message:  "fields_per_record must be -1 (variable), 0 (default), or positive",
		})
	}
	return issues
}

func validateSplit(s SplitConfig) []Issue {
	var issues []Issue
	if s.TrainFraction < 0 || s.TrainFraction >= 1 {
		if s.TrainFraction != 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "split.train_fraction",
				Message:  fmt.Sprintf("train_fraction must be in (0,1) or 0 to disable, got %v", s.TrainFraction),
			})
		}
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		if strings.TrimSpace(t.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  "transform kind must not be empty",
			})
			continue
		}
		if _, ok := knownTransformKinds[t.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
		}
		switch t.Kind {
		case "bound":
			if t.Options.Any("thresholds") == nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options.thresholds",
					Message:  "bound requires options.thresholds",
				})
			}
		case "drop":
			if len(t.Options.StringSlice("fields")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path + ".options.fields",
					Message:  "drop without fields is a no-op",
				})
			}
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}

	switch s.Kind {
	case "sqlite", "postgres":
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db.dsn",
				Message:  fmt.Sprintf("%s storage requires a non-empty dsn", s.Kind),
			})
		}
		if strings.TrimSpace(s.DB.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db.table",
				Message:  fmt.Sprintf("%s storage requires a non-empty table", s.Kind),
			})
		}
		if s.DB.TruncateBeforeLoad && len(s.DB.KeyColumns) > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage.db.truncate_before_load",
				Message:  "truncate_before_load makes key_columns deletion redundant",
			})
		}
	case "csv":
		if strings.TrimSpace(s.CSV.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.csv.path",
				Message:  "csv storage requires a non-empty path",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q", s.Kind),
		})
	}

	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.ProfileWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.profile_workers",
			Message:  "profile_workers must be >= 0 (0 = NumCPU)",
		})
	}
	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must be >= 0 (0 = default)",
		})
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.channel_buffer",
			Message:  "channel_buffer must be >= 0 (0 = default)",
		})
	}
	return issues
}
