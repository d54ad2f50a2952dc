// Package config defines the JSON-serializable configuration model for the
// data-preparation pipeline. It is deliberately small and decoded with the
// standard library; pipeline files live under configs/*.json and are passed
// through the program without extra glue.
//
// Example (trimmed):
//
//	{
//	  "job":      "car_listings",
//	  "source":   { "kind": "file", "file": { "path": "data/train.csv" } },
//	  "parser":   { "kind": "csv", "options": { "has_header": true } },
//	  "transform":[
//	    { "kind": "coerce" },
//	    { "kind": "impute", "options": { "bool_fields": ["has_damage"] } }
//	  ],
//	  "storage":  { "kind": "sqlite", "db": { "dsn": "file:prep.db", "table": "car_listings" } }
//	}
package config

import "encoding/json"

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job is the logical run name, used for metrics labels and table naming.
	Job string `json:"job"`

	// Source describes where the raw dataset comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes become records.
	Parser Parser `json:"parser"`

	// Split optionally partitions rows into train/test before the transform
	// chain. Zero value disables splitting.
	Split SplitConfig `json:"split"`

	// Transform lists the ordered cleaning steps. Each step has a kind and an
	// options bag whose shape is defined by the step implementation.
	Transform []Transform `json:"transform"`

	// Storage describes where cleaned records are written.
	Storage Storage `json:"storage"`

	// Runtime controls concurrency, batching, and buffering.
	Runtime RuntimeConfig `json:"runtime"`
}

// RuntimeConfig controls concurrency, batching, and channel buffer sizes.
type RuntimeConfig struct {
	ProfileWorkers int `json:"profile_workers"`
	BatchSize      int `json:"batch_size"`
	ChannelBuffer  int `json:"channel_buffer"`
}

// SplitConfig describes an optional deterministic train/test split.
type SplitConfig struct {
	// TrainFraction in (0,1); 0 disables splitting.
	TrainFraction float64 `json:"train_fraction"`
	// Seed for the shuffle; runs with equal seeds produce equal partitions.
	Seed int64 `json:"seed"`
}

// Enabled reports whether a split was requested.
func (s SplitConfig) Enabled() bool { return s.TrainFraction > 0 }

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	// File carries options for the "file" kind.
	File SourceFile `json:"file"`

	// HTTP carries options for the "http" kind.
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url"`
	// InsecureTLS skips certificate verification (internal endpoints).
	InsecureTLS bool `json:"insecure_tls"`
}

// Parser selects how to parse the raw source into rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser. For CSV, typical
	// keys: has_header (bool), comma (string), trim_space (bool),
	// fields_per_record (int), header_map (object).
	Options Options `json:"options"`
}

// Transform defines a single cleaning step. The sequence of steps forms the
// chain executed by the pipeline. Known kinds: "coerce", "impute", "bound",
// "round", "dedup", "fix_models", "encode", "scale", "drop", "validate".
type Transform struct {
	Kind    string  `json:"kind"`
	Options Options `json:"options"`
}

// Storage selects the sink for cleaned records.
type Storage struct {
	// Kind selects the storage implementation: "sqlite", "postgres", or "csv".
	Kind string `json:"kind"`

	// DB configures database sinks.
	DB DBConfig `json:"db"`

	// CSV configures the "csv" sink.
	CSV CSVConfig `json:"csv"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the connection string ("file:prep.db" for SQLite,
	// "postgresql://..." for Postgres).
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// Columns enumerates destination columns in insert order. Empty means
	// "derive from the dictionary".
	Columns []string `json:"columns"`

	// KeyColumns identifies the logical row key. Postgres loads delete
	// existing rows matching the incoming keys before inserting, so reloads
	// replace instead of duplicate. Not required to be a database primary
	// key.
	KeyColumns []string `json:"key_columns"`

	// AutoCreateTable creates the destination table when missing.
	AutoCreateTable bool `json:"auto_create_table"`

	// TruncateBeforeLoad clears the destination table before loading, for
	// full-reload pipelines. Makes KeyColumns-based deletion redundant.
	TruncateBeforeLoad bool `json:"truncate_before_load"`
}

// CSVConfig configures the "csv" sink.
type CSVConfig struct {
	Path string `json:"path"`
}

// Options fetches typed values from arbitrary JSON maps without a third-party
// configuration library. It performs only minimal coercion and returns the
// provided default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. encoding/json decodes numbers as
// float64, so both float64 and int are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Float returns the float value for key or def.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Used for
// single-character parser settings such as the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// with string values. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// FloatMap returns a map[string]float64 for key when the value is an object
// with numeric values.
func (o Options) FloatMap(key string) map[string]float64 {
	res := map[string]float64{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if f, ok := vv.(float64); ok {
					res[k] = f
				}
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings (or []any containing strings). Nil when absent or mistyped.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key, useful for nested blocks the caller
// re-unmarshals into a typed struct.
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON decodes missing/null options to a non-nil empty map so call
// sites never need a nil check.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
