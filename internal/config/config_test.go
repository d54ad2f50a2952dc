package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPipelineDecode(t *testing.T) {
	t.Parallel()

	const js = `{
	  "job": "car_listings",
	  "source": { "kind": "file", "file": { "path": "data/train_data.csv" } },
	  "parser": {
	    "kind": "csv",
	    "options": {
	      "has_header": true,
	      "trim_space": true,
	      "header_map": { "carID": "car_id", "Brand": "brand" }
	    }
	  },
	  "split": { "train_fraction": 0.8, "seed": 42 },
	  "transform": [
	    { "kind": "coerce" },
	    { "kind": "bound", "options": { "thresholds": { "tax": { "lower": 0 } } } }
	  ],
	  "storage": {
	    "kind": "sqlite",
	    "db": { "dsn": "file:prep.db", "table": "car_listings", "auto_create_table": true }
	  },
	  "runtime": { "profile_workers": 4, "batch_size": 2000, "channel_buffer": 512 }
	}`

	var p Pipeline
	if err := json.Unmarshal([]byte(js), &p); err != nil {
		t.Fatal(err)
	}

	if p.Job != "car_listings" {
		t.Errorf("job = %q", p.Job)
	}
	if p.Source.Kind != "file" || p.Source.File.Path != "data/train_data.csv" {
		t.Errorf("source = %+v", p.Source)
	}
	if !p.Split.Enabled() || p.Split.Seed != 42 {
		t.Errorf("split = %+v", p.Split)
	}
	if got := p.Parser.Options.StringMap("header_map"); got["carID"] != "car_id" {
		t.Errorf("header_map = %v", got)
	}
	if len(p.Transform) != 2 || p.Transform[1].Kind != "bound" {
		t.Errorf("transform = %+v", p.Transform)
	}
	if !p.Storage.DB.AutoCreateTable || p.Storage.DB.Table != "car_listings" {
		t.Errorf("storage = %+v", p.Storage)
	}
	if p.Runtime.BatchSize != 2000 {
		t.Errorf("runtime = %+v", p.Runtime)
	}
}

func TestOptionsAccessors(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":    "hello",
		"b":    true,
		"n":    float64(7), // like encoding/json
		"f":    1.5,
		"c":    ";",
		"list": []any{"a", "b", 3},
		"m":    map[string]any{"k": "v", "skip": 1},
	}

	if got := o.String("s", "x"); got != "hello" {
		t.Errorf("String = %q", got)
	}
	if got := o.String("missing", "x"); got != "x" {
		t.Errorf("String default = %q", got)
	}
	if !o.Bool("b", false) || o.Bool("missing", false) {
		t.Error("Bool accessor wrong")
	}
	if o.Int("n", 0) != 7 || o.Int("missing", 9) != 9 {
		t.Error("Int accessor wrong")
	}
	if o.Float("f", 0) != 1.5 {
		t.Error("Float accessor wrong")
	}
	if o.Rune("c", ',') != ';' || o.Rune("missing", ',') != ',' {
		t.Error("Rune accessor wrong")
	}
	if got := o.StringSlice("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("StringSlice = %v", got)
	}
	if got := o.StringMap("m"); !reflect.DeepEqual(got, map[string]string{"k": "v"}) {
		t.Errorf("StringMap = %v", got)
	}
}

func TestOptionsNullDecodesToEmptyMap(t *testing.T) {
	t.Parallel()

	var p Parser
	if err := json.Unmarshal([]byte(`{"kind":"csv","options":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Options == nil {
		t.Fatal("options should decode to a non-nil empty map")
	}
	if got := p.Options.Bool("has_header", true); !got {
		t.Fatal("defaults should work on empty options")
	}
}
