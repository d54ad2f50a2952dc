package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/internal/transform/builtin"
	"carprep/pkg/records"
)

func TestRunTransformsChain(t *testing.T) {
	dict := dataset.CarListing()
	fr := &Frames{
		Columns: []string{"car_id", "price", "tax"},
		Train: []records.Record{
			{"car_id": "1", "price": "9000", "tax": "150.0"},
			{"car_id": "2", "price": "9500", "tax": "-20.0"},
			{"car_id": "1", "price": "9000", "tax": "150.0"},
			{"car_id": "", "price": "8000"},
		},
	}

	steps := []config.Transform{
		{Kind: "coerce", Options: config.Options{}},
		{Kind: "bound", Options: config.Options{
			"thresholds": map[string]any{"tax": map[string]any{"lower": float64(0)}},
		}},
		{Kind: "dedup", Options: config.Options{}},
		{Kind: "validate", Options: config.Options{}},
	}

	var c Counters
	if err := RunTransforms("test", steps, dict, fr, &c); err != nil {
		t.Fatal(err)
	}

	if c.BoundDropped != 1 {
		t.Errorf("BoundDropped = %d, want 1", c.BoundDropped)
	}
	if c.DedupRemoved != 1 {
		t.Errorf("DedupRemoved = %d, want 1", c.DedupRemoved)
	}
	if c.ValidateRejected != 1 {
		t.Errorf("ValidateRejected = %d, want 1", c.ValidateRejected)
	}
	if len(fr.Train) != 1 {
		t.Fatalf("train rows = %d, want 1", len(fr.Train))
	}
	got := fr.Train[0]
	if got["car_id"] != int64(1) || got["price"] != int64(9000) || got["tax"] != int64(150) {
		t.Fatalf("surviving row = %v", got)
	}
}

func TestRunTransformsUnknownKind(t *testing.T) {
	fr := &Frames{Train: []records.Record{{}}}
	err := RunTransforms("test", []config.Transform{{Kind: "mystery"}}, dataset.CarListing(), fr, &Counters{})
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Fatalf("err = %v, want unknown kind error", err)
	}
}

func TestRunTransformsEncodeRewritesColumns(t *testing.T) {
	dict := dataset.CarListing()
	fr := &Frames{
		Columns: []string{"car_id", "fuel_type"},
		Train: []records.Record{
			{"car_id": int64(1), "fuel_type": "petrol"},
			{"car_id": int64(2), "fuel_type": "diesel"},
		},
	}
	steps := []config.Transform{
		{Kind: "encode", Options: config.Options{
			"fields":     []any{"fuel_type"},
			"drop_first": false,
		}},
	}
	if err := RunTransforms("test", steps, dict, fr, &Counters{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"car_id", "fuel_type_diesel", "fuel_type_petrol"}
	if diff := cmp.Diff(want, fr.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if _, ok := fr.Train[0]["fuel_type"]; ok {
		t.Fatal("encoded source column must be removed from records")
	}
	if fr.Train[0]["fuel_type_petrol"] != int64(1) {
		t.Fatalf("dummy value = %v", fr.Train[0]["fuel_type_petrol"])
	}
}

func TestRunTransformsScaleMarksFields(t *testing.T) {
	dict := dataset.CarListing()
	fr := &Frames{
		Columns: []string{"mpg"},
		Train: []records.Record{
			{"mpg": 30.0},
			{"mpg": 50.0},
			{"mpg": 70.0},
		},
	}
	steps := []config.Transform{
		{Kind: "scale", Options: config.Options{"fields": []any{"mpg"}}},
	}
	if err := RunTransforms("test", steps, dict, fr, &Counters{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"mpg"}, fr.Scaled); diff != "" {
		t.Fatalf("Scaled mismatch (-want +got):\n%s", diff)
	}
	if fr.Train[1]["mpg"] != 0.5 {
		t.Fatalf("scaled value = %v, want 0.5", fr.Train[1]["mpg"])
	}
}

func TestRunTransformsImputeConstants(t *testing.T) {
	dict := dataset.CarListing()
	fr := &Frames{
		Columns: []string{"tax"},
		Train: []records.Record{
			{"tax": 100.0},
			{"tax": 300.0},
			{"tax": nil},
		},
	}
	steps := []config.Transform{
		{Kind: "impute", Options: config.Options{
			"metric_fields": []any{"tax"},
			"bool_fields":   []any{},
			"constants":     map[string]any{"tax": float64(0)},
		}},
	}
	if err := RunTransforms("test", steps, dict, fr, &Counters{}); err != nil {
		t.Fatal(err)
	}
	if fr.Train[2]["tax"] != float64(0) {
		t.Fatalf("filled tax = %v, want constant 0 over the fitted median", fr.Train[2]["tax"])
	}
}

func TestParseThresholds(t *testing.T) {
	th, err := parseThresholds(map[string]any{
		"tax":   map[string]any{"lower": float64(0)},
		"price": map[string]any{"lower": float64(100), "upper": float64(100000)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if *th["tax"].Lower != 0 || th["tax"].Upper != nil {
		t.Fatalf("tax threshold = %+v", th["tax"])
	}
	if *th["price"].Lower != 100 || *th["price"].Upper != 100000 {
		t.Fatalf("price threshold = %+v", th["price"])
	}

	if _, err := parseThresholds(nil); err == nil {
		t.Fatal("nil thresholds must error")
	}
	if _, err := parseThresholds("not an object"); err == nil {
		t.Fatal("non-object thresholds must error")
	}
	if _, err := parseThresholds(map[string]any{"tax": 5}); err == nil {
		t.Fatal("non-object per-field block must error")
	}
}

func TestRewriteColumns(t *testing.T) {
	enc := builtin.FitEncode([]string{"fuel_type"}, false, []records.Record{
		{"fuel_type": "diesel"},
		{"fuel_type": "petrol"},
	})
	got := rewriteColumns([]string{"car_id", "fuel_type", "price"}, []string{"fuel_type"}, enc)
	want := []string{"car_id", "fuel_type_diesel", "fuel_type_petrol", "price"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rewriteColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestWithoutColumns(t *testing.T) {
	got := withoutColumns([]string{"a", "b", "c"}, []string{"b"})
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Fatalf("withoutColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultFieldSets(t *testing.T) {
	dict := dataset.CarListing()
	if diff := cmp.Diff([]string{"has_damage"}, boolTargets(dict)); diff != "" {
		t.Errorf("boolTargets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"mpg", "engine_size"}, precisionTargets(dict)); diff != "" {
		t.Errorf("precisionTargets mismatch (-want +got):\n%s", diff)
	}
}
