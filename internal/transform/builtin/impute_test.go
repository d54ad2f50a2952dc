package builtin

import (
	"testing"

	"carprep/pkg/records"
)

func TestFitImputeMedian(t *testing.T) {
	train := []records.Record{
		{"mpg": 40.0},
		{"mpg": 50.0},
		{"mpg": 60.0},
		{"mpg": nil},
	}
	im := FitImpute(train, []string{"mpg"}, nil)
	if im.Fill["mpg"] != 50.0 {
		t.Fatalf("median fill = %v, want 50", im.Fill["mpg"])
	}
}

func TestImputeFillsOnlyMissing(t *testing.T) {
	train := []records.Record{{"mpg": 40.0}, {"mpg": 60.0}}
	im := FitImpute(train, []string{"mpg"}, []string{"has_damage"})

	rows := []records.Record{
		{"mpg": nil, "has_damage": nil},
		{"mpg": 55.0, "has_damage": true},
	}
	out, err := im.Apply(rows)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := out[0]["mpg"].(float64); !ok {
		t.Fatalf("missing mpg not filled: %v", out[0]["mpg"])
	}
	if out[0]["has_damage"] != false {
		t.Fatalf("missing bool should fill false, got %v", out[0]["has_damage"])
	}
	if out[1]["mpg"] != 55.0 || out[1]["has_damage"] != true {
		t.Fatalf("present values must not change: %#v", out[1])
	}
}

func TestFitImputeTestFrameDoesNotLeak(t *testing.T) {
	train := []records.Record{{"tax": 100.0}, {"tax": 200.0}, {"tax": 300.0}}
	test := []records.Record{{"tax": 90000.0}, {"tax": nil}}

	im := FitImpute(train, []string{"tax"}, nil)
	out, err := im.Apply(test)
	if err != nil {
		t.Fatal(err)
	}
	// Fill value comes from the train median, untouched by the test outlier.
	if out[1]["tax"] != 200.0 {
		t.Fatalf("test fill = %v, want train median 200", out[1]["tax"])
	}
}

func TestFitImputeSkipsEmptyFields(t *testing.T) {
	im := FitImpute([]records.Record{{"x": nil}}, []string{"x"}, nil)
	if _, ok := im.Fill["x"]; ok {
		t.Fatal("field with no observed values must not get a fill")
	}
}
