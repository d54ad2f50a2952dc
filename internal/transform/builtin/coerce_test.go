package builtin

import (
	"reflect"
	"testing"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

func TestCoerceCarColumns(t *testing.T) {
	in := []records.Record{{
		"car_id":      "17",
		"brand":       "bmw",
		"year":        "2016.0",
		"price":       "11000",
		"mileage":     "28415.0",
		"tax":         "20.0",
		"mpg":         "64.2",
		"engine_size": "2.0",
		"has_damage":  "1.0",
	}}

	out, err := Coerce{Dict: dataset.CarListing()}.Apply(in)
	if err != nil {
		t.Fatal(err)
	}

	want := records.Record{
		"car_id":      int64(17),
		"brand":       "bmw",
		"year":        int64(2016),
		"price":       int64(11000),
		"mileage":     int64(28415),
		"tax":         int64(20),
		"mpg":         64.2,
		"engine_size": 2.0,
		"has_damage":  true,
	}
	if !reflect.DeepEqual(out[0], want) {
		t.Fatalf("got %#v\nwant %#v", out[0], want)
	}
}

func TestCoerceTruncatesNotRounds(t *testing.T) {
	dict := dataset.Dictionary{Fields: []dataset.Field{
		{Name: "n", Raw: dataset.TypeFloat, Target: dataset.TypeInt, Precision: -1},
	}}
	out, err := Coerce{Dict: dict}.Apply([]records.Record{{"n": "2016.9"}})
	if err != nil {
		t.Fatal(err)
	}
	if out[0]["n"] != int64(2016) {
		t.Fatalf("n = %v, want 2016 (decimal part stripped, not rounded)", out[0]["n"])
	}
}

func TestCoerceLeavesFailuresUntouched(t *testing.T) {
	dict := dataset.Dictionary{Fields: []dataset.Field{
		{Name: "n", Raw: dataset.TypeFloat, Target: dataset.TypeInt, Precision: -1},
	}}
	out, err := Coerce{Dict: dict}.Apply([]records.Record{{"n": "not-a-number"}})
	if err != nil {
		t.Fatal(err)
	}
	if out[0]["n"] != "not-a-number" {
		t.Fatalf("unparseable value should pass through, got %v", out[0]["n"])
	}
}

func TestToBool(t *testing.T) {
	truthy := []string{"1", "1.0", "true", "yes", "t"}
	falsy := []string{"0", "0.0", "false", "no", "f"}
	for _, s := range truthy {
		if b, ok := toBool(s); !ok || !b {
			t.Errorf("toBool(%q) = %v, %v; want true", s, b, ok)
		}
	}
	for _, s := range falsy {
		if b, ok := toBool(s); !ok || b {
			t.Errorf("toBool(%q) = %v, %v; want false", s, b, ok)
		}
	}
	if _, ok := toBool("2.0"); ok {
		t.Error("toBool(\"2.0\") should fail")
	}
}
