package csvout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

func TestWriteFilePrecision(t *testing.T) {
	w := NewWriter(dataset.CarListing())
	path := filepath.Join(t.TempDir(), "clean.csv")

	recs := []records.Record{
		{
			"car_id":      int64(1),
			"mpg":         49.6000000001,
			"engine_size": 2.0,
			"has_damage":  false,
			"brand":       "bmw",
		},
	}
	columns := []string{"car_id", "brand", "mpg", "engine_size", "has_damage"}
	if err := w.WriteFile(path, columns, recs); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "car_id,brand,mpg,engine_size,has_damage" {
		t.Fatalf("header = %s", lines[0])
	}
	// One decimal place for mpg and engine_size, 0/1 booleans.
	if lines[1] != "1,bmw,49.6,2.0,0" {
		t.Fatalf("row = %s", lines[1])
	}
}

func TestWriteFileScaledFieldsKeepResolution(t *testing.T) {
	w := NewWriter(dataset.CarListing())
	w.SkipPrecision([]string{"mpg", "engine_size"})
	path := filepath.Join(t.TempDir(), "clean.csv")

	// Min-max scaled values must not collapse into one-decimal buckets.
	recs := []records.Record{
		{"mpg": 0.5317},
		{"mpg": 0.5481},
	}
	if err := w.WriteFile(path, []string{"mpg"}, recs); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if lines[1] != "0.5317" || lines[2] != "0.5481" {
		t.Fatalf("rows = %v, want full resolution", lines[1:])
	}
}

func TestWriteFileMissingValues(t *testing.T) {
	w := NewWriter(dataset.CarListing())
	path := filepath.Join(t.TempDir(), "clean.csv")

	recs := []records.Record{{"car_id": int64(2), "brand": nil}}
	if err := w.WriteFile(path, []string{"car_id", "brand"}, recs); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if lines[1] != "2," {
		t.Fatalf("row = %q, want missing rendered empty", lines[1])
	}
}
