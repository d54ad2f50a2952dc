package csv

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"carprep/internal/config"
	"carprep/pkg/records"
)

func TestReadAllHeaderMapping(t *testing.T) {
	src := strings.NewReader(
		"carID,Brand,fuelType\n" +
			"1,bmw,petrol\n" +
			"2,audi,diesel\n")

	opt := config.Options{
		"header_map": map[string]any{
			"carID":    "car_id",
			"Brand":    "brand",
			"fuelType": "fuel_type",
		},
	}
	columns, rows, dropped, err := ReadAll(context.Background(), src, opt)
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}
	if want := []string{"car_id", "brand", "fuel_type"}; !reflect.DeepEqual(columns, want) {
		t.Fatalf("columns = %v, want %v", columns, want)
	}
	if len(rows) != 2 || rows[0]["car_id"] != "1" || rows[1]["brand"] != "audi" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestReadAllEmptyCellsBecomeNil(t *testing.T) {
	src := strings.NewReader("a,b\n1,\n ,2\n")
	_, rows, _, err := ReadAll(context.Background(), src, config.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0]["b"] != nil {
		t.Errorf("empty cell should be nil, got %v", rows[0]["b"])
	}
	if rows[1]["a"] != nil {
		t.Errorf("whitespace-only cell should trim to nil, got %v", rows[1]["a"])
	}
}

func TestReadAllDropsMisalignedRows(t *testing.T) {
	src := strings.NewReader("a,b\n1,2\nonly-one-field\n3,4\n")
	_, rows, dropped, err := ReadAll(context.Background(), src, config.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || dropped != 1 {
		t.Fatalf("rows=%d dropped=%d, want 2/1", len(rows), dropped)
	}
}

func TestStreamRows(t *testing.T) {
	src := strings.NewReader("a,b\n1,x\n2,y\n")
	out := make(chan records.Record, 4)

	var errs int
	var header []string
	err := StreamRows(context.Background(), src, config.Options{}, out,
		func(cols []string) { header = cols },
		func(line int, err error) { errs++ })
	close(out)
	if err != nil {
		t.Fatal(err)
	}
	if errs != 0 {
		t.Fatalf("unexpected row errors: %d", errs)
	}
	if !reflect.DeepEqual(header, []string{"a", "b"}) {
		t.Fatalf("header callback got %v", header)
	}

	var got []records.Record
	for r := range out {
		got = append(got, r)
	}
	want := []records.Record{
		{"a": "1", "b": "x"},
		{"a": "2", "b": "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestStreamRowsNoHeaderNeedsColumns(t *testing.T) {
	src := strings.NewReader("1,2\n")
	out := make(chan records.Record, 1)
	err := StreamRows(context.Background(), src, config.Options{"has_header": false}, out, nil, nil)
	if err == nil {
		t.Fatal("missing options.columns should be an error")
	}
}

func TestHeaderFromSample(t *testing.T) {
	sample := []byte("carID,Brand,fuelType\n1,bmw,pet")
	opt := config.Options{
		"header_map": map[string]any{"carID": "car_id", "Brand": "brand", "fuelType": "fuel_type"},
	}
	got, err := HeaderFromSample(sample, opt)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"car_id", "brand", "fuel_type"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestHeaderFromSampleEmpty(t *testing.T) {
	if _, err := HeaderFromSample(nil, config.Options{}); err == nil {
		t.Fatal("empty sample must error")
	}
}

func TestCanonicalHeader(t *testing.T) {
	hdr := []string{"\uFEFF" + "carID", " paintQuality% ", "Previous Owners"}
	hm := map[string]string{"carID": "car_id", "paintQuality%": "paint_quality"}
	got := CanonicalHeader(hdr, hm)
	want := []string{"car_id", "paint_quality", "previous_owners"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
