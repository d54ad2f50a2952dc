package builtin

import (
	"reflect"
	"testing"

	"carprep/pkg/records"
)

func mk(id int64, brand string, extra map[string]any) records.Record {
	r := records.Record{"car_id": id, "brand": brand}
	for k, v := range extra {
		r[k] = v
	}
	return r
}

func TestDeDupKeepFirst(t *testing.T) {
	in := []records.Record{
		mk(1, "bmw", map[string]any{"note": "A"}),
		mk(1, "bmw", map[string]any{"note": "B"}),
		mk(2, "audi", map[string]any{"note": "C"}),
	}
	d := DeDup{Keys: []string{"car_id", "brand"}}
	got, err := d.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []records.Record{
		mk(1, "bmw", map[string]any{"note": "A"}),
		mk(2, "audi", map[string]any{"note": "C"}),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keep-first: got %#v want %#v", got, want)
	}
}

func TestDeDupKeepLast(t *testing.T) {
	in := []records.Record{
		mk(1, "bmw", map[string]any{"note": "A"}),
		mk(1, "bmw", map[string]any{"note": "B"}),
		mk(2, "audi", map[string]any{"note": "C"}),
	}
	d := DeDup{Keys: []string{"car_id", "brand"}, Policy: "keep-last"}
	got, err := d.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []records.Record{
		mk(1, "bmw", map[string]any{"note": "B"}),
		mk(2, "audi", map[string]any{"note": "C"}),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keep-last: got %#v want %#v", got, want)
	}
}

func TestDeDupWholeRow(t *testing.T) {
	in := []records.Record{
		{"a": "1", "b": "x"},
		{"a": "1", "b": "x"},
		{"a": "1", "b": "y"},
	}
	d := DeDup{Columns: []string{"a", "b"}}
	got, err := d.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
}

func TestDeDupNoDuplicatesIsIdentity(t *testing.T) {
	in := []records.Record{
		mk(1, "bmw", nil),
		mk(2, "audi", nil),
		mk(3, "ford", nil),
	}
	d := DeDup{Columns: []string{"car_id", "brand"}}
	got, err := d.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatal("dataset without duplicates must come back unchanged")
	}
}

func TestDropFields(t *testing.T) {
	in := []records.Record{{"car_id": int64(1), "price": int64(9000)}}
	out, err := Drop{Fields: []string{"car_id"}}.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out[0]["car_id"]; ok {
		t.Fatal("car_id should be gone")
	}
	if out[0]["price"] != int64(9000) {
		t.Fatal("unrelated fields must survive")
	}
}
