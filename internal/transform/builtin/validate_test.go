package builtin

import (
	"strings"
	"testing"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

func miniDict() dataset.Dictionary {
	return dataset.Dictionary{
		Name: "mini",
		Fields: []dataset.Field{
			{Name: "id", Raw: dataset.TypeInt, Target: dataset.TypeInt, Required: true, Precision: -1},
			{Name: "tax", Raw: dataset.TypeFloat, Target: dataset.TypeInt, NonNegative: true, Precision: -1},
			{Name: "damaged", Raw: dataset.TypeFloat, Target: dataset.TypeBool, Precision: -1},
		},
	}
}

func TestValidateLenientDropsBadRows(t *testing.T) {
	var rejects []RejectedRow
	v := Validate{
		Dict:   miniDict(),
		Reject: func(rr RejectedRow) { rejects = append(rejects, rr) },
	}

	in := []records.Record{
		{"id": int64(1), "tax": int64(145), "damaged": false}, // ok
		{"id": nil, "tax": int64(20)},                         // required missing
		{"id": int64(3), "tax": int64(-30)},                   // negative
		{"id": int64(4), "tax": "oops"},                       // wrong type
	}
	out, err := v.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["id"] != int64(1) {
		t.Fatalf("got %d rows, want only the valid one: %#v", len(out), out)
	}
	if len(rejects) != 3 {
		t.Fatalf("got %d rejects, want 3", len(rejects))
	}
	if !strings.Contains(rejects[0].Reason, "required") {
		t.Errorf("reject 0 reason = %q", rejects[0].Reason)
	}
	if !strings.Contains(rejects[1].Reason, "negative") {
		t.Errorf("reject 1 reason = %q", rejects[1].Reason)
	}
}

func TestValidateRejectGetsCopy(t *testing.T) {
	var rejects []RejectedRow
	v := Validate{
		Dict:   miniDict(),
		Reject: func(rr RejectedRow) { rejects = append(rejects, rr) },
	}

	bad := records.Record{"id": nil, "tax": int64(20)}
	if _, err := v.Apply([]records.Record{bad}); err != nil {
		t.Fatal(err)
	}
	if len(rejects) != 1 {
		t.Fatalf("got %d rejects, want 1", len(rejects))
	}

	// The caller may keep mutating its record; the sink's snapshot must not
	// follow along.
	bad["tax"] = int64(999)
	if rejects[0].Raw["tax"] != int64(20) {
		t.Fatalf("reject snapshot changed with the source record: %#v", rejects[0].Raw)
	}
}

func TestValidateStrictFailsFast(t *testing.T) {
	v := Validate{Dict: miniDict(), Policy: "strict"}
	in := []records.Record{
		{"id": int64(1), "tax": int64(145)},
		{"id": nil},
	}
	if _, err := v.Apply(in); err == nil {
		t.Fatal("strict policy should abort on an invalid row")
	}
}

func TestValidateOptionalMissingPasses(t *testing.T) {
	v := Validate{Dict: miniDict()}
	in := []records.Record{
		{"id": int64(1), "tax": nil, "damaged": nil},
	}
	out, err := v.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatal("missing optional fields must not reject the row")
	}
}

func TestValidateBoolTarget(t *testing.T) {
	v := Validate{Dict: miniDict()}
	in := []records.Record{
		{"id": int64(1), "damaged": true},
		{"id": int64(2), "damaged": "1.0"}, // uncoerced leftover
	}
	out, err := v.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["id"] != int64(1) {
		t.Fatalf("uncoerced boolean should be rejected: %#v", out)
	}
}
