package records

import (
	"reflect"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	r := Record{"a": "x", "b": "", "c": nil, "d": int64(0)}

	cases := []struct {
		key  string
		want bool
	}{
		{"a", false},
		{"b", true},
		{"c", true},
		{"d", false}, // zero is a value, not missing
		{"missing", true},
	}
	for _, c := range cases {
		if got := r.IsEmpty(c.key); got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestClone(t *testing.T) {
	orig := Record{"a": "x", "b": int64(2)}
	cp := orig.Clone()
	if !reflect.DeepEqual(orig, cp) {
		t.Fatalf("clone differs: %#v vs %#v", orig, cp)
	}
	cp["a"] = "y"
	if orig["a"] != "x" {
		t.Fatalf("clone shares storage with original")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
		{false, "false"},
	}
	for _, c := range cases {
		if got := String(c.in); got != c.want {
			t.Errorf("String(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFloat(t *testing.T) {
	if f, ok := Float(int64(7)); !ok || f != 7 {
		t.Errorf("Float(int64(7)) = %v, %v", f, ok)
	}
	if f, ok := Float("2.5"); !ok || f != 2.5 {
		t.Errorf("Float(\"2.5\") = %v, %v", f, ok)
	}
	if _, ok := Float("abc"); ok {
		t.Errorf("Float(\"abc\") should not parse")
	}
	if _, ok := Float(nil); ok {
		t.Errorf("Float(nil) should not parse")
	}
}
