package builtin

import (
	"sort"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Encode one-hot encodes categorical fields: each field is replaced by
// 0/1 dummy columns named <field>_<value>.
//
// Categories are fitted over every provided frame (train and test) so both
// end up with the identical dummy schema even when a value appears in only
// one of them; that is the column-union behavior of the original encoding
// step. With DropFirst the lexicographically first category of each field
// is omitted, leaving k-1 dummies per k categories.
type Encode struct {
	Fields    []string
	DropFirst bool

	// categories holds the fitted, sorted category list per field.
	categories map[string][]string
}

// FitEncode collects the categories for fields across all frames and
// returns a ready Encode. Missing values do not form a category; rows with
// a missing categorical get all-zero dummies.
func FitEncode(fields []string, dropFirst bool, frames ...[]records.Record) Encode {
	cats := make(map[string]map[string]struct{}, len(fields))
	for _, f := range fields {
		cats[f] = map[string]struct{}{}
	}
	for _, frame := range frames {
		for _, r := range frame {
			for _, f := range fields {
				if r.IsEmpty(f) {
					continue
				}
				cats[f][records.String(r[f])] = struct{}{}
			}
		}
	}

	fitted := make(map[string][]string, len(fields))
	for f, set := range cats {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		fitted[f] = list
	}

	return Encode{Fields: fields, DropFirst: dropFirst, categories: fitted}
}

func (Encode) Name() string { return "encode" }

// DummyColumns returns the generated column names for one source field, in
// the order they are emitted.
func (e Encode) DummyColumns(field string) []string {
	cats := e.categories[field]
	if e.DropFirst && len(cats) > 0 {
		cats = cats[1:]
	}
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = field + "_" + dataset.NormalizeName(c)
	}
	return out
}

// Apply replaces each configured field with its dummy columns, in place.
func (e Encode) Apply(in []records.Record) ([]records.Record, error) {
	if len(e.categories) == 0 {
		return in, nil
	}
	for _, r := range in {
		for _, f := range e.Fields {
			cats := e.categories[f]
			val := records.String(r[f])
			delete(r, f)

			emit := cats
			if e.DropFirst && len(emit) > 0 {
				emit = emit[1:]
			}
			for _, c := range emit {
				name := f + "_" + dataset.NormalizeName(c)
				if val == c {
					r[name] = int64(1)
				} else {
					r[name] = int64(0)
				}
			}
		}
	}
	return in, nil
}
