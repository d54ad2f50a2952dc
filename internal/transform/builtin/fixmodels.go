package builtin

import (
	"strings"

	"carprep/pkg/records"
)

// Tag suffixes appended by ResolveModel when a model name cannot be fixed
// cleanly. Tags stack, e.g. "focu::multiple::no_brand".
const (
	tagNone     = "::none"     // no catalog entry matched
	tagMultiple = "::multiple" // several catalog entries matched
	tagNoBrand  = "::no_brand" // resolved without a brand to narrow the search
)

// FixModels repairs truncated or misspelled model names against the model
// catalog and backfills a missing brand from an exact model match.
//
// A model matches a catalog entry when the entry starts with it and is at
// most Tolerance characters longer; "fie" fixes to "fiesta" only at
// tolerance 3 and above. With KeepTags the diagnostic ::none/::multiple/
// ::no_brand suffixes survive in the output for inspection; otherwise they
// are stripped after resolution and the brand backfill runs.
type FixModels struct {
	BrandField string // default "brand"
	ModelField string // default "model"
	Tolerance  int    // max length difference for a prefix match; default 2
	KeepTags   bool
}

func (FixModels) Name() string { return "fix_models" }

func (fm FixModels) brandField() string {
	if fm.BrandField == "" {
		return "brand"
	}
	return fm.BrandField
}

func (fm FixModels) modelField() string {
	if fm.ModelField == "" {
		return "model"
	}
	return fm.ModelField
}

func (fm FixModels) tolerance() int {
	if fm.Tolerance <= 0 {
		return 2
	}
	return fm.Tolerance
}

// Apply fixes model and brand in place and returns the same slice.
func (fm FixModels) Apply(in []records.Record) ([]records.Record, error) {
	brandF, modelF, tol := fm.brandField(), fm.modelField(), fm.tolerance()
	for _, r := range in {
		if r.IsEmpty(modelF) {
			continue
		}
		model := strings.ToLower(strings.TrimSpace(records.String(r[modelF])))
		brand := ""
		if !r.IsEmpty(brandF) {
			brand = strings.ToLower(strings.TrimSpace(records.String(r[brandF])))
			r[brandF] = brand
		}

		resolved := ResolveModel(model, brand, tol)
		if fm.KeepTags {
			r[modelF] = resolved
			continue
		}

		if i := strings.Index(resolved, "::"); i >= 0 {
			resolved = resolved[:i]
		}
		r[modelF] = resolved

		if brand == "" {
			if b, ok := brandOfModel(resolved); ok {
				r[brandF] = b
			} else if resolved == "x" {
				r[brandF] = "bmw"
			} else if resolved == "a" || resolved == "q" {
				r[brandF] = "audi"
			}
		}
	}
	return in, nil
}

// ResolveModel fixes a single model name. With a brand it searches that
// brand's catalog; without one it searches every brand and tags the result
// with ::no_brand. Ambiguity and misses are tagged, not guessed, except
// for a short list of names that are both real models and prefixes of
// longer ones (golf, ka, mokka, verso, viva), which resolve to themselves.
func ResolveModel(model, brand string, tol int) string {
	if model == "k" {
		model = "ka"
	}
	if brand != "" {
		return resolveWithBrand(model, brand, tol)
	}
	return resolveNoBrand(model, tol)
}

func resolveWithBrand(model, brand string, tol int) string {
	matches := prefixMatches(modelsByBrand[brand], model, tol)
	switch {
	case len(matches) > 1:
		if _, ok := ambiguousKeepers[model]; ok {
			return model
		}
		return model + tagMultiple
	case len(matches) == 1:
		return matches[0]
	default:
		return model + tagNone
	}
}

func resolveNoBrand(model string, tol int) string {
	// Single letters match too much of the catalog to attempt.
	if len(model) == 1 {
		return model + tagNoBrand
	}
	if _, ok := ambiguousKeepers[model]; ok {
		return model
	}

	var matches []string
	for _, brand := range brandOrder {
		matches = append(matches, prefixMatches(modelsByBrand[brand], model, tol)...)
	}
	switch {
	case len(matches) > 1:
		return model + tagMultiple + tagNoBrand
	case len(matches) == 1:
		return matches[0] + tagNoBrand
	default:
		return model + tagNone + tagNoBrand
	}
}

func prefixMatches(catalog []string, model string, tol int) []string {
	var out []string
	for _, m := range catalog {
		if strings.HasPrefix(m, model) && len(m)-len(model) <= tol {
			out = append(out, m)
		}
	}
	return out
}
