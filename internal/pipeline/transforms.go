package pipeline

import (
	"fmt"
	"log"
	"time"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/internal/metrics"
	"carprep/internal/transform"
	"carprep/internal/transform/builtin"
)

// Counters aggregates row movements across the transform chain for the
// end-of-run summary.
type Counters struct {
	BoundDropped     int64
	DedupRemoved     int64
	ValidateRejected int64
	Loaded           int64
}

// RunTransforms executes the configured steps in order. Fitted steps
// (impute, encode, scale) fit on the train frame in its current state and
// apply the fitted parameters to both frames, so the test frame never
// contributes statistics. Row-dropping steps update the counters.
func RunTransforms(job string, steps []config.Transform, dict dataset.Dictionary, fr *Frames, c *Counters) error {
	for _, step := range steps {
		start := time.Now()
		err := runStep(job, step, dict, fr, c)
		metrics.RecordStep(job, step.Kind, err, time.Since(start))
		if err != nil {
			return fmt.Errorf("transform %s: %w", step.Kind, err)
		}
		log.Printf("transform %s: train=%d test=%d", step.Kind, len(fr.Train), len(fr.Test))
	}
	return nil
}

func runStep(job string, step config.Transform, dict dataset.Dictionary, fr *Frames, c *Counters) error {
	opt := step.Options

	var t transform.Transformer
	switch step.Kind {
	case "coerce":
		t = builtin.Coerce{Dict: dict}

	case "fix_models":
		t = builtin.FixModels{
			BrandField: opt.String("brand_field", ""),
			ModelField: opt.String("model_field", ""),
			Tolerance:  opt.Int("tolerance", 0),
			KeepTags:   opt.Bool("keep_tags", false),
		}

	case "impute":
		metric := opt.StringSlice("metric_fields")
		if metric == nil {
			metric = dict.ByRole(dataset.RoleMetric)
		}
		bools := opt.StringSlice("bool_fields")
		if bools == nil {
			bools = boolTargets(dict)
		}
		imp := builtin.FitImpute(fr.Train, metric, bools)
		// options.constants pins explicit fill values over fitted medians.
		for f, v := range opt.FloatMap("constants") {
			imp.Fill[f] = v
		}
		t = imp

	case "bound":
		th, err := parseThresholds(opt.Any("thresholds"))
		if err != nil {
			return err
		}
		before := fr.Rows()
		if err := applyBoth(builtin.Bound{Thresholds: th}, fr); err != nil {
			return err
		}
		c.BoundDropped += int64(before - fr.Rows())
		metrics.RecordRows(job, "bound_dropped", int64(before-fr.Rows()))
		return nil

	case "round":
		fields := opt.StringSlice("fields")
		if fields == nil {
			fields = precisionTargets(dict)
		}
		t = builtin.Round{Fields: fields, Places: opt.Int("places", 1)}

	case "dedup":
		before := fr.Rows()
		dd := builtin.DeDup{
			Columns: fr.Columns,
			Keys:    opt.StringSlice("keys"),
			Policy:  opt.String("policy", ""),
		}
		if err := applyBoth(dd, fr); err != nil {
			return err
		}
		c.DedupRemoved += int64(before - fr.Rows())
		metrics.RecordRows(job, "dedup_removed", int64(before-fr.Rows()))
		return nil

	case "encode":
		fields := opt.StringSlice("fields")
		if fields == nil {
			fields = dict.ByRole(dataset.RoleCategorical)
		}
		enc := builtin.FitEncode(fields, opt.Bool("drop_first", true), fr.Train, fr.Test)
		if err := applyBoth(enc, fr); err != nil {
			return err
		}
		fr.Columns = rewriteColumns(fr.Columns, fields, enc)
		return nil

	case "scale":
		fields := opt.StringSlice("fields")
		if fields == nil {
			fields = numericTargets(dict)
		}
		fr.Scaled = append(fr.Scaled, fields...)
		t = builtin.FitScale(fr.Train, fields)

	case "drop":
		fields := opt.StringSlice("fields")
		if err := applyBoth(builtin.Drop{Fields: fields}, fr); err != nil {
			return err
		}
		fr.Columns = withoutColumns(fr.Columns, fields)
		return nil

	case "validate":
		before := fr.Rows()
		v := builtin.Validate{
			Dict:   dict,
			Policy: opt.String("policy", "lenient"),
			Reject: func(rr builtin.RejectedRow) {
				log.Printf("validate: rejected row: %s", rr.Reason)
			},
		}
		if err := applyBoth(v, fr); err != nil {
			return err
		}
		c.ValidateRejected += int64(before - fr.Rows())
		metrics.RecordRows(job, "validate_rejected", int64(before-fr.Rows()))
		return nil

	default:
		return fmt.Errorf("unknown transform kind %q", step.Kind)
	}

	return applyBoth(t, fr)
}

// applyBoth runs one transformer over the train frame and, when split, the
// test frame.
func applyBoth(t transform.Transformer, fr *Frames) error {
	out, err := t.Apply(fr.Train)
	if err != nil {
		return err
	}
	fr.Train = out
	if !fr.Split {
		return nil
	}
	out, err = t.Apply(fr.Test)
	if err != nil {
		return err
	}
	fr.Test = out
	return nil
}

// rewriteColumns replaces encoded source columns with their dummy columns,
// preserving the position of everything else.
func rewriteColumns(columns, encoded []string, enc builtin.Encode) []string {
	isEncoded := map[string]bool{}
	for _, f := range encoded {
		isEncoded[f] = true
	}
	var out []string
	for _, c := range columns {
		if isEncoded[c] {
			out = append(out, enc.DummyColumns(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func withoutColumns(columns, dropped []string) []string {
	skip := map[string]bool{}
	for _, f := range dropped {
		skip[f] = true
	}
	var out []string
	for _, c := range columns {
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out
}

// parseThresholds decodes the bound step's options.thresholds block:
// {"tax": {"lower": 0}, "price": {"upper": 100000}}.
func parseThresholds(v any) (map[string]builtin.Threshold, error) {
	if v == nil {
		return nil, fmt.Errorf("bound: options.thresholds is required")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bound: options.thresholds must be an object")
	}
	out := make(map[string]builtin.Threshold, len(m))
	for field, raw := range m {
		ends, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("bound: thresholds.%s must be an object", field)
		}
		blk := config.Options(ends)
		var th builtin.Threshold
		if _, ok := ends["lower"]; ok {
			lo := blk.Float("lower", 0)
			th.Lower = &lo
		}
		if _, ok := ends["upper"]; ok {
			hi := blk.Float("upper", 0)
			th.Upper = &hi
		}
		out[field] = th
	}
	return out, nil
}

func boolTargets(dict dataset.Dictionary) []string {
	var out []string
	for _, f := range dict.Fields {
		if f.Target == dataset.TypeBool {
			out = append(out, f.Name)
		}
	}
	return out
}

func precisionTargets(dict dataset.Dictionary) []string {
	var out []string
	for _, f := range dict.Fields {
		if f.Precision > 0 {
			out = append(out, f.Name)
		}
	}
	return out
}

func numericTargets(dict dataset.Dictionary) []string {
	var out []string
	for _, f := range dict.Fields {
		if f.Target == dataset.TypeInt || f.Target == dataset.TypeFloat {
			out = append(out, f.Name)
		}
	}
	return out
}
