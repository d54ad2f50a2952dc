// Package dataset defines the data dictionary for the used-car listings
// dataset: canonical column names, declared roles, raw and target types, and
// the quality constraints the cleaning pipeline must satisfy.
//
// The dictionary is the single source of truth shared by the profiler (which
// checks the raw file against it), the transform chain (which enforces it),
// and the storage layer (which derives DDL from it).
package dataset

// Role classifies how a column is used during analysis.
type Role string

const (
	// RoleIndex marks the row identifier column.
	RoleIndex Role = "index"
	// RoleMetric marks continuous/numeric quantity columns.
	RoleMetric Role = "metric"
	// RoleCategorical marks discrete class/label columns.
	RoleCategorical Role = "categorical"
)

// Type is the small type vocabulary used across the toolkit. It matches the
// profiler's inference output so dictionary and observation compare directly.
type Type string

const (
	TypeInt   Type = "integer"
	TypeFloat Type = "real"
	TypeBool  Type = "boolean"
	TypeText  Type = "text"
)

// Field describes one column of the dataset.
type Field struct {
	// Name is the canonical (normalized) column name, e.g. "fuel_type".
	Name string
	// Source is the header as it appears in the raw CSV, e.g. "fuelType".
	Source string
	// Role is the analysis role of the column.
	Role Role
	// Raw is the type the column carries in the raw file.
	Raw Type
	// Target is the type the column should have after cleaning. Equal to Raw
	// when the raw file already has the right type.
	Target Type
	// Required fields must be present and non-empty in every row.
	Required bool
	// NonNegative fields reject values < 0.
	NonNegative bool
	// Precision is the number of decimal places the cleaned value is
	// rendered with. -1 means no fixed precision.
	Precision int
}

// Integral reports whether the field is declared float in the raw file but
// holds whole numbers only, i.e. it should be an integer after cleaning.
func (f Field) Integral() bool {
	return f.Raw == TypeFloat && f.Target == TypeInt
}

// Numeric reports whether values of the field are numeric in the raw file.
func (f Field) Numeric() bool {
	return f.Raw == TypeInt || f.Raw == TypeFloat
}

// Dictionary is an ordered set of fields for one dataset.
type Dictionary struct {
	Name   string
	Fields []Field
}

// Field returns the field with the given canonical name, or a zero Field and
// false when the name is unknown.
func (d Dictionary) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the canonical column names in dictionary order.
func (d Dictionary) Columns() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Name
	}
	return out
}

// HeaderMap returns the raw-header -> canonical-name mapping used by the CSV
// reader when renaming columns.
func (d Dictionary) HeaderMap() map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Source] = f.Name
	}
	return out
}

// ByRole returns the canonical names of all fields with the given role, in
// dictionary order.
func (d Dictionary) ByRole(role Role) []string {
	var out []string
	for _, f := range d.Fields {
		if f.Role == role {
			out = append(out, f.Name)
		}
	}
	return out
}

// CarListing returns the dictionary for the used-car listings dataset
// (75,973 rows). Roles, raw types, and constraints follow the recorded
// exploration notes; target types encode the intended cleaning result.
func CarListing() Dictionary {
	return Dictionary{
		Name: "car_listings",
		Fields: []Field{
			{Name: "car_id", Source: "carID", Role: RoleIndex, Raw: TypeInt, Target: TypeInt, Required: true, Precision: -1},
			{Name: "brand", Source: "Brand", Role: RoleCategorical, Raw: TypeText, Target: TypeText, Precision: -1},
			{Name: "model", Source: "model", Role: RoleCategorical, Raw: TypeText, Target: TypeText, Precision: -1},
			{Name: "year", Source: "year", Role: RoleCategorical, Raw: TypeFloat, Target: TypeInt, Precision: -1},
			{Name: "price", Source: "price", Role: RoleMetric, Raw: TypeInt, Target: TypeInt, Required: true, Precision: -1},
			{Name: "transmission", Source: "transmission", Role: RoleCategorical, Raw: TypeText, Target: TypeText, Precision: -1},
			{Name: "mileage", Source: "mileage", Role: RoleMetric, Raw: TypeFloat, Target: TypeInt, Precision: -1},
			{Name: "fuel_type", Source: "fuelType", Role: RoleCategorical, Raw: TypeText, Target: TypeText, Precision: -1},
			{Name: "tax", Source: "tax", Role: RoleMetric, Raw: TypeFloat, Target: TypeInt, NonNegative: true, Precision: -1},
			{Name: "mpg", Source: "mpg", Role: RoleMetric, Raw: TypeFloat, Target: TypeFloat, Precision: 1},
			{Name: "engine_size", Source: "engineSize", Role: RoleMetric, Raw: TypeFloat, Target: TypeFloat, Precision: 1},
			{Name: "paint_quality", Source: "paintQuality%", Role: RoleMetric, Raw: TypeFloat, Target: TypeInt, Precision: -1},
			{Name: "previous_owners", Source: "previousOwners", Role: RoleMetric, Raw: TypeFloat, Target: TypeInt, NonNegative: true, Precision: -1},
			{Name: "has_damage", Source: "hasDamage", Role: RoleCategorical, Raw: TypeFloat, Target: TypeBool, Precision: -1},
		},
	}
}
