package features

// Row is a feature vector reshaped to a schema: Values[i] belongs to
// Columns[i], and Columns is exactly the schema order.
type Row struct {
	Columns []string
	Values  []float64
}

// Align reshapes v to the schema. Schema columns missing from v are 0,
// columns of v the schema does not name are dropped. It must be run for
// every request since the one-hot shape of v varies with the input.
func Align(v Vector, s *Schema) Row {
	values := make([]float64, s.Len())
	for _, c := range v {
		if i := s.Index(c.Name); i >= 0 {
			values[i] = c.Value
		}
	}
	return Row{Columns: s.Names(), Values: values}
}

// Dropped returns the columns of v that the schema does not contain.
func Dropped(v Vector, s *Schema) []string {
	var out []string
	for _, c := range v {
		if s.Index(c.Name) < 0 {
			out = append(out, c.Name)
		}
	}
	return out
}
