// Package models defines the immutable value records exchanged between the
// pipeline stages. Every record is constructed fresh per run and never
// mutated afterwards.
package models

// Record is a raw provider report: a mapping of field name to whatever the
// provider returned. Values are untyped on purpose; they only enter the
// pipeline through numeric.SafeFloat.
type Record map[string]any

// Get returns the raw value for a field, or nil when the field is absent.
func (r Record) Get(field string) any {
	if r == nil {
		return nil
	}
	return r[field]
}

// Has reports whether the field is present at all, regardless of its value.
func (r Record) Has(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r[field]
	return ok
}

// AnalystEstimate is one forward-looking analyst revenue estimate.
type AnalystEstimate struct {
	EstimatedRevenueAvg float64 `json:"estimatedRevenueAvg"`
	Year                int     `json:"year"`
}
