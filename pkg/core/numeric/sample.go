package numeric

import "encoding/json"

// Origin tags where a Sample's value came from.
type Origin int

const (
	// OriginReported marks a value parsed from real provider data.
	OriginReported Origin = iota
	// OriginFallback marks a documented default substituted after a fetch
	// or parse failure.
	OriginFallback
)

// Sample is a scalar that remembers whether it was reported by a provider
// or substituted from a fallback constant. Higher layers use this to audit
// how much of a valuation rests on defaults instead of real data.
type Sample struct {
	value  float64
	origin Origin
	reason string
}

// Reported wraps a value parsed from provider data.
func Reported(v float64) Sample {
	return Sample{value: v, origin: OriginReported}
}

// Fallback wraps a substituted default together with the reason the real
// value was unavailable.
func Fallback(v float64, reason string) Sample {
	return Sample{value: v, origin: OriginFallback, reason: reason}
}

// Value returns the numeric value regardless of origin.
func (s Sample) Value() float64 { return s.value }

// IsFallback reports whether the value is a substituted default.
func (s Sample) IsFallback() bool { return s.origin == OriginFallback }

// Reason returns the fallback reason, or "" for reported values.
func (s Sample) Reason() string { return s.reason }

// MarshalJSON exposes the value and its origin for report serialization.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value    float64 `json:"value"`
		Fallback bool    `json:"fallback"`
		Reason   string  `json:"reason,omitempty"`
	}{s.value, s.IsFallback(), s.reason})
}
