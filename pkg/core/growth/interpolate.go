package growth

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Pin the endpoint to avoid accumulated float drift.
	out[n-1] = stop
	return out
}

// Interpolate produces n interior growth rates decaying from the near-term
// rate toward the terminal rate: n+2 evenly spaced values spanning both
// endpoints, with the endpoints themselves discarded. The result is
// strictly between the two rates and monotonic.
func Interpolate(nearTerm, terminal float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	full := Linspace(nearTerm, terminal, n+2)
	return full[1 : n+1]
}
