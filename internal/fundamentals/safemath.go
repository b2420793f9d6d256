package fundamentals

// ptr returns a pointer to v.
func ptr(v float64) *float64 {
	return &v
}

// div divides two optional values, returning nil when either operand is
// missing or the denominator is zero. Missing data degrades the model that
// needed the ratio instead of raising an error.
func div(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// addOpt adds two optional values; nil when either is missing.
func addOpt(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a + *b
	return &v
}

// orZero reads an optional value, substituting zero when missing.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
