package scoring

import "math"

// Reverse maps v onto the mirrored position of the scale.
// Applying it twice returns v.
func Reverse(v, scaleMin, scaleMax float64) float64 {
	return scaleMin + scaleMax - v
}

// Round2 rounds x to two decimals with halves going up
// (0.125 -> 0.13, -0.125 -> -0.12).
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x*100+0.5) / 100
}

func round2Ptr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := Round2(*p)
	return &v
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// mean returns nil for an empty slice.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := sum(values) / float64(len(values))
	return &m
}
