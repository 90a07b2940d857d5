package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RootRaisedCosine generates the taps of a root-raised-cosine filter.
// order sets the tap count (rounded up to odd), cutoff is the symbol rate
// relative to the sample rate and rolloff the excess-bandwidth factor.
func RootRaisedCosine(order int, cutoff, rolloff float64) []float64 {
	ncoeffs := order | 1
	taps := make([]float64, ncoeffs)
	center := ncoeffs / 2
	b := rolloff
	for i := range taps {
		t := float64(i-center) * cutoff
		switch {
		case t == 0:
			taps[i] = 1 - b + 4*b/math.Pi
		case b != 0 && math.Abs(4*b*t) == 1:
			taps[i] = b / math.Sqrt2 *
				((1+2/math.Pi)*math.Sin(math.Pi/(4*b)) +
					(1-2/math.Pi)*math.Cos(math.Pi/(4*b)))
		default:
			taps[i] = (math.Sin(math.Pi*t*(1-b)) + 4*b*t*math.Cos(math.Pi*t*(1+b))) /
				(math.Pi * t * (1 - 16*b*b*t*t))
		}
	}
	return taps
}

// NormalizePower scales taps so the filter's RMS gain equals gain.
func NormalizePower(taps []float64, gain float64) {
	p := floats.Dot(taps, taps)
	if p == 0 {
		return
	}
	floats.Scale(gain/math.Sqrt(p), taps)
}

// Taps32 converts taps to the float32 vector the FIR stage consumes.
func Taps32(taps []float64) []float32 {
	out := make([]float32, len(taps))
	for i, t := range taps {
		out[i] = float32(t)
	}
	return out
}
