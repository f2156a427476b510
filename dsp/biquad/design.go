package biquad

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

const (
	minDesignFreq = 10
	minSampleRate = 8000
	maxSampleRate = 192000
)

// Peaking designs a peaking-EQ section per the Audio EQ Cookbook:
//
//	alpha = sin(w0) / (2*Q)
//	A     = sqrt(10^(gainDB/20))
//	b0    = 1 + alpha*A     a0 = 1 + alpha/A
//	b1    = -2*cos(w0)      a1 = b1
//	b2    = 1 - alpha*A     a2 = 1 - alpha/A
//
// computed entirely in Q16.16. gainDB outside [-12, +12] clamps to the gain
// table range. The center frequency must sit below Nyquist.
func Peaking(sampleRate, freq, gainDB int, q fixed.Q16) (Coefficients, error) {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return Coefficients{}, fmt.Errorf("biquad: sample rate must be in [%d, %d]: %d",
			minSampleRate, maxSampleRate, sampleRate)
	}

	if freq < minDesignFreq || freq >= sampleRate/2 {
		return Coefficients{}, fmt.Errorf("biquad: center frequency must be in [%d, Nyquist): %d", minDesignFreq, freq)
	}

	if q <= 0 {
		return Coefficients{}, fmt.Errorf("biquad: Q must be positive: %d", q)
	}

	// w0 = 2*pi*f/fs, widened so high rates cannot overflow Q16.16.
	w0 := fixed.Q16(int64(fixed.TwoPi) * int64(freq) / int64(sampleRate))

	sinW0 := fixed.Sin(w0)
	cosW0 := fixed.Cos(w0)

	alpha := fixed.Div(sinW0, fixed.Mul(fixed.FromInt(2), q))
	bigA := fixed.Sqrt(fixed.DBToLinear(gainDB))

	alphaMulA := fixed.Mul(alpha, bigA)
	alphaDivA := fixed.Div(alpha, bigA)

	b0 := fixed.One + alphaMulA
	b1 := -2 * cosW0
	b2 := fixed.One - alphaMulA
	a0 := fixed.One + alphaDivA
	a2 := fixed.One - alphaDivA

	return Coefficients{
		B0: fixed.Div(b0, a0),
		B1: fixed.Div(b1, a0),
		B2: fixed.Div(b2, a0),
		A1: fixed.Div(b1, a0),
		A2: fixed.Div(a2, a0),
	}, nil
}
