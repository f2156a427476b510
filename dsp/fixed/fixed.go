package fixed

// Q16 is a signed fixed-point number with 16 integer and 16 fractional bits.
type Q16 int32

const (
	// One is the Q16.16 representation of 1.0.
	One Q16 = 1 << 16
	// Half is the Q16.16 representation of 0.5.
	Half Q16 = 1 << 15

	// MaxQ16 and MinQ16 are the saturation bounds.
	MaxQ16 Q16 = 1<<31 - 1
	MinQ16 Q16 = -1 << 31

	fracBits = 16
)

// FromInt converts an integer to Q16.16 without overflow checking.
// The argument must fit in 15 bits plus sign.
func FromInt(i int) Q16 {
	return Q16(i << fracBits)
}

// FromFloat converts a float64 to Q16.16. Intended for tests and
// configuration, never for the per-sample path.
func FromFloat(f float64) Q16 {
	return Q16(f * float64(One))
}

// Float returns the float64 value of q. Intended for tests and diagnostics.
func (q Q16) Float() float64 {
	return float64(q) / float64(One)
}

// Int returns the integer part of q, truncated toward zero.
func (q Q16) Int() int {
	if q < 0 {
		return -int(-q >> fracBits)
	}
	return int(q >> fracBits)
}

// Frac returns the fractional bits of q as a value in [0, One).
func (q Q16) Frac() Q16 {
	return q & (One - 1)
}

// Mul returns a*b with a 64-bit intermediate, truncated to Q16.16.
func Mul(a, b Q16) Q16 {
	return Q16(int64(a) * int64(b) >> fracBits)
}

// MulSat returns a*b saturated to the Q16.16 range instead of wrapping.
func MulSat(a, b Q16) Q16 {
	p := int64(a) * int64(b) >> fracBits
	if p > int64(MaxQ16) {
		return MaxQ16
	}
	if p < int64(MinQ16) {
		return MinQ16
	}
	return Q16(p)
}

// Div returns a/b in Q16.16. b must be nonzero.
func Div(a, b Q16) Q16 {
	return Q16((int64(a) << fracBits) / int64(b))
}

// Sqrt returns the square root of q via bitwise integer square root.
// Negative inputs return 0.
func Sqrt(q Q16) Q16 {
	if q <= 0 {
		return 0
	}

	// Widen to Q32.32 so the root comes out in Q16.16.
	v := uint64(q) << fracBits

	var res uint64

	bit := uint64(1) << 46
	for bit > v {
		bit >>= 2
	}

	for bit != 0 {
		if v >= res+bit {
			v -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}

	return Q16(res)
}

// Clamp limits q to the inclusive range [lo, hi].
func Clamp(q, lo, hi Q16) Q16 {
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// ClampSample limits a widened intermediate to the 16-bit signed sample range.
// Filter feedback paths clamp after every sample so fixed-point overflow
// cannot propagate through the history cells.
func ClampSample(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// ClampSample64 is ClampSample for 64-bit intermediates.
func ClampSample64(v int64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
