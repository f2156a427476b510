package fixed

// Q16.16 angle constants.
const (
	// Pi is the Q16.16 representation of pi.
	Pi Q16 = 205887
	// TwoPi is the Q16.16 representation of 2*pi.
	TwoPi Q16 = 411775
	// HalfPi is the Q16.16 representation of pi/2.
	HalfPi Q16 = 102944
)

// Sin returns the sine of x (radians, Q16.16) using a seventh-order
// polynomial after range reduction to [-pi/2, pi/2]. Worst-case error is
// about 2e-4, which is ample for filter coefficient generation.
func Sin(x Q16) Q16 {
	for x > Pi {
		x -= TwoPi
	}
	for x < -Pi {
		x += TwoPi
	}

	// Fold the outer quadrants onto [-pi/2, pi/2].
	if x > HalfPi {
		x = Pi - x
	} else if x < -HalfPi {
		x = -Pi - x
	}

	// Horner form of x - x^3/3! + x^5/5! - x^7/7!.
	x2 := Mul(x, x)
	r := One - x2/42
	r = One - Mul(x2, r)/20
	r = One - Mul(x2, r)/6

	return Mul(x, r)
}

// Cos returns the cosine of x (radians, Q16.16) via the phase identity
// cos(x) = sin(pi/2 - x).
func Cos(x Q16) Q16 {
	return Sin(HalfPi - x)
}
