// Package dither converts higher-precision intermediate samples to 16-bit
// output using TPDF dither from a 32-bit LFSR, with an optional first-order
// noise-shaping feedback path for 24-to-16-bit reduction.
package dither

import "fmt"

// Mode selects how samples are reduced to 16 bits.
type Mode int

const (
	// ModeOff truncates with an arithmetic shift, no dither.
	ModeOff Mode = iota
	// ModeTPDF adds triangular dither noise before truncation.
	ModeTPDF
	// ModeNoiseShaped adds TPDF dither plus first-order error feedback,
	// pushing quantization noise away from the sensitive mid band.
	ModeNoiseShaped

	modeCount // sentinel for validation
)

var modeNames = [modeCount]string{"Off", "TPDF", "NoiseShaped"}

// String returns the name of the mode.
func (m Mode) String() string {
	if m >= 0 && m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}
