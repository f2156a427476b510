// Package biquad implements second-order IIR filter sections in Q16.16
// fixed point for the equalizer.
//
// Sections use Direct Form I with separate left/right history so one section
// filters an interleaved stereo stream. Coefficient design follows the Audio
// EQ Cookbook peaking formulas, computed entirely in fixed point.
package biquad
