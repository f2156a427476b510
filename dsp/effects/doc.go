// Package effects implements the non-EQ stages of the playback DSP chain:
// bass boost, stereo widening, and the clickless volume ramp.
//
// All stages process 16-bit stereo pairs in Q16.16 fixed point and are
// real-time safe and not thread-safe.
package effects
