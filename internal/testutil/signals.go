package testutil

import (
	"math"
	"math/rand"
)

// StereoSine generates an interleaved stereo sine wave with the same signal
// on both channels.
func StereoSine(freqHz, sampleRate int, amplitude int16, frames int) []int16 {
	out := make([]int16, 2*frames)
	step := 2 * math.Pi * float64(freqHz) / float64(sampleRate)

	for i := 0; i < frames; i++ {
		v := int16(float64(amplitude) * math.Sin(step*float64(i)))
		out[2*i] = v
		out[2*i+1] = v
	}

	return out
}

// StereoDC generates an interleaved stereo constant signal.
func StereoDC(value int16, frames int) []int16 {
	out := make([]int16, 2*frames)
	for i := range out {
		out[i] = value
	}

	return out
}

// StereoNoise generates interleaved stereo white noise with a fixed seed
// for reproducibility. Channels are independent.
func StereoNoise(seed int64, amplitude int16, frames int) []int16 {
	out := make([]int16, 2*frames)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = int16((rng.Float64()*2 - 1) * float64(amplitude))
	}

	return out
}

// StereoImpulse generates an interleaved stereo unit impulse of the given
// amplitude at frame pos.
func StereoImpulse(frames, pos int, amplitude int16) []int16 {
	out := make([]int16, 2*frames)
	if pos >= 0 && pos < frames {
		out[2*pos] = amplitude
		out[2*pos+1] = amplitude
	}

	return out
}
