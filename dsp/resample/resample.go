// Package resample converts interleaved 16-bit stereo streams between
// sample rates using a Q16.16 phase accumulator with linear interpolation.
//
// Equal input and output rates short-circuit to a plain copy; the bypass is
// flag-gated rather than computed so the identity path is byte-exact.
package resample

import (
	"errors"
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

// ErrInvalidRate indicates an out-of-range input/output sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

const (
	minRate = 8000
	maxRate = 192000
)

// Resampler is a streaming fractional-rate converter. Between calls the
// phase accumulator stays in [0, One); one previous/current frame pair per
// channel carries interpolation state across buffer boundaries.
// Not thread-safe.
type Resampler struct {
	inRate  int
	outRate int
	bypass  bool

	inc   fixed.Q16
	phase fixed.Q16

	primed       bool
	prevL, prevR int32
	curL, curR   int32
}

// New creates a resampler from inRate to outRate (both in [8000, 192000] Hz).
func New(inRate, outRate int) (*Resampler, error) {
	if inRate < minRate || inRate > maxRate {
		return nil, fmt.Errorf("%w: input %d", ErrInvalidRate, inRate)
	}

	if outRate < minRate || outRate > maxRate {
		return nil, fmt.Errorf("%w: output %d", ErrInvalidRate, outRate)
	}

	r := &Resampler{
		inRate:  inRate,
		outRate: outRate,
		bypass:  inRate == outRate,
		inc:     fixed.Q16(int64(inRate) << 16 / int64(outRate)),
	}
	r.Reset()

	return r, nil
}

// InRate returns the input sample rate in Hz.
func (r *Resampler) InRate() int { return r.inRate }

// OutRate returns the output sample rate in Hz.
func (r *Resampler) OutRate() int { return r.outRate }

// Bypassed reports whether the converter is an identity pass-through.
func (r *Resampler) Bypassed() bool { return r.bypass }

// OutputLen returns the interleaved output sample count producible from
// inputLen interleaved input samples at the configured ratio.
func (r *Resampler) OutputLen(inputLen int) int {
	if r.bypass {
		return inputLen - inputLen%2
	}

	frames := int64(inputLen / 2)

	return int(frames*int64(r.outRate)/int64(r.inRate)) * 2
}

// InputLen returns the interleaved input sample count needed to produce
// outputLen interleaved output samples.
func (r *Resampler) InputLen(outputLen int) int {
	if r.bypass {
		return outputLen - outputLen%2
	}

	frames := int64(outputLen / 2)
	need := (frames*int64(r.inRate) + int64(r.outRate) - 1) / int64(r.outRate)

	return int(need) * 2
}

// Process converts src into dst and returns the interleaved sample counts
// (consumed, produced). It stops when dst is full or src can no longer
// supply the next input frame; trailing odd samples are ignored.
func (r *Resampler) Process(dst, src []int16) (int, int) {
	if r.bypass {
		n := len(src)
		if len(dst) < n {
			n = len(dst)
		}

		n -= n % 2
		copy(dst[:n], src[:n])

		return n, n
	}

	consumed, produced := 0, 0

	for produced+2 <= len(dst) {
		for r.phase >= fixed.One {
			if consumed+2 > len(src) {
				return consumed, produced
			}

			r.prevL, r.prevR = r.curL, r.curR
			r.curL = int32(src[consumed])
			r.curR = int32(src[consumed+1])
			consumed += 2
			r.phase -= fixed.One

			// The very first frame has no predecessor; duplicating it keeps
			// the stream from opening on an interpolation against silence.
			if !r.primed {
				r.prevL, r.prevR = r.curL, r.curR
				r.primed = true
			}
		}

		frac := int64(r.phase)
		l := int64(r.prevL) + frac*(int64(r.curL)-int64(r.prevL))>>16
		rr := int64(r.prevR) + frac*(int64(r.curR)-int64(r.prevR))>>16

		dst[produced] = int16(l)
		dst[produced+1] = int16(rr)
		produced += 2

		r.phase += r.inc
	}

	return consumed, produced
}

// Reset clears the phase accumulator and interpolation history. The next
// Process call starts by pulling a fresh input frame.
func (r *Resampler) Reset() {
	r.phase = fixed.One
	r.primed = false
	r.prevL, r.prevR = 0, 0
	r.curL, r.curR = 0, 0
}
