package dither

import "fmt"

const (
	defaultSeed = 0xBAD5EED1

	// lfsrTaps is the feedback mask of the 32-bit Galois LFSR
	// (taps 32, 30, 26, 25; maximal length).
	lfsrTaps = 0xA3000000

	fracBits = 16
)

// Option configures a [Ditherer].
type Option func(*Ditherer) error

// WithMode sets the reduction mode (default [ModeTPDF]).
func WithMode(m Mode) Option {
	return func(d *Ditherer) error {
		if !m.Valid() {
			return fmt.Errorf("dither: invalid mode: %d", m)
		}

		d.mode = m

		return nil
	}
}

// WithSeed sets the LFSR seed. Zero is rejected: a zeroed LFSR is stuck at
// zero forever.
func WithSeed(seed uint32) Option {
	return func(d *Ditherer) error {
		if seed == 0 {
			return fmt.Errorf("dither: seed must be nonzero")
		}

		d.lfsr = seed

		return nil
	}
}

// Ditherer reduces samples carrying 16 fractional bits (s15.16) to plain
// 16-bit output. It owns a 32-bit LFSR noise source and per-channel
// noise-shaping error accumulators. Not thread-safe.
type Ditherer struct {
	mode Mode

	lfsr      uint32
	prevNoise int32

	errL, errR int32
}

// New creates a Ditherer in TPDF mode with the default seed.
func New(opts ...Option) (*Ditherer, error) {
	d := &Ditherer{mode: ModeTPDF, lfsr: defaultSeed}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Mode returns the active reduction mode.
func (d *Ditherer) Mode() Mode { return d.mode }

// SetMode switches the reduction mode and clears the shaping accumulators,
// whose units only make sense within one mode.
func (d *Ditherer) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("dither: invalid mode: %d", m)
	}

	d.mode = m
	d.errL = 0
	d.errR = 0

	return nil
}

// next advances the LFSR one step and returns its state.
func (d *Ditherer) next() uint32 {
	lsb := d.lfsr & 1
	d.lfsr >>= 1

	if lsb != 0 {
		d.lfsr ^= lfsrTaps
	}

	return d.lfsr
}

// tpdf returns triangularly distributed noise in (-65536, +65536): one
// output LSB peak-to-peak on each side, from the difference of the current
// and previous LFSR draws.
func (d *Ditherer) tpdf() int32 {
	cur := int32(d.next() & 0xFFFF)
	noise := cur - d.prevNoise
	d.prevNoise = cur

	return noise
}

// DitherToI16 reduces one s15.16 sample to int16 using the left channel's
// error accumulator. In [ModeOff] the result is exactly the arithmetic
// shift-right truncation of the input.
func (d *Ditherer) DitherToI16(sample int32) int16 {
	return d.reduce(sample, &d.errL)
}

// ProcessStereo reduces one s15.16 sample pair, keeping separate
// noise-shaping state per channel.
func (d *Ditherer) ProcessStereo(l, r int32) (int16, int16) {
	return d.reduce(l, &d.errL), d.reduce(r, &d.errR)
}

func (d *Ditherer) reduce(sample int32, errAcc *int32) int16 {
	switch d.mode {
	case ModeTPDF:
		return clamp16(widen(sample) + int64(d.tpdf()))

	case ModeNoiseShaped:
		// Subtract the previous quantization error, dither, truncate,
		// then record the new error for the next sample.
		v := widen(sample) - int64(*errAcc)
		out := clamp16(v + int64(d.tpdf()))
		*errAcc = int32(int64(out)<<fracBits - v)

		return out

	default:
		return int16(sample >> fracBits)
	}
}

// Reset clears the noise-shaping accumulators and the dither history. The
// LFSR state is kept; it never needs reseeding and must never become zero.
func (d *Ditherer) Reset() {
	d.prevNoise = 0
	d.errL = 0
	d.errR = 0
}

func widen(v int32) int64 { return int64(v) }

func clamp16(v int64) int16 {
	v >>= fracBits
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
