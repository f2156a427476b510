// Package meter provides output diagnostics for the playback pipeline: a
// peak/RMS level meter and an on-demand FFT spectrum snapshot.
//
// The meter sits on the pipeline's output tap. It is analysis-only: it runs
// in float64 off the fixed-point signal path and never feeds anything back
// into playback.
package meter

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	approx "github.com/meko-christian/algo-approx"
)

const (
	defaultFFTSize = 2048

	// floorDB is the silence floor reported for empty windows.
	floorDB = -120.0

	ln10 = 2.302585092994046
)

// Option mutates meter construction parameters.
type Option func(*config) error

type config struct {
	fftSize int
}

// WithFFTSize sets the spectrum snapshot size (a power of two in [256, 8192]).
func WithFFTSize(n int) Option {
	return func(cfg *config) error {
		if n < 256 || n > 8192 || n&(n-1) != 0 {
			return fmt.Errorf("meter: FFT size must be a power of two in [256, 8192]: %d", n)
		}

		cfg.fftSize = n

		return nil
	}
}

// Meter accumulates level statistics over the most recent samples and can
// produce a magnitude spectrum of the last FFT window. Not thread-safe.
type Meter struct {
	fftSize int
	plan    *algofft.Plan[complex128]

	ring   []float64 // mono history, normalized to [-1, 1]
	write  int
	filled int

	peak       float64
	sumSquares float64
	count      uint64

	in  []complex128
	out []complex128
	re  []float64
	im  []float64
}

// New creates a meter with a 2048-point spectrum window.
func New(opts ...Option) (*Meter, error) {
	cfg := config{fftSize: defaultFFTSize}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("meter: fft plan: %w", err)
	}

	return &Meter{
		fftSize: cfg.fftSize,
		plan:    plan,
		ring:    make([]float64, cfg.fftSize),
		in:      make([]complex128, cfg.fftSize),
		out:     make([]complex128, cfg.fftSize),
		re:      make([]float64, cfg.fftSize),
		im:      make([]float64, cfg.fftSize),
	}, nil
}

// PushStereo feeds an interleaved stereo buffer into the meter.
func (m *Meter) PushStereo(buf []int16) {
	for i := 0; i+1 < len(buf); i += 2 {
		mono := (float64(buf[i]) + float64(buf[i+1])) / (2 * 32768)

		if a := math.Abs(mono); a > m.peak {
			m.peak = a
		}

		m.sumSquares += mono * mono
		m.count++

		m.ring[m.write] = mono

		m.write++
		if m.write == m.fftSize {
			m.write = 0
		}

		if m.filled < m.fftSize {
			m.filled++
		}
	}
}

// PeakDB returns the all-time peak level in dBFS since the last Reset.
func (m *Meter) PeakDB() float64 {
	return toDB(m.peak)
}

// RMSDB returns the running RMS level in dBFS since the last Reset.
func (m *Meter) RMSDB() float64 {
	if m.count == 0 {
		return floorDB
	}

	return toDB(math.Sqrt(m.sumSquares / float64(m.count)))
}

// SpectrumDB fills dst with the magnitude spectrum of the most recent FFT
// window in dBFS. dst must hold fftSize/2+1 bins. Returns an error until a
// full window has been pushed.
func (m *Meter) SpectrumDB(dst []float64) error {
	bins := m.fftSize/2 + 1
	if len(dst) != bins {
		return fmt.Errorf("meter: dst must hold %d bins: %d", bins, len(dst))
	}

	if m.filled < m.fftSize {
		return fmt.Errorf("meter: only %d of %d samples buffered", m.filled, m.fftSize)
	}

	read := m.write
	for i := 0; i < m.fftSize; i++ {
		m.in[i] = complex(m.ring[read], 0)

		read++
		if read == m.fftSize {
			read = 0
		}
	}

	if err := m.plan.Forward(m.out, m.in); err != nil {
		return fmt.Errorf("meter: fft: %w", err)
	}

	for i := 0; i < bins; i++ {
		m.re[i] = real(m.out[i])
		m.im[i] = imag(m.out[i])
	}

	vecmath.Magnitude(dst, m.re[:bins], m.im[:bins])

	norm := float64(m.fftSize)
	for i := range dst {
		mag := dst[i] / norm
		if i > 0 && i < bins-1 {
			mag *= 2
		}

		dst[i] = toDB(mag)
	}

	return nil
}

// Reset clears level statistics and the spectrum history.
func (m *Meter) Reset() {
	m.peak = 0
	m.sumSquares = 0
	m.count = 0
	m.write = 0
	m.filled = 0

	for i := range m.ring {
		m.ring[i] = 0
	}
}

// toDB converts linear amplitude to dBFS with a silence floor, using the
// fast log approximation; meter readouts do not need libm precision.
func toDB(x float64) float64 {
	if x <= 1e-6 {
		return floorDB
	}

	return 20 * approx.FastLog(x) / ln10
}
