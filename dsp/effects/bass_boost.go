package effects

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

const (
	defaultBassBoostCutoff = 120
	defaultBassBoostGainDB = 6

	minBassBoostCutoff = 20
	maxBassBoostCutoff = 500
)

// BassBoostOption mutates bass boost construction parameters.
type BassBoostOption func(*bassBoostConfig) error

type bassBoostConfig struct {
	cutoff int
	gainDB int
}

// WithBassCutoff sets the low-pass corner frequency in Hz ([20, 500]).
func WithBassCutoff(freq int) BassBoostOption {
	return func(cfg *bassBoostConfig) error {
		if freq < minBassBoostCutoff || freq > maxBassBoostCutoff {
			return fmt.Errorf("bass boost cutoff must be in [%d, %d] Hz: %d",
				minBassBoostCutoff, maxBassBoostCutoff, freq)
		}

		cfg.cutoff = freq

		return nil
	}
}

// WithBassGain sets the boost gain in whole dB ([0, 12]).
func WithBassGain(db int) BassBoostOption {
	return func(cfg *bassBoostConfig) error {
		if db < 0 || db > fixed.MaxGainDB {
			return fmt.Errorf("bass boost gain must be in [0, %d] dB: %d", fixed.MaxGainDB, db)
		}

		cfg.gainDB = db

		return nil
	}
}

// BassBoost isolates the sub-band with a one-pole low-pass filter and adds
// the boosted band back onto the original signal:
//
//	state += (in - state) * alpha
//	out    = in + (gain - 1) * state
type BassBoost struct {
	sampleRate int
	cutoff     int
	gainDB     int

	alpha fixed.Q16
	boost fixed.Q16 // gain - 1

	stateL, stateR int32
}

// NewBassBoost creates a bass boost stage with a 120 Hz corner and +6 dB
// gain, overridable via options.
func NewBassBoost(sampleRate int, opts ...BassBoostOption) (*BassBoost, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("bass boost sample rate must be positive: %d", sampleRate)
	}

	cfg := bassBoostConfig{cutoff: defaultBassBoostCutoff, gainDB: defaultBassBoostGainDB}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	b := &BassBoost{sampleRate: sampleRate}
	b.cutoff = cfg.cutoff
	b.setGainDB(cfg.gainDB)
	b.updateAlpha()

	return b, nil
}

// Cutoff returns the low-pass corner frequency in Hz.
func (b *BassBoost) Cutoff() int { return b.cutoff }

// GainDB returns the boost gain in dB.
func (b *BassBoost) GainDB() int { return b.gainDB }

// SetCutoff changes the corner frequency.
func (b *BassBoost) SetCutoff(freq int) error {
	if freq < minBassBoostCutoff || freq > maxBassBoostCutoff {
		return fmt.Errorf("bass boost cutoff must be in [%d, %d] Hz: %d",
			minBassBoostCutoff, maxBassBoostCutoff, freq)
	}

	b.cutoff = freq
	b.updateAlpha()

	return nil
}

// SetGain changes the boost gain in whole dB.
func (b *BassBoost) SetGain(db int) error {
	if db < 0 || db > fixed.MaxGainDB {
		return fmt.Errorf("bass boost gain must be in [0, %d] dB: %d", fixed.MaxGainDB, db)
	}

	b.setGainDB(db)

	return nil
}

// SetSampleRate retunes the filter and clears its state.
func (b *BassBoost) SetSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("bass boost sample rate must be positive: %d", sampleRate)
	}

	b.sampleRate = sampleRate
	b.updateAlpha()
	b.Reset()

	return nil
}

func (b *BassBoost) setGainDB(db int) {
	b.gainDB = db
	b.boost = fixed.DBToLinear(db) - fixed.One
}

func (b *BassBoost) updateAlpha() {
	// RC discretization: alpha = w0 / (w0 + 1), w0 = 2*pi*fc/fs.
	w0 := fixed.Q16(int64(fixed.TwoPi) * int64(b.cutoff) / int64(b.sampleRate))
	b.alpha = fixed.Div(w0, w0+fixed.One)
}

// ProcessStereo boosts one sample pair.
func (b *BassBoost) ProcessStereo(l, r int16) (int16, int16) {
	return b.processChannel(&b.stateL, l), b.processChannel(&b.stateR, r)
}

func (b *BassBoost) processChannel(state *int32, in int16) int16 {
	*state += int32(int64(b.alpha) * (int64(in) - int64(*state)) >> 16)

	out := int64(in) + (int64(b.boost)*int64(*state))>>16

	return fixed.ClampSample64(out)
}

// Reset clears the low-pass state.
func (b *BassBoost) Reset() {
	b.stateL = 0
	b.stateR = 0
}
