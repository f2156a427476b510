// Package chain wires the playback DSP stages into the fixed processing
// order: volume ramp, bass boost, equalizer, stereo widener.
//
// The order is load-bearing. Volume runs first so downstream stages never
// amplify already-clipped input; the widener runs last so it operates on the
// fully equalized, bass-boosted signal. Each stage can be enabled and
// disabled independently; a disabled stage is a pass-through.
package chain

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/effects"
	"github.com/Davidslv/zigpod-sub002/dsp/eq"
	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

// Option mutates chain construction parameters.
type Option func(*config) error

type config struct {
	bassEnabled    bool
	eqEnabled      bool
	widenerEnabled bool
	width          fixed.Q16
}

// WithBassBoostEnabled enables the bass boost stage at construction.
func WithBassBoostEnabled() Option {
	return func(cfg *config) error {
		cfg.bassEnabled = true
		return nil
	}
}

// WithEqualizerEnabled enables the equalizer stage at construction.
func WithEqualizerEnabled() Option {
	return func(cfg *config) error {
		cfg.eqEnabled = true
		return nil
	}
}

// WithWidener enables the stereo widener at the given width.
func WithWidener(width fixed.Q16) Option {
	return func(cfg *config) error {
		if width < 0 || width > 2*fixed.One {
			return fmt.Errorf("chain: widener width must be in [0, %d]: %d", 2*fixed.One, width)
		}

		cfg.widenerEnabled = true
		cfg.width = width

		return nil
	}
}

// Chain owns the four playback DSP stages and their enable flags.
// It is real-time safe and not thread-safe.
type Chain struct {
	sampleRate int

	volume  *effects.VolumeRamp
	bass    *effects.BassBoost
	equal   *eq.Equalizer
	widener *effects.StereoWidener

	volumeEnabled  bool
	bassEnabled    bool
	eqEnabled      bool
	widenerEnabled bool
}

// New creates a chain at the given sample rate. The volume ramp starts
// enabled at unity; bass boost, EQ, and widener start disabled unless an
// option turns them on.
func New(sampleRate int, opts ...Option) (*Chain, error) {
	cfg := config{width: fixed.One}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	volume, err := effects.NewVolumeRamp(sampleRate)
	if err != nil {
		return nil, err
	}

	bass, err := effects.NewBassBoost(sampleRate)
	if err != nil {
		return nil, err
	}

	equal, err := eq.New(sampleRate)
	if err != nil {
		return nil, err
	}

	widener, err := effects.NewStereoWidener(cfg.width)
	if err != nil {
		return nil, err
	}

	return &Chain{
		sampleRate:     sampleRate,
		volume:         volume,
		bass:           bass,
		equal:          equal,
		widener:        widener,
		volumeEnabled:  true,
		bassEnabled:    cfg.bassEnabled,
		eqEnabled:      cfg.eqEnabled,
		widenerEnabled: cfg.widenerEnabled,
	}, nil
}

// SampleRate returns the chain's current sample rate.
func (c *Chain) SampleRate() int { return c.sampleRate }

// Volume exposes the volume ramp stage.
func (c *Chain) Volume() *effects.VolumeRamp { return c.volume }

// BassBoost exposes the bass boost stage.
func (c *Chain) BassBoost() *effects.BassBoost { return c.bass }

// Equalizer exposes the equalizer stage.
func (c *Chain) Equalizer() *eq.Equalizer { return c.equal }

// Widener exposes the stereo widener stage.
func (c *Chain) Widener() *effects.StereoWidener { return c.widener }

// SetVolumeEnabled toggles the volume stage.
func (c *Chain) SetVolumeEnabled(on bool) { c.volumeEnabled = on }

// SetBassBoostEnabled toggles the bass boost stage.
func (c *Chain) SetBassBoostEnabled(on bool) { c.bassEnabled = on }

// SetEqualizerEnabled toggles the equalizer stage.
func (c *Chain) SetEqualizerEnabled(on bool) { c.eqEnabled = on }

// SetWidenerEnabled toggles the stereo widener stage.
func (c *Chain) SetWidenerEnabled(on bool) { c.widenerEnabled = on }

// SetSampleRate retunes every stage for a new rate and clears filter state.
func (c *Chain) SetSampleRate(sampleRate int) error {
	if err := c.volume.SetSampleRate(sampleRate); err != nil {
		return err
	}

	if err := c.bass.SetSampleRate(sampleRate); err != nil {
		return err
	}

	if err := c.equal.SetSampleRate(sampleRate); err != nil {
		return err
	}

	c.sampleRate = sampleRate

	return nil
}

// ProcessStereo runs one sample pair through the enabled stages in order.
func (c *Chain) ProcessStereo(l, r int16) (int16, int16) {
	if c.volumeEnabled {
		l, r = c.volume.ProcessStereo(l, r)
	}

	if c.bassEnabled {
		l, r = c.bass.ProcessStereo(l, r)
	}

	if c.eqEnabled {
		l, r = c.equal.ProcessStereo(l, r)
	}

	if c.widenerEnabled {
		l, r = c.widener.ProcessStereo(l, r)
	}

	return l, r
}

// ProcessBuffer applies ProcessStereo to every interleaved pair in buf.
// A trailing odd sample is left untouched.
func (c *Chain) ProcessBuffer(buf []int16) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = c.ProcessStereo(buf[i], buf[i+1])
	}
}

// Reset clears all stage state (filter history, bass state) without
// touching configuration or the volume ramp position.
func (c *Chain) Reset() {
	c.bass.Reset()
	c.equal.Reset()
}
