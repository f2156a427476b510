package effects

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

const (
	defaultRampMs = 10

	minRampMs = 1
	maxRampMs = 1000

	maxVolume = 2 * fixed.One
)

// VolumeRampOption mutates volume ramp construction parameters.
type VolumeRampOption func(*volumeRampConfig) error

type volumeRampConfig struct {
	rampMs int
}

// WithRampTime sets the full-scale ramp time in milliseconds ([1, 1000]).
func WithRampTime(ms int) VolumeRampOption {
	return func(cfg *volumeRampConfig) error {
		if ms < minRampMs || ms > maxRampMs {
			return fmt.Errorf("volume ramp time must be in [%d, %d] ms: %d", minRampMs, maxRampMs, ms)
		}

		cfg.rampMs = ms

		return nil
	}
}

// VolumeRamp applies a gain that slews linearly toward its target instead of
// jumping, so volume changes, mute, and unmute stay click-free. The current
// gain moves by at most one step per processed sample and never overshoots
// the target.
type VolumeRamp struct {
	sampleRate int
	rampMs     int

	current fixed.Q16
	target  fixed.Q16
	step    fixed.Q16
}

// NewVolumeRamp creates a ramp at unity gain with a ~10 ms full-scale slew.
func NewVolumeRamp(sampleRate int, opts ...VolumeRampOption) (*VolumeRamp, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("volume ramp sample rate must be positive: %d", sampleRate)
	}

	cfg := volumeRampConfig{rampMs: defaultRampMs}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	v := &VolumeRamp{
		sampleRate: sampleRate,
		rampMs:     cfg.rampMs,
		current:    fixed.One,
		target:     fixed.One,
	}
	v.updateStep()

	return v, nil
}

func (v *VolumeRamp) updateStep() {
	samples := v.sampleRate * v.rampMs / 1000
	if samples < 1 {
		samples = 1
	}

	v.step = fixed.One / fixed.Q16(samples)
	if v.step < 1 {
		v.step = 1
	}
}

// Current returns the gain applied to the next sample.
func (v *VolumeRamp) Current() fixed.Q16 { return v.current }

// Target returns the gain the ramp is slewing toward.
func (v *VolumeRamp) Target() fixed.Q16 { return v.target }

// IsRamping reports whether a gain transition is still in flight.
func (v *VolumeRamp) IsRamping() bool { return v.current != v.target }

// SetTarget starts a ramp toward the given gain in [0, 2*One].
func (v *VolumeRamp) SetTarget(gain fixed.Q16) error {
	if gain < 0 || gain > maxVolume {
		return fmt.Errorf("volume target must be in [0, %d]: %d", maxVolume, gain)
	}

	v.target = gain

	return nil
}

// SetImmediate jumps both current and target to the given gain. Only for
// initialization; audible clicks are the caller's problem.
func (v *VolumeRamp) SetImmediate(gain fixed.Q16) error {
	if gain < 0 || gain > maxVolume {
		return fmt.Errorf("volume target must be in [0, %d]: %d", maxVolume, gain)
	}

	v.current = gain
	v.target = gain

	return nil
}

// SetSampleRate rescales the per-sample step for a new rate.
func (v *VolumeRamp) SetSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("volume ramp sample rate must be positive: %d", sampleRate)
	}

	v.sampleRate = sampleRate
	v.updateStep()

	return nil
}

// ProcessStereo advances the ramp one step and applies the gain to the pair.
func (v *VolumeRamp) ProcessStereo(l, r int16) (int16, int16) {
	if v.current != v.target {
		if v.current < v.target {
			v.current += v.step
			if v.current > v.target {
				v.current = v.target
			}
		} else {
			v.current -= v.step
			if v.current < v.target {
				v.current = v.target
			}
		}
	}

	if v.current == fixed.One {
		return l, r
	}

	outL := int64(v.current) * int64(l) >> 16
	outR := int64(v.current) * int64(r) >> 16

	return fixed.ClampSample64(outL), fixed.ClampSample64(outR)
}
