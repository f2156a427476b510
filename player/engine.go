package player

import (
	"errors"
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/chain"
	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

var (
	// ErrDeviceNotReady indicates the hardware transport is missing or not
	// initialized. Recoverable by re-initializing and starting again.
	ErrDeviceNotReady = errors.New("player: device not ready")
	// ErrNotPlaying indicates an operation that needs an active track.
	ErrNotPlaying = errors.New("player: not playing")
	// ErrSeekOutOfRange indicates a seek past the end of the track.
	ErrSeekOutOfRange = errors.New("player: seek out of range")
)

const (
	defaultRingCapacity = 32768 // interleaved samples, ~0.37 s at 44.1 kHz
	defaultChunk        = 2048

	// Prebuffer defaults by medium when the hint provider gives no figure:
	// rotating media need far more lead time than flash.
	defaultPrebufferMs = 500
	flashPrebufferMs   = 150
	diskPrebufferMs    = 1000
)

// EngineStats are cumulative diagnostics for one engine instance.
type EngineStats struct {
	Underruns    uint32
	Transitions  uint32
	FramesPlayed uint64
}

// EngineOption mutates engine construction parameters.
type EngineOption func(*engineConfig) error

type engineConfig struct {
	ringCapacity int
	hints        StorageHints
	requestNext  NextTrackFunc
	chainOpts    []chain.Option
}

// WithRingCapacity sets each slot's ring size in interleaved samples
// (must be an even value >= 1024).
func WithRingCapacity(samples int) EngineOption {
	return func(cfg *engineConfig) error {
		if samples < 1024 || samples%2 != 0 {
			return fmt.Errorf("player: ring capacity must be an even value >= 1024: %d", samples)
		}

		cfg.ringCapacity = samples

		return nil
	}
}

// WithStorageHints attaches a storage latency hint provider.
func WithStorageHints(h StorageHints) EngineOption {
	return func(cfg *engineConfig) error {
		cfg.hints = h
		return nil
	}
}

// WithNextTrackFunc sets the callback fired once per transition window when
// the active track approaches its end.
func WithNextTrackFunc(fn NextTrackFunc) EngineOption {
	return func(cfg *engineConfig) error {
		cfg.requestNext = fn
		return nil
	}
}

// WithChainOptions forwards options to the engine's DSP chain.
func WithChainOptions(opts ...chain.Option) EngineOption {
	return func(cfg *engineConfig) error {
		cfg.chainOpts = opts
		return nil
	}
}

// Engine is the dual-slot gapless playback engine. It owns two decoder
// slots, decides when to request the next track, drains processed samples to
// the hardware transport, and performs the active-slot handoff when the
// current track runs out. Single-threaded; every method must be called from
// the same goroutine as Tick.
type Engine struct {
	transport Transport
	hints     StorageHints
	request   NextTrackFunc

	chain      *chain.Chain
	sampleRate int

	slots  [2]decoderSlot
	active int

	playing       bool
	paused        bool
	nextRequested bool
	resumeVolume  fixed.Q16

	decodeBuf []int16
	drainBuf  []int16
	pendStart int
	pendEnd   int

	stats EngineStats
}

// NewEngine creates an engine bound to the given transport. The transport
// may be nil; Start then reports ErrDeviceNotReady until one is attached.
func NewEngine(transport Transport, opts ...EngineOption) (*Engine, error) {
	cfg := engineConfig{ringCapacity: defaultRingCapacity}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	ch, err := chain.New(44100, cfg.chainOpts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		transport:    transport,
		hints:        cfg.hints,
		request:      cfg.requestNext,
		chain:        ch,
		sampleRate:   44100,
		decodeBuf:    make([]int16, defaultChunk),
		drainBuf:     make([]int16, defaultChunk),
		resumeVolume: fixed.One,
	}
	e.slots[0].ring = newSampleRing(cfg.ringCapacity)
	e.slots[1].ring = newSampleRing(cfg.ringCapacity)

	return e, nil
}

// SetTransport attaches or replaces the hardware transport. Only valid
// while stopped.
func (e *Engine) SetTransport(t Transport) error {
	if e.playing {
		return errors.New("player: cannot swap transport while playing")
	}

	e.transport = t

	return nil
}

// Chain exposes the engine's DSP chain for volume and EQ control.
func (e *Engine) Chain() *chain.Chain { return e.chain }

// Playing reports whether a track is loaded and not stopped.
func (e *Engine) Playing() bool { return e.playing }

// Paused reports whether playback is paused.
func (e *Engine) Paused() bool { return e.paused }

// Stats returns a copy of the cumulative counters.
func (e *Engine) Stats() EngineStats { return e.stats }

// TrackInfo returns the active slot's track info.
func (e *Engine) TrackInfo() (TrackInfo, error) {
	if !e.playing {
		return TrackInfo{}, ErrNotPlaying
	}

	return e.slots[e.active].info, nil
}

// Start resets both slots, loads dec into slot 0 as the active track,
// prefills its ring, and configures the transport for the track's rate.
func (e *Engine) Start(dec Decoder) error {
	if e.transport == nil {
		return ErrDeviceNotReady
	}

	info := dec.TrackInfo()
	if info.SampleRate <= 0 {
		return fmt.Errorf("player: track sample rate must be positive: %d", info.SampleRate)
	}

	if err := e.transport.SetSampleRate(info.SampleRate); err != nil {
		return fmt.Errorf("player: configure transport: %w", err)
	}

	if err := e.chain.SetSampleRate(info.SampleRate); err != nil {
		return err
	}

	e.slots[0].reset()
	e.slots[1].reset()
	e.active = 0
	e.sampleRate = info.SampleRate

	s := &e.slots[0]
	s.load(dec)
	s.refill(e.decodeBuf)
	s.state = SlotActive

	e.playing = true
	e.paused = false
	e.nextRequested = false
	e.pendStart, e.pendEnd = 0, 0

	return nil
}

// QueueNext loads dec into the inactive slot if that slot is Empty or
// Ready. Any other state means a transition is in flight and the request is
// silently ignored; that is the backpressure keeping a handoff from being
// clobbered.
func (e *Engine) QueueNext(dec Decoder) {
	next := &e.slots[1-e.active]
	if next.state != SlotEmpty && next.state != SlotReady {
		return
	}

	next.reset()
	next.load(dec)
	next.refill(e.decodeBuf)
	next.state = SlotReady
}

// Tick runs one processing cycle: refill the active ring, check the
// prebuffer threshold and fire the next-track request, drain processed
// samples to the transport, and attempt a gapless transition when the
// active track is fully played out. Hardware errors propagate; underruns
// are counted, not returned.
func (e *Engine) Tick() error {
	if !e.playing {
		return nil
	}

	a := &e.slots[e.active]
	a.refill(e.decodeBuf)

	e.maybeRequestNext(a)

	if !e.paused || e.chain.Volume().IsRamping() {
		if err := e.drain(a); err != nil {
			return err
		}
	}

	if a.exhausted && a.ring.Len() == 0 && e.pendStart == e.pendEnd {
		return e.transition()
	}

	return nil
}

// maybeRequestNext fires the next-track callback exactly once per
// transition window, when the active track's remaining frames drop below
// the storage-aware prebuffer threshold.
func (e *Engine) maybeRequestNext(a *decoderSlot) {
	if e.request == nil || e.nextRequested || a.info.TotalSamples == 0 {
		return
	}

	if a.remaining() < e.prebufferFrames(a.info.SampleRate) {
		e.nextRequested = true
		e.request()
	}
}

// prebufferFrames converts the storage hint into a frame threshold at the
// given rate.
func (e *Engine) prebufferFrames(rate int) uint64 {
	ms := uint32(defaultPrebufferMs)

	if e.hints != nil {
		ms = e.hints.RecommendedPrebufferMs()
		if ms == 0 {
			if e.hints.IsFlash() {
				ms = flashPrebufferMs
			} else {
				ms = diskPrebufferMs
			}
		}
	}

	return uint64(rate) * uint64(ms) / 1000
}

// drain moves samples ring -> DSP chain -> transport while the transport
// has space. A partially accepted write is parked in drainBuf and finished
// on the next call before new samples are popped.
func (e *Engine) drain(a *decoderSlot) error {
	for e.transport.TxReady() {
		if e.pendEnd > e.pendStart {
			n, err := e.transport.Write(e.drainBuf[e.pendStart:e.pendEnd])
			if err != nil {
				return fmt.Errorf("player: transport write: %w", err)
			}

			if n == 0 {
				return nil
			}

			e.pendStart += n

			continue
		}

		if a.ring.Len() < 2 {
			if a.state == SlotActive && a.ring.Len() == 0 {
				e.stats.Underruns++
			}

			return nil
		}

		n := a.ring.pop(e.drainBuf)
		n -= n % 2

		e.chain.ProcessBuffer(e.drainBuf[:n])

		e.pendStart, e.pendEnd = 0, n
		a.position += uint64(n / 2)
		e.stats.FramesPlayed += uint64(n / 2)
	}

	return nil
}

// transition performs the gapless handoff. If the inactive slot is Ready it
// becomes Active, reconfiguring the hardware rate only when it differs (the
// single point where a brief gap is unavoidable). Otherwise playback stops
// and both slots end Empty.
func (e *Engine) transition() error {
	a := &e.slots[e.active]

	next := &e.slots[1-e.active]
	if next.state != SlotReady {
		a.reset()
		e.playing = false

		return nil
	}

	if next.info.SampleRate != e.sampleRate {
		if err := e.transport.SetSampleRate(next.info.SampleRate); err != nil {
			// Abort rather than play at the wrong rate.
			a.reset()
			next.reset()
			e.playing = false

			return fmt.Errorf("player: rate change on transition: %w", err)
		}

		if err := e.chain.SetSampleRate(next.info.SampleRate); err != nil {
			// Same clean stop as a transport rejection. The transport is
			// already at the new rate, but with both slots cleared nothing
			// plays through the mismatched chain.
			a.reset()
			next.reset()
			e.playing = false

			return fmt.Errorf("player: rate change on transition: %w", err)
		}

		e.sampleRate = next.info.SampleRate
	}

	a.reset()
	next.state = SlotActive
	e.active = 1 - e.active
	e.nextRequested = false
	e.stats.Transitions++

	return nil
}

// Seek repositions the active track to the given frame. The ring is
// cleared, filter history is reset, and the in-flight next-track request
// flag is suppressed since position-based thresholds are invalid after a
// jump. The decoder itself must be repositioned by its owner.
func (e *Engine) Seek(frame uint64) error {
	if !e.playing {
		return ErrNotPlaying
	}

	a := &e.slots[e.active]
	if a.info.TotalSamples > 0 && frame > a.info.TotalSamples {
		return fmt.Errorf("%w: frame %d of %d", ErrSeekOutOfRange, frame, a.info.TotalSamples)
	}

	a.ring.reset()
	a.position = frame
	a.exhausted = false

	if a.state == SlotFinishing {
		a.state = SlotActive
	}

	e.pendStart, e.pendEnd = 0, 0
	e.nextRequested = false
	e.chain.Reset()

	return nil
}

// Pause ramps the volume to silence; draining continues until the ramp
// settles so the mute stays click-free.
func (e *Engine) Pause() {
	if !e.playing || e.paused {
		return
	}

	e.paused = true
	e.resumeVolume = e.chain.Volume().Target()
	_ = e.chain.Volume().SetTarget(0)
}

// Resume restores the pre-pause volume and continues draining.
func (e *Engine) Resume() {
	if !e.playing || !e.paused {
		return
	}

	e.paused = false
	_ = e.chain.Volume().SetTarget(e.resumeVolume)
}

// Stop resets both slots unconditionally. This is the only cancellation
// primitive; there is no partial cancel of an in-flight transition.
func (e *Engine) Stop() {
	e.slots[0].reset()
	e.slots[1].reset()
	e.playing = false
	e.paused = false
	e.nextRequested = false
	e.pendStart, e.pendEnd = 0, 0
}
