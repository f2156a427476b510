package player

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/chain"
	"github.com/Davidslv/zigpod-sub002/dsp/dither"
	"github.com/Davidslv/zigpod-sub002/dsp/resample"
	"github.com/Davidslv/zigpod-sub002/measure/meter"
)

// Stats are cumulative pipeline diagnostics, useful for debugging and
// adaptive buffer sizing.
type Stats struct {
	SamplesDecoded uint64
	SamplesOutput  uint64
	Underruns      uint32
	Overruns       uint32

	ResamplerActive bool
	DitherActive    bool
}

// PipelineOption mutates pipeline construction parameters.
type PipelineOption func(*pipelineConfig) error

type pipelineConfig struct {
	outputRate int
	meter      *meter.Meter
	chainOpts  []chain.Option
}

// WithOutputRate sets the pipeline's output sample rate (default 44100).
func WithOutputRate(rate int) PipelineOption {
	return func(cfg *pipelineConfig) error {
		if rate <= 0 {
			return fmt.Errorf("player: output rate must be positive: %d", rate)
		}

		cfg.outputRate = rate

		return nil
	}
}

// WithMeter attaches a level/spectrum meter to the pipeline's output tap.
func WithMeter(m *meter.Meter) PipelineOption {
	return func(cfg *pipelineConfig) error {
		cfg.meter = m
		return nil
	}
}

// WithPipelineChainOptions forwards options to the pipeline's DSP chain.
func WithPipelineChainOptions(opts ...chain.Option) PipelineOption {
	return func(cfg *pipelineConfig) error {
		cfg.chainOpts = opts
		return nil
	}
}

// Pipeline is the single-track orchestrator: decode, resample when the
// source rate differs from the output rate, dither when the source carries
// more than 16 bits, then run the DSP chain into a caller-supplied buffer.
// Not thread-safe.
type Pipeline struct {
	dec   Decoder
	dec32 Decoder32 // non-nil when the >16-bit path is in use
	info  TrackInfo

	res   *resample.Resampler
	dith  *dither.Ditherer
	chain *chain.Chain
	meter *meter.Meter

	active bool

	work      []int16
	work32    []int32
	pendStart int
	pendEnd   int

	stats Stats
}

// NewPipeline selects the decoder registered for the format tag, pulls its
// TrackInfo, and configures the resampler (enabled only if rates differ)
// and the ditherer (enabled only if the source bit depth exceeds 16).
func NewPipeline(data []byte, format string, opts ...PipelineOption) (*Pipeline, error) {
	cfg := pipelineConfig{outputRate: 44100}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	dec, err := OpenFormat(format, data)
	if err != nil {
		return nil, err
	}

	info := dec.TrackInfo()

	res, err := resample.New(info.SampleRate, cfg.outputRate)
	if err != nil {
		return nil, err
	}

	ch, err := chain.New(cfg.outputRate, cfg.chainOpts...)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		dec:    dec,
		info:   info,
		res:    res,
		chain:  ch,
		meter:  cfg.meter,
		active: true,
		work:   make([]int16, defaultChunk),
	}

	if info.BitsPerSample > 16 {
		if d32, ok := dec.(Decoder32); ok {
			dith, err := dither.New(dither.WithMode(dither.ModeNoiseShaped))
			if err != nil {
				return nil, err
			}

			p.dec32 = d32
			p.dith = dith
			p.work32 = make([]int32, defaultChunk)
		}
	}

	p.stats.ResamplerActive = !res.Bypassed()
	p.stats.DitherActive = p.dith != nil

	return p, nil
}

// TrackInfo returns the source track's info.
func (p *Pipeline) TrackInfo() TrackInfo { return p.info }

// Active reports whether the source still has samples to deliver.
func (p *Pipeline) Active() bool { return p.active }

// Stats returns a copy of the cumulative counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// Chain exposes the pipeline's DSP chain for volume and EQ control.
func (p *Pipeline) Chain() *chain.Chain { return p.chain }

// Process fills out with processed samples, repeating decode/resample until
// out is full or the source is exhausted, at which point the pipeline
// deactivates. Returns the interleaved sample count written.
func (p *Pipeline) Process(out []int16) int {
	if !p.active {
		return 0
	}

	written := 0

	for written+2 <= len(out) {
		if p.pendStart >= p.pendEnd {
			n := p.decodeChunk()
			if n == 0 {
				if written == 0 {
					// The caller asked for samples and got none at all.
					p.stats.Underruns++
				}

				p.active = false

				break
			}

			p.pendStart, p.pendEnd = 0, n
			p.stats.SamplesDecoded += uint64(n)
		}

		consumed, produced := p.res.Process(out[written:], p.work[p.pendStart:p.pendEnd])
		p.pendStart += consumed
		written += produced

		if consumed == 0 && produced == 0 {
			if p.pendEnd-p.pendStart < 2 {
				// Drop an odd tail; it can never form a frame.
				p.pendStart = p.pendEnd
				continue
			}

			break
		}
	}

	if p.pendEnd > p.pendStart && written >= len(out)-1 {
		// Decoded data is left waiting on the caller; the consumer fell
		// behind the producer this cycle.
		p.stats.Overruns++
	}

	p.chain.ProcessBuffer(out[:written])

	if p.meter != nil {
		p.meter.PushStereo(out[:written])
	}

	p.stats.SamplesOutput += uint64(written)

	return written
}

// decodeChunk pulls the next block from the decoder into work, folding
// high-depth sources through the ditherer.
func (p *Pipeline) decodeChunk() int {
	if p.dec32 != nil {
		n := p.dec32.Decode32(p.work32)
		n -= n % 2

		for i := 0; i+1 < n; i += 2 {
			p.work[i], p.work[i+1] = p.dith.ProcessStereo(p.work32[i], p.work32[i+1])
		}

		return n
	}

	n := p.dec.Decode(p.work)

	return n - n%2
}
