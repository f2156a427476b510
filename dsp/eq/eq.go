package eq

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/biquad"
	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

// NumBands is the number of peaking sections.
const NumBands = 5

// defaultCenters are the band center frequencies in Hz.
var defaultCenters = [NumBands]int{60, 250, 1000, 4000, 12000}

// butterworthQ (1/sqrt(2)) gives maximally flat band edges.
const butterworthQ = fixed.Q16(46341)

const (
	minSampleRate = 8000
	maxSampleRate = 192000
)

// Band describes one peaking section's design parameters.
type Band struct {
	Frequency int
	GainDB    int
	Q         fixed.Q16
}

// Option mutates equalizer construction parameters.
type Option func(*config) error

type config struct {
	centers  [NumBands]int
	preampDB int
}

// WithBandFrequency overrides the center frequency of one band.
func WithBandFrequency(band, freq int) Option {
	return func(cfg *config) error {
		if band < 0 || band >= NumBands {
			return fmt.Errorf("eq: band index must be in [0, %d): %d", NumBands, band)
		}

		if freq <= 0 {
			return fmt.Errorf("eq: band frequency must be positive: %d", freq)
		}

		cfg.centers[band] = freq

		return nil
	}
}

// WithPreamp sets the initial pre-amplifier gain in dB.
func WithPreamp(db int) Option {
	return func(cfg *config) error {
		if db < fixed.MinGainDB || db > fixed.MaxGainDB {
			return fmt.Errorf("eq: preamp gain must be in [%d, %d] dB: %d",
				fixed.MinGainDB, fixed.MaxGainDB, db)
		}

		cfg.preampDB = db

		return nil
	}
}

// Equalizer is a five-band peaking EQ with a pre-amplifier gain. Bands
// whose center sits at or above Nyquist for the current rate are bypassed;
// their design is retained and reapplied when a later rate change brings
// them back below Nyquist. It is stereo, real-time safe, and not
// thread-safe.
type Equalizer struct {
	sampleRate int
	bands      [NumBands]Band
	sections   [NumBands]*biquad.Section
	active     [NumBands]bool
	preampDB   int
	preamp     fixed.Q16
}

// designBand returns section coefficients for b at sampleRate. Bands at or
// above Nyquist get identity coefficients and active=false.
func designBand(sampleRate int, b Band) (biquad.Coefficients, bool, error) {
	if b.Frequency >= sampleRate/2 {
		return biquad.Coefficients{B0: fixed.One}, false, nil
	}

	c, err := biquad.Peaking(sampleRate, b.Frequency, b.GainDB, b.Q)
	if err != nil {
		return biquad.Coefficients{}, false, err
	}

	return c, true, nil
}

// New creates an equalizer at the given sample rate with all bands flat.
func New(sampleRate int, opts ...Option) (*Equalizer, error) {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return nil, fmt.Errorf("eq: sample rate must be in [%d, %d]: %d",
			minSampleRate, maxSampleRate, sampleRate)
	}

	cfg := config{centers: defaultCenters}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Equalizer{
		sampleRate: sampleRate,
		preampDB:   cfg.preampDB,
		preamp:     fixed.DBToLinear(cfg.preampDB),
	}

	for i := range e.bands {
		e.bands[i] = Band{Frequency: cfg.centers[i], GainDB: 0, Q: butterworthQ}

		c, ok, err := designBand(sampleRate, e.bands[i])
		if err != nil {
			return nil, fmt.Errorf("eq: band %d: %w", i, err)
		}

		e.sections[i] = biquad.NewSection(c)
		e.active[i] = ok
	}

	return e, nil
}

// SampleRate returns the current design sample rate.
func (e *Equalizer) SampleRate() int { return e.sampleRate }

// Band returns the design parameters of band i.
func (e *Equalizer) Band(i int) (Band, error) {
	if i < 0 || i >= NumBands {
		return Band{}, fmt.Errorf("eq: band index must be in [0, %d): %d", NumBands, i)
	}
	return e.bands[i], nil
}

// BandActive reports whether band i is in the signal path at the current
// sample rate.
func (e *Equalizer) BandActive(i int) (bool, error) {
	if i < 0 || i >= NumBands {
		return false, fmt.Errorf("eq: band index must be in [0, %d): %d", NumBands, i)
	}
	return e.active[i], nil
}

// PreampDB returns the pre-amplifier gain in dB.
func (e *Equalizer) PreampDB() int { return e.preampDB }

// SetPreamp sets the pre-amplifier gain in dB.
func (e *Equalizer) SetPreamp(db int) error {
	if db < fixed.MinGainDB || db > fixed.MaxGainDB {
		return fmt.Errorf("eq: preamp gain must be in [%d, %d] dB: %d",
			fixed.MinGainDB, fixed.MaxGainDB, db)
	}

	e.preampDB = db
	e.preamp = fixed.DBToLinear(db)

	return nil
}

// SetBandGain redesigns band i for the given dB gain. Filter history is
// preserved so live adjustment stays click-free.
func (e *Equalizer) SetBandGain(i, gainDB int) error {
	if i < 0 || i >= NumBands {
		return fmt.Errorf("eq: band index must be in [0, %d): %d", NumBands, i)
	}

	if gainDB < fixed.MinGainDB || gainDB > fixed.MaxGainDB {
		return fmt.Errorf("eq: band gain must be in [%d, %d] dB: %d",
			fixed.MinGainDB, fixed.MaxGainDB, gainDB)
	}

	b := e.bands[i]
	b.GainDB = gainDB

	c, ok, err := designBand(e.sampleRate, b)
	if err != nil {
		return err
	}

	e.bands[i] = b
	e.active[i] = ok
	e.sections[i].SetCoefficients(c)

	return nil
}

// SetSampleRate redesigns every band for a new sample rate and clears all
// filter history, since history from another rate is meaningless. On error
// the equalizer is left exactly as it was; every band is designed before
// any section is touched.
func (e *Equalizer) SetSampleRate(sampleRate int) error {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return fmt.Errorf("eq: sample rate must be in [%d, %d]: %d",
			minSampleRate, maxSampleRate, sampleRate)
	}

	var (
		coeffs [NumBands]biquad.Coefficients
		active [NumBands]bool
	)

	for i := range e.bands {
		c, ok, err := designBand(sampleRate, e.bands[i])
		if err != nil {
			return fmt.Errorf("eq: band %d: %w", i, err)
		}

		coeffs[i], active[i] = c, ok
	}

	for i := range e.sections {
		e.sections[i].SetCoefficients(coeffs[i])
		e.sections[i].Reset()
	}

	e.active = active
	e.sampleRate = sampleRate

	return nil
}

// ProcessStereo runs one sample pair through the pre-amp and all five bands.
func (e *Equalizer) ProcessStereo(l, r int16) (int16, int16) {
	if e.preamp != fixed.One {
		l = fixed.ClampSample64(int64(e.preamp) * int64(l) >> 16)
		r = fixed.ClampSample64(int64(e.preamp) * int64(r) >> 16)
	}

	for i, s := range e.sections {
		if !e.active[i] {
			continue
		}

		l, r = s.ProcessStereo(l, r)
	}

	return l, r
}

// ProcessBuffer applies ProcessStereo to every interleaved pair in buf.
// A trailing odd sample is left untouched.
func (e *Equalizer) ProcessBuffer(buf []int16) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = e.ProcessStereo(buf[i], buf[i+1])
	}
}

// Reset clears all filter history without touching the design.
func (e *Equalizer) Reset() {
	for _, s := range e.sections {
		s.Reset()
	}
}
