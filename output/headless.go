package output

// Headless is a transport that discards samples while tracking throughput.
// It stands in for Device in tests and on machines without audio hardware.
type Headless struct {
	perCycle int
	budget   int

	rate           int
	samplesWritten uint64
	rateChanges    int
}

// NewHeadless creates a sink that accepts up to perCycle interleaved
// samples between Replenish calls, modeling finite device throughput.
// perCycle <= 0 means unlimited.
func NewHeadless(perCycle int) *Headless {
	return &Headless{perCycle: perCycle, budget: perCycle}
}

// Replenish restores the per-cycle write budget. Call once per engine tick.
func (h *Headless) Replenish() { h.budget = h.perCycle }

// TxReady reports whether budget remains this cycle.
func (h *Headless) TxReady() bool { return h.perCycle <= 0 || h.budget > 0 }

// Write discards the samples and returns the count accepted under the
// current budget.
func (h *Headless) Write(samples []int16) (int, error) {
	n := len(samples)

	if h.perCycle > 0 {
		if n > h.budget {
			n = h.budget
		}

		h.budget -= n
	}

	h.samplesWritten += uint64(n)

	return n, nil
}

// SetSampleRate records the requested rate; the sink accepts any.
func (h *Headless) SetSampleRate(rate int) error {
	h.rate = rate
	h.rateChanges++

	return nil
}

// Rate returns the last configured sample rate.
func (h *Headless) Rate() int { return h.rate }

// SamplesWritten returns the total interleaved samples accepted.
func (h *Headless) SamplesWritten() uint64 { return h.samplesWritten }

// RateChanges returns how many times SetSampleRate was called.
func (h *Headless) RateChanges() int { return h.rateChanges }
