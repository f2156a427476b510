package meter

import (
	"testing"

	"github.com/Davidslv/zigpod-sub002/internal/testutil"
)

func pushSine(m *Meter, freqHz, sampleRate int, amplitude int16, frames int) {
	m.PushStereo(testutil.StereoSine(freqHz, sampleRate, amplitude, frames))
}

func TestSilenceReportsFloor(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.PushStereo(make([]int16, 4096))

	if db := m.PeakDB(); db != -120 {
		t.Errorf("PeakDB() = %.1f, want -120", db)
	}

	if db := m.RMSDB(); db != -120 {
		t.Errorf("RMSDB() = %.1f, want -120", db)
	}
}

func TestFullScalePeak(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.PushStereo([]int16{32767, 32767, 0, 0})

	if db := m.PeakDB(); db < -0.1 || db > 0.1 {
		t.Errorf("full-scale PeakDB() = %.2f, want ~0", db)
	}
}

func TestSineRMS(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Full-scale sine has RMS 1/sqrt(2) = -3.01 dBFS.
	pushSine(m, 1000, 48000, 32000, 48000)

	if db := m.RMSDB(); db < -3.6 || db > -2.6 {
		t.Errorf("sine RMSDB() = %.2f, want ~-3.2", db)
	}
}

func TestSpectrumPeaksAtToneBin(t *testing.T) {
	m, err := New(WithFFTSize(2048))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const (
		sampleRate = 48000.0
		toneHz     = 3000.0
	)

	pushSine(m, toneHz, sampleRate, 24000, 4096)

	bins := make([]float64, 2048/2+1)
	if err := m.SpectrumDB(bins); err != nil {
		t.Fatalf("SpectrumDB() error = %v", err)
	}

	best := 0
	for i, v := range bins {
		if v > bins[best] {
			best = i
		}
	}

	wantBinF := toneHz/sampleRate*2048 + 0.5
	wantBin := int(wantBinF)
	if diff := best - wantBin; diff < -2 || diff > 2 {
		t.Fatalf("spectrum peak at bin %d, want ~%d", best, wantBin)
	}
}

func TestSpectrumNeedsFullWindow(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.PushStereo(make([]int16, 100))

	if err := m.SpectrumDB(make([]float64, 2048/2+1)); err == nil {
		t.Fatal("expected error before a full window is buffered")
	}
}

func TestSpectrumSizeValidation(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.SpectrumDB(make([]float64, 3)); err == nil {
		t.Fatal("expected error for wrong bin count")
	}

	if _, err := New(WithFFTSize(1000)); err == nil {
		t.Fatal("expected error for non-power-of-two FFT size")
	}
}

func TestResetClears(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.PushStereo([]int16{20000, 20000})
	m.Reset()

	if db := m.PeakDB(); db != -120 {
		t.Errorf("PeakDB() after Reset = %.1f, want -120", db)
	}
}
