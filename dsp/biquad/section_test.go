package biquad

import (
	"math"
	"testing"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

// butterworthQ is 1/sqrt(2) in Q16.16.
const butterworthQ = fixed.Q16(46341)

func sineI16(freqHz, sampleRate float64, amplitude int16, length int) []int16 {
	out := make([]int16, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = int16(float64(amplitude) * math.Sin(step*float64(i)))
	}
	return out
}

func peakAbs(buf []int16) int {
	peak := 0
	for _, v := range buf {
		a := int(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

func TestIdentityPassThrough(t *testing.T) {
	s := NewSection(Identity())

	in := sineI16(997, 44100, 12000, 512)
	for i, v := range in {
		l, r := s.ProcessStereo(v, -v)
		if l != v || r != -v {
			t.Fatalf("sample %d: identity returned (%d, %d), want (%d, %d)", i, l, r, v, -v)
		}
	}
}

func TestPeakingFlatGainIsTransparent(t *testing.T) {
	c, err := Peaking(44100, 1000, 0, butterworthQ)
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)

	in := sineI16(1000, 44100, 16000, 1024)
	for i, v := range in {
		l, _ := s.ProcessStereo(v, v)
		if d := int(l) - int(v); d < -10 || d > 10 {
			t.Fatalf("sample %d: flat section moved %d -> %d", i, v, l)
		}
	}
}

func TestPeakingBoostRaisesCenterFrequency(t *testing.T) {
	c, err := Peaking(44100, 1000, 6, butterworthQ)
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)

	in := sineI16(1000, 44100, 8000, 4096)
	out := make([]int16, len(in))
	for i, v := range in {
		out[i], _ = s.ProcessStereo(v, v)
	}

	// Skip the transient, then compare steady-state peaks.
	inPeak := peakAbs(in[1024:])
	outPeak := peakAbs(out[1024:])

	ratio := float64(outPeak) / float64(inPeak)
	if ratio < 1.7 || ratio > 2.3 {
		t.Fatalf("+6 dB boost at center gave ratio %.3f, want ~2.0", ratio)
	}
}

func TestPeakingCutLowersCenterFrequency(t *testing.T) {
	c, err := Peaking(44100, 1000, -6, butterworthQ)
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)

	in := sineI16(1000, 44100, 16000, 4096)
	out := make([]int16, len(in))
	for i, v := range in {
		out[i], _ = s.ProcessStereo(v, v)
	}

	ratio := float64(peakAbs(out[1024:])) / float64(peakAbs(in[1024:]))
	if ratio < 0.4 || ratio > 0.6 {
		t.Fatalf("-6 dB cut at center gave ratio %.3f, want ~0.5", ratio)
	}
}

func TestPeakingBoostLeavesDistantFrequencyAlone(t *testing.T) {
	c, err := Peaking(44100, 8000, 12, butterworthQ)
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)

	// 100 Hz is far below the 8 kHz band; the peaking response is near
	// unity there.
	in := sineI16(100, 44100, 8000, 8192)
	out := make([]int16, len(in))
	for i, v := range in {
		out[i], _ = s.ProcessStereo(v, v)
	}

	ratio := float64(peakAbs(out[4096:])) / float64(peakAbs(in[4096:]))
	if ratio < 0.9 || ratio > 1.15 {
		t.Fatalf("distant frequency ratio %.3f, want ~1.0", ratio)
	}
}

func TestPeakingValidation(t *testing.T) {
	if _, err := Peaking(100, 1000, 0, butterworthQ); err == nil {
		t.Error("expected error for tiny sample rate")
	}

	if _, err := Peaking(44100, 30000, 0, butterworthQ); err == nil {
		t.Error("expected error for frequency above Nyquist")
	}

	if _, err := Peaking(44100, 1000, 0, 0); err == nil {
		t.Error("expected error for zero Q")
	}
}

func TestReset(t *testing.T) {
	c, err := Peaking(44100, 1000, 6, butterworthQ)
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)
	s.ProcessStereo(10000, -10000)
	s.ProcessStereo(-5000, 5000)
	s.Reset()

	if s.left != (channelState{}) || s.right != (channelState{}) {
		t.Fatal("Reset did not clear history")
	}
}

func TestHistoryClampStopsOverflow(t *testing.T) {
	c, err := Peaking(44100, 1000, 12, fixed.FromFloat(8))
	if err != nil {
		t.Fatalf("Peaking() error = %v", err)
	}

	s := NewSection(c)

	// Full-scale square wave at the band center is the worst case for
	// internal growth; outputs must stay inside int16.
	period := 44100 / 1000
	for i := 0; i < 10000; i++ {
		v := int16(32767)
		if (i/(period/2))%2 == 1 {
			v = -32768
		}
		s.ProcessStereo(v, v)
	}
}

func BenchmarkSectionProcessStereo(b *testing.B) {
	c, _ := Peaking(44100, 1000, 6, butterworthQ)
	s := NewSection(c)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ProcessStereo(12345, -12345)
	}
}
