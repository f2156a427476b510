package output

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// ErrRateFixed is returned when a sample rate change is requested after the
// device context is created; oto fixes the rate per process.
var ErrRateFixed = errors.New("output: device sample rate is fixed")

const (
	defaultDeviceBuffer = 16384 // interleaved samples, ~0.19 s at 44.1 kHz
	minWriteSpace       = 2048
)

// Device is an oto v3 backed transport. Writes land in an internal ring
// that the audio callback drains; the callback zero-fills when the ring
// runs dry so the device never starves.
type Device struct {
	mu sync.Mutex

	ctx    *oto.Context
	player *oto.Player
	rate   int

	ring []int16
	head int
	tail int
	size int
}

// NewDevice opens the audio device at the given sample rate (16-bit stereo)
// and starts the playback callback.
func NewDevice(sampleRate int) (*Device, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("output: sample rate must be positive: %d", sampleRate)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("output: open device: %w", err)
	}
	<-ready

	d := &Device{
		ctx:  ctx,
		rate: sampleRate,
		ring: make([]int16, defaultDeviceBuffer),
	}

	d.player = ctx.NewPlayer(d)
	d.player.Play()

	return d, nil
}

// Rate returns the device sample rate in Hz.
func (d *Device) Rate() int { return d.rate }

// TxReady reports whether the ring has room for another engine chunk.
func (d *Device) TxReady() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.ring)-d.size >= minWriteSpace
}

// Write queues interleaved samples for the audio callback and returns the
// count accepted.
func (d *Device) Write(samples []int16) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(samples)
	if free := len(d.ring) - d.size; n > free {
		n = free
	}

	for i := 0; i < n; i++ {
		d.ring[d.tail] = samples[i]

		d.tail++
		if d.tail == len(d.ring) {
			d.tail = 0
		}
	}

	d.size += n

	return n, nil
}

// SetSampleRate accepts the rate the device was opened at and rejects any
// other; oto contexts cannot be reconfigured.
func (d *Device) SetSampleRate(rate int) error {
	if rate != d.rate {
		return fmt.Errorf("%w: device at %d Hz, requested %d Hz", ErrRateFixed, d.rate, rate)
	}

	return nil
}

// Read is the oto callback: it drains the ring as little-endian bytes and
// zero-fills the remainder of p.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()

	want := len(p) / 2

	n := want
	if n > d.size {
		n = d.size
	}

	for i := 0; i < n; i++ {
		s := uint16(d.ring[d.head])
		p[2*i] = byte(s)
		p[2*i+1] = byte(s >> 8)

		d.head++
		if d.head == len(d.ring) {
			d.head = 0
		}
	}

	d.size -= n
	d.mu.Unlock()

	for i := 2 * n; i < len(p); i++ {
		p[i] = 0
	}

	return len(p), nil
}

// Close stops the callback and releases the player. The oto context itself
// stays open for the life of the process.
func (d *Device) Close() error {
	if d.player != nil {
		if err := d.player.Close(); err != nil {
			return fmt.Errorf("output: close player: %w", err)
		}

		d.player = nil
	}

	return nil
}
