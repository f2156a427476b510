package player

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFormat is returned when no decoder is registered for a format tag.
var ErrUnknownFormat = errors.New("player: unknown format")

// TrackInfo describes one decoded track. It is immutable once produced by a
// decoder; the engine uses it to configure hardware rate and prebuffer
// thresholds.
type TrackInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  uint64 // per-channel sample count (frames); 0 if unknown
	DurationMs    uint32
}

// Decoder is the uniform surface every format adapter exposes. Decode fills
// dst with interleaved 16-bit stereo samples and returns the count written;
// zero signals end of stream. Decode must not block and must return whatever
// is available, even if less than requested.
type Decoder interface {
	Decode(dst []int16) int
	TrackInfo() TrackInfo
}

// Decoder32 is implemented by decoders whose source carries more than 16
// bits per sample. Decode32 fills dst with interleaved stereo samples in
// s15.16 (16 fractional bits below the 16-bit output grid), letting the
// pipeline dither the reduction instead of truncating in the adapter.
type Decoder32 interface {
	Decode32(dst []int32) int
}

// StorageHints describes the latency profile of the medium backing the
// decoders, used to scale the gapless prebuffer threshold.
type StorageHints interface {
	RecommendedPrebufferMs() uint32
	IsFlash() bool
}

// Transport is the hardware audio output consumed by the engine. Write
// returns the number of interleaved samples accepted; it must not block.
type Transport interface {
	TxReady() bool
	Write(samples []int16) (int, error)
	SetSampleRate(rate int) error
}

// NextTrackFunc is invoked exactly once per transition window when the
// active track is close to its end. Returning false means no further track
// is available. The callback typically responds by calling QueueNext.
type NextTrackFunc func() bool

// OpenFunc constructs a Decoder from raw file bytes.
type OpenFunc func(data []byte) (Decoder, error)

var (
	formatsMu sync.RWMutex
	formats   = map[string]OpenFunc{}
)

// RegisterFormat registers a decoder constructor under a format tag
// (e.g. "wav"). Format packages call this from init, mirroring the
// stdlib image registry.
func RegisterFormat(name string, open OpenFunc) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	formats[name] = open
}

// Formats returns the registered format tags in sorted order.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// OpenFormat constructs a decoder for the given format tag.
func OpenFormat(name string, data []byte) (Decoder, error) {
	formatsMu.RLock()
	open, ok := formats[name]
	formatsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return open(data)
}
