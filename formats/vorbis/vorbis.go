// Package vorbis adapts Ogg Vorbis streams to the player's decoder surface.
// Vorbis decodes to float32, so the adapter reports an effective 24-bit
// depth and offers the s15.16 path for dithered reduction.
package vorbis

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Davidslv/zigpod-sub002/player"
)

// ErrNotVorbis indicates the input could not be parsed as an Ogg Vorbis
// stream.
var ErrNotVorbis = errors.New("vorbis: not an ogg vorbis stream")

func init() {
	open := func(data []byte) (player.Decoder, error) {
		return NewDecoder(data)
	}
	player.RegisterFormat("ogg", open)
	player.RegisterFormat("oga", open)
}

// Decoder streams an Ogg Vorbis file as interleaved stereo.
type Decoder struct {
	dec      *oggvorbis.Reader
	info     player.TrackInfo
	channels int
	buf      []float32
	rem      []float32
}

// NewDecoder parses the stream headers in data.
func NewDecoder(data []byte) (*Decoder, error) {
	vr, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVorbis, err)
	}

	channels := vr.Channels()
	if channels < 1 {
		return nil, fmt.Errorf("vorbis: invalid channel count: %d", channels)
	}

	rate := vr.SampleRate()
	frames := uint64(vr.Length())

	return &Decoder{
		dec:      vr,
		channels: channels,
		buf:      make([]float32, 4096*channels),
		info: player.TrackInfo{
			SampleRate:    rate,
			Channels:      channels,
			BitsPerSample: 24,
			TotalSamples:  frames,
			DurationMs:    uint32(frames * 1000 / uint64(rate)),
		},
	}, nil
}

// TrackInfo returns the parsed stream parameters.
func (d *Decoder) TrackInfo() player.TrackInfo { return d.info }

// Decode fills dst with interleaved 16-bit stereo samples. Zero means end
// of stream.
func (d *Decoder) Decode(dst []int16) int {
	frames := len(dst) / 2
	done := 0

	for done < frames {
		l, r, ok := d.nextFrame()
		if !ok {
			break
		}

		dst[2*done] = int16(l >> 16)
		dst[2*done+1] = int16(r >> 16)
		done++
	}

	return done * 2
}

// Decode32 fills dst with interleaved stereo samples on the s15.16 grid.
func (d *Decoder) Decode32(dst []int32) int {
	frames := len(dst) / 2
	done := 0

	for done < frames {
		l, r, ok := d.nextFrame()
		if !ok {
			break
		}

		dst[2*done] = l
		dst[2*done+1] = r
		done++
	}

	return done * 2
}

// nextFrame returns one stereo frame in s15.16, refilling the float buffer
// from the reader as needed. Mono is upmixed; wider layouts keep the front
// pair.
func (d *Decoder) nextFrame() (int32, int32, bool) {
	if len(d.rem) < d.channels {
		n, err := d.dec.Read(d.buf)

		n -= n % d.channels
		if n == 0 {
			_ = err
			return 0, 0, false
		}

		d.rem = d.buf[:n]
	}

	l := toFixed(d.rem[0])

	r := l
	if d.channels > 1 {
		r = toFixed(d.rem[1])
	}

	d.rem = d.rem[d.channels:]

	return l, r, true
}

// toFixed converts a [-1, 1) float sample to s15.16, clamping overshoot
// from lossy reconstruction.
func toFixed(v float32) int32 {
	scaled := float64(v) * float64(1<<31)

	if scaled >= (1<<31)-1 {
		return (1 << 31) - 1
	}

	if scaled <= -(1 << 31) {
		return -(1 << 31)
	}

	return int32(scaled)
}
