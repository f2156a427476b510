// Package wav adapts RIFF/WAVE files to the player's decoder surface.
// Sources above 16 bits keep their extra precision on the s15.16 grid so
// the pipeline can dither the reduction.
package wav

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/Davidslv/zigpod-sub002/player"
)

var (
	// ErrNotWAV indicates the input is not a valid RIFF/WAVE stream.
	ErrNotWAV = errors.New("wav: not a RIFF/WAVE stream")
	// ErrBadDepth indicates an unsupported bit depth.
	ErrBadDepth = errors.New("wav: unsupported bit depth")
)

func init() {
	player.RegisterFormat("wav", func(data []byte) (player.Decoder, error) {
		return NewDecoder(data)
	})
}

// Decoder streams a WAV file as interleaved 16-bit stereo.
type Decoder struct {
	dec      *gowav.Decoder
	info     player.TrackInfo
	channels int
	shift    uint // left shift from source depth onto the s15.16 grid

	pcm audio.IntBuffer
}

// NewDecoder parses the WAV headers in data and positions the stream at the
// first PCM frame. Supported depths are 8, 16, 24, and 32 bits.
func NewDecoder(data []byte) (*Decoder, error) {
	wd := gowav.NewDecoder(bytes.NewReader(data))

	wd.ReadInfo()
	if !wd.IsValidFile() {
		return nil, ErrNotWAV
	}

	bits := int(wd.BitDepth)

	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadDepth, bits)
	}

	channels := int(wd.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("wav: invalid channel count: %d", channels)
	}

	if err := wd.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: locate pcm chunk: %w", err)
	}

	frames := uint64(wd.PCMLen()) / uint64(channels*bits/8)
	rate := int(wd.SampleRate)

	d := &Decoder{
		dec:      wd,
		channels: channels,
		shift:    uint(32 - bits),
		info: player.TrackInfo{
			SampleRate:    rate,
			Channels:      channels,
			BitsPerSample: bits,
			TotalSamples:  frames,
			DurationMs:    uint32(frames * 1000 / uint64(rate)),
		},
	}
	d.pcm.Format = &audio.Format{NumChannels: channels, SampleRate: rate}
	d.pcm.SourceBitDepth = bits

	return d, nil
}

// TrackInfo returns the parsed stream parameters.
func (d *Decoder) TrackInfo() player.TrackInfo { return d.info }

// Decode fills dst with interleaved 16-bit stereo samples, truncating any
// extra source precision. Zero means end of stream.
func (d *Decoder) Decode(dst []int16) int {
	frames := d.readFrames(len(dst) / 2)

	for i := 0; i < frames; i++ {
		l, r := d.frame(i)
		dst[2*i] = int16(l >> 16)
		dst[2*i+1] = int16(r >> 16)
	}

	return frames * 2
}

// Decode32 fills dst with interleaved stereo samples on the s15.16 grid,
// preserving precision beyond 16 bits.
func (d *Decoder) Decode32(dst []int32) int {
	frames := d.readFrames(len(dst) / 2)

	for i := 0; i < frames; i++ {
		dst[2*i], dst[2*i+1] = d.frame(i)
	}

	return frames * 2
}

// readFrames pulls up to n frames of raw PCM into the scratch buffer and
// returns the frame count available.
func (d *Decoder) readFrames(n int) int {
	want := n * d.channels
	if cap(d.pcm.Data) < want {
		d.pcm.Data = make([]int, want)
	}

	d.pcm.Data = d.pcm.Data[:want]

	read, err := d.dec.PCMBuffer(&d.pcm)
	if err != nil || read == 0 {
		return 0
	}

	return read / d.channels
}

// frame returns frame i as an s15.16 stereo pair, upmixing mono and taking
// the front pair of wider layouts.
func (d *Decoder) frame(i int) (int32, int32) {
	base := i * d.channels

	l := d.widen(d.pcm.Data[base])
	if d.channels == 1 {
		return l, l
	}

	return l, d.widen(d.pcm.Data[base+1])
}

func (d *Decoder) widen(v int) int32 {
	if d.info.BitsPerSample == 8 {
		// 8-bit WAV is unsigned.
		return int32(v-128) << 24
	}

	return int32(v) << d.shift
}
