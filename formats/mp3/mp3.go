// Package mp3 adapts MPEG-1 Layer III streams to the player's decoder
// surface using hajimehoshi/go-mp3, which always emits 16-bit stereo.
package mp3

import (
	"bytes"
	"errors"
	"fmt"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/Davidslv/zigpod-sub002/player"
)

// ErrNotMP3 indicates the input could not be parsed as an MP3 stream.
var ErrNotMP3 = errors.New("mp3: not an mpeg stream")

// go-mp3 output is fixed: stereo, 16-bit, 4 bytes per frame.
const bytesPerFrame = 4

func init() {
	player.RegisterFormat("mp3", func(data []byte) (player.Decoder, error) {
		return NewDecoder(data)
	})
}

// Decoder streams an MP3 file as interleaved 16-bit stereo.
type Decoder struct {
	dec  *gomp3.Decoder
	info player.TrackInfo
	buf  []byte
	rem  []byte // undelivered tail of the last read
}

// NewDecoder parses the stream headers in data.
func NewDecoder(data []byte) (*Decoder, error) {
	md, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMP3, err)
	}

	rate := md.SampleRate()
	frames := uint64(md.Length()) / bytesPerFrame

	return &Decoder{
		dec: md,
		buf: make([]byte, 8192),
		info: player.TrackInfo{
			SampleRate:    rate,
			Channels:      2,
			BitsPerSample: 16,
			TotalSamples:  frames,
			DurationMs:    uint32(frames * 1000 / uint64(rate)),
		},
	}, nil
}

// TrackInfo returns the parsed stream parameters.
func (d *Decoder) TrackInfo() player.TrackInfo { return d.info }

// Decode fills dst with interleaved 16-bit stereo samples decoded from the
// little-endian byte stream. Zero means end of stream.
func (d *Decoder) Decode(dst []int16) int {
	written := 0

	for written < len(dst) {
		if len(d.rem) < 2 {
			n, err := d.dec.Read(d.buf)

			n -= n % 2
			if n == 0 {
				break
			}

			d.rem = d.buf[:n]

			_ = err // a short final read still carries samples
		}

		for written < len(dst) && len(d.rem) >= 2 {
			dst[written] = int16(uint16(d.rem[0]) | uint16(d.rem[1])<<8)
			d.rem = d.rem[2:]
			written++
		}
	}

	return written - written%2
}
