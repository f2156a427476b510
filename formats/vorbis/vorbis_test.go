package vorbis

import (
	"errors"
	"testing"

	"github.com/Davidslv/zigpod-sub002/player"
)

func TestNewDecoderRejectsGarbage(t *testing.T) {
	if _, err := NewDecoder([]byte("definitely not an ogg stream")); !errors.Is(err, ErrNotVorbis) {
		t.Fatalf("NewDecoder: %v, want ErrNotVorbis", err)
	}
}

func TestFormatTagsRegistered(t *testing.T) {
	want := map[string]bool{"ogg": false, "oga": false}

	for _, name := range player.Formats() {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}

	for tag, seen := range want {
		if !seen {
			t.Errorf("%s not in the format registry", tag)
		}
	}
}

func TestToFixedClamps(t *testing.T) {
	cases := []struct {
		in   float32
		want int32
	}{
		{0, 0},
		{0.5, 1 << 30},
		{-0.5, -(1 << 30)},
		{1.0, (1 << 31) - 1},
		{1.5, (1 << 31) - 1},
		{-1.0, -(1 << 31)},
		{-1.5, -(1 << 31)},
	}

	for _, tc := range cases {
		if got := toFixed(tc.in); got != tc.want {
			t.Errorf("toFixed(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
