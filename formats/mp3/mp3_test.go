package mp3

import (
	"errors"
	"testing"

	"github.com/Davidslv/zigpod-sub002/player"
)

func TestNewDecoderRejectsGarbage(t *testing.T) {
	if _, err := NewDecoder([]byte("definitely not an mpeg stream")); !errors.Is(err, ErrNotMP3) {
		t.Fatalf("NewDecoder: %v, want ErrNotMP3", err)
	}
}

func TestFormatRegistered(t *testing.T) {
	for _, name := range player.Formats() {
		if name == "mp3" {
			return
		}
	}

	t.Fatal("mp3 not in the format registry")
}
