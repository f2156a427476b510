// Command zigpodplay plays audio files back to back without gaps.
//
// Usage:
//
//	zigpodplay [flags] file [file ...]
//
// The format is taken from the file extension; wav, mp3, ogg, and oga are
// supported. Consecutive files at the same sample rate transition
// seamlessly.
//
// Examples:
//
//	zigpodplay album/01.mp3 album/02.mp3
//	zigpodplay -volume 0.5 -bass track.wav
//	zigpodplay -headless -stats test.ogg
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Davidslv/zigpod-sub002/dsp/chain"
	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
	"github.com/Davidslv/zigpod-sub002/output"
	"github.com/Davidslv/zigpod-sub002/player"

	_ "github.com/Davidslv/zigpod-sub002/formats/mp3"
	_ "github.com/Davidslv/zigpod-sub002/formats/vorbis"
	_ "github.com/Davidslv/zigpod-sub002/formats/wav"
)

func main() {
	var (
		headless = flag.Bool("headless", false, "discard audio instead of opening a device")
		volume   = flag.Float64("volume", 1.0, "playback volume (0..2)")
		bass     = flag.Bool("bass", false, "enable the bass boost stage")
		width    = flag.Float64("width", -1, "stereo width (0..2), negative leaves the widener off")
		stats    = flag.Bool("stats", false, "print playback counters on exit")
	)

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: zigpodplay [flags] file [file ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Args(), *headless, *volume, *bass, *width, *stats); err != nil {
		fmt.Fprintln(os.Stderr, "zigpodplay:", err)
		os.Exit(1)
	}
}

func run(paths []string, headless bool, volume float64, bass bool, width float64, printStats bool) error {
	first, err := openTrack(paths[0])
	if err != nil {
		return err
	}

	rate := first.TrackInfo().SampleRate

	var transport player.Transport

	if headless {
		// Budget one loop iteration's worth of samples per cycle so the
		// sink models real device throughput instead of draining the
		// engine dry.
		transport = output.NewHeadless(rate / 100)
	} else {
		dev, err := output.NewDevice(rate)
		if err != nil {
			return err
		}
		defer dev.Close()

		transport = dev
	}

	var chainOpts []chain.Option

	if bass {
		chainOpts = append(chainOpts, chain.WithBassBoostEnabled())
	}

	if width >= 0 {
		chainOpts = append(chainOpts, chain.WithWidener(fixed.FromFloat(width)))
	}

	queue := paths[1:]

	var eng *player.Engine

	requestNext := func() bool {
		for len(queue) > 0 {
			path := queue[0]
			queue = queue[1:]

			dec, err := openTrack(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "zigpodplay: skipping %s: %v\n", path, err)
				continue
			}

			eng.QueueNext(dec)

			return true
		}

		return false
	}

	eng, err = player.NewEngine(transport,
		player.WithChainOptions(chainOpts...),
		player.WithNextTrackFunc(requestNext))
	if err != nil {
		return err
	}

	if err := eng.Chain().Volume().SetTarget(fixed.FromFloat(volume)); err != nil {
		return err
	}

	if err := eng.Start(first); err != nil {
		return err
	}

	for eng.Playing() {
		if h, ok := transport.(*output.Headless); ok {
			h.Replenish()
		}

		if err := eng.Tick(); err != nil {
			return err
		}

		time.Sleep(5 * time.Millisecond)
	}

	if printStats {
		s := eng.Stats()
		fmt.Printf("frames played: %d\n", s.FramesPlayed)
		fmt.Printf("transitions:   %d\n", s.Transitions)
		fmt.Printf("underruns:     %d\n", s.Underruns)
	}

	return nil
}

func openTrack(path string) (player.Decoder, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil, fmt.Errorf("%s: no file extension to pick a format by", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec, err := player.OpenFormat(ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return dec, nil
}
