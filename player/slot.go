package player

import "fmt"

// SlotState is the lifecycle of one decoder slot.
type SlotState int

const (
	// SlotEmpty is the initial and terminal state; nothing loaded.
	SlotEmpty SlotState = iota
	// SlotLoading means a decoder is attached but the ring is not yet primed.
	SlotLoading
	// SlotReady means the slot is primed and can be promoted to active.
	SlotReady
	// SlotActive means the slot is the one currently feeding the output.
	SlotActive
	// SlotFinishing means the active slot's source is exhausted but its
	// ring may still hold unplayed samples.
	SlotFinishing

	slotStateCount // sentinel for validation
)

var slotStateNames = [slotStateCount]string{
	"Empty", "Loading", "Ready", "Active", "Finishing",
}

// String returns the name of the state.
func (s SlotState) String() string {
	if s >= 0 && s < slotStateCount {
		return slotStateNames[s]
	}
	return fmt.Sprintf("SlotState(%d)", s)
}

// decoderSlot holds one track's decode pipeline: the decode callback, its
// TrackInfo, a bounded ring of interleaved samples, the monotonic playback
// position, and the lifecycle state. Ring content is only meaningful while
// the state is Ready, Active, or Finishing.
type decoderSlot struct {
	dec       Decoder
	info      TrackInfo
	ring      sampleRing
	position  uint64 // frames drained to the output
	state     SlotState
	exhausted bool
}

// load attaches a decoder and moves the slot to Loading. The caller prefills
// the ring and promotes the slot afterwards.
func (s *decoderSlot) load(dec Decoder) {
	s.dec = dec
	s.info = dec.TrackInfo()
	s.position = 0
	s.exhausted = false
	s.state = SlotLoading
	s.ring.reset()
}

// refill pulls from the decoder into the ring until the ring is full or the
// source is exhausted. scratch is the engine-owned decode buffer.
func (s *decoderSlot) refill(scratch []int16) {
	if s.dec == nil || s.exhausted {
		// A source shorter than the ring exhausts during prefill, before
		// the slot is promoted; catch up on the state here.
		if s.exhausted && s.state == SlotActive {
			s.state = SlotFinishing
		}

		return
	}

	for {
		free := s.ring.Free()
		if free < 2 {
			return
		}

		want := free
		if want > len(scratch) {
			want = len(scratch)
		}
		want -= want % 2

		n := s.dec.Decode(scratch[:want])
		if n == 0 {
			s.exhausted = true
			if s.state == SlotActive {
				s.state = SlotFinishing
			}

			return
		}

		s.ring.push(scratch[:n-n%2])
	}
}

// remaining returns the frames left before the source ends, or MaxUint64
// when the total is unknown.
func (s *decoderSlot) remaining() uint64 {
	if s.info.TotalSamples == 0 {
		return ^uint64(0)
	}

	if s.position >= s.info.TotalSamples {
		return 0
	}

	return s.info.TotalSamples - s.position
}

// reset returns the slot to Empty and drops the decoder reference.
func (s *decoderSlot) reset() {
	s.dec = nil
	s.info = TrackInfo{}
	s.position = 0
	s.exhausted = false
	s.state = SlotEmpty
	s.ring.reset()
}
