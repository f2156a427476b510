package effects

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub002/dsp/fixed"
)

const (
	minWidth = fixed.Q16(0)
	maxWidth = 2 * fixed.One
)

// StereoWidener adjusts the width of the stereo image using mid/side
// decomposition:
//
//	mid  = (L + R) / 2
//	side = (L - R) / 2
//	L'   = mid + side*width
//	R'   = mid - side*width
//
// A width of 0 collapses to mono, One leaves the signal unchanged, and
// values up to 2*One widen the image. The widener is stateless.
type StereoWidener struct {
	width fixed.Q16
}

// NewStereoWidener creates a widener at the given width.
func NewStereoWidener(width fixed.Q16) (*StereoWidener, error) {
	w := &StereoWidener{}
	if err := w.SetWidth(width); err != nil {
		return nil, err
	}

	return w, nil
}

// Width returns the current width factor.
func (w *StereoWidener) Width() fixed.Q16 { return w.width }

// SetWidth sets the width factor in [0, 2*One].
func (w *StereoWidener) SetWidth(width fixed.Q16) error {
	if width < minWidth || width > maxWidth {
		return fmt.Errorf("stereo widener width must be in [0, %d]: %d", maxWidth, width)
	}

	w.width = width

	return nil
}

// ProcessStereo widens one sample pair.
func (w *StereoWidener) ProcessStereo(l, r int16) (int16, int16) {
	mid := (int64(l) + int64(r)) / 2
	side := (int64(l) - int64(r)) / 2

	scaled := int64(w.width) * side >> 16

	return fixed.ClampSample64(mid + scaled), fixed.ClampSample64(mid - scaled)
}
