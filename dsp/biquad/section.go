package biquad

import "github.com/Davidslv/zigpod-sub002/dsp/fixed"

// Coefficients holds the normalized transfer function of a single
// second-order section. a0 is normalized to 1 and not stored.
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
type Coefficients struct {
	B0, B1, B2 fixed.Q16 // feedforward (numerator)
	A1, A2     fixed.Q16 // feedback (denominator)
}

// Identity returns pass-through coefficients.
func Identity() Coefficients {
	return Coefficients{B0: fixed.One}
}

// channelState is the Direct Form I delay line for one channel.
type channelState struct {
	x1, x2 int32
	y1, y2 int32
}

// Section is a single stereo biquad with coefficients and per-channel
// history. Direct Form I keeps the history cells in sample units so they can
// be clamped to the 16-bit range after every step, which stops fixed-point
// overflow from circulating through the feedback path.
type Section struct {
	Coefficients

	left, right channelState
}

// NewSection returns a Section initialized with the given coefficients and
// zero history.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients swaps the transfer function without touching history.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// ProcessStereo filters one left/right pair and returns the filtered pair.
func (s *Section) ProcessStereo(l, r int16) (int16, int16) {
	return s.processChannel(&s.left, l), s.processChannel(&s.right, r)
}

func (s *Section) processChannel(st *channelState, in int16) int16 {
	x := int64(in)

	acc := int64(s.B0)*x +
		int64(s.B1)*int64(st.x1) +
		int64(s.B2)*int64(st.x2) -
		int64(s.A1)*int64(st.y1) -
		int64(s.A2)*int64(st.y2)

	y := fixed.ClampSample64(acc >> 16)

	st.x2 = st.x1
	st.x1 = int32(in)
	st.y2 = st.y1
	st.y1 = int32(y)

	return y
}

// Reset clears both delay lines to zero.
func (s *Section) Reset() {
	s.left = channelState{}
	s.right = channelState{}
}
