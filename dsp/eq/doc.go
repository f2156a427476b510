// Package eq implements the five-band peaking equalizer.
//
// Five fixed-point biquad sections run in series behind a pre-amplifier
// gain. The pre-amp offsets the headroom lost to boosted bands; band gains
// and the pre-amp are set in whole dB within [-12, +12]. A band whose
// center frequency lands at or above Nyquist for the current sample rate is
// taken out of the signal path instead of failing the design, so the upper
// bands simply drop away at low rates.
package eq
