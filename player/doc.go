// Package player implements the dual-slot gapless playback engine and the
// audio pipeline that feed decoded PCM through the DSP chain to the
// hardware output.
//
// Scheduling is single-threaded cooperative polling: the owner calls
// Engine.Tick (or Pipeline.Process) once per cycle and everything happens
// synchronously inside that call. All buffers are fixed-capacity and
// allocated at construction; the processing path never allocates.
package player
