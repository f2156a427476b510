// Package output provides hardware transports for the playback engine: an
// oto-backed device for real audio hardware and a headless sink for tests
// and CI machines without an audio device.
package output
