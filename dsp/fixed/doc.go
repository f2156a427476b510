// Package fixed implements Q16.16 fixed-point arithmetic for the playback
// core's signal path.
//
// Every DSP stage in this repository computes in Q16.16 rather than floating
// point so that output is bit-exact across ports and on targets without an
// FPU. The package provides saturating multiplication, polynomial sine and
// cosine for filter coefficient generation, and a table-driven dB-to-linear
// gain lookup.
package fixed
