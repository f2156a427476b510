package testutil

import (
	"fmt"
	"testing"
)

// RequireSamplesNear fails t if got and want differ in length or if any
// sample pair differs by more than tol.
func RequireSamplesNear(t *testing.T, got, want []int16, tol int) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		diff := int(got[i]) - int(want[i])
		if diff < 0 {
			diff = -diff
		}

		if diff > tol {
			t.Fatalf("index %d: got %d, want %d (diff %d > tol %d)", i, got[i], want[i], diff, tol)
		}
	}
}

// MaxAbsDiff returns the maximum absolute sample difference between two
// buffers. Returns an error if the buffers differ in length.
func MaxAbsDiff(a, b []int16) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}

		if d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff, nil
}

// PeakAbs returns the largest absolute sample value in the buffer.
func PeakAbs(data []int16) int {
	peak := 0
	for _, v := range data {
		a := int(v)
		if a < 0 {
			a = -a
		}

		if a > peak {
			peak = a
		}
	}

	return peak
}
