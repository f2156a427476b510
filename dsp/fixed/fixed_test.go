package fixed

import (
	"math"
	"testing"
)

func TestMulBasic(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{1, 1, 1},
		{0.5, 0.5, 0.25},
		{2, -3, -6},
		{1.5, 1.5, 2.25},
		{-0.25, -0.25, 0.0625},
	}

	for _, tc := range cases {
		got := Mul(FromFloat(tc.a), FromFloat(tc.b)).Float()
		if math.Abs(got-tc.want) > 1e-4 {
			t.Errorf("Mul(%g, %g) = %g, want %g", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMulSatSaturates(t *testing.T) {
	big := FromInt(30000)
	if got := MulSat(big, big); got != MaxQ16 {
		t.Fatalf("MulSat overflow = %d, want MaxQ16", got)
	}

	if got := MulSat(big, -big); got != MinQ16 {
		t.Fatalf("MulSat underflow = %d, want MinQ16", got)
	}
}

func TestDiv(t *testing.T) {
	got := Div(FromInt(3), FromInt(4)).Float()
	if math.Abs(got-0.75) > 1e-4 {
		t.Fatalf("Div(3, 4) = %g, want 0.75", got)
	}

	got = Div(One, FromFloat(0.5)).Float()
	if math.Abs(got-2) > 1e-4 {
		t.Fatalf("Div(1, 0.5) = %g, want 2", got)
	}
}

func TestSqrt(t *testing.T) {
	cases := []float64{0.25, 0.5, 1, 2, 4, 9, 100, 2.25}
	for _, v := range cases {
		got := Sqrt(FromFloat(v)).Float()
		want := math.Sqrt(v)

		if math.Abs(got-want) > 1e-3 {
			t.Errorf("Sqrt(%g) = %g, want %g", v, got, want)
		}
	}

	if Sqrt(-One) != 0 {
		t.Error("Sqrt of negative should be 0")
	}
}

func TestIntFrac(t *testing.T) {
	q := FromFloat(3.25)
	if q.Int() != 3 {
		t.Errorf("Int() = %d, want 3", q.Int())
	}

	if got := q.Frac().Float(); math.Abs(got-0.25) > 1e-4 {
		t.Errorf("Frac() = %g, want 0.25", got)
	}

	if n := FromFloat(-2.5).Int(); n != -2 {
		t.Errorf("negative Int() = %d, want -2 (truncate toward zero)", n)
	}
}

func TestClampSample(t *testing.T) {
	if got := ClampSample(40000); got != 32767 {
		t.Errorf("ClampSample(40000) = %d, want 32767", got)
	}

	if got := ClampSample(-40000); got != -32768 {
		t.Errorf("ClampSample(-40000) = %d, want -32768", got)
	}

	if got := ClampSample(1234); got != 1234 {
		t.Errorf("ClampSample(1234) = %d, want 1234", got)
	}
}

func TestSinAgainstMath(t *testing.T) {
	for deg := -360; deg <= 360; deg += 5 {
		rad := float64(deg) * math.Pi / 180
		got := Sin(FromFloat(rad)).Float()
		want := math.Sin(rad)

		if math.Abs(got-want) > 5e-4 {
			t.Fatalf("Sin(%d deg) = %g, want %g", deg, got, want)
		}
	}
}

func TestCosAgainstMath(t *testing.T) {
	for deg := -360; deg <= 360; deg += 5 {
		rad := float64(deg) * math.Pi / 180
		got := Cos(FromFloat(rad)).Float()
		want := math.Cos(rad)

		if math.Abs(got-want) > 5e-4 {
			t.Fatalf("Cos(%d deg) = %g, want %g", deg, got, want)
		}
	}
}

func TestDBToLinear(t *testing.T) {
	if got := DBToLinear(0); got != One {
		t.Fatalf("DBToLinear(0) = %d, want One", got)
	}

	got := DBToLinear(6).Float()
	if math.Abs(got-2.0) > 0.1 {
		t.Errorf("DBToLinear(6) = %g, want ~2.0", got)
	}

	got = DBToLinear(-6).Float()
	if math.Abs(got-0.5) > 0.025 {
		t.Errorf("DBToLinear(-6) = %g, want ~0.5", got)
	}
}

func TestDBToLinearClampsRange(t *testing.T) {
	if DBToLinear(-40) != DBToLinear(MinGainDB) {
		t.Error("below-range dB should clamp to the table floor")
	}

	if DBToLinear(40) != DBToLinear(MaxGainDB) {
		t.Error("above-range dB should clamp to the table ceiling")
	}
}

func TestGainTableMonotonic(t *testing.T) {
	for db := MinGainDB + 1; db <= MaxGainDB; db++ {
		if DBToLinear(db) <= DBToLinear(db-1) {
			t.Fatalf("gain table not monotonic at %d dB", db)
		}
	}
}

func BenchmarkSin(b *testing.B) {
	x := FromFloat(1.1)
	for i := 0; i < b.N; i++ {
		_ = Sin(x)
	}
}

func BenchmarkMul(b *testing.B) {
	x := FromFloat(1.1)
	y := FromFloat(0.9)
	for i := 0; i < b.N; i++ {
		_ = Mul(x, y)
	}
}
