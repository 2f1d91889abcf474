package fastimage

import (
	"errors"
	"math"
	"testing"
)

func TestColorModelRoundTrip(t *testing.T) {
	colors := []Working{
		{0.2, 0.5, 0.8},
		{0.9, 0.1, 0.3},
		{0.5, 0.5, 0.5},
		{1, 1, 1},
	}
	for m := range colorModelNames {
		for _, w := range colors {
			s, err := FromWorking(w, m)
			if err != nil {
				t.Fatal(err)
			}
			back, err := ToWorking(s, m)
			if err != nil {
				t.Fatal(err)
			}
			for i := range w {
				if math.Abs(back[i]-w[i]) > 1e-4 {
					t.Errorf("%v: %v became %v", m, w, back)
					break
				}
			}
		}
	}
}

func TestColorModelValues(t *testing.T) {
	s, err := FromWorking(Working{1, 1, 1}, HSL)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s[2]-1) > 1e-9 || math.Abs(s[1]) > 1e-9 {
		t.Errorf("white in HSL = %v", s)
	}
	w, err := ToWorking(Sample{0.5, 0.5, 0.5}, SRGB)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w[0]-0.214) > 1e-3 {
		t.Errorf("sRGB 0.5 is %v in linear light", w[0])
	}
}

func TestUnsupportedColorModel(t *testing.T) {
	if _, err := ToWorking(Sample{}, ColorModel(99)); !errors.Is(err, UnsupportedColorModel) {
		t.Errorf("ToWorking: want UnsupportedColorModel, got %v", err)
	}
	if _, err := FromWorking(Working{}, ColorModel(-1)); !errors.Is(err, UnsupportedColorModel) {
		t.Errorf("FromWorking: want UnsupportedColorModel, got %v", err)
	}

	b := sequence(t, 4, 6, 3)
	orig := b.Clone()
	regions, err := Partition(b, 3)
	if err != nil {
		t.Fatal(err)
	}
	_, err = newTestEngine(t, 3).Execute(b, regions, ColorFunc{Model: ColorModel(99)}, InPlace)
	var ae *AggregateError
	if !errors.As(err, &ae) {
		t.Fatalf("want *AggregateError, got %v", err)
	}
	if ae.Kind != UnsupportedColorModel || len(ae.Errors) != len(regions) {
		t.Errorf("want every region to fail with UnsupportedColorModel, got %v", err)
	}
	if !b.Equal(orig) {
		t.Error("buffer modified")
	}
}

func TestParseColorModel(t *testing.T) {
	for name, want := range map[string]ColorModel{
		"srgb":   SRGB,
		"Linear": LinearRGB,
		" HSV ":  HSV,
		"xyz":    XYZ,
	} {
		m, err := ParseColorModel(name)
		if err != nil || m != want {
			t.Errorf("%q: want %v, got %v, %v", name, want, m, err)
		}
	}
	if _, err := ParseColorModel("cmyk"); !errors.Is(err, UnsupportedColorModel) {
		t.Errorf("want UnsupportedColorModel, got %v", err)
	}
	if s := ColorModel(42).String(); s != "ColorModel(42)" {
		t.Errorf("unexpected name %q", s)
	}
}

func TestColorFuncIdentity(t *testing.T) {
	e := newTestEngine(t, 2)
	for _, c := range []int{1, 2, 3, 4} {
		b := sequence(t, 16, 16, c)
		for m := range colorModelNames {
			res, err := e.Apply(b, ColorFunc{Model: m}, Allocate)
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range res.Pix() {
				d := int(v) - int(b.Pix()[i])
				if d < -1 || d > 1 {
					t.Fatalf("%d channels, %v: sample %d changed from %d to %d", c, m, i, b.Pix()[i], v)
				}
				if (c == 2 || c == 4) && i%c == c-1 && d != 0 {
					t.Fatalf("%d channels, %v: alpha changed", c, m)
				}
			}
		}
	}
}

func TestUnit8(t *testing.T) {
	for _, testcase := range []struct {
		v    float64
		want uint8
	}{
		{-0.5, 0}, {0, 0}, {0.5, 128}, {1, 255}, {1.7, 255}, {math.NaN(), 0},
	} {
		if got := unit8(testcase.v); got != testcase.want {
			t.Errorf("unit8(%v) = %d, want %d", testcase.v, got, testcase.want)
		}
	}
	if got := clamp8(254.6); got != 255 {
		t.Errorf("clamp8(254.6) = %d", got)
	}
	if got := clamp8(-3); got != 0 {
		t.Errorf("clamp8(-3) = %d", got)
	}
}
