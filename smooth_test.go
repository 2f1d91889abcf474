package fastimage

import "testing"

// edgeBuffer returns a gray buffer whose left half is 0 and right half is 200.
func edgeBuffer(t *testing.T, w, h int) *Buffer {
	t.Helper()
	b := uniform(t, w, h, 1, 0)
	for y := range h {
		for x := w / 2; x < w; x++ {
			b.Pixel(x, y)[0] = 200
		}
	}
	return b
}

func TestEdgePreservingFlat(t *testing.T) {
	e := newTestEngine(t, 3)
	for name, tr := range map[string]Transform{
		"kuwahara":  Kuwahara(2),
		"bilateral": Bilateral(2, 1, 0.1),
	} {
		b := uniform(t, 7, 6, 4, 120)
		res, err := e.Apply(b, tr, Allocate)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Equal(b) {
			t.Errorf("%s changed a flat buffer", name)
		}
	}
}

func TestEdgePreserving(t *testing.T) {
	e := newTestEngine(t, 2)
	b := edgeBuffer(t, 8, 5)
	for name, tr := range map[string]Transform{
		"kuwahara":  Kuwahara(1),
		"bilateral": Bilateral(2, 1.5, 0.1),
	} {
		res, err := e.Apply(b, tr, Allocate)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Equal(b) {
			t.Errorf("%s blurred the edge: %v", name, res.Pix())
		}
	}

	blurred, err := e.Apply(b, Convolve(GaussianKernel(2, 1.5)), Allocate)
	if err != nil {
		t.Fatal(err)
	}
	if v := blurred.Pixel(3, 2)[0]; v == 0 {
		t.Error("gaussian blur kept the edge")
	}
}

func TestKuwaharaKeepsHue(t *testing.T) {
	b := uniform(t, 5, 5, 3, 0)
	for y := range 5 {
		for x := range 5 {
			copy(b.Pixel(x, y), []uint8{200, 100, 0})
		}
	}
	res, err := newTestEngine(t, 1).Apply(b, Kuwahara(2), Allocate)
	if err != nil {
		t.Fatal(err)
	}
	if px := res.Pixel(2, 2); px[0] != 200 || px[1] != 100 || px[2] != 0 {
		t.Errorf("pixel = %v", px)
	}
}
