package fastimage

import (
	"image"
	"testing"
)

func TestGray(t *testing.T) {
	sample := pattern(31, 17, true)

	img, err := ToGray(nil, sample)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != sample.Bounds().Size() {
		t.Fatalf("bounds differ: %v and %v", img.Bounds().Size(), sample.Bounds().Size())
	}
	c := sample.NRGBAAt(5, 3)
	want := clamp8(0.21*float64(c.R) + 0.72*float64(c.G) + 0.07*float64(c.B))
	if got := img.GrayAt(5, 3).Y; got != want {
		t.Errorf("want gray %d, got %d", want, got)
	}

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	gray.Pix[4] = 200
	img, err = ToGray(newTestEngine(t, 2), gray)
	if err != nil {
		t.Fatal(err)
	}
	compare(t, gray, img)
}
