package fastimage_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/sunshineplan/fastimage"
)

func Example() {
	// Share one pool between every execution.
	pool := fastimage.NewPool(4)
	defer pool.Close()
	engine := fastimage.NewEngine(pool)

	pix := make([]uint8, 16)
	for i := range pix {
		pix[i] = uint8(i)
	}
	b, err := fastimage.NewFromPix(4, 4, 1, pix)
	if err != nil {
		log.Fatal(err)
	}

	// One region per row.
	regions, err := fastimage.Partition(b, 4)
	if err != nil {
		log.Fatal(err)
	}

	double := fastimage.PixelFunc(func(_, _ int, src, dst []uint8) error {
		dst[0] = src[0] * 2
		return nil
	})
	if _, err := engine.Execute(b, regions, double, fastimage.InPlace); err != nil {
		log.Fatal(err)
	}
	fmt.Println(b.Pix())
	// Output: [0 2 4 6 8 10 12 14 16 18 20 22 24 26 28 30]
}

func ExampleEngine_Execute_failure() {
	engine := fastimage.NewEngine(nil)

	b, err := fastimage.New(4, 4, 3)
	if err != nil {
		log.Fatal(err)
	}
	regions, err := fastimage.Partition(b, 2)
	if err != nil {
		log.Fatal(err)
	}

	failing := fastimage.PixelFunc(func(x, y int, _, _ []uint8) error {
		if y == 3 {
			return errors.New("sensor glitch")
		}
		return nil
	})
	res, err := engine.Execute(b, regions, failing, fastimage.Allocate)
	fmt.Println(res == nil)
	fmt.Println(errors.Is(err, fastimage.TransformFailed))
	fmt.Println(err)
	// Output:
	// true
	// true
	// transform failed in region 1 (0,2)-(4,4) at (0, 3): sensor glitch
}

func ExampleOptions_Convert() {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	for y := range 300 {
		for x := range 400 {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}

	pool := fastimage.NewPool(0)
	defer pool.Close()

	task := fastimage.NewOptions()
	if err := task.SetSteps("grayscale:luminosity;gaussian:1,0.8"); err != nil {
		log.Fatal(err)
	}
	task.SetResize(200, 0, 0)
	if err := task.SetFormat("png"); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := task.Convert(fastimage.NewEngine(pool), &buf, src); err != nil {
		log.Fatal(err)
	}
	cfg, format, err := fastimage.DecodeConfig(&buf)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(format, cfg.Width, cfg.Height)
	// Output: png 200 150
}
