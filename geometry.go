package fastimage

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImageOp is a pipeline step that works on a whole image, such as a change
// of geometry. It runs between engine executions.
type ImageOp func(e *Engine, img image.Image) (image.Image, error)

// Crop returns an operation cutting rect, relative to the top left corner of
// the image, out of the image. Parts of rect outside the image are dropped.
func Crop(rect image.Rectangle) ImageOp {
	return func(_ *Engine, img image.Image) (image.Image, error) {
		bounds := img.Bounds()
		r := rect.Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			return nil, newError(OutOfBounds, "crop %v outside image %v", rect, bounds.Sub(bounds.Min))
		}
		return imaging.Crop(img, r), nil
	}
}

// Rotate returns an operation rotating the image counter-clockwise by angle
// degrees. Multiples of 90 degrees are exact; other angles grow the canvas
// and fill the corners with transparent pixels.
func Rotate(angle float64) ImageOp {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return func(_ *Engine, img image.Image) (image.Image, error) {
		switch angle {
		case 0:
			return img, nil
		case 90:
			return imaging.Rotate90(img), nil
		case 180:
			return imaging.Rotate180(img), nil
		case 270:
			return imaging.Rotate270(img), nil
		}
		return imaging.Rotate(img, angle, color.Transparent), nil
	}
}

// RunImage converts img to a buffer, runs the transforms on it and returns
// the result as an image.
func (e *Engine) RunImage(img image.Image, transforms ...Transform) (image.Image, error) {
	b, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	if b, err = e.Run(b, InPlace, transforms...); err != nil {
		return nil, errors.Wrap(err, "process")
	}
	return b.Image(), nil
}
