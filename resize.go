package fastimage

import (
	"image"

	"github.com/disintegration/imaging"
)

// ResizeOption is resize option. Width and Height take precedence over
// Percent; a zero side keeps the aspect ratio.
type ResizeOption struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Percent float64 `yaml:"percent"`
}

func (r *ResizeOption) do(base image.Image) image.Image {
	if r.Width == 0 && r.Height == 0 {
		if r.Percent <= 0 {
			return base
		}
		width := max(int(float64(base.Bounds().Dx())*r.Percent/100), 1)
		return imaging.Resize(base, width, 0, imaging.Lanczos)
	}
	return imaging.Resize(base, r.Width, r.Height, imaging.Lanczos)
}

// Resize resizes image according resize option.
func Resize(base image.Image, option *ResizeOption) image.Image {
	return option.do(base)
}
