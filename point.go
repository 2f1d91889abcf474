package fastimage

import (
	"math"
)

// Identity returns a transform that leaves every pixel unchanged.
func Identity() Transform {
	return PixelFunc(func(_, _ int, _, _ []uint8) error { return nil })
}

// colorChannels returns how many leading samples of a pixel carry color.
func colorChannels(px []uint8) int {
	if len(px) < 3 {
		return 1
	}
	return 3
}

// Negative inverts the color samples of every pixel.
func Negative() Transform {
	return PixelFunc(func(_, _ int, src, dst []uint8) error {
		for i := range colorChannels(src) {
			dst[i] = 255 - src[i]
		}
		return nil
	})
}

// Sepia applies the classic sepia tone matrix in linear RGB.
func Sepia() Transform {
	return ColorFunc{Model: LinearRGB, Func: func(s Sample) Sample {
		r, g, b := s[0], s[1], s[2]
		return Sample{
			r*0.393 + g*0.769 + b*0.189,
			r*0.349 + g*0.686 + b*0.168,
			r*0.272 + g*0.534 + b*0.131,
		}
	}}
}

// GrayscaleStrategy selects how color samples are reduced to one gray level.
type GrayscaleStrategy int

const (
	// Average uses the mean of red, green and blue.
	Average GrayscaleStrategy = iota
	// Lightness uses the mean of the largest and smallest component.
	Lightness
	// Luminosity weights the components by perceived brightness.
	Luminosity
)

var grayscaleStrategies = map[string]GrayscaleStrategy{
	"average":    Average,
	"lightness":  Lightness,
	"luminosity": Luminosity,
}

// Grayscale reduces every pixel to gray using strategy s. Gray buffers are
// left unchanged.
func Grayscale(s GrayscaleStrategy) Transform {
	return PixelFunc(func(_, _ int, src, dst []uint8) error {
		if len(src) < 3 {
			return nil
		}
		r, g, b := float64(src[0]), float64(src[1]), float64(src[2])
		var v float64
		switch s {
		case Lightness:
			v = (max(r, g, b) + min(r, g, b)) / 2
		case Luminosity:
			v = 0.21*r + 0.72*g + 0.07*b
		default:
			v = (r + g + b) / 3
		}
		gray := clamp8(v)
		dst[0], dst[1], dst[2] = gray, gray, gray
		return nil
	})
}

// Threshold zeroes every color sample not above its channel threshold.
// Gray pixels are compared with r.
func Threshold(r, g, b uint8) Transform {
	limits := [3]uint8{r, g, b}
	return PixelFunc(func(_, _ int, src, dst []uint8) error {
		for i := range colorChannels(src) {
			if src[i] <= limits[i] {
				dst[i] = 0
			}
		}
		return nil
	})
}

// quantizationMap maps every sample to the nearest of evenly spaced levels.
func quantizationMap(levels int) (m [256]uint8) {
	levels = max(1, min(levels, 254))
	size := 255 / (levels + 1)
	current := 0
	for i := range 256 {
		if i >= current*size+size/2 {
			current++
		}
		m[i] = uint8(min(current*size, 255))
	}
	return
}

// Quantize reduces every color sample to a limited set of levels.
// levels is clamped to [1, 254].
func Quantize(levels int) Transform {
	m := quantizationMap(levels)
	return PixelFunc(func(_, _ int, src, dst []uint8) error {
		for i := range colorChannels(src) {
			dst[i] = m[src[i]]
		}
		return nil
	})
}

// Gamma raises every linear RGB component to the power g.
func Gamma(g float64) Transform {
	return ColorFunc{Model: LinearRGB, Func: func(s Sample) Sample {
		for i, v := range s {
			s[i] = math.Pow(max(v, 0), g)
		}
		return s
	}}
}

// Brightness scales the HSL lightness of every pixel by factor.
func Brightness(factor float64) Transform {
	return ColorFunc{Model: HSL, Func: func(s Sample) Sample {
		s[2] = min(max(s[2]*factor, 0), 1)
		return s
	}}
}
