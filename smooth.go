package fastimage

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Kuwahara returns an edge preserving smoothing transform. Around every
// pixel the four overlapping (radius+1)x(radius+1) quadrants are compared and
// the HSV value of the pixel is replaced by the mean value of the quadrant
// with the smallest variance. Hue, saturation and alpha are kept.
func Kuwahara(radius int) Transform {
	radius = max(radius, 1)
	quadrants := [4]image.Point{{-radius, -radius}, {0, -radius}, {-radius, 0}, {0, 0}}
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		best, bestVar := 0.0, math.Inf(1)
		for _, q := range quadrants {
			var sum, sum2 float64
			for j := range radius + 1 {
				for i := range radius + 1 {
					v := hsvValue(src.ClampedPixel(x+q.X+i, y+q.Y+j))
					sum += v
					sum2 += v * v
				}
			}
			n := float64((radius + 1) * (radius + 1))
			mean := sum / n
			if variance := sum2/n - mean*mean; variance < bestVar {
				best, bestVar = mean, variance
			}
		}
		s := readRGB(src.Pixel(x, y))
		h, sat, _ := colorful.Color{R: s[0], G: s[1], B: s[2]}.Hsv()
		c := colorful.Hsv(h, sat, best)
		writeRGB(dst, Sample{c.R, c.G, c.B})
		return nil
	})
}

// hsvValue returns the HSV value of px in [0, 1].
func hsvValue(px []uint8) float64 {
	v := px[0]
	if len(px) >= 3 {
		v = max(px[0], px[1], px[2])
	}
	return float64(v) / 255
}

// Bilateral returns an edge preserving blur. Neighbors are weighted by a
// gaussian of their distance (sigmaSpatial, in pixels) and of their color
// difference to the center pixel (sigmaIntensity, on samples scaled to
// [0, 1]). Non-positive sigmas fall back to 1 and 0.1.
func Bilateral(radius int, sigmaSpatial, sigmaIntensity float64) Transform {
	spatial := GaussianKernel(radius, sigmaSpatial)
	r := spatial.Radius()
	if sigmaIntensity <= 0 {
		sigmaIntensity = 0.1
	}
	twoSigma2 := 2 * sigmaIntensity * sigmaIntensity
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		n := colorChannels(dst)
		center := src.Pixel(x, y)
		var acc [3]float64
		var total float64
		for j := range spatial.size {
			for i := range spatial.size {
				px := src.ClampedPixel(x+i-r, y+j-r)
				var d2 float64
				for c := range n {
					d := (float64(px[c]) - float64(center[c])) / 255
					d2 += d * d
				}
				w := spatial.At(i, j) * math.Exp(-d2/twoSigma2)
				total += w
				for c := range n {
					acc[c] += w * float64(px[c])
				}
			}
		}
		for c := range n {
			dst[c] = clamp8(acc[c] / total)
		}
		return nil
	})
}
