package fastimage

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Kernel is a square convolution matrix of odd size.
type Kernel struct {
	size   int
	values []float64
}

// NewKernel builds a kernel from rows of weights. The rows must form a
// non-empty square matrix of odd size.
func NewKernel(rows [][]float64) (*Kernel, error) {
	n := len(rows)
	if n == 0 || n%2 == 0 {
		return nil, &Error{Kind: InvalidGeometry, Err: errors.Errorf("kernel size must be odd, got %d", n)}
	}
	k := &Kernel{size: n, values: make([]float64, 0, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, &Error{Kind: InvalidGeometry, Err: errors.Errorf("kernel row %d has %d values, want %d", i, len(row), n)}
		}
		k.values = append(k.values, row...)
	}
	return k, nil
}

func newKernel(radius int, fn func(x, y float64) float64) *Kernel {
	radius = max(radius, 0)
	n := 2*radius + 1
	k := &Kernel{size: n, values: make([]float64, n*n)}
	for j := range n {
		for i := range n {
			k.values[j*n+i] = fn(float64(i-radius), float64(j-radius))
		}
	}
	return k
}

// Size returns the width and height of the kernel.
func (k *Kernel) Size() int { return k.size }

// Radius returns the distance from the center to the edge of the kernel.
func (k *Kernel) Radius() int { return k.size / 2 }

// At returns the weight at column i and row j.
func (k *Kernel) At(i, j int) float64 { return k.values[j*k.size+i] }

// Sum returns the sum of all weights.
func (k *Kernel) Sum() (sum float64) {
	for _, v := range k.values {
		sum += v
	}
	return
}

func (k *Kernel) normalize() *Kernel {
	if sum := k.Sum(); sum != 0 {
		for i := range k.values {
			k.values[i] /= sum
		}
	}
	return k
}

// MeanKernel returns a box blur kernel of the given radius.
func MeanKernel(radius int) *Kernel {
	return newKernel(radius, func(_, _ float64) float64 { return 1 }).normalize()
}

// GaussianKernel returns a normalized gaussian blur kernel.
func GaussianKernel(radius int, sigma float64) *Kernel {
	if sigma <= 0 {
		sigma = 1
	}
	twoSigma2 := 2 * sigma * sigma
	return newKernel(radius, func(x, y float64) float64 {
		return math.Exp(-(x*x + y*y) / twoSigma2)
	}).normalize()
}

// LaplacianOfGaussianKernel returns a zero-sum laplacian of gaussian kernel
// for blob and edge detection.
func LaplacianOfGaussianKernel(radius int, sigma float64) *Kernel {
	if sigma <= 0 {
		sigma = 1
	}
	sigma2 := sigma * sigma
	k := newKernel(radius, func(x, y float64) float64 {
		r2 := x*x + y*y
		return math.Exp(-r2/(2*sigma2)) / (2 * math.Pi * sigma2) * (r2 - 2*sigma2) / (sigma2 * sigma2)
	})
	mean := k.Sum() / float64(len(k.values))
	for i := range k.values {
		k.values[i] -= mean
	}
	return k
}

// SharpenKernel returns a 3x3 sharpening kernel.
func SharpenKernel() *Kernel {
	k, _ := NewKernel([][]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
	return k
}

// Convolve returns a transform applying k to the color samples of every
// pixel. Neighbors outside the buffer are taken from the nearest edge pixel
// and alpha is kept.
func Convolve(k *Kernel) Transform {
	r := k.Radius()
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		n := colorChannels(dst)
		var acc [3]float64
		for j := range k.size {
			for i := range k.size {
				w := k.values[j*k.size+i]
				if w == 0 {
					continue
				}
				px := src.ClampedPixel(x+i-r, y+j-r)
				for c := range n {
					acc[c] += float64(px[c]) * w
				}
			}
		}
		for c := range n {
			dst[c] = clamp8(acc[c])
		}
		return nil
	})
}

// Median returns a transform replacing every color sample with the median of
// its neighborhood of the given radius.
func Median(radius int) Transform {
	radius = max(radius, 0)
	size := 2*radius + 1
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		window := make([]uint8, size*size)
		for c := range colorChannels(dst) {
			window = window[:0]
			for j := -radius; j <= radius; j++ {
				for i := -radius; i <= radius; i++ {
					window = append(window, src.ClampedPixel(x+i, y+j)[c])
				}
			}
			slices.Sort(window)
			dst[c] = window[len(window)/2]
		}
		return nil
	})
}

// EmbossKernel returns a 3x3 relief kernel lighting the image from the
// bottom right.
func EmbossKernel() *Kernel {
	k, _ := NewKernel([][]float64{
		{-2, -1, 0},
		{-1, 1, 1},
		{0, 1, 2},
	})
	return k
}

type gradientKernels struct {
	x, y [3][3]float64
}

var (
	sobel = gradientKernels{
		x: [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}},
		y: [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}},
	}
	prewitt = gradientKernels{
		x: [3][3]float64{{-1, 0, 1}, {-1, 0, 1}, {-1, 0, 1}},
		y: [3][3]float64{{-1, -1, -1}, {0, 0, 0}, {1, 1, 1}},
	}
)

// level returns the mean color level of px.
func level(px []uint8) float64 {
	n := colorChannels(px)
	var sum float64
	for c := range n {
		sum += float64(px[c])
	}
	return sum / float64(n)
}

// gradient writes the gradient magnitude of the mean color level into every
// color sample.
func (g gradientKernels) gradient() Transform {
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		var gx, gy float64
		for j := range 3 {
			for i := range 3 {
				v := level(src.ClampedPixel(x+i-1, y+j-1))
				gx += v * g.x[j][i]
				gy += v * g.y[j][i]
			}
		}
		v := clamp8(math.Hypot(gx, gy))
		for c := range colorChannels(dst) {
			dst[c] = v
		}
		return nil
	})
}

// gradientRGB writes the gradient magnitude of every color channel on its
// own.
func (g gradientKernels) gradientRGB() Transform {
	return KernelFunc(func(src *Buffer, x, y int, dst []uint8) error {
		n := colorChannels(dst)
		var gx, gy [3]float64
		for j := range 3 {
			for i := range 3 {
				px := src.ClampedPixel(x+i-1, y+j-1)
				for c := range n {
					gx[c] += float64(px[c]) * g.x[j][i]
					gy[c] += float64(px[c]) * g.y[j][i]
				}
			}
		}
		for c := range n {
			dst[c] = clamp8(math.Hypot(gx[c], gy[c]))
		}
		return nil
	})
}

// Sobel returns an edge detection transform writing the gradient magnitude
// of the mean color level into every color sample.
func Sobel() Transform { return sobel.gradient() }

// SobelRGB is Sobel applied to red, green and blue separately.
func SobelRGB() Transform { return sobel.gradientRGB() }

// Prewitt returns an edge detection transform like Sobel using the Prewitt
// operator.
func Prewitt() Transform { return prewitt.gradient() }

// PrewittRGB is Prewitt applied to red, green and blue separately.
func PrewittRGB() Transform { return prewitt.gradientRGB() }
