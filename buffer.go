package fastimage

import (
	"bytes"
	"image"
	"math"

	"github.com/pkg/errors"
)

// MaxChannels is the largest number of samples per pixel a Buffer holds.
const MaxChannels = 4

// Buffer is an in-memory raster of 8-bit samples stored row-major with
// interleaved channels: 1 = gray, 2 = gray+alpha, 3 = RGB, 4 = RGBA
// (non-premultiplied, sRGB encoded).
//
// The length of the backing storage always equals width*height*channels and
// a Buffer never shares its storage with another Buffer.
type Buffer struct {
	width, height int
	channels      int
	pix           []uint8
}

func checkGeometry(width, height, channels int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, newError(InvalidGeometry, "dimensions must be positive, got %dx%d", width, height)
	}
	if channels < 1 || channels > MaxChannels {
		return 0, newError(InvalidGeometry, "channel count must be between 1 and %d, got %d", MaxChannels, channels)
	}
	if width > math.MaxInt/channels || height > math.MaxInt/(width*channels) {
		return 0, newError(InvalidGeometry, "size %dx%dx%d overflows", width, height, channels)
	}
	return width * height * channels, nil
}

// New allocates a zeroed buffer of the given geometry.
func New(width, height, channels int) (*Buffer, error) {
	n, err := checkGeometry(width, height, channels)
	if err != nil {
		return nil, err
	}
	return &Buffer{width: width, height: height, channels: channels, pix: make([]uint8, n)}, nil
}

// NewFromPix creates a buffer holding a copy of pix, which must contain
// exactly width*height*channels samples.
func NewFromPix(width, height, channels int, pix []uint8) (*Buffer, error) {
	n, err := checkGeometry(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(pix) != n {
		return nil, newError(InvalidGeometry, "storage holds %d samples, geometry %dx%dx%d needs %d",
			len(pix), width, height, channels, n)
	}
	b := &Buffer{width: width, height: height, channels: channels, pix: make([]uint8, n)}
	copy(b.pix, pix)
	return b, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Channels returns the number of samples per pixel.
func (b *Buffer) Channels() int { return b.channels }

// Stride returns the number of samples per row.
func (b *Buffer) Stride() int { return b.width * b.channels }

// Bounds returns the buffer extent as a rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Pix returns the backing storage. Writes through the returned slice
// modify the buffer.
func (b *Buffer) Pix() []uint8 { return b.pix }

// PixOffset returns the index of the first sample of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int { return y*b.width*b.channels + x*b.channels }

// Pixel returns the samples of pixel (x, y), or nil if it lies outside the buffer.
func (b *Buffer) Pixel(x, y int) []uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	i := b.PixOffset(x, y)
	return b.pix[i : i+b.channels : i+b.channels]
}

// ClampedPixel returns the samples of the pixel nearest to (x, y) inside
// the buffer.
func (b *Buffer) ClampedPixel(x, y int) []uint8 {
	return b.Pixel(clampIndex(x, b.width), clampIndex(y, b.height))
}

// Validate checks that the storage still matches the declared geometry.
func (b *Buffer) Validate() error {
	if b == nil {
		return newError(InvalidGeometry, "nil buffer")
	}
	n, err := checkGeometry(b.width, b.height, b.channels)
	if err != nil {
		return err
	}
	if len(b.pix) != n {
		return newError(InvalidGeometry, "storage holds %d samples, geometry %dx%dx%d needs %d",
			len(b.pix), b.width, b.height, b.channels, n)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height, channels: b.channels, pix: make([]uint8, len(b.pix))}
	copy(c.pix, b.pix)
	return c
}

// Equal reports whether both buffers have the same geometry and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.width == o.width && b.height == o.height && b.channels == o.channels && bytes.Equal(b.pix, o.pix)
}

// View is access restricted to the samples of one region of a buffer.
// Pix spans from the first sample of the region to its last one; for regions
// narrower than the buffer it also covers samples of other regions, so use
// Row or Pixel to stay inside.
type View struct {
	Region   Region
	Pix      []uint8
	Stride   int
	Channels int
}

// View returns access to the samples of region r.
func (b *Buffer) View(r Region) (View, error) {
	if r.Bounds.Empty() || !r.Bounds.In(b.Bounds()) {
		return View{}, regionError(OutOfBounds, r, errors.Errorf("outside buffer %v", b.Bounds()))
	}
	start := b.PixOffset(r.Bounds.Min.X, r.Bounds.Min.Y)
	end := b.PixOffset(r.Bounds.Max.X-1, r.Bounds.Max.Y-1) + b.channels
	return View{Region: r, Pix: b.pix[start:end:end], Stride: b.Stride(), Channels: b.channels}, nil
}

// Row returns the samples of row y restricted to the region's columns.
func (v View) Row(y int) []uint8 {
	r := v.Region.Bounds
	if y < r.Min.Y || y >= r.Max.Y {
		return nil
	}
	i := (y-r.Min.Y)*v.Stride
	n := r.Dx() * v.Channels
	return v.Pix[i : i+n : i+n]
}

// Pixel returns the samples of pixel (x, y) if it lies inside the region.
func (v View) Pixel(x, y int) []uint8 {
	if !image.Pt(x, y).In(v.Region.Bounds) {
		return nil
	}
	i := (y-v.Region.Bounds.Min.Y)*v.Stride + (x-v.Region.Bounds.Min.X)*v.Channels
	return v.Pix[i : i+v.Channels : i+v.Channels]
}

// Len returns the number of samples that belong to the region.
func (v View) Len() int { return v.Region.Bounds.Dx() * v.Region.Bounds.Dy() * v.Channels }

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
