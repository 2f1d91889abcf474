package fastimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

type opaquer interface {
	Opaque() bool
}

// FromImage copies img into a new buffer. Gray images become single-channel
// buffers, opaque images RGB buffers and everything else RGBA buffers.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, newError(InvalidGeometry, "nil image")
	}
	r := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		b, err := New(r.Dx(), r.Dy(), 1)
		if err != nil {
			return nil, err
		}
		for y := range b.height {
			i := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(b.pix[y*b.width:(y+1)*b.width], src.Pix[i:i+b.width])
		}
		return b, nil
	case *image.Gray16:
		b, err := New(r.Dx(), r.Dy(), 1)
		if err != nil {
			return nil, err
		}
		for y := range b.height {
			for x := range b.width {
				b.pix[y*b.width+x] = uint8(src.Gray16At(r.Min.X+x, r.Min.Y+y).Y >> 8)
			}
		}
		return b, nil
	}

	channels := 4
	if o, ok := img.(opaquer); ok && o.Opaque() {
		channels = 3
	}
	b, err := New(r.Dx(), r.Dy(), channels)
	if err != nil {
		return nil, err
	}
	nrgba := imaging.Clone(img)
	if channels == 4 {
		copy(b.pix, nrgba.Pix)
		return b, nil
	}
	for y := range b.height {
		s := nrgba.Pix[y*nrgba.Stride:]
		d := b.pix[y*b.Stride():]
		for x := range b.width {
			copy(d[x*3:x*3+3], s[x*4:x*4+3])
		}
	}
	return b, nil
}

// Image returns a copy of the buffer as an image: *image.Gray for gray
// buffers and *image.NRGBA otherwise.
func (b *Buffer) Image() image.Image {
	if b.channels == 1 {
		img := image.NewGray(b.Bounds())
		copy(img.Pix, b.pix)
		return img
	}
	img := image.NewNRGBA(b.Bounds())
	if b.channels == 4 {
		copy(img.Pix, b.pix)
		return img
	}
	for i, j := 0, 0; i < len(b.pix); i, j = i+b.channels, j+4 {
		px := b.pix[i : i+b.channels : i+b.channels]
		c := color.NRGBA{A: 0xff}
		switch b.channels {
		case 2:
			c.R, c.G, c.B, c.A = px[0], px[0], px[0], px[1]
		case 3:
			c.R, c.G, c.B = px[0], px[1], px[2]
		}
		d := img.Pix[j : j+4 : j+4]
		d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
	}
	return img
}

// ToGray converts img to gray using luminosity weights on engine e.
// Alpha is dropped. A nil engine works on the calling goroutine.
func ToGray(e *Engine, img image.Image) (*image.Gray, error) {
	b, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	if b.channels >= 3 {
		if e == nil {
			e = NewEngine(nil)
		}
		if b, err = e.Apply(b, Grayscale(Luminosity), InPlace); err != nil {
			return nil, err
		}
	}
	gray := image.NewGray(b.Bounds())
	for i := range gray.Pix {
		gray.Pix[i] = b.pix[i*b.channels]
	}
	return gray, nil
}
