package fastimage

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

const defaultOpacity = 128

// WatermarkOption is watermark option
type WatermarkOption struct {
	Mark    image.Image
	Opacity uint8
	Random  bool
	Offset  image.Point
}

// SetRandom sets the option for the Watermark position random or not.
func (w *WatermarkOption) SetRandom(random bool) *WatermarkOption {
	w.Random = random
	return w
}

// SetOffset sets the option for the Watermark offset base center when adding fixed watermark.
func (w *WatermarkOption) SetOffset(offset image.Point) *WatermarkOption {
	w.Offset = offset
	return w
}

// Watermark blends option.Mark into base on engine e. Only the rows covered
// by the mark are handed to the engine.
func Watermark(e *Engine, base image.Image, option *WatermarkOption) (image.Image, error) {
	return option.do(e, base)
}

func (w *WatermarkOption) do(e *Engine, base image.Image) (image.Image, error) {
	if e == nil {
		e = NewEngine(nil)
	}
	b, err := FromImage(base)
	if err != nil {
		return nil, err
	}
	t, area, err := w.Transform(b.Bounds())
	if err != nil {
		return nil, err
	}
	if area.Empty() {
		return b.Image(), nil
	}
	rs := regions(split(area, e.Pool().Workers(), SplitRowsMode))
	if _, err := e.Execute(b, rs, t, InPlace); err != nil {
		return nil, err
	}
	return b.Image(), nil
}

// Transform places the mark on an image of the given bounds and returns the
// blending transform together with the area it touches.
func (w *WatermarkOption) Transform(bounds image.Rectangle) (Transform, image.Rectangle, error) {
	if w.Mark == nil || w.Mark.Bounds().Empty() {
		return nil, image.Rectangle{}, newError(InvalidGeometry, "watermark has no mark")
	}
	var mark image.Image
	var offset image.Point
	if w.Random {
		mark, offset = w.randomWatermark(bounds)
	} else {
		mark, offset = w.fixedWatermark(bounds)
	}
	nrgba := imaging.Clone(mark)
	m, err := NewFromPix(nrgba.Rect.Dx(), nrgba.Rect.Dy(), 4, nrgba.Pix)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	opacity := w.Opacity
	if opacity == 0 {
		opacity = defaultOpacity
	}
	return &markBlend{mark: m, at: offset, opacity: float64(opacity) / 255},
		m.Bounds().Add(offset).Intersect(bounds), nil
}

func (w *WatermarkOption) randomWatermark(base image.Rectangle) (image.Image, image.Point) {
	mark := w.Mark
	if mark.Bounds().Dx() >= base.Dx()/3 || mark.Bounds().Dy() >= base.Dy()/3 {
		opt := new(ResizeOption)
		if calcResizeXY(base, mark.Bounds()) {
			opt.Width = max(base.Dx()/3, 1)
		} else {
			opt.Height = max(base.Dy()/3, 1)
		}
		mark = Resize(mark, opt)
	}
	mark = imaging.Rotate(mark, float64(randRange(-30, 30))+rand.Float64(), color.Transparent)
	return mark, image.Pt(
		randRange(base.Dx()/6, base.Dx()*5/6-mark.Bounds().Dx()),
		randRange(base.Dy()/6, base.Dy()*5/6-mark.Bounds().Dy()),
	)
}

func (w *WatermarkOption) fixedWatermark(base image.Rectangle) (image.Image, image.Point) {
	return w.Mark, image.Pt(
		base.Dx()/2-w.Mark.Bounds().Dx()/2+w.Offset.X,
		base.Dy()/2-w.Mark.Bounds().Dy()/2+w.Offset.Y,
	)
}

func randRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return rand.N(max-min+1) + min
}

func calcResizeXY(base, mark image.Rectangle) bool {
	return base.Dx()*mark.Dy()/mark.Dx() < base.Dy()
}

// markBlend draws a non-premultiplied RGBA mark over the buffer with its
// alpha scaled by opacity.
type markBlend struct {
	mark    *Buffer
	at      image.Point
	opacity float64
}

func (*markBlend) Local() bool { return true }

func (m *markBlend) Apply(src *Buffer, x, y int, dst []uint8) error {
	mp := m.mark.Pixel(x-m.at.X, y-m.at.Y)
	if mp == nil {
		return nil
	}
	a := float64(mp[3]) / 255 * m.opacity
	if a == 0 {
		return nil
	}
	over := func(mark, base uint8) uint8 {
		return clamp8(float64(mark)*a + float64(base)*(1-a))
	}
	px := src.Pixel(x, y)
	if colorChannels(dst) == 1 {
		dst[0] = over(uint8((int(mp[0])+int(mp[1])+int(mp[2]))/3), px[0])
	} else {
		for c := range 3 {
			dst[c] = over(mp[c], px[c])
		}
	}
	if len(dst) == 2 || len(dst) == 4 {
		last := len(dst) - 1
		dst[last] = over(255, px[last])
	}
	return nil
}
