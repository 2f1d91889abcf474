package fastimage

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorModel identifies a color space a transform can work in.
type ColorModel int

// Supported color models. Sample coordinates follow go-colorful:
// RGB components and S, V, L of HSV/HSL in [0, 1], hues in degrees,
// Lab/Luv/HCL lightness in [0, 1].
const (
	SRGB ColorModel = iota
	LinearRGB
	Lab
	Luv
	HCL
	HSV
	HSL
	XYZ
)

var colorModelNames = map[ColorModel]string{
	SRGB:      "srgb",
	LinearRGB: "linear",
	Lab:       "lab",
	Luv:       "luv",
	HCL:       "hcl",
	HSV:       "hsv",
	HSL:       "hsl",
	XYZ:       "xyz",
}

func (m ColorModel) String() string {
	if name, ok := colorModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ColorModel(%d)", int(m))
}

// ParseColorModel returns the color model with the given name.
func ParseColorModel(name string) (ColorModel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range colorModelNames {
		if n == name {
			return m, nil
		}
	}
	return 0, newError(UnsupportedColorModel, "unknown color model %q", name)
}

// Sample is a color expressed in the coordinates of some color model.
type Sample [3]float64

// Working is a color in the engine's working representation: linear-light
// RGB. Components may fall outside [0, 1] for out-of-gamut colors.
type Working [3]float64

type conversion struct {
	to   func(Sample) Working
	from func(Working) Sample
}

func linear(c colorful.Color) Working {
	r, g, b := c.LinearRgb()
	return Working{r, g, b}
}

func fromLinear(w Working) colorful.Color { return colorful.LinearRgb(w[0], w[1], w[2]) }

var conversions = map[ColorModel]conversion{
	SRGB: {
		to:   func(s Sample) Working { return linear(colorful.Color{R: s[0], G: s[1], B: s[2]}) },
		from: func(w Working) Sample { c := fromLinear(w); return Sample{c.R, c.G, c.B} },
	},
	LinearRGB: {
		to:   func(s Sample) Working { return Working(s) },
		from: func(w Working) Sample { return Sample(w) },
	},
	Lab: {
		to:   func(s Sample) Working { return linear(colorful.Lab(s[0], s[1], s[2])) },
		from: func(w Working) Sample { return sample(fromLinear(w).Lab()) },
	},
	Luv: {
		to:   func(s Sample) Working { return linear(colorful.Luv(s[0], s[1], s[2])) },
		from: func(w Working) Sample { return sample(fromLinear(w).Luv()) },
	},
	HCL: {
		to:   func(s Sample) Working { return linear(colorful.Hcl(s[0], s[1], s[2])) },
		from: func(w Working) Sample { return sample(fromLinear(w).Hcl()) },
	},
	HSV: {
		to:   func(s Sample) Working { return linear(colorful.Hsv(s[0], s[1], s[2])) },
		from: func(w Working) Sample { return sample(fromLinear(w).Hsv()) },
	},
	HSL: {
		to:   func(s Sample) Working { return linear(colorful.Hsl(s[0], s[1], s[2])) },
		from: func(w Working) Sample { return sample(fromLinear(w).Hsl()) },
	},
	XYZ: {
		to:   func(s Sample) Working { return Working(sample(colorful.XyzToLinearRgb(s[0], s[1], s[2]))) },
		from: func(w Working) Sample { return sample(colorful.LinearRgbToXyz(w[0], w[1], w[2])) },
	},
}

func sample(a, b, c float64) Sample { return Sample{a, b, c} }

// ToWorking converts s, expressed in model m, to the working representation.
func ToWorking(s Sample, m ColorModel) (Working, error) {
	conv, ok := conversions[m]
	if !ok {
		return Working{}, newError(UnsupportedColorModel, "no conversion for %v", m)
	}
	return conv.to(s), nil
}

// FromWorking converts w to the coordinates of model m.
func FromWorking(w Working, m ColorModel) (Sample, error) {
	conv, ok := conversions[m]
	if !ok {
		return Sample{}, newError(UnsupportedColorModel, "no conversion for %v", m)
	}
	return conv.from(w), nil
}

// ColorFunc is a local transform that maps each pixel through Func in the
// coordinates of Model. Alpha is preserved. Gray pixels are read as equal
// RGB components and written back as the mean of the result.
// A model without a conversion fails every region with
// UnsupportedColorModel.
type ColorFunc struct {
	Model ColorModel
	Func  func(Sample) Sample
}

// Local returns true.
func (ColorFunc) Local() bool { return true }

// Apply converts pixel (x, y) to f.Model, calls f.Func and stores the
// result back as sRGB.
func (f ColorFunc) Apply(src *Buffer, x, y int, dst []uint8) error {
	conv, ok := conversions[f.Model]
	if !ok {
		return newError(UnsupportedColorModel, "no conversion for %v", f.Model)
	}
	s := conv.from(conversions[SRGB].to(readRGB(src.Pixel(x, y))))
	if f.Func != nil {
		s = f.Func(s)
	}
	writeRGB(dst, conversions[SRGB].from(conv.to(s)))
	return nil
}

// readRGB returns the color samples of px as sRGB components in [0, 1].
func readRGB(px []uint8) Sample {
	if len(px) < 3 {
		g := float64(px[0]) / 255
		return Sample{g, g, g}
	}
	return Sample{float64(px[0]) / 255, float64(px[1]) / 255, float64(px[2]) / 255}
}

// writeRGB stores sRGB components in [0, 1] into the color samples of px,
// leaving alpha alone.
func writeRGB(px []uint8, s Sample) {
	if len(px) < 3 {
		px[0] = unit8((s[0] + s[1] + s[2]) / 3)
		return
	}
	px[0], px[1], px[2] = unit8(s[0]), unit8(s[1]), unit8(s[2])
}

// unit8 maps v from [0, 1] to a sample, clamping out-of-range values.
func unit8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// clamp8 rounds v and clamps it to [0, 255].
func clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
