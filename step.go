package fastimage

import (
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Step is one named transform of a processing pipeline with its arguments,
// written as "name" or "name:arg1,arg2".
type Step struct {
	Name string
	Args []string
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + ":" + strings.Join(s.Args, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStep(string(text))
	return
}

// ParseStep parses a step such as "gaussian:2,1.5".
func ParseStep(s string) (Step, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(s), ":")
	step := Step{Name: strings.ToLower(strings.TrimSpace(name))}
	if args = strings.TrimSpace(args); args != "" {
		for _, arg := range strings.Split(args, ",") {
			step.Args = append(step.Args, strings.TrimSpace(arg))
		}
	}
	if _, err := step.build(); err != nil {
		return Step{}, err
	}
	return step, nil
}

// ParseSteps parses a list of steps separated by semicolons.
func ParseSteps(s string) (steps []Step, err error) {
	for _, i := range strings.Split(s, ";") {
		if strings.TrimSpace(i) == "" {
			continue
		}
		step, err := ParseStep(i)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return
}

// IsImageOp reports whether the step works on the whole image rather than
// pixel by pixel.
func (s Step) IsImageOp() bool {
	return stepBuilders[s.Name].op != nil
}

// Transform builds the pixel transform named by the step.
func (s Step) Transform() (Transform, error) {
	b, err := s.build()
	if err != nil {
		return nil, err
	}
	if b.transform == nil {
		return nil, errors.Errorf("step %s works on whole images", s)
	}
	return b.transform, nil
}

// ImageOp builds the operation named by the step. Pixel transforms run as a
// single engine execution.
func (s Step) ImageOp() (ImageOp, error) {
	b, err := s.build()
	if err != nil {
		return nil, err
	}
	if b.op != nil {
		return b.op, nil
	}
	return func(e *Engine, img image.Image) (image.Image, error) {
		return e.RunImage(img, b.transform)
	}, nil
}

type builtStep struct {
	transform Transform
	op        ImageOp
}

func (s Step) build() (builtStep, error) {
	builder, ok := stepBuilders[s.Name]
	if !ok {
		return builtStep{}, errors.Errorf("unknown step %q", s.Name)
	}
	if len(s.Args) > builder.args {
		return builtStep{}, errors.Errorf("step %s takes at most %d arguments, got %d", s.Name, builder.args, len(s.Args))
	}
	var b builtStep
	var err error
	if builder.op != nil {
		b.op, err = builder.op(stepArgs(s.Args))
	} else {
		b.transform, err = builder.transform(stepArgs(s.Args))
	}
	if err != nil {
		return builtStep{}, errors.Wrapf(err, "step %s", s)
	}
	return b, nil
}

// StepNames returns the names of all known steps in alphabetical order.
func StepNames() []string {
	names := make([]string, 0, len(stepBuilders))
	for name := range stepBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type stepArgs []string

func (a stepArgs) getString(i int, def string) string {
	if i < len(a) && a[i] != "" {
		return a[i]
	}
	return def
}

func (a stepArgs) getFloat(i int, def float64) (float64, error) {
	if i >= len(a) || a[i] == "" {
		return def, nil
	}
	return strconv.ParseFloat(a[i], 64)
}

func (a stepArgs) getInt(i int, def int) (int, error) {
	if i >= len(a) || a[i] == "" {
		return def, nil
	}
	return strconv.Atoi(a[i])
}

func (a stepArgs) getUint8(i int, def uint8) (uint8, error) {
	if i >= len(a) || a[i] == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(a[i], 10, 8)
	return uint8(n), err
}

func (a stepArgs) required(i int, name string) (string, error) {
	if i >= len(a) || a[i] == "" {
		return "", errors.Errorf("missing %s", name)
	}
	return a[i], nil
}

// stepBuilder builds either a pixel transform or a whole image operation
// from at most args arguments.
type stepBuilder struct {
	args      int
	transform func(stepArgs) (Transform, error)
	op        func(stepArgs) (ImageOp, error)
}

func noArgs(fn func() Transform) stepBuilder {
	return stepBuilder{transform: func(stepArgs) (Transform, error) { return fn(), nil }}
}

func transformStep(args int, fn func(stepArgs) (Transform, error)) stepBuilder {
	return stepBuilder{args: args, transform: fn}
}

func opStep(args int, fn func(stepArgs) (ImageOp, error)) stepBuilder {
	return stepBuilder{args: args, op: fn}
}

var stepBuilders map[string]stepBuilder

func init() {
	stepBuilders = map[string]stepBuilder{
		"identity":    noArgs(Identity),
		"negative":    noArgs(Negative),
		"sepia":       noArgs(Sepia),
		"sharpen":     noArgs(func() Transform { return Convolve(SharpenKernel()) }),
		"emboss":      noArgs(func() Transform { return Convolve(EmbossKernel()) }),
		"sobel":       noArgs(Sobel),
		"sobel-rgb":   noArgs(SobelRGB),
		"prewitt":     noArgs(Prewitt),
		"prewitt-rgb": noArgs(PrewittRGB),
		"grayscale": transformStep(1, func(a stepArgs) (Transform, error) {
			s, ok := grayscaleStrategies[strings.ToLower(a.getString(0, "average"))]
			if !ok {
				return nil, errors.Errorf("unknown grayscale strategy %q", a.getString(0, ""))
			}
			return Grayscale(s), nil
		}),
		"threshold": transformStep(3, func(a stepArgs) (Transform, error) {
			r, err := a.getUint8(0, 127)
			if err != nil {
				return nil, err
			}
			g, err := a.getUint8(1, r)
			if err != nil {
				return nil, err
			}
			b, err := a.getUint8(2, r)
			if err != nil {
				return nil, err
			}
			return Threshold(r, g, b), nil
		}),
		"quantize": transformStep(1, func(a stepArgs) (Transform, error) {
			levels, err := a.getInt(0, 4)
			if err != nil {
				return nil, err
			}
			return Quantize(levels), nil
		}),
		"gamma": transformStep(1, func(a stepArgs) (Transform, error) {
			g, err := a.getFloat(0, 1)
			if err != nil {
				return nil, err
			}
			return Gamma(g), nil
		}),
		"brightness": transformStep(1, func(a stepArgs) (Transform, error) {
			f, err := a.getFloat(0, 1)
			if err != nil {
				return nil, err
			}
			return Brightness(f), nil
		}),
		"mean": transformStep(1, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 1)
			if err != nil {
				return nil, err
			}
			return Convolve(MeanKernel(r)), nil
		}),
		"gaussian": transformStep(2, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 1)
			if err != nil {
				return nil, err
			}
			sigma, err := a.getFloat(1, 1)
			if err != nil {
				return nil, err
			}
			return Convolve(GaussianKernel(r, sigma)), nil
		}),
		"log": transformStep(2, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 2)
			if err != nil {
				return nil, err
			}
			sigma, err := a.getFloat(1, 1)
			if err != nil {
				return nil, err
			}
			return Convolve(LaplacianOfGaussianKernel(r, sigma)), nil
		}),
		"median": transformStep(1, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 1)
			if err != nil {
				return nil, err
			}
			return Median(r), nil
		}),
		"kuwahara": transformStep(1, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 2)
			if err != nil {
				return nil, err
			}
			return Kuwahara(r), nil
		}),
		"bilateral": transformStep(3, func(a stepArgs) (Transform, error) {
			r, err := a.getInt(0, 3)
			if err != nil {
				return nil, err
			}
			spatial, err := a.getFloat(1, 1)
			if err != nil {
				return nil, err
			}
			intensity, err := a.getFloat(2, 0.1)
			if err != nil {
				return nil, err
			}
			return Bilateral(r, spatial, intensity), nil
		}),
		"color": transformStep(1, func(a stepArgs) (Transform, error) {
			m, err := ParseColorModel(a.getString(0, "srgb"))
			if err != nil {
				return nil, err
			}
			return ColorFunc{Model: m}, nil
		}),
		"crop": opStep(4, func(a stepArgs) (ImageOp, error) {
			var v [4]int
			for i, name := range []string{"x", "y", "width", "height"} {
				s, err := a.required(i, name)
				if err != nil {
					return nil, err
				}
				if v[i], err = strconv.Atoi(s); err != nil {
					return nil, err
				}
			}
			if v[2] <= 0 || v[3] <= 0 {
				return nil, newError(InvalidGeometry, "crop size %dx%d", v[2], v[3])
			}
			return Crop(image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3])), nil
		}),
		"rotate": opStep(1, func(a stepArgs) (ImageOp, error) {
			angle, err := a.getFloat(0, 90)
			if err != nil {
				return nil, err
			}
			return Rotate(angle), nil
		}),
		"watermark": opStep(4, func(a stepArgs) (ImageOp, error) {
			file, err := a.required(0, "mark file")
			if err != nil {
				return nil, err
			}
			mark, err := Open(file)
			if err != nil {
				return nil, err
			}
			opacity, err := a.getUint8(1, defaultOpacity)
			if err != nil {
				return nil, err
			}
			w := &WatermarkOption{Mark: mark, Opacity: opacity}
			if a.getString(2, "") == "random" {
				if len(a) > 3 {
					return nil, errors.New("random watermark takes no offset")
				}
				w.SetRandom(true)
			} else {
				x, err := a.getInt(2, 0)
				if err != nil {
					return nil, err
				}
				y, err := a.getInt(3, 0)
				if err != nil {
					return nil, err
				}
				w.SetOffset(image.Pt(x, y))
			}
			return w.do, nil
		}),
	}
}
