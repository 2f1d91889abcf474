package fastimage

import (
	"image"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
)

var defaultFormat = FormatOption{Format: JPEG}

// Options represents options that can be used to configure a image operation.
type Options struct {
	Steps     []Step
	Watermark *WatermarkOption
	Resize    *ResizeOption
	Format    FormatOption
}

// NewOptions creates a new option with default setting.
func NewOptions() Options {
	return Options{Format: defaultFormat}
}

// AddStep appends steps to the pipeline.
func (opts *Options) AddStep(steps ...Step) *Options {
	opts.Steps = append(opts.Steps, steps...)
	return opts
}

// SetSteps replaces the pipeline with the steps parsed from s, a list such
// as "grayscale:luminosity;gaussian:2,1.5". On error the pipeline is kept.
func (opts *Options) SetSteps(s string) error {
	steps, err := ParseSteps(s)
	if err != nil {
		return err
	}
	opts.Steps = steps
	return nil
}

// SetWatermark sets the value for the Watermark field.
func (opts *Options) SetWatermark(mark image.Image, opacity uint) *Options {
	opts.Watermark = &WatermarkOption{Mark: mark}
	if opacity == 0 {
		opts.Watermark.Opacity = defaultOpacity
	} else {
		opts.Watermark.Opacity = uint8(min(opacity, 255))
	}
	return opts
}

// SetResize sets the value for the Resize field.
func (opts *Options) SetResize(width, height int, percent float64) *Options {
	opts.Resize = &ResizeOption{Width: width, Height: height, Percent: percent}
	return opts
}

// SetFormat sets the value for the Format field.
func (opts *Options) SetFormat(f string, options ...EncodeOption) (err error) {
	opts.Format, err = setFormat(f, options...)
	return
}

// Process runs the steps on engine e, then resizes the result and adds the
// watermark. Consecutive pixel steps run as a single chain on one buffer;
// whole image steps such as crop or rotate run between them.
// A nil engine runs the steps on the calling goroutine.
func (opts *Options) Process(e *Engine, base image.Image) (image.Image, error) {
	if e == nil {
		e = NewEngine(nil)
	}
	var batch []Transform
	flush := func() (err error) {
		if len(batch) > 0 {
			base, err = e.RunImage(base, batch...)
			batch = batch[:0]
		}
		return
	}
	for _, step := range opts.Steps {
		if !step.IsImageOp() {
			t, err := step.Transform()
			if err != nil {
				return nil, err
			}
			batch = append(batch, t)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		op, err := step.ImageOp()
		if err != nil {
			return nil, err
		}
		if base, err = op(e, base); err != nil {
			return nil, errors.Wrapf(err, "step %s", step)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if opts.Resize != nil {
		base = opts.Resize.do(base)
	}
	if opts.Watermark != nil {
		var err error
		if base, err = opts.Watermark.do(e, base); err != nil {
			return nil, errors.Wrap(err, "watermark")
		}
	}
	return base, nil
}

// Convert image according options opts. Options is read only, so one value
// may convert many images concurrently.
func (opts *Options) Convert(e *Engine, w io.Writer, base image.Image) error {
	img, err := opts.Process(e, base)
	if err != nil {
		return err
	}
	return opts.Format.Encode(w, img)
}

// ConvertExt convert filename's ext according image format.
func (opts *Options) ConvertExt(filename string) string {
	return filename[0:len(filename)-len(filepath.Ext(filename))] + "." + formatExts[opts.Format.Format]
}
