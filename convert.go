package fastimage

import (
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

type decodeConfig struct {
	autoOrientation bool
}

// DecodeOption configures Decode, DecodeBuffer and Open.
type DecodeOption func(*decodeConfig)

// AutoOrientation controls whether decoded images are turned upright using
// their EXIF orientation tag. It is on unless disabled.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) { c.autoOrientation = enabled }
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{autoOrientation: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Decode reads an image in any registered format from r. Formats from other
// packages must be registered with the image package before the call.
func Decode(r io.Reader, opts ...DecodeOption) (image.Image, error) {
	cfg := newDecodeConfig(opts)
	img, err := imaging.Decode(r, imaging.AutoOrientation(cfg.autoOrientation))
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return img, nil
}

// DecodeBuffer reads an image from r into a new buffer.
func DecodeBuffer(r io.Reader, opts ...DecodeOption) (*Buffer, error) {
	img, err := Decode(r, opts...)
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// DecodeConfig returns the dimensions and color model of the image in r
// along with the name of its format, without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return cfg, format, errors.Wrap(err, "decode config")
	}
	return cfg, format, nil
}

// Open decodes the image stored in file.
func Open(file string, opts ...DecodeOption) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, opts...)
}

// Write encodes base to w as described by option.
func Write(w io.Writer, base image.Image, option *FormatOption) error {
	return option.Encode(w, base)
}

// Save encodes base into the file output, which is created or truncated.
// A file that could not be fully written is removed.
func Save(output string, base image.Image, option *FormatOption) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(output)
		}
	}()

	return option.Encode(f, base)
}
