package fastimage

import (
	"bytes"
	"flag"
	"image"
	"image/draw"
	"image/png"
	"io"
	"testing"
)

func TestFormatFromExtension(t *testing.T) {
	if _, err := FormatFromExtension("Jpg"); err != nil {
		t.Fatal("jpg format want no error")
	}
	if f, err := FormatFromExtension(".TIFF"); err != nil || f != TIFF {
		t.Fatal("tiff format want no error")
	}
	if _, err := FormatFromExtension("txt"); err == nil {
		t.Fatal("txt format want error")
	}
}

func TestIsImageExt(t *testing.T) {
	for ext, want := range map[string]bool{
		".JPG": true, "jpeg": true, ".webp": true, ".tiff": true, ".pdf": false, "": false,
	} {
		if got := IsImageExt(ext); got != want {
			t.Errorf("IsImageExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestTextVar(t *testing.T) {
	testCase := []struct {
		argument string
		format   Format
	}{
		{"Jpg", JPEG},
		{"TIFF", TIFF},
		{"txt", Format(-1)},
	}
	for _, tc := range testCase {
		f := flag.NewFlagSet("test", flag.ContinueOnError)
		f.SetOutput(io.Discard)
		var format Format
		f.TextVar(&format, "f", Format(-1), "")
		f.Parse(append([]string{"-f"}, tc.argument))
		if format != tc.format {
			t.Errorf("expected %s format; got %s", tc.format, format)
		}
	}
	if _, err := Format(-1).MarshalText(); err == nil {
		t.Error("marshal unknown format want error")
	}
}

func TestEncode(t *testing.T) {
	testCase := []FormatOption{
		{Format: JPEG, EncodeOption: []EncodeOption{JPEGQuality(75)}},
		{Format: PNG, EncodeOption: []EncodeOption{PNGCompressionLevel(png.DefaultCompression)}},
		{Format: GIF, EncodeOption: []EncodeOption{GIFNumColors(256), GIFDrawer(draw.FloydSteinberg), GIFQuantizer(nil)}},
		{Format: TIFF},
		{Format: BMP},
	}

	m0 := pattern(30, 20, true)

	for _, tc := range testCase {
		// Encode the image.
		var buf bytes.Buffer
		fo := &FormatOption{tc.Format, tc.EncodeOption}
		if err := fo.Encode(&buf, m0); err != nil {
			t.Fatal(formatExts[fo.Format], err)
		}

		// Decode the image.
		m1, err := Decode(&buf)
		if err != nil {
			t.Fatal(formatExts[fo.Format], err)
		}

		if m0.Bounds() != m1.Bounds() {
			t.Fatalf("bounds differ: %v and %v", m0.Bounds(), m1.Bounds())
		}
	}

	if err := (&FormatOption{}).Encode(
		io.Discard,
		&image.NRGBA{
			Rect:   image.Rect(0, 0, 1, 1),
			Stride: 1 * 4,
			Pix:    []uint8{0xff, 0xff, 0xff, 0xff},
		},
	); err != nil {
		t.Fatal("encode image error")
	}

	if err := (&FormatOption{Format: -1}).Encode(io.Discard, m0); err == nil {
		t.Fatal("encode unsupported format expect an error")
	}
}
