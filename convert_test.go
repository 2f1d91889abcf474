package fastimage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func encodeTest(t *testing.T, format Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, pattern(15, 10, false), &FormatOption{Format: format}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeWrite(t *testing.T) {
	for _, format := range []Format{JPEG, PNG, GIF, TIFF, BMP} {
		b := encodeTest(t, format)
		img, err := Decode(bytes.NewBuffer(b))
		if err != nil {
			t.Error("Failed to decode", format, err)
			continue
		}
		if img.Bounds().Dx() != 15 || img.Bounds().Dy() != 10 {
			t.Error("Wrong bounds", format, img.Bounds())
		}
		if err := Write(io.Discard, img, &FormatOption{}); err != nil {
			t.Error("Failed to write", format)
		}
		if _, _, err := DecodeConfig(bytes.NewBuffer(b)); err != nil {
			t.Error("Failed to decode", format, "config")
		}
		buffer, err := DecodeBuffer(bytes.NewBuffer(b), AutoOrientation(false))
		if err != nil {
			t.Error("Failed to decode buffer", format, err)
			continue
		}
		if buffer.Width() != 15 || buffer.Height() != 10 {
			t.Error("Wrong buffer size", format, buffer.Bounds())
		}
	}
	if _, err := Decode(bytes.NewBufferString("Hello")); err == nil {
		t.Error("Decode string want error")
	}
	if _, err := DecodeBuffer(bytes.NewBufferString("Hello")); err == nil {
		t.Error("DecodeBuffer string want error")
	}
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open("/invalid/path"); err == nil {
		t.Error("Open invalid path want error")
	}
	text := filepath.Join(dir, "build.bat")
	if err := os.WriteFile(text, []byte("echo"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(text); err == nil {
		t.Error("Open invalid image want error")
	}
	img := pattern(8, 8, true)
	if err := Save("/invalid/path/tmp.png", img, &FormatOption{Format: PNG}); err == nil {
		t.Error("Save invalid path want error")
	}
	output := filepath.Join(dir, "tmp.png")
	if err := Save(output, img, &FormatOption{Format: PNG}); err != nil {
		t.Error("Fail to save image", err)
		return
	}
	saved, err := Open(output)
	if err != nil {
		t.Fatal(err)
	}
	compare(t, img, saved)
}

func TestSaveFailureRemovesFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "bad.png")
	if err := Save(output, pattern(4, 4, false), &FormatOption{Format: Format(42)}); err == nil {
		t.Fatal("Save unknown format want error")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("partial output left behind: %v", err)
	}
}
