package fastimage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRecipe(t *testing.T) {
	o, err := LoadRecipe(strings.NewReader(`
format: png
quality: 90
resize:
  width: 800
  percent: 50
steps:
  - grayscale:luminosity
  - gaussian:2,1.5
  - negative
`))
	if err != nil {
		t.Fatal(err)
	}
	if o.Format.Format != PNG || len(o.Format.EncodeOption) != 1 {
		t.Errorf("unexpected format %v", o.Format)
	}
	if o.Resize == nil || o.Resize.Width != 800 || o.Resize.Height != 0 || o.Resize.Percent != 50 {
		t.Errorf("unexpected resize %v", o.Resize)
	}
	var steps []string
	for _, step := range o.Steps {
		steps = append(steps, step.String())
	}
	if strings.Join(steps, ";") != "grayscale:luminosity;gaussian:2,1.5;negative" {
		t.Errorf("unexpected steps %v", steps)
	}

	o, err = LoadRecipe(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if o.Format.Format != JPEG || o.Resize != nil || len(o.Steps) != 0 {
		t.Errorf("empty recipe gives %v", o)
	}

	for _, recipe := range []string{
		"steps:\n  - blur\n",
		"format: txt\n",
		"steps: [",
	} {
		if _, err := LoadRecipe(strings.NewReader(recipe)); err == nil {
			t.Errorf("%q want error", recipe)
		}
	}
}

func TestOpenRecipe(t *testing.T) {
	if _, err := OpenRecipe("/invalid/path"); err == nil {
		t.Error("OpenRecipe invalid path want error")
	}
	file := filepath.Join(t.TempDir(), "recipe.yaml")
	if err := os.WriteFile(file, []byte("format: bmp\nsteps: [sobel]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	o, err := OpenRecipe(file)
	if err != nil {
		t.Fatal(err)
	}
	if o.Format.Format != BMP || len(o.Steps) != 1 || o.Steps[0].Name != "sobel" {
		t.Errorf("unexpected options %v", o)
	}
}
