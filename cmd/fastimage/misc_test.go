package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sunshineplan/fastimage"
)

func writeImage(t *testing.T, file string) {
	t.Helper()
	b, err := fastimage.New(6, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := fastimage.Save(file, b.Image(), &fastimage.FormatOption{Format: fastimage.PNG}); err != nil {
		t.Fatal(err)
	}
}

func TestLoadImages(t *testing.T) {
	*quiet = true
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(root, "a.png"))
	writeImage(t, filepath.Join(root, "sub", "b.PNG"))
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	imgs := loadImages(root)
	slices.Sort(imgs)
	want := []string{filepath.Join(root, "a.png"), filepath.Join(root, "sub", "b.PNG")}
	if !slices.Equal(imgs, want) {
		t.Errorf("want %v, got %v", want, imgs)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeImage(t, src)
	engine := fastimage.NewEngine(nil)
	task := fastimage.NewOptions()
	if err := task.SetSteps("negative"); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out", "in.jpg")

	if err := convert(engine, &task, src, output, false); err != nil {
		t.Fatal(err)
	}
	if _, err := fastimage.Open(output); err != nil {
		t.Fatal(err)
	}
	if err := convert(engine, &task, src, output, false); !errors.Is(err, errSkip) {
		t.Errorf("existing output: want errSkip, got %v", err)
	}
	if err := convert(engine, &task, src, output, true); err != nil {
		t.Errorf("force: %v", err)
	}

	bad := fastimage.Options{Format: fastimage.FormatOption{Format: fastimage.Format(42)}}
	failed := filepath.Join(dir, "failed", "in.jpg")
	if err := convert(engine, &bad, src, failed, false); err == nil {
		t.Fatal("unknown format want error")
	}
	entries, err := os.ReadDir(filepath.Dir(failed))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
