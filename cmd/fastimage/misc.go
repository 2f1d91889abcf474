package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"github.com/sunshineplan/fastimage"
	"github.com/sunshineplan/tiff"
)

var tiffImage = regexp.MustCompile(`(?i)\.tiff?$`)

func open(file string) (image.Image, error) {
	img, err := fastimage.Open(file, fastimage.AutoOrientation(*autoOrientation))
	if err != nil && tiffImage.MatchString(file) {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return tiff.Decode(f)
	}
	return img, err
}

func loadImages(root string) (imgs []string) {
	var message atomic.Value
	message.Store("")
	var width int
	done, stopped := make(chan struct{}), make(chan struct{})
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m := message.Load().(string)
				if !*quiet {
					fmt.Fprintf(os.Stdout, "\r%s\r%s", strings.Repeat(" ", width), m)
				}
				width = runewidth.StringWidth(m)
			}
		}
	}()
	var dir string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("Failed to scan")
			return nil
		}
		if !d.IsDir() && fastimage.IsImageExt(filepath.Ext(d.Name())) {
			imgs = append(imgs, path)
		}
		if d.IsDir() {
			dir = filepath.Dir(path)
		}
		message.Store(fmt.Sprintf("Found images: %d, Scanning directory %s", len(imgs), dir))
		return nil
	})
	close(done)
	<-stopped
	if !*quiet {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", width))
	}
	return
}

var errSkip = errors.New("skip")

func convert(engine *fastimage.Engine, task *fastimage.Options, image, output string, force bool) (err error) {
	l := log.WithFields(logrus.Fields{"image": image, "output": output})
	if _, err = os.Stat(output); err == nil {
		if !force {
			return errSkip
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		l.WithError(err).Error("Failed to get FileInfo")
		return
	}
	path := filepath.Dir(output)
	if err = os.MkdirAll(path, 0755); err != nil {
		l.WithError(err).Error("Failed to create directory")
		return
	}
	img, err := open(image)
	if err != nil {
		l.WithError(err).Error("Failed to open image")
		return
	}
	f, err := os.CreateTemp(path, "*.tmp")
	if err != nil {
		l.WithError(err).Error("Failed to create temporary file")
		return
	}
	if err = task.Convert(engine, f, img); err != nil {
		l.WithError(err).WithField("kind", fastimage.KindOf(err)).Error("Failed to convert image")
		f.Close()
		os.Remove(f.Name())
		return
	}
	if err = f.Close(); err != nil {
		l.WithError(err).Error("Failed to write file")
		os.Remove(f.Name())
		return
	}
	if err = os.Rename(f.Name(), output); err != nil {
		l.WithError(err).Error("Failed to move file")
		os.Remove(f.Name())
	}
	return
}
