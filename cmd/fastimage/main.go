package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sunshineplan/fastimage"
	"github.com/sunshineplan/utils/progressbar"
	"github.com/vharitonsky/iniflags"
	"golang.org/x/sync/errgroup"
)

var (
	src             = flag.String("src", "", "")
	dst             = flag.String("dst", "output", "")
	force           = flag.Bool("force", false, "")
	format          = flag.String("format", "jpg", "")
	quality         = flag.Int("quality", 75, "")
	steps           = flag.String("steps", "", "")
	recipe          = flag.String("recipe", "", "")
	watermark       = flag.String("watermark", "", "")
	opacity         = flag.Uint("opacity", 128, "")
	random          = flag.Bool("random", false, "")
	offsetX         = flag.Int("x", 0, "")
	offsetY         = flag.Int("y", 0, "")
	width           = flag.Int("width", 0, "")
	height          = flag.Int("height", 0, "")
	percent         = flag.Float64("percent", 0, "")
	worker          = flag.Int("worker", 5, "")
	threads         = flag.Int("threads", 0, "")
	autoOrientation = flag.Bool("auto-orientation", true, "")
	debug           = flag.Bool("debug", false, "")
	quiet           = flag.Bool("quiet", false, "")
)

var log = logrus.New()

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	fmt.Println(`
  --src
		source file or directory
  --dst
		destination directory (default: output)
  --force
		force overwrite (default: false)
  --format
		output format (jpg, jpeg, png, gif, tif, tiff and bmp are supported, default: jpg)
  --quality
		set jpeg quality (range 1-100, default: 75)
  --steps
		processing steps separated by semicolons, e.g. grayscale:luminosity;gaussian:2,1.5
  --recipe
		YAML recipe file, overrides format, quality, steps and resize flags
  --watermark
		watermark path
  --opacity
		watermark opacity (range 0-255, default: 128)
  --random
		random watermark (default: false)
  --x, --y
		fixed watermark center offset X, Y value. Only used in no random mode.
  --width
		resize width, if one of width or height is 0, the image aspect ratio is preserved.
  --height
		resize height, if one of width or height is 0, the image aspect ratio is preserved.
  --percent
		resize percent, only when both of width and height are 0.
  --worker
		number of images converted at the same time (default: 5)
  --threads
		number of threads processing one image (default: number of CPUs)
  --auto-orientation
		apply EXIF orientation when decoding (default: true)
  --debug
		verbose logging (default: false)
  --quiet
		no status line, no progress bar and no exit prompt (default: false)`)
	fmt.Println("\nAvailable steps:", fastimage.StepNames())
}

func initLogger(w io.Writer) {
	log.SetOutput(w)
	if *debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
}

func newTask() (task fastimage.Options, err error) {
	if *recipe != "" {
		task, err = fastimage.OpenRecipe(*recipe)
	} else {
		task = fastimage.NewOptions()
		if err = task.SetFormat(*format, fastimage.JPEGQuality(*quality)); err != nil {
			return
		}
		if err = task.SetSteps(*steps); err != nil {
			return
		}
		if *width != 0 || *height != 0 || *percent != 0 {
			task.SetResize(*width, *height, *percent)
		}
	}
	if err != nil || *watermark == "" {
		return
	}
	mark, err := fastimage.Open(*watermark)
	if err != nil {
		return
	}
	task.SetWatermark(mark, *opacity)
	task.Watermark.SetRandom(*random).SetOffset(image.Point{X: *offsetX, Y: *offsetY})
	return
}

func main() {
	var code int
	defer func() {
		if !*quiet {
			fmt.Println("Press enter key to exit . . .")
			fmt.Scanln()
		}
		os.Exit(code)
	}()

	self, err := os.Executable()
	if err != nil {
		log.Errorln("Failed to get self path:", err)
		code = 1
		return
	}

	flag.Usage = usage
	iniflags.SetConfigFile(filepath.Join(filepath.Dir(self), "config.ini"))
	iniflags.SetAllowMissingConfigFile(true)
	iniflags.Parse()

	f, err := os.OpenFile(
		filepath.Join(filepath.Dir(self), fmt.Sprintf("convert%s.log", time.Now().Format("20060102150405"))),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Errorln("Failed to open log file:", err)
		code = 1
		return
	}
	defer f.Close()
	initLogger(io.MultiWriter(f, os.Stdout))

	task, err := newTask()
	if err != nil {
		log.WithError(err).Error("Invalid task")
		code = 1
		return
	}

	pool := fastimage.NewPool(*threads)
	defer pool.Close()
	engine := fastimage.NewEngine(pool, fastimage.WithLogger(log))
	log.WithFields(logrus.Fields{
		"steps":   task.Steps,
		"format":  task.Format.Format,
		"threads": pool.Workers(),
		"worker":  *worker,
	}).Debug("Task ready")

	srcInfo, err := os.Stat(*src)
	if err != nil {
		log.WithError(err).Error("Invalid source")
		code = 1
		return
	}

	dstInfo, err := os.Stat(*dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(*dst, 0755); err != nil {
				log.WithError(err).Error("Failed to create destination")
				code = 1
				return
			}
			dstInfo, _ = os.Stat(*dst)
		} else {
			log.WithError(err).Error("Invalid destination")
			code = 1
			return
		}
	}
	if !dstInfo.Mode().IsDir() {
		log.Error("Destination is not a directory.")
		code = 1
		return
	}

	switch mode := srcInfo.Mode(); {
	case mode.IsDir():
		images := loadImages(*src)
		total := len(images)
		log.Infoln("Total images:", total)

		advance, finish := func() {}, func() {}
		if !*quiet {
			pb := progressbar.New(total)
			pb.Start()
			advance, finish = func() { pb.Add(1) }, func() { pb.Done() }
		}
		var converted, skipped, failed atomic.Int64
		var g errgroup.Group
		g.SetLimit(max(*worker, 1))
		for _, file := range images {
			g.Go(func() error {
				defer advance()
				rel, err := filepath.Rel(*src, file)
				if err != nil {
					log.WithError(err).WithField("image", file).Error("Failed to get relative path")
					failed.Add(1)
					return nil
				}
				output := task.ConvertExt(filepath.Join(*dst, rel))
				switch err := convert(engine, &task, file, output, *force); {
				case errors.Is(err, errSkip):
					log.WithField("output", output).Info("Skip")
					skipped.Add(1)
				case err != nil:
					failed.Add(1)
				default:
					log.WithField("image", file).Debug("Converted")
					converted.Add(1)
				}
				return nil
			})
		}
		g.Wait()
		finish()
		log.WithFields(logrus.Fields{
			"converted": converted.Load(),
			"skipped":   skipped.Load(),
			"failed":    failed.Load(),
		}).Info("Batch finished")
		if failed.Load() > 0 {
			code = 1
		}

	case mode.IsRegular():
		output := task.ConvertExt(filepath.Join(*dst, filepath.Base(*src)))
		if err := convert(engine, &task, *src, output, *force); err != nil {
			if errors.Is(err, errSkip) {
				log.Error("Destination already exist.")
			}
			code = 1
			return
		}

	default:
		log.Error("Unknown source.")
		code = 1
		return
	}
	log.Info("Done.")
}
