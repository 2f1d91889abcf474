package fastimage

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Mode selects where an execution writes its results.
type Mode int

const (
	// InPlace writes the results back into the input buffer once every
	// region has succeeded. On failure the input is left untouched.
	InPlace Mode = iota
	// Allocate writes the results into a fresh buffer of the same geometry.
	Allocate
)

func (m Mode) String() string {
	switch m {
	case InPlace:
		return "in-place"
	case Allocate:
		return "allocate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Transform computes one output pixel.
//
// Apply reads from src and writes the output samples of pixel (x, y) into
// dst, which holds src.Channels() samples initialized with the input pixel.
// Implementations must not retain dst or write to src; they are called
// concurrently from many goroutines.
//
// Local reports whether the output pixel depends on the input pixel (x, y)
// alone. Transforms reading neighbors must return false.
type Transform interface {
	Local() bool
	Apply(src *Buffer, x, y int, dst []uint8) error
}

// PixelFunc adapts a per-pixel function to a local Transform. src holds
// the input samples of pixel (x, y).
type PixelFunc func(x, y int, src, dst []uint8) error

// Local returns true.
func (PixelFunc) Local() bool { return true }

// Apply calls f with the samples of pixel (x, y).
func (f PixelFunc) Apply(src *Buffer, x, y int, dst []uint8) error {
	return f(x, y, src.Pixel(x, y), dst)
}

// KernelFunc adapts a neighborhood function to a non-local Transform.
type KernelFunc func(src *Buffer, x, y int, dst []uint8) error

// Local returns false.
func (KernelFunc) Local() bool { return false }

// Apply calls f.
func (f KernelFunc) Apply(src *Buffer, x, y int, dst []uint8) error { return f(src, x, y, dst) }

// Engine executes transforms over the regions of a buffer on a worker pool.
// The pool is owned by the caller; an Engine is safe for concurrent use.
type Engine struct {
	pool *Pool
	log  logrus.FieldLogger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger of the engine. Engines without one use the
// package logger.
func WithLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an engine dispatching work on pool.
// A nil pool runs every task on the calling goroutine.
func NewEngine(pool *Pool, opts ...EngineOption) *Engine {
	if pool == nil {
		pool = sequentialPool
	}
	e := &Engine{pool: pool}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var sequentialPool = func() *Pool {
	p := NewPool(1)
	p.Close()
	return p
}()

// Pool returns the pool the engine dispatches on.
func (e *Engine) Pool() *Pool { return e.pool }

func (e *Engine) logger() logrus.FieldLogger {
	if e.log != nil {
		return e.log
	}
	return Logger()
}

// target locates output pixels inside either a whole buffer or a
// region-sized staging slice.
type target struct {
	pix      []uint8
	x0, y0   int
	stride   int
	channels int
}

func (t target) at(x, y int) []uint8 {
	i := (y-t.y0)*t.stride + (x-t.x0)*t.channels
	return t.pix[i : i+t.channels : i+t.channels]
}

// stage copies the samples of region r out of b.
func stage(b *Buffer, r Region) target {
	c := b.channels
	t := target{
		pix:      make([]uint8, r.Area()*c),
		x0:       r.Bounds.Min.X,
		y0:       r.Bounds.Min.Y,
		stride:   r.Bounds.Dx() * c,
		channels: c,
	}
	for y := r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
		i := b.PixOffset(r.Bounds.Min.X, y)
		copy(t.pix[(y-t.y0)*t.stride:], b.pix[i:i+t.stride])
	}
	return t
}

// commit copies staged samples back into b.
func (t target) commit(b *Buffer) {
	rows := len(t.pix) / t.stride
	for y := range rows {
		i := b.PixOffset(t.x0, t.y0+y)
		copy(b.pix[i:i+t.stride], t.pix[y*t.stride:(y+1)*t.stride])
	}
}

// runRegion applies t to every pixel of r, row by row. The first failing
// pixel stops the region. A panic in t is reported as TransformFailed.
func runRegion(src *Buffer, r Region, t Transform, dst target) (err error) {
	var x, y int
	defer func() {
		if v := recover(); v != nil {
			err = pixelError(TransformFailed, r, x, y, errors.Errorf("panic: %v", v))
		}
	}()
	for y = r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
		for x = r.Bounds.Min.X; x < r.Bounds.Max.X; x++ {
			if e := t.Apply(src, x, y, dst.at(x, y)); e != nil {
				return transformError(r, x, y, e)
			}
		}
	}
	return nil
}

func transformError(r Region, x, y int, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return pixelError(e.Kind, r, x, y, e.Err)
	}
	kind := TransformFailed
	if k := KindOf(err); k != 0 {
		kind = k
	}
	return pixelError(kind, r, x, y, err)
}

// Execute applies t to every pixel of every region of b.
//
// The regions must lie inside b and be pairwise disjoint; otherwise Execute
// fails with OutOfBounds or InvalidGeometry before any work is dispatched.
// Each region runs as one task on the pool. Failing regions do not stop
// their siblings; all failures are reported together as an
// *AggregateError and no buffer is returned.
//
// In Allocate mode the result is a new buffer; samples outside every region
// are copied from b. In InPlace mode the result is b itself, written only if
// every region succeeded. In both modes transforms read the unmodified input.
func (e *Engine) Execute(b *Buffer, regions []Region, t Transform, mode Mode) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, newError(TransformFailed, "nil transform")
	}
	if mode != InPlace && mode != Allocate {
		return nil, newError(TransformFailed, "unknown mode %v", mode)
	}
	if err := checkRegions(b.Bounds(), regions); err != nil {
		return nil, err
	}

	log := e.logger().WithFields(logrus.Fields{
		"mode":    mode,
		"regions": len(regions),
		"workers": e.pool.Workers(),
		"size":    fmt.Sprintf("%dx%dx%d", b.width, b.height, b.channels),
	})
	log.Debug("dispatching execution")

	var dst *Buffer
	targets := make([]target, len(regions))
	switch mode {
	case Allocate:
		dst = b.Clone()
		whole := target{pix: dst.pix, stride: dst.Stride(), channels: dst.channels}
		for i := range targets {
			targets[i] = whole
		}
	case InPlace:
		dst = b
	}

	outcomes := make([]Outcome, len(regions))
	e.pool.ParallelFor(len(regions), func(i int) {
		r := regions[i]
		if mode == InPlace {
			targets[i] = stage(b, r)
		}
		outcomes[i] = Outcome{Region: r, Err: runRegion(b, r, t, targets[i])}
	})

	res, err := Aggregate(dst, outcomes)
	if err != nil {
		var ae *AggregateError
		if errors.As(err, &ae) {
			for _, re := range ae.Errors {
				log.WithFields(logrus.Fields{
					"region": re.Region.Index,
					"bounds": re.Region.Bounds,
					"kind":   re.Kind,
				}).Warn(re.Err)
			}
		}
		return nil, err
	}
	if mode == InPlace {
		e.pool.ParallelFor(len(targets), func(i int) { targets[i].commit(b) })
	}
	log.Debug("execution completed")
	return res, nil
}

// Apply partitions b into one row band per pool worker and executes t.
func (e *Engine) Apply(b *Buffer, t Transform, mode Mode) (*Buffer, error) {
	regions, err := Partition(b, e.pool.Workers())
	if err != nil {
		return nil, err
	}
	return e.Execute(b, regions, t, mode)
}

// Run applies transforms in order, each one reading the output of the
// previous, and stops at the first failure. In InPlace mode b is written only
// when the whole chain succeeded.
func (e *Engine) Run(b *Buffer, mode Mode, transforms ...Transform) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(transforms) == 0 {
		if mode == Allocate {
			return b.Clone(), nil
		}
		return b, nil
	}
	cur := b
	for _, t := range transforms {
		next, err := e.Apply(cur, t, Allocate)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if mode == InPlace {
		copy(b.pix, cur.pix)
		return b, nil
	}
	return cur, nil
}
