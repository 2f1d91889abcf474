package fastimage

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failure reported by the engine.
// Every Kind is itself an error, so errors.Is(err, OutOfBounds) matches any
// *Error or *AggregateError of that kind.
type Kind int

// Error kinds.
const (
	// InvalidGeometry reports zero or negative dimensions, a bad channel count,
	// storage inconsistent with the declared geometry, size overflow or
	// overlapping regions.
	InvalidGeometry Kind = iota + 1
	// OutOfBounds reports a region or coordinate outside the buffer.
	OutOfBounds
	// UnsupportedColorModel reports a color model with no registered conversion.
	UnsupportedColorModel
	// TransformFailed reports a transform that signaled an error or panicked.
	TransformFailed
)

var kindNames = map[Kind]string{
	InvalidGeometry:       "invalid geometry",
	OutOfBounds:           "out of bounds",
	UnsupportedColorModel: "unsupported color model",
	TransformFailed:       "transform failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string { return k.String() }

// Error is a single failure record. Region-scoped failures carry the region
// and, when known, the pixel that failed.
type Error struct {
	Kind      Kind
	Region    Region
	HasRegion bool
	X, Y      int
	HasPixel  bool
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.HasRegion {
		fmt.Fprintf(&b, " in region %d %v", e.Region.Index, e.Region.Bounds)
	}
	if e.HasPixel {
		fmt.Fprintf(&b, " at (%d, %d)", e.X, e.Y)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Cause returns the root cause of the failure.
func (e *Error) Cause() error {
	if e.Err == nil {
		return e
	}
	return errors.Cause(e.Err)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

func regionError(kind Kind, r Region, err error) *Error {
	return &Error{Kind: kind, Region: r, HasRegion: true, Err: err}
}

func pixelError(kind Kind, r Region, x, y int, err error) *Error {
	return &Error{Kind: kind, Region: r, HasRegion: true, X: x, Y: y, HasPixel: true, Err: err}
}

// AggregateError reports every failing region of one execution.
// Errors are ordered by ascending region index and Kind is the kind of the
// first of them.
type AggregateError struct {
	Kind   Kind
	Errors []*Error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d regions failed", e.Kind, len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the individual region failures.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Regions returns the regions that failed, in ascending order.
func (e *AggregateError) Regions() []Region {
	regions := make([]Region, 0, len(e.Errors))
	for _, err := range e.Errors {
		if err.HasRegion {
			regions = append(regions, err.Region)
		}
	}
	return regions
}

// KindOf returns the Kind carried by err, or 0 if err is not an engine error.
func KindOf(err error) Kind {
	var ae *AggregateError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
