package fastimage

import (
	"errors"
	"image"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorMessage(t *testing.T) {
	r := Region{Index: 2, Bounds: image.Rect(0, 4, 4, 6)}
	for _, testcase := range []struct {
		err  error
		want string
	}{
		{newError(InvalidGeometry, "bad %d", 1), "invalid geometry: bad 1"},
		{regionError(OutOfBounds, r, pkgerrors.New("outside")), "out of bounds in region 2 (0,4)-(4,6): outside"},
		{pixelError(TransformFailed, r, 1, 5, pkgerrors.New("nope")), "transform failed in region 2 (0,4)-(4,6) at (1, 5): nope"},
		{&Error{Kind: UnsupportedColorModel}, "unsupported color model"},
		{Kind(9), "Kind(9)"},
	} {
		if got := testcase.err.Error(); got != testcase.want {
			t.Errorf("want %q, got %q", testcase.want, got)
		}
	}
}

func TestErrorKind(t *testing.T) {
	cause := errors.New("root")
	err := pkgerrors.Wrap(pixelError(TransformFailed, Region{}, 0, 0, pkgerrors.Wrap(cause, "wrapped")), "outer")
	if !errors.Is(err, TransformFailed) || errors.Is(err, OutOfBounds) {
		t.Error("errors.Is does not match the kind")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
	if KindOf(err) != TransformFailed {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	var e *Error
	if !errors.As(err, &e) || e.Cause() != cause {
		t.Errorf("Cause = %v", e.Cause())
	}
	if KindOf(OutOfBounds) != OutOfBounds || KindOf(cause) != 0 || KindOf(nil) != 0 {
		t.Error("KindOf of plain errors")
	}

	single := &AggregateError{Kind: OutOfBounds, Errors: []*Error{regionError(OutOfBounds, Region{}, cause)}}
	if !strings.HasPrefix(single.Error(), "out of bounds in region 0") {
		t.Errorf("single aggregate message %q", single.Error())
	}
}
