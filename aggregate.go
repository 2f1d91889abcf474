package fastimage

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"
)

// Outcome is the result of executing one region: Err is nil on success.
type Outcome struct {
	Region Region
	Err    error
}

// Aggregate folds per-region outcomes into the result of an execution.
// With no failure it returns dst. Otherwise it returns an *AggregateError
// listing every failed region in ascending region order, and never dst.
func Aggregate(dst *Buffer, outcomes []Outcome) (*Buffer, error) {
	var errs []*Error
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		var e *Error
		if errors.As(o.Err, &e) {
			if !e.HasRegion {
				c := *e
				c.Region, c.HasRegion = o.Region, true
				e = &c
			}
		} else {
			e = regionError(TransformFailed, o.Region, o.Err)
		}
		errs = append(errs, e)
	}
	if len(errs) == 0 {
		return dst, nil
	}
	slices.SortStableFunc(errs, func(a, b *Error) int { return cmp.Compare(a.Region.Index, b.Region.Index) })
	return nil, &AggregateError{Kind: errs[0].Kind, Errors: errs}
}
