package fastimage

import (
	"image"

	"github.com/pkg/errors"
)

// Region is one independent unit of work: a half-open rectangle of a buffer
// and its position in the partition order.
type Region struct {
	Index  int
	Bounds image.Rectangle
}

// Area returns the number of pixels in the region.
func (r Region) Area() int { return r.Bounds.Dx() * r.Bounds.Dy() }

// SplitMode defines the direction in which a buffer is split into bands.
type SplitMode int

const (
	// SplitRowsMode splits the buffer into horizontal bands of whole rows.
	SplitRowsMode SplitMode = iota
	// SplitColumnsMode splits the buffer into vertical bands of whole columns.
	SplitColumnsMode
)

// split divides base into n bands along mode. n is clamped to [1, extent];
// band sizes differ by at most one with the earlier bands taking the extra.
func split(base image.Rectangle, n int, mode SplitMode) (rects []image.Rectangle) {
	extent := base.Dy()
	if mode == SplitColumnsMode {
		extent = base.Dx()
	}
	if extent <= 0 || base.Empty() {
		return
	}
	n = max(1, min(n, extent))
	size, extra := extent/n, extent%n
	start := 0
	for i := range n {
		end := start + size
		if i < extra {
			end++
		}
		var r image.Rectangle
		if mode == SplitColumnsMode {
			r = image.Rect(base.Min.X+start, base.Min.Y, base.Min.X+end, base.Max.Y)
		} else {
			r = image.Rect(base.Min.X, base.Min.Y+start, base.Max.X, base.Min.Y+end)
		}
		rects = append(rects, r)
		start = end
	}
	return
}

func regions(rects []image.Rectangle) []Region {
	rs := make([]Region, len(rects))
	for i, r := range rects {
		rs[i] = Region{Index: i, Bounds: r}
	}
	return rs
}

// Split partitions b into n bands in the given direction. The hint n is
// clamped to [1, extent], so asking for more bands than rows (or columns)
// yields one band per row (or column).
func Split(b *Buffer, n int, mode SplitMode) ([]Region, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return regions(split(b.Bounds(), n, mode)), nil
}

// Partition splits b into n row bands ordered by ascending start row.
// The regions are pairwise disjoint and cover the buffer exactly.
func Partition(b *Buffer, n int) ([]Region, error) {
	return Split(b, n, SplitRowsMode)
}

// PartitionTiles splits b into a grid of tiles in row-major order. Tiles on
// the right and bottom edges are clipped to the buffer. A non-positive tile
// size falls back to the full width or height.
func PartitionTiles(b *Buffer, tileWidth, tileHeight int) ([]Region, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if tileWidth <= 0 {
		tileWidth = b.width
	}
	if tileHeight <= 0 {
		tileHeight = b.height
	}
	var rects []image.Rectangle
	for y := 0; y < b.height; y += tileHeight {
		for x := 0; x < b.width; x += tileWidth {
			rects = append(rects, image.Rect(x, y, x+tileWidth, y+tileHeight).Intersect(b.Bounds()))
		}
	}
	return regions(rects), nil
}

// checkRegions verifies that every region lies inside bounds and that no two
// regions overlap. Claimed pixels are tracked in a bitmap, so the check is
// linear in the covered area rather than in the number of region pairs.
func checkRegions(bounds image.Rectangle, rs []Region) error {
	for _, r := range rs {
		if r.Bounds.Empty() || !r.Bounds.In(bounds) {
			return regionError(OutOfBounds, r, errors.Errorf("outside buffer %v", bounds))
		}
	}
	if len(rs) < 2 {
		return nil
	}
	w := bounds.Dx()
	claimed := make([]bool, w*bounds.Dy())
	for i, r := range rs {
		for y := r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
			row := claimed[(y-bounds.Min.Y)*w : (y-bounds.Min.Y+1)*w]
			for x := r.Bounds.Min.X - bounds.Min.X; x < r.Bounds.Max.X-bounds.Min.X; x++ {
				if row[x] {
					return overlapError(rs[:i], r)
				}
				row[x] = true
			}
		}
	}
	return nil
}

// overlapError reports r against the first earlier region it intersects.
func overlapError(earlier []Region, r Region) error {
	for _, prev := range earlier {
		if prev.Bounds.Overlaps(r.Bounds) {
			return regionError(InvalidGeometry, r,
				errors.Errorf("overlaps region %d %v", prev.Index, prev.Bounds))
		}
	}
	return regionError(InvalidGeometry, r, errors.New("overlaps another region"))
}
