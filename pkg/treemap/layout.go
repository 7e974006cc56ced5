package treemap

import (
	"math/bits"

	"github.com/guptarut/treemap/pkg/tree"
)

// Layout sets n.Rect to r and recursively partitions r among n's children.
//
// Children of a zero-weight node keep whatever rectangles they had before.
// Negative extents in r are treated as zero when splitting.
func Layout(n *tree.Node, r tree.Rect) {
	n.Rect = r
	if n.Weight() <= 0 || n.IsLeaf() {
		return
	}

	children := n.Children()
	vertical := r.W > r.H
	total, start := r.H, r.Y
	if vertical {
		total, start = r.W, r.X
	}

	extents := split(children, n.Weight(), max(total, 0))

	rects := make([]tree.Rect, len(children))
	offset := start
	for i, ext := range extents {
		if vertical {
			rects[i] = tree.Rect{X: offset, Y: r.Y, W: ext, H: r.H}
		} else {
			rects[i] = tree.Rect{X: r.X, Y: offset, W: r.W, H: ext}
		}
		offset += ext
	}
	for i, c := range children {
		Layout(c, rects[i])
	}
}

// split divides total among children by weight. The extents always sum to
// total: the last child takes the remainder, or when its weight is zero the
// last non-zero child does.
func split(children []*tree.Node, weight int64, total int) []int {
	extents := make([]int, len(children))
	last := len(children) - 1
	used := 0
	for i, c := range children[:last] {
		ext := min(share(c.Weight(), weight, total), total-used)
		extents[i] = ext
		used += ext
	}

	rest := total - used
	if children[last].Weight() != 0 {
		extents[last] = rest
		return extents
	}
	absorb := 0
	for i := last - 1; i >= 0; i-- {
		if children[i].Weight() != 0 {
			absorb = i
			break
		}
	}
	extents[absorb] += rest
	return extents
}

// share returns floor(w * total / weight) without intermediate overflow.
func share(w, weight int64, total int) int {
	if w <= 0 || total <= 0 {
		return 0
	}
	if w >= weight {
		return total
	}
	hi, lo := bits.Mul64(uint64(w), uint64(total))
	q, _ := bits.Div64(hi, lo, uint64(weight))
	return int(q)
}
