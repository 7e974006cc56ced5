package tree

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle in screen units. X and Y locate the
// top-left corner; W and H are never negative for layout output.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r. All four edges are inclusive, so a
// point on an edge shared by two adjacent rectangles is contained by both.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.Right() && r.Y <= p.Y && p.Y <= r.Bottom()
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.X <= o.X && o.Right() <= r.Right() && r.Y <= o.Y && o.Bottom() <= r.Bottom()
}

// Overlaps reports whether r and o share a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	return max(r.X, o.X) < min(r.Right(), o.Right()) && max(r.Y, o.Y) < min(r.Bottom(), o.Bottom())
}

// distSq returns the squared distance of the top-left corner from the origin.
func (r Rect) distSq() int { return r.X*r.X + r.Y*r.Y }

// CloserToOrigin reports whether r's top-left corner is strictly closer to the
// origin than o's.
func (r Rect) CloserToOrigin(o Rect) bool { return r.distSq() < o.distSq() }
