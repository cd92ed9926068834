package geom

// inClosedTriangle reports whether p lies inside or on the edges of abc.
func inClosedTriangle(p, a, b, c *Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) >= 0 && c2.Dot(c3) >= 0 && c3.Dot(c1) >= 0
}

// FanTriangulate splits a polygon of n vertices into n-2 triangles sharing
// vertex 0. Only exact for convex polygons.
func FanTriangulate(n int) [][3]int {
	var dst [][3]int
	for i := 1; i+1 < n; i++ {
		dst = append(dst, [3]int{0, i, i + 1})
	}
	return dst
}

// PolygonNormal returns the Newell normal of a planar polygon. Its length
// is twice the polygon area.
func PolygonNormal(poly []*Vector3) *Vector3 {
	n := &Vector3{}
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// Triangulate splits a simple planar polygon by ear clipping. Triangles
// keep the winding of the input. If no ear is found (self-intersecting
// input) the remaining vertices are fanned.
func Triangulate(poly []*Vector3) [][3]int {
	var dst [][3]int
	if len(poly) < 3 {
		return dst
	}
	normal := PolygonNormal(poly)
	remain := make([]int, len(poly))
	for i := range remain {
		remain[i] = i
	}

	isEar := func(k int) bool {
		a := poly[remain[(k+len(remain)-1)%len(remain)]]
		b := poly[remain[k]]
		c := poly[remain[(k+1)%len(remain)]]
		if b.Sub(a).Cross(c.Sub(b)).Dot(normal) <= 0 {
			return false // reflex or degenerate
		}
		for _, j := range remain {
			p := poly[j]
			if p == a || p == b || p == c {
				continue
			}
			if inClosedTriangle(p, a, b, c) {
				return false
			}
		}
		return true
	}

	for len(remain) > 3 {
		found := false
		for k := range remain {
			if !isEar(k) {
				continue
			}
			prev := remain[(k+len(remain)-1)%len(remain)]
			next := remain[(k+1)%len(remain)]
			dst = append(dst, [3]int{prev, remain[k], next})
			remain = append(remain[:k], remain[k+1:]...)
			found = true
			break
		}
		if !found {
			for i := 1; i+1 < len(remain); i++ {
				dst = append(dst, [3]int{remain[0], remain[i], remain[i+1]})
			}
			return dst
		}
	}
	return append(dst, [3]int{remain[0], remain[1], remain[2]})
}
