package ifc

import (
	"math"

	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/step"
)

const closeEpsilon = 1e-9

// profile returns the outer boundary of a profile definition as a
// counter-clockwise ring in the XY plane, with the profile position applied.
// Inner boundaries are ignored.
func (m *model) profile(id int, segments int) []*geom.Vector3 {
	e := m.entityOf(id)
	if e == nil {
		return nil
	}
	var ring []*geom.Vector2
	position := 0
	switch e.Type {
	case TypeRectangleProfile, TypeRectangleHollowProfile, TypeRoundedRectangleProfile:
		x, okx := step.ParseReal(e.Arg(3))
		y, oky := step.ParseReal(e.Arg(4))
		if !okx || !oky || x <= 0 || y <= 0 {
			return nil
		}
		hx, hy := x/2, y/2
		ring = []*geom.Vector2{{X: -hx, Y: -hy}, {X: hx, Y: -hy}, {X: hx, Y: hy}, {X: -hx, Y: hy}}
		position = refArg(e, 2)
	case TypeCircleProfile, TypeCircleHollowProfile:
		r, ok := step.ParseReal(e.Arg(3))
		if !ok || r <= 0 {
			return nil
		}
		ring = ellipse(r, r, segments)
		position = refArg(e, 2)
	case TypeEllipseProfile:
		a, oka := step.ParseReal(e.Arg(3))
		b, okb := step.ParseReal(e.Arg(4))
		if !oka || !okb || a <= 0 || b <= 0 {
			return nil
		}
		ring = ellipse(a, b, segments)
		position = refArg(e, 2)
	case TypeArbitraryClosedProfile, TypeArbitraryProfileWithVoids:
		ring = m.curve(refArg(e, 2))
	default:
		return nil
	}

	if len(ring) > 1 && ring[0].Sub(ring[len(ring)-1]).LenSqr() <= closeEpsilon*closeEpsilon {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil
	}
	if geom.SignedArea(ring) < 0 {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	f := m.axisPlacement(position)
	points := make([]*geom.Vector3, len(ring))
	for i, p := range ring {
		points[i] = f.Apply(&geom.Vector3{X: p.X, Y: p.Y})
	}
	return points
}

func ellipse(a, b float64, segments int) []*geom.Vector2 {
	if segments < 3 {
		segments = 3
	}
	ring := make([]*geom.Vector2, segments)
	for i := range ring {
		t := 2 * math.Pi * float64(i) / float64(segments)
		ring[i] = &geom.Vector2{X: a * math.Cos(t), Y: b * math.Sin(t)}
	}
	return ring
}

// curve reads a 2D polyline or indexed poly curve as a point sequence. Arc
// segments are reduced to their index points.
func (m *model) curve(id int) []*geom.Vector2 {
	e := m.entityOf(id)
	if e == nil {
		return nil
	}
	var ring []*geom.Vector2
	switch e.Type {
	case TypePolyline:
		for _, p := range m.refs(e, 0) {
			if v := m.cartesianPoint(p.ID); v != nil {
				ring = append(ring, &geom.Vector2{X: v.X, Y: v.Y})
			}
		}
	case TypeIndexedPolyCurve:
		points := m.pointList(refArg(e, 0))
		indices := indexedCurvePath(e.Arg(1), len(points))
		for _, i := range indices {
			if i >= 1 && i <= len(points) {
				ring = append(ring, &geom.Vector2{X: points[i-1].X, Y: points[i-1].Y})
			}
		}
	}
	return ring
}

// indexedCurvePath returns the 1-based point indices visited by the
// segments of an IFCINDEXEDPOLYCURVE, or every point in order when the
// segments are omitted.
func indexedCurvePath(segments string, count int) []int {
	var path []int
	if step.IsNull(segments) {
		for i := 1; i <= count; i++ {
			path = append(path, i)
		}
		return path
	}
	for _, seg := range step.ParseList(segments) {
		_, args, ok := step.ParseTyped(seg)
		if !ok || len(args) == 0 {
			continue
		}
		for _, i := range ints(args[0]) {
			if len(path) == 0 || path[len(path)-1] != i {
				path = append(path, i)
			}
		}
	}
	return path
}
