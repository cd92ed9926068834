package ifc

import (
	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/step"
)

// item is a representation item classified by type when the model is
// loaded. mesh returns nil when the item has no usable geometry.
type item interface {
	mesh(r *resolver) *meshData
}

func classifyItem(e *step.Entity) item {
	switch e.Type {
	case TypeTriangulatedFaceSet:
		return &triangulatedFaceSet{
			coords:     refArg(e, 0),
			coordIndex: step.ParseIntTuples(e.Arg(3)),
			pnIndex:    ints(e.Arg(4)),
		}
	case TypePolygonalFaceSet:
		return &polygonalFaceSet{
			coords:  refArg(e, 0),
			faces:   step.ParseRefList(e.Arg(2)),
			pnIndex: ints(e.Arg(3)),
		}
	case TypeFacetedBrep, TypeFacetedBrepWithVoids:
		return &shellModel{shells: []int{refArg(e, 0)}}
	case TypeFaceBasedSurfaceModel, TypeShellBasedSurfaceModel:
		return &shellModel{shells: step.ParseRefList(e.Arg(0))}
	case TypeExtrudedAreaSolid, TypeExtrudedAreaSolidTapered:
		depth, _ := step.ParseReal(e.Arg(3))
		return &extrudedAreaSolid{
			profile:   refArg(e, 0),
			position:  refArg(e, 1),
			direction: refArg(e, 2),
			depth:     depth,
		}
	case TypeBooleanResult, TypeBooleanClippingResult:
		return &booleanResult{first: refArg(e, 1)}
	case TypeMappedItem:
		return &mappedItem{source: refArg(e, 0), target: refArg(e, 1)}
	}
	return nil
}

type unsupported struct {
	typ string
}

func (unsupported) mesh(r *resolver) *meshData {
	return nil
}

type triangulatedFaceSet struct {
	coords     int
	coordIndex [][]int
	pnIndex    []int
}

// pointIndex maps a 1-based face index through the optional PnIndex to a
// 0-based point index.
func pointIndex(i int, pnIndex []int, count int) (int, bool) {
	if len(pnIndex) > 0 {
		if i < 1 || i > len(pnIndex) {
			return 0, false
		}
		i = pnIndex[i-1]
	}
	if i < 1 || i > count {
		return 0, false
	}
	return i - 1, true
}

func (t *triangulatedFaceSet) mesh(r *resolver) *meshData {
	md := &meshData{points: r.m.pointList(t.coords)}
	for _, face := range t.coordIndex {
		if len(face) != 3 {
			continue
		}
		var tri [3]int
		ok := true
		for k, i := range face {
			if tri[k], ok = pointIndex(i, t.pnIndex, len(md.points)); !ok {
				break
			}
		}
		if ok {
			md.tris = append(md.tris, tri)
		}
	}
	return md
}

type polygonalFaceSet struct {
	coords  int
	faces   []int
	pnIndex []int
}

func (p *polygonalFaceSet) mesh(r *resolver) *meshData {
	md := &meshData{points: r.m.pointList(p.coords)}
	for _, id := range p.faces {
		face := r.m.entityOf(id, TypeIndexedPolygonalFace, TypeIndexedPolygonalFaceVoids)
		if face == nil {
			continue
		}
		var loop []int
		for _, i := range ints(face.Arg(0)) {
			if pi, ok := pointIndex(i, p.pnIndex, len(md.points)); ok {
				loop = append(loop, pi)
			}
		}
		md.addFan(loop)
	}
	return md
}

func (m *meshData) addFan(loop []int) {
	for _, t := range geom.FanTriangulate(len(loop)) {
		m.tris = append(m.tris, [3]int{loop[t[0]], loop[t[1]], loop[t[2]]})
	}
}

// shellModel covers faceted breps and face/shell based surface models:
// shells of faces bounded by polygon loops. Points are shared by exact
// coordinates and every loop is fanned from its first vertex.
type shellModel struct {
	shells []int
}

func (s *shellModel) mesh(r *resolver) *meshData {
	md := &meshData{}
	index := map[geom.Vector3]int{}
	for _, id := range s.shells {
		shell := r.m.entityOf(id, TypeClosedShell, TypeOpenShell, TypeConnectedFaceSet)
		for _, face := range r.m.refs(shell, 0) {
			for _, bound := range r.m.refs(face, 0) {
				loop := r.m.entityOf(refArg(bound, 0), TypePolyLoop)
				if loop == nil {
					continue
				}
				var poly []int
				for _, p := range r.m.refs(loop, 0) {
					v := r.m.cartesianPoint(p.ID)
					if v == nil {
						continue
					}
					i, ok := index[*v]
					if !ok {
						i = len(md.points)
						index[*v] = i
						md.points = append(md.points, *v)
					}
					poly = append(poly, i)
				}
				if orientation, ok := step.ParseBool(bound.Arg(1)); ok && !orientation {
					for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
						poly[i], poly[j] = poly[j], poly[i]
					}
				}
				md.addFan(poly)
			}
		}
	}
	return md
}

type extrudedAreaSolid struct {
	profile   int
	position  int
	direction int
	depth     float64
}

func (x *extrudedAreaSolid) mesh(r *resolver) *meshData {
	ring := r.m.profile(x.profile, r.options.CircleSegments)
	if len(ring) < 3 || x.depth == 0 {
		return nil
	}
	dir := r.m.direction(x.direction)
	if dir == nil {
		dir = &geom.Vector3{Z: 1}
	}
	offset := dir.Unit().Scale(x.depth)

	n := len(ring)
	md := &meshData{points: make([]geom.Vector3, 0, n*2)}
	for _, p := range ring {
		md.points = append(md.points, *p)
	}
	for _, p := range ring {
		md.points = append(md.points, *p.Add(offset))
	}

	var caps [][3]int
	if r.options.EarClipCaps {
		caps = geom.Triangulate(ring)
	} else {
		caps = geom.FanTriangulate(n)
	}
	for _, t := range caps {
		md.tris = append(md.tris,
			[3]int{t[0], t[2], t[1]},
			[3]int{n + t[0], n + t[1], n + t[2]})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		md.tris = append(md.tris, [3]int{i, j, n + j}, [3]int{i, n + j, n + i})
	}
	if offset.Z < 0 {
		md.flip()
	}
	md.transform(r.m.axisPlacement(x.position))
	return md
}

// booleanResult keeps the first operand only. The second operand is not
// subtracted, added or intersected.
type booleanResult struct {
	first int
}

func (b *booleanResult) mesh(r *resolver) *meshData {
	return r.resolve(b.first)
}

type mappedItem struct {
	source int
	target int
}

func (mi *mappedItem) mesh(r *resolver) *meshData {
	src := r.m.entityOf(mi.source, TypeRepresentationMap)
	if src == nil {
		return nil
	}
	rep := r.m.entityOf(refArg(src, 1))
	if rep == nil {
		return nil
	}
	md := r.resolveItems(step.ParseRefList(rep.Arg(3)))
	if md.isEmpty() {
		return nil
	}
	origin := r.m.axisPlacement(refArg(src, 0))
	md.transform(r.m.transformOperator(mi.target).Compose(origin))
	return md
}
