package ifc

import (
	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/step"
)

type meshData struct {
	points []geom.Vector3
	tris   [][3]int
	color  *[4]float32
}

func (m *meshData) isEmpty() bool {
	return m == nil || len(m.points) == 0 || len(m.tris) == 0
}

func (m *meshData) appendMesh(o *meshData) {
	if o.isEmpty() {
		return
	}
	offset := len(m.points)
	m.points = append(m.points, o.points...)
	for _, t := range o.tris {
		m.tris = append(m.tris, [3]int{t[0] + offset, t[1] + offset, t[2] + offset})
	}
	if m.color == nil {
		m.color = o.color
	}
}

func (m *meshData) flip() {
	for i, t := range m.tris {
		m.tris[i] = [3]int{t[0], t[2], t[1]}
	}
}

func (m *meshData) transform(f *geom.Frame) {
	for i := range m.points {
		m.points[i] = *f.Apply(&m.points[i])
	}
	if f.Mirrors() {
		m.flip()
	}
}

// buffers returns flat position and index buffers. Triangles with an out of
// range index are dropped.
func (m *meshData) buffers() ([]float32, []uint32) {
	positions := make([]float32, len(m.points)*3)
	for i := range m.points {
		m.points[i].ToArray(positions[i*3:])
	}
	indices := make([]uint32, 0, len(m.tris)*3)
	for _, t := range m.tris {
		if !m.inRange(t) {
			continue
		}
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}
	return positions, indices
}

func (m *meshData) inRange(t [3]int) bool {
	for _, i := range t {
		if i < 0 || i >= len(m.points) {
			return false
		}
	}
	return true
}

// resolver turns representation items into meshes. The resolving set holds
// the items currently on the resolution path; an item that is reached again
// from itself yields nothing.
type resolver struct {
	m         *model
	options   *ImportOption
	resolving map[int]bool
}

func newResolver(m *model, options *ImportOption) *resolver {
	return &resolver{m: m, options: options, resolving: map[int]bool{}}
}

func (r *resolver) resolve(id int) *meshData {
	if r.resolving[id] {
		return nil
	}
	it := r.m.item(id)
	if it == nil {
		return nil
	}
	r.resolving[id] = true
	defer delete(r.resolving, id)

	md := it.mesh(r)
	if md.isEmpty() {
		return nil
	}
	if c := r.m.itemColor(id); c != nil {
		md.color = c
	}
	return md
}

func (r *resolver) resolveItems(ids []int) *meshData {
	md := &meshData{}
	for _, id := range ids {
		md.appendMesh(r.resolve(id))
	}
	return md
}

// productMesh meshes all representations of an object's shape, keeping only
// 'Body' representations when there are any and BodyOnly is set.
func (r *resolver) productMesh(o *object) *meshData {
	shape := r.m.entities[o.shape]
	reps := r.m.refs(shape, 2)
	if r.options.BodyOnly {
		var body []*step.Entity
		for _, rep := range reps {
			if step.Unquote(rep.Arg(1), "") == "Body" {
				body = append(body, rep)
			}
		}
		if len(body) > 0 {
			reps = body
		}
	}
	md := &meshData{}
	for _, rep := range reps {
		md.appendMesh(r.resolveItems(step.ParseRefList(rep.Arg(3))))
	}
	if md.isEmpty() {
		return nil
	}
	if r.options.ApplyObjectPlacement && o.placement != 0 {
		md.transform(r.m.objectPlacement(o.placement))
	}
	return md
}
