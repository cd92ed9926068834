package ifc

import (
	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/step"
)

// object is an entity that may carry a placement and a shape.
type object struct {
	id        int
	typ       string
	label     string
	shape     int // IFCPRODUCTDEFINITIONSHAPE
	placement int // IFCLOCALPLACEMENT
}

// model is a document classified for geometry lookup. Entity ids are
// positive so 0 means "no reference".
type model struct {
	entities map[int]*step.Entity
	objects  map[int]*object
	items    map[int]item
	styles   map[int]int // representation item -> IFCSTYLEDITEM
}

func newModel(doc *step.Document) *model {
	m := &model{
		entities: doc.EntityMap(),
		objects:  map[int]*object{},
		items:    map[int]item{},
		styles:   map[int]int{},
	}
	for _, e := range doc.Entities {
		if it := classifyItem(e); it != nil {
			m.items[e.ID] = it
		}
		if e.Type == TypeStyledItem {
			if id := refArg(e, 0); id != 0 {
				if _, exists := m.styles[id]; !exists {
					m.styles[id] = e.ID
				}
			}
		}
		o := &object{id: e.ID, typ: e.Type, label: step.Unquote(e.Arg(2), "")}
		if s := m.entityOf(refArg(e, 6), TypeProductDefinitionShape); s != nil {
			o.shape = s.ID
		}
		if p := m.entityOf(refArg(e, 5), TypeLocalPlacement); p != nil {
			o.placement = p.ID
		}
		m.objects[e.ID] = o
	}
	return m
}

// item returns the classified representation item, an unsupported item for
// any other existing entity, or nil if id does not resolve.
func (m *model) item(id int) item {
	if it, ok := m.items[id]; ok {
		return it
	}
	if e := m.entities[id]; e != nil {
		return unsupported{typ: e.Type}
	}
	return nil
}

func (m *model) entityOf(id int, types ...string) *step.Entity {
	e := m.entities[id]
	if e == nil {
		return nil
	}
	if len(types) == 0 {
		return e
	}
	for _, t := range types {
		if e.Type == t {
			return e
		}
	}
	return nil
}

// refs resolves the reference list at arg i, dropping unresolved entries.
func (m *model) refs(e *step.Entity, i int) []*step.Entity {
	if e == nil {
		return nil
	}
	var list []*step.Entity
	for _, id := range step.ParseRefList(e.Arg(i)) {
		if r := m.entities[id]; r != nil {
			list = append(list, r)
		}
	}
	return list
}

func refArg(e *step.Entity, i int) int {
	if e == nil {
		return 0
	}
	id, _ := step.ParseRef(e.Arg(i))
	return id
}

func ints(tok string) []int {
	var values []int
	for _, s := range step.ParseList(tok) {
		if v, ok := step.ParseInt(s); ok {
			values = append(values, v)
		}
	}
	return values
}

func (m *model) cartesianPoint(id int) *geom.Vector3 {
	e := m.entityOf(id, TypeCartesianPoint)
	if e == nil {
		return nil
	}
	v, ok := step.ParseRealList(e.Arg(0))
	if !ok || len(v) < 2 {
		return nil
	}
	return geom.NewVector3FromSlice(v)
}

// pointList reads IFCCARTESIANPOINTLIST2D/3D. Malformed entries become the
// origin so that indices stay aligned.
func (m *model) pointList(id int) []geom.Vector3 {
	e := m.entityOf(id, TypeCartesianPointList3D, TypeCartesianPointList2D)
	if e == nil {
		return nil
	}
	tuples := step.ParseRealTuples(e.Arg(0))
	points := make([]geom.Vector3, len(tuples))
	for i, t := range tuples {
		points[i] = *geom.NewVector3FromSlice(t)
	}
	return points
}

// direction returns nil for a missing or zero-length direction.
func (m *model) direction(id int) *geom.Vector3 {
	e := m.entityOf(id, TypeDirection)
	if e == nil {
		return nil
	}
	v, ok := step.ParseRealList(e.Arg(0))
	if !ok || len(v) < 2 {
		return nil
	}
	d := geom.NewVector3FromSlice(v)
	if d.LenSqr() == 0 {
		return nil
	}
	return d
}
