package ifc

import (
	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/step"
)

// axisPlacement reads IFCAXIS2PLACEMENT3D/2D. Anything else is the identity.
func (m *model) axisPlacement(id int) *geom.Frame {
	e := m.entityOf(id)
	if e == nil {
		return geom.NewIdentityFrame()
	}
	switch e.Type {
	case TypeAxis2Placement3D:
		return geom.NewFrame(m.cartesianPoint(refArg(e, 0)), m.direction(refArg(e, 1)), m.direction(refArg(e, 2)))
	case TypeAxis2Placement2D:
		return geom.NewFrame(m.cartesianPoint(refArg(e, 0)), nil, m.direction(refArg(e, 1)))
	}
	return geom.NewIdentityFrame()
}

// objectPlacement composes an IFCLOCALPLACEMENT chain up to its root.
func (m *model) objectPlacement(id int) *geom.Frame {
	var chain []*geom.Frame
	visited := map[int]bool{}
	for id != 0 && !visited[id] {
		visited[id] = true
		e := m.entityOf(id, TypeLocalPlacement)
		if e == nil {
			break
		}
		chain = append(chain, m.axisPlacement(refArg(e, 1)))
		id = refArg(e, 0)
	}
	f := geom.NewIdentityFrame()
	for i := len(chain) - 1; i >= 0; i-- {
		f = f.Compose(chain[i])
	}
	return f
}

// transformOperator reads IFCCARTESIANTRANSFORMATIONOPERATOR3D and its
// non-uniform variant as a scaled frame.
func (m *model) transformOperator(id int) *geom.Frame {
	e := m.entityOf(id, TypeTransformOperator3D, TypeTransformOperator3DNU)
	if e == nil {
		return geom.NewIdentityFrame()
	}
	f := geom.NewFrame(m.cartesianPoint(refArg(e, 2)), m.direction(refArg(e, 4)), m.direction(refArg(e, 0)))
	s1 := 1.0
	if v, ok := step.ParseReal(e.Arg(3)); ok {
		s1 = v
	}
	s2, s3 := s1, s1
	if e.Type == TypeTransformOperator3DNU {
		if v, ok := step.ParseReal(e.Arg(5)); ok {
			s2 = v
		}
		if v, ok := step.ParseReal(e.Arg(6)); ok {
			s3 = v
		}
	}
	return f.Scaled(s1, s2, s3)
}
