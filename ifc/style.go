package ifc

import (
	"github.com/binzume/ifcconv/step"
)

const maxStyleDepth = 4

// itemColor follows IFCSTYLEDITEM -> (IFCPRESENTATIONSTYLEASSIGNMENT) ->
// IFCSURFACESTYLE -> shading/rendering -> IFCCOLOURRGB.
func (m *model) itemColor(itemID int) *[4]float32 {
	styled := m.entities[m.styles[itemID]]
	for _, s := range m.refs(styled, 1) {
		if c := m.styleColor(s, 0); c != nil {
			return c
		}
	}
	return nil
}

func (m *model) styleColor(e *step.Entity, depth int) *[4]float32 {
	if depth > maxStyleDepth {
		return nil
	}
	switch e.Type {
	case TypePresentationStyleAssign:
		for _, s := range m.refs(e, 0) {
			if c := m.styleColor(s, depth+1); c != nil {
				return c
			}
		}
	case TypeSurfaceStyle:
		for _, s := range m.refs(e, 2) {
			if c := m.styleColor(s, depth+1); c != nil {
				return c
			}
		}
	case TypeSurfaceStyleShading, TypeSurfaceStyleRendering:
		rgb := m.entityOf(refArg(e, 0), TypeColourRGB)
		if rgb == nil {
			return nil
		}
		var c [4]float32
		for i := 0; i < 3; i++ {
			v, _ := step.ParseReal(rgb.Arg(i + 1))
			c[i] = clamp01(v)
		}
		c[3] = 1
		if t, ok := step.ParseReal(e.Arg(1)); ok {
			c[3] = 1 - clamp01(t)
		}
		return &c
	}
	return nil
}

func clamp01(v float64) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
