package geom

type Vector2 struct {
	X Element
	Y Element
}

func (v *Vector2) Sub(v2 *Vector2) *Vector2 {
	return &Vector2{X: v.X - v2.X, Y: v.Y - v2.Y}
}

func (v *Vector2) Cross(v2 *Vector2) Element {
	return v.X*v2.Y - v.Y*v2.X
}

func (v *Vector2) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y
}

// SignedArea returns the shoelace area of a closed ring. Positive when
// the ring winds counter-clockwise.
func SignedArea(ring []*Vector2) Element {
	var a Element
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		a += p.Cross(q)
	}
	return a / 2
}
