package geom

import "math"

// Frame is a local coordinate system: an origin and three axis vectors
// expressed in the parent space. Axes are unit length unless the frame
// has been scaled.
type Frame struct {
	Origin Vector3
	X      Vector3
	Y      Vector3
	Z      Vector3
}

func NewIdentityFrame() *Frame {
	return &Frame{X: Vector3{X: 1}, Y: Vector3{Y: 1}, Z: Vector3{Z: 1}}
}

// NewFrame builds a right-handed orthonormal frame from an optional main
// axis (Z, default +Z) and an optional reference direction (seed for X).
// Y is Z x seed and X is Y x Z. If the derived axes are not finite they
// fall back to (1,0,0)/(0,1,0) and Z is kept.
func NewFrame(origin, axis, refDirection *Vector3) *Frame {
	f := NewIdentityFrame()
	if origin != nil {
		f.Origin = *origin
	}
	z := &Vector3{Z: 1}
	if axis != nil && axis.LenSqr() > 0 {
		z = axis.Unit()
	}
	seed := refDirection
	if seed == nil {
		seed = &Vector3{X: 1}
		if math.Abs(z.X) == 1 && z.Y == 0 && z.Z == 0 {
			seed = &Vector3{Y: 1}
		}
	}
	if !z.IsFinite() {
		return f
	}
	f.Z = *z
	y := z.Cross(seed).Unit()
	x := y.Cross(z)
	if !y.IsFinite() || !x.IsFinite() {
		return f
	}
	f.X, f.Y = *x, *y
	return f
}

// Apply maps a point from frame-local coordinates into the parent space.
func (f *Frame) Apply(p *Vector3) *Vector3 {
	return &Vector3{
		X: f.Origin.X + f.X.X*p.X + f.Y.X*p.Y + f.Z.X*p.Z,
		Y: f.Origin.Y + f.X.Y*p.X + f.Y.Y*p.Y + f.Z.Y*p.Z,
		Z: f.Origin.Z + f.X.Z*p.X + f.Y.Z*p.Y + f.Z.Z*p.Z,
	}
}

// ApplyDir maps a direction, ignoring the origin.
func (f *Frame) ApplyDir(d *Vector3) *Vector3 {
	return &Vector3{
		X: f.X.X*d.X + f.Y.X*d.Y + f.Z.X*d.Z,
		Y: f.X.Y*d.X + f.Y.Y*d.Y + f.Z.Y*d.Z,
		Z: f.X.Z*d.X + f.Y.Z*d.Y + f.Z.Z*d.Z,
	}
}

// Compose returns the frame that maps local-of-child coordinates directly
// into the space of f.
func (f *Frame) Compose(child *Frame) *Frame {
	return &Frame{
		Origin: *f.Apply(&child.Origin),
		X:      *f.ApplyDir(&child.X),
		Y:      *f.ApplyDir(&child.Y),
		Z:      *f.ApplyDir(&child.Z),
	}
}

// Scaled returns a copy of f with each axis multiplied by its factor.
func (f *Frame) Scaled(sx, sy, sz Element) *Frame {
	return &Frame{
		Origin: f.Origin,
		X:      *f.X.Scale(sx),
		Y:      *f.Y.Scale(sy),
		Z:      *f.Z.Scale(sz),
	}
}

// Mirrors reports whether the frame flips handedness.
func (f *Frame) Mirrors() bool {
	return f.X.Cross(&f.Y).Dot(&f.Z) < 0
}
