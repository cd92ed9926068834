package geom

import "math"

type Element = float64

type Vector3 struct {
	X Element
	Y Element
	Z Element
}

func NewVector3(x, y, z Element) *Vector3 {
	return &Vector3{X: x, Y: y, Z: z}
}

// NewVector3FromSlice accepts 2 or 3 coordinates. Missing Z is 0.
func NewVector3FromSlice(arr []Element) *Vector3 {
	v := &Vector3{}
	if len(arr) > 0 {
		v.X = arr[0]
	}
	if len(arr) > 1 {
		v.Y = arr[1]
	}
	if len(arr) > 2 {
		v.Z = arr[2]
	}
	return v
}

func NewVector3FromFloat32(arr [3]float32) *Vector3 {
	return &Vector3{X: Element(arr[0]), Y: Element(arr[1]), Z: Element(arr[2])}
}

func (v *Vector3) Add(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z}
}

func (v *Vector3) Sub(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z}
}

func (v *Vector3) Dot(v2 *Vector3) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z
}

func (v *Vector3) Cross(v2 *Vector3) *Vector3 {
	return &Vector3{
		X: v.Y*v2.Z - v.Z*v2.Y,
		Y: v.Z*v2.X - v.X*v2.Z,
		Z: v.X*v2.Y - v.Y*v2.X,
	}
}

func (v *Vector3) Scale(s Element) *Vector3 {
	return &Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v *Vector3) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v *Vector3) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize scales v to unit length in place. A zero vector becomes (1,0,0).
func (v *Vector3) Normalize() *Vector3 {
	l := v.Len()
	if l > 0 {
		v.X /= l
		v.Y /= l
		v.Z /= l
	} else {
		v.X = 1
	}
	return v
}

// Unit returns v/|v| without the zero-length fallback of Normalize.
// The result of a zero vector is non-finite.
func (v *Vector3) Unit() *Vector3 {
	l := v.Len()
	return &Vector3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

func (v *Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func (v *Vector3) ToArray(array []float32) {
	array[0] = float32(v.X)
	array[1] = float32(v.Y)
	array[2] = float32(v.Z)
}

func isFinite(f Element) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
