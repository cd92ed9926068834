package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewQuaternionFromFloat32(arr [4]float32) *Quaternion {
	return &Quaternion{X: Element(arr[0]), Y: Element(arr[1]), Z: Element(arr[2]), W: Element(arr[3])}
}

// NewAxisAngleQuaternion returns a rotation of rad radians around axis.
func NewAxisAngleQuaternion(axis *Vector3, rad Element) *Quaternion {
	a := axis.Unit()
	s := math.Sin(rad / 2)
	return &Quaternion{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: math.Cos(rad / 2)}
}

func (v *Vector4) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

func (q *Quaternion) ToFloat32() [4]float32 {
	return [4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)}
}
