package scene

import (
	"fmt"
	"io"
	"strings"

	"github.com/binzume/ifcconv/geom"
)

type Node interface {
	Name() string
}

// Parent is a node that accepts children in order.
type Parent interface {
	Node
	Add(child Node)
}

// Branch is a node with ordered children.
type Branch interface {
	Node
	Children() []Node
}

// MeshSource is a node carrying triangle geometry.
type MeshSource interface {
	Node
	Mesh() *Mesh
}

type Colorable interface {
	SetColor(rgba [4]float32)
}

// Factory constructs the nodes of an imported tree.
type Factory interface {
	NewContainer(name string) Parent
	NewGeometry(name string, positions []float32, indices []uint32, normals []float32) Node
}

type DefaultFactory struct{}

func (DefaultFactory) NewContainer(name string) Parent {
	return NewContainer(name)
}

func (DefaultFactory) NewGeometry(name string, positions []float32, indices []uint32, normals []float32) Node {
	return NewGeometry(name, positions, indices, normals)
}

type Mesh struct {
	Positions []float32 // x,y,z
	Indices   []uint32  // 3 per triangle
	Normals   []float32 // optional. x,y,z
	Color     *[4]float32
}

func (m *Mesh) PointCount() int {
	return len(m.Positions) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) IsEmpty() bool {
	return m == nil || m.PointCount() == 0 || m.TriangleCount() == 0
}

type Container struct {
	name     string
	children []Node
}

func NewContainer(name string) *Container {
	return &Container{name: name}
}

func (c *Container) Name() string {
	return c.name
}

func (c *Container) Add(child Node) {
	c.children = append(c.children, child)
}

func (c *Container) Children() []Node {
	return c.children
}

type Geometry struct {
	name string
	mesh *Mesh
}

func NewGeometry(name string, positions []float32, indices []uint32, normals []float32) *Geometry {
	return &Geometry{name: name, mesh: &Mesh{Positions: positions, Indices: indices, Normals: normals}}
}

func (g *Geometry) Name() string {
	return g.name
}

func (g *Geometry) Mesh() *Mesh {
	return g.mesh
}

func (g *Geometry) SetColor(rgba [4]float32) {
	g.mesh.Color = &rgba
}

// ComputeNormals returns per-point normals: the sum of the face normals of
// the triangles sharing a point, normalized. Points without a usable face
// get a zero normal.
func ComputeNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	sums := make([]geom.Vector3, len(positions)/3)
	point := func(i uint32) *geom.Vector3 {
		return geom.NewVector3(float64(positions[i*3]), float64(positions[i*3+1]), float64(positions[i*3+2]))
	}
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= len(sums) || int(i1) >= len(sums) || int(i2) >= len(sums) {
			continue
		}
		v0 := point(i0)
		n := point(i1).Sub(v0).Cross(point(i2).Sub(v0))
		for _, i := range [3]uint32{i0, i1, i2} {
			sums[i] = *sums[i].Add(n)
		}
	}
	for i, n := range sums {
		if l := n.Len(); l > 0 {
			n.Scale(1 / l).ToArray(normals[i*3:])
		}
	}
	return normals
}

// Dump writes an indented listing of the tree.
func Dump(w io.Writer, n Node, depth int) {
	fmt.Fprint(w, strings.Repeat("  ", depth), n.Name())
	if m, ok := n.(MeshSource); ok {
		mesh := m.Mesh()
		fmt.Fprintf(w, " (points: %d, triangles: %d)", mesh.PointCount(), mesh.TriangleCount())
		if mesh.Color != nil {
			fmt.Fprintf(w, " color: %v", *mesh.Color)
		}
	}
	fmt.Fprintln(w)
	if b, ok := n.(Branch); ok {
		for _, c := range b.Children() {
			Dump(w, c, depth+1)
		}
	}
}

// Count returns the number of container and geometry nodes in the tree.
func Count(n Node) (containers, geometries int) {
	if _, ok := n.(MeshSource); ok {
		geometries++
	} else {
		containers++
	}
	if b, ok := n.(Branch); ok {
		for _, c := range b.Children() {
			cc, gc := Count(c)
			containers += cc
			geometries += gc
		}
	}
	return
}
