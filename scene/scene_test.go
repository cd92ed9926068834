package scene

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTree(t *testing.T) {
	root := NewContainer("root")
	g := NewGeometry("tri", []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2}, nil)
	g.SetColor([4]float32{1, 0, 0, 1})
	sub := NewContainer("sub")
	root.Add(sub)
	root.Add(g)

	assert.Equal(t, []Node{sub, g}, root.Children())
	assert.Equal(t, 3, g.Mesh().PointCount())
	assert.Equal(t, 1, g.Mesh().TriangleCount())
	assert.False(t, g.Mesh().IsEmpty())
	assert.True(t, (*Mesh)(nil).IsEmpty())

	cc, gc := Count(root)
	assert.Equal(t, 2, cc)
	assert.Equal(t, 1, gc)

	var buf bytes.Buffer
	Dump(&buf, root, 0)
	assert.Equal(t, "root\n  sub\n  tri (points: 3, triangles: 1) color: [1 0 0 1]\n", buf.String())
}

func TestDefaultFactory(t *testing.T) {
	var f Factory = DefaultFactory{}
	c := f.NewContainer("c")
	c.Add(f.NewGeometry("g", nil, nil, nil))
	assert.Len(t, c.(Branch).Children(), 1)
}

func TestComputeNormals(t *testing.T) {
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		5, 5, 5, // unused
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2, 0, 1, 9})
	assert.Len(t, normals, 12)
	for i := 0; i < 3; i++ {
		assert.Equal(t, []float32{0, 0, 1}, normals[i*3:i*3+3])
	}
	assert.Equal(t, []float32{0, 0, 0}, normals[9:12])
}
