package gltfutil

import (
	"path/filepath"
	"testing"

	"github.com/binzume/ifcconv/geom"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{"POSITION": pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "tri", Mesh: gltf.Index(0), Translation: [3]float32{1, 1, 1}}}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestTransform(t *testing.T) {
	doc := triangleDoc()
	require.NoError(t, Transform(doc, &geom.Vector3{X: 2, Y: 2, Z: 2}, &geom.Vector3{Z: 1}))

	acr := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]]
	pos, err := modeler.ReadPosition(doc, acr, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{0, 0, 1}, {2, 0, 1}, {0, 4, 1}}, pos)
	assert.Equal(t, [3]float32{2, 2, 2}, doc.Nodes[0].Translation)

	min, max, ok := Bounds(doc)
	require.True(t, ok)
	assert.Equal(t, [3]float32{0, 0, 1}, min)
	assert.Equal(t, [3]float32{2, 4, 1}, max)
}

func TestTransformNoop(t *testing.T) {
	doc := triangleDoc()
	require.NoError(t, Transform(doc, nil, nil))
	assert.Equal(t, [3]float32{1, 1, 1}, doc.Nodes[0].Translation)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"model.glb", "model.gltf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(triangleDoc(), path))

			doc, err := Load(path)
			require.NoError(t, err)
			require.Len(t, doc.Meshes, 1)
			acr := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]]
			pos, err := modeler.ReadPosition(doc, acr, nil)
			require.NoError(t, err)
			assert.Equal(t, [3]float32{0, 2, 0}, pos[2])
		})
	}
}

func TestTransformRejectsQuantized(t *testing.T) {
	doc := triangleDoc()
	doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]].ComponentType = gltf.ComponentUshort
	assert.ErrorIs(t, Transform(doc, &geom.Vector3{X: 2, Y: 2, Z: 2}, nil), ErrQuantizedPosition)
}
