package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type SceneToGLTFOption struct {
	Scale       float32 // Default: 1.0
	YUp         bool    // rotate Z-up input into glTF's Y-up
	DoubleSided bool
}

type sceneToGltf struct {
	*SceneToGLTFOption
	*gltf.Document
	materials map[[4]float32]uint32
	visited   map[scene.Node]bool
}

var defaultColor = [4]float32{0.8, 0.8, 0.8, 1}

func NewSceneToGLTFConverter(options *SceneToGLTFOption) *sceneToGltf {
	if options == nil {
		options = &SceneToGLTFOption{YUp: true, DoubleSided: true}
	}
	if options.Scale == 0 {
		options.Scale = 1.0
	}
	return &sceneToGltf{
		SceneToGLTFOption: options,
		Document:          gltf.NewDocument(),
		materials:         map[[4]float32]uint32{},
		visited:           map[scene.Node]bool{},
	}
}

func (c *sceneToGltf) addMaterial(color *[4]float32) uint32 {
	col := defaultColor
	if color != nil {
		col = *color
	}
	if m, ok := c.materials[col]; ok {
		return m
	}
	metallic := float32(0)
	roughness := float32(1)
	mm := &gltf.Material{
		Name: fmt.Sprint("material", len(c.Materials)),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &col,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		DoubleSided: c.DoubleSided,
	}
	if col[3] < 0.99 {
		mm.AlphaMode = gltf.AlphaBlend
	}
	c.Materials = append(c.Materials, mm)
	c.materials[col] = uint32(len(c.Materials) - 1)
	return c.materials[col]
}

func (c *sceneToGltf) addMesh(name string, mesh *scene.Mesh) (uint32, bool) {
	count := mesh.PointCount()
	vertexes := make([][3]float32, count)
	for i := range vertexes {
		copy(vertexes[i][:], mesh.Positions[i*3:i*3+3])
	}
	indices := make([]uint32, 0, len(mesh.Indices))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		tri := mesh.Indices[t : t+3]
		if int(tri[0]) >= count || int(tri[1]) >= count || int(tri[2]) >= count {
			slog.Warn("skip triangle with invalid index", "mesh", name, "triangle", t/3)
			continue
		}
		indices = append(indices, tri...)
	}
	if len(indices) == 0 {
		return 0, false
	}
	src := mesh.Normals
	if len(src) != len(mesh.Positions) {
		src = scene.ComputeNormals(mesh.Positions, mesh.Indices)
	}
	normals := make([][3]float32, count)
	for i := range normals {
		copy(normals[i][:], src[i*3:i*3+3])
	}

	c.Meshes = append(c.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(c.Document, indices)),
			Attributes: map[string]uint32{
				"POSITION": modeler.WritePosition(c.Document, vertexes),
				"NORMAL":   modeler.WriteNormal(c.Document, normals),
			},
			Material: gltf.Index(c.addMaterial(mesh.Color)),
		}},
	})
	return uint32(len(c.Meshes) - 1), true
}

func (c *sceneToGltf) addNode(n scene.Node) uint32 {
	node := &gltf.Node{Name: n.Name()}
	c.Nodes = append(c.Nodes, node)
	idx := uint32(len(c.Nodes) - 1)
	if c.visited[n] {
		slog.Warn("node visited twice", "name", n.Name())
		return idx
	}
	c.visited[n] = true

	if src, ok := n.(scene.MeshSource); ok && !src.Mesh().IsEmpty() {
		if m, ok := c.addMesh(n.Name(), src.Mesh()); ok {
			node.Mesh = gltf.Index(m)
		}
	}
	if b, ok := n.(scene.Branch); ok {
		for _, child := range b.Children() {
			node.Children = append(node.Children, c.addNode(child))
		}
	}
	return idx
}

// Convert builds a glTF document with the node tree of root.
func (c *sceneToGltf) Convert(root scene.Node) (*gltf.Document, error) {
	if root == nil {
		return nil, errors.New("empty scene")
	}
	rootIdx := c.addNode(root)
	r := c.Nodes[rootIdx]
	r.Rotation = [4]float32{0, 0, 0, 1}
	if c.YUp {
		r.Rotation = geom.NewAxisAngleQuaternion(&geom.Vector3{X: 1}, -math.Pi/2).ToFloat32()
	}
	r.Scale = [3]float32{c.Scale, c.Scale, c.Scale}
	c.Scenes[0].Nodes = append(c.Scenes[0].Nodes, rootIdx)
	return c.Document, nil
}
