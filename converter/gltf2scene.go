package converter

import (
	"errors"
	"log/slog"
	"math"

	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type GLTFToSceneOption struct {
	ZUp bool // rotate glTF's Y-up into Z-up
}

type gltfToScene struct {
	options *GLTFToSceneOption
	visited map[uint32]bool
}

func NewGLTFToSceneConverter(options *GLTFToSceneOption) *gltfToScene {
	if options == nil {
		options = &GLTFToSceneOption{ZUp: true}
	}
	return &gltfToScene{
		options: options,
	}
}

func nodeMatrix(node *gltf.Node) *geom.Matrix4 {
	if node.MatrixOrDefault() != gltf.DefaultMatrix {
		return geom.NewMatrix4FromFloat32(node.Matrix)
	}
	rot := geom.NewQuaternionFromFloat32(node.RotationOrDefault())
	if rot.Len() == 0 {
		rot.W = 1
	}
	return geom.NewTRSMatrix4(
		geom.NewVector3FromFloat32(node.TranslationOrDefault()),
		rot,
		geom.NewVector3FromFloat32(node.ScaleOrDefault()))
}

func baseColor(doc *gltf.Document, p *gltf.Primitive) *[4]float32 {
	if p.Material == nil || int(*p.Material) >= len(doc.Materials) {
		return nil
	}
	m := doc.Materials[*p.Material]
	if m.PBRMetallicRoughness == nil {
		return nil
	}
	col := m.PBRMetallicRoughness.BaseColorFactorOrDefault()
	return &col
}

// convertMesh merges the triangle primitives of m into one point list,
// transformed by mat.
func (c *gltfToScene) convertMesh(doc *gltf.Document, m *gltf.Mesh, mat *geom.Matrix4) (*scene.Mesh, error) {
	mesh := &scene.Mesh{}
	flip := mat.Det3() < 0
	for _, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			slog.Warn("skip non-triangle primitive", "mesh", m.Name, "mode", p.Mode)
			continue
		}
		a, ok := p.Attributes["POSITION"]
		if !ok || int(a) >= len(doc.Accessors) {
			continue
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[a], nil)
		if err != nil {
			return nil, err
		}
		var indices []uint32
		if p.Indices != nil && int(*p.Indices) < len(doc.Accessors) {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
			if err != nil {
				return nil, err
			}
		} else {
			indices = make([]uint32, len(pos))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		base := uint32(mesh.PointCount())
		for _, v := range pos {
			var out [3]float32
			mat.ApplyTo(geom.NewVector3FromFloat32(v)).ToArray(out[:])
			mesh.Positions = append(mesh.Positions, out[:]...)
		}
		for t := 0; t+2 < len(indices); t += 3 {
			i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
			if int(i0) >= len(pos) || int(i1) >= len(pos) || int(i2) >= len(pos) {
				continue
			}
			if flip {
				i1, i2 = i2, i1
			}
			mesh.Indices = append(mesh.Indices, base+i0, base+i1, base+i2)
		}
		if mesh.Color == nil {
			mesh.Color = baseColor(doc, p)
		}
	}
	return mesh, nil
}

func (c *gltfToScene) convertNode(doc *gltf.Document, idx uint32, parent *geom.Matrix4) (scene.Node, error) {
	node := doc.Nodes[idx]
	mat := parent.Mul(nodeMatrix(node))

	var geometry *scene.Geometry
	if node.Mesh != nil && int(*node.Mesh) < len(doc.Meshes) {
		m := doc.Meshes[*node.Mesh]
		mesh, err := c.convertMesh(doc, m, mat)
		if err != nil {
			slog.Warn("unreadable mesh", "mesh", m.Name, "err", err)
		} else if !mesh.IsEmpty() {
			name := node.Name
			if len(node.Children) > 0 && m.Name != "" {
				name = m.Name
			}
			geometry = scene.NewGeometry(name, mesh.Positions, mesh.Indices, scene.ComputeNormals(mesh.Positions, mesh.Indices))
			if mesh.Color != nil {
				geometry.SetColor(*mesh.Color)
			}
		}
	}
	if geometry != nil && len(node.Children) == 0 {
		return geometry, nil
	}

	container := scene.NewContainer(node.Name)
	if geometry != nil {
		container.Add(geometry)
	}
	for _, child := range node.Children {
		if int(child) >= len(doc.Nodes) || c.visited[child] {
			continue
		}
		c.visited[child] = true
		n, err := c.convertNode(doc, child, mat)
		if err != nil {
			return nil, err
		}
		container.Add(n)
	}
	return container, nil
}

// Convert returns a tree with one child per root node of the default scene.
// Node transforms are baked into the point coordinates.
func (c *gltfToScene) Convert(doc *gltf.Document) (*scene.Container, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("no scene")
	}
	s := doc.Scenes[0]
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		s = doc.Scenes[*doc.Scene]
	}
	c.visited = map[uint32]bool{}

	root := geom.NewMatrix4()
	if c.options.ZUp {
		root = geom.NewRotationMatrix4FromQuaternion(geom.NewAxisAngleQuaternion(&geom.Vector3{X: 1}, math.Pi/2))
	}
	name := s.Name
	if name == "" {
		name = "Scene"
	}
	dst := scene.NewContainer(name)
	for _, idx := range s.Nodes {
		if int(idx) >= len(doc.Nodes) || c.visited[idx] {
			continue
		}
		c.visited[idx] = true
		n, err := c.convertNode(doc, idx, root)
		if err != nil {
			return nil, err
		}
		dst.Add(n)
	}
	return dst, nil
}
