package gltfutil

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/binzume/ifcconv/geom"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/binary"
	"github.com/qmuntal/gltf/modeler"
)

var (
	ErrSparseAccessor    = errors.New("sparse accessor is not supported")
	ErrQuantizedPosition = errors.New("non-float position accessor is not supported")
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes doc as GLB when path ends with .glb, otherwise as glTF JSON
// with embedded buffers.
func Save(doc *gltf.Document, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	for _, b := range doc.Buffers {
		if b.URI == "" && len(b.Data) > 0 {
			b.EmbeddedResource()
		}
	}
	return gltf.Save(doc, path)
}

// Transform scales and offsets every POSITION accessor in place and
// updates node translations and accessor bounds. Morph target positions
// are deltas and only get scaled.
func Transform(doc *gltf.Document, scale *geom.Vector3, offset *geom.Vector3) error {
	if scale == nil && offset == nil {
		return nil
	}
	scaleMat := geom.NewMatrix4()
	if scale != nil {
		scaleMat = geom.NewScaleMatrix4(scale.X, scale.Y, scale.Z)
	}
	scaleOffsetMat := scaleMat
	if offset != nil {
		scaleOffsetMat = geom.NewTranslateMatrix4(offset.X, offset.Y, offset.Z).Mul(scaleMat)
	}

	accs := map[uint32]bool{}
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			if a, ok := p.Attributes["POSITION"]; ok {
				accs[a] = false
			}
			for _, t := range p.Targets {
				if a, ok := t["POSITION"]; ok {
					accs[a] = true
				}
			}
		}
	}
	for a, diff := range accs {
		if int(a) >= len(doc.Accessors) {
			return fmt.Errorf("accessor %d out of range", a)
		}
		acr := doc.Accessors[a]
		if acr.Sparse != nil {
			return ErrSparseAccessor
		}
		if acr.BufferView == nil {
			continue
		}
		if acr.ComponentType != gltf.ComponentFloat {
			return fmt.Errorf("accessor %d: %w", a, ErrQuantizedPosition)
		}
		pos, err := modeler.ReadPosition(doc, acr, [][3]float32{})
		if err != nil {
			return fmt.Errorf("read accessor %d: %w", a, err)
		}

		acr.Min = []float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
		acr.Max = []float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
		mat := scaleOffsetMat
		if diff {
			mat = scaleMat
		}
		for i := range pos {
			mat.ApplyTo(geom.NewVector3FromFloat32(pos[i])).ToArray(pos[i][:])
			for t, v := range pos[i] {
				acr.Min[t] = float32(math.Min(float64(acr.Min[t]), float64(v)))
				acr.Max[t] = float32(math.Max(float64(acr.Max[t]), float64(v)))
			}
		}
		bufferView := doc.BufferViews[*acr.BufferView]
		buffer := doc.Buffers[bufferView.Buffer]
		err = binary.Write(buffer.Data[bufferView.ByteOffset+acr.ByteOffset:], bufferView.ByteStride, pos)
		if err != nil {
			return fmt.Errorf("write accessor %d: %w", a, err)
		}
	}
	for _, node := range doc.Nodes {
		scaleMat.ApplyTo(geom.NewVector3FromFloat32(node.Translation)).ToArray(node.Translation[:])
	}
	return nil
}

// Bounds returns the union of the POSITION accessor bounds of all meshes.
func Bounds(doc *gltf.Document) (min, max [3]float32, ok bool) {
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			a, found := p.Attributes["POSITION"]
			if !found || int(a) >= len(doc.Accessors) {
				continue
			}
			acr := doc.Accessors[a]
			if len(acr.Min) < 3 || len(acr.Max) < 3 {
				continue
			}
			for i := 0; i < 3; i++ {
				if !ok || acr.Min[i] < min[i] {
					min[i] = acr.Min[i]
				}
				if !ok || acr.Max[i] > max[i] {
					max[i] = acr.Max[i]
				}
			}
			ok = true
		}
	}
	return
}
