package ifc

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/binzume/ifcconv/scene"
	"github.com/binzume/ifcconv/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func physicalFile(lines ...string) string {
	return "ISO-10303-21;\nHEADER;\nFILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n" +
		strings.Join(lines, "\n") + "\nENDSEC;\nEND-ISO-10303-21;\n"
}

func resolveItem(t *testing.T, text string, id int, options *ImportOption) *meshData {
	t.Helper()
	if options == nil {
		options = DefaultImportOption()
	}
	doc := step.Parse(text)
	require.Empty(t, doc.Diagnostics)
	return newResolver(newModel(doc), options).resolve(id)
}

func assertWellFormed(t *testing.T, md *meshData) {
	t.Helper()
	for _, tri := range md.tris {
		for _, i := range tri {
			assert.True(t, i >= 0 && i < len(md.points), "index %d out of range %d", i, len(md.points))
		}
	}
}

// assertClosed checks that every directed edge is matched by its reverse.
func assertClosed(t *testing.T, md *meshData) {
	t.Helper()
	edges := map[[2]int]int{}
	for _, tri := range md.tris {
		for k := 0; k < 3; k++ {
			edges[[2]int{tri[k], tri[(k+1)%3]}]++
		}
	}
	for e, n := range edges {
		assert.Equal(t, n, edges[[2]int{e[1], e[0]}], "edge %v", e)
	}
}

func volume(md *meshData) float64 {
	var v float64
	for _, tri := range md.tris {
		a, b, c := &md.points[tri[0]], &md.points[tri[1]], &md.points[tri[2]]
		v += a.Dot(b.Cross(c)) / 6
	}
	return v
}

const triangle = `#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(0.,1.,0.)));
#3=IFCTRIANGULATEDFACESET(#2,$,$,((1,2,3)),$);`

func TestMinimalProject(t *testing.T) {
	text := physicalFile(`#1=IFCPROJECT('g',$,'Demo',$,$,$,$,$);`)
	doc := step.Parse(text)
	require.Len(t, doc.Entities, 1)
	assert.Equal(t, TypeProject, doc.Entities[0].Type)
	assert.Equal(t, "Demo", step.Unquote(doc.Entities[0].Arg(2), ""))
	assert.Equal(t, []string{"IFC4"}, doc.Header.Schemas)

	root := Import(text)
	c, ok := root.(*scene.Container)
	require.True(t, ok)
	assert.Equal(t, "IFCPROJECT - Demo", c.Name())
	assert.Empty(t, c.Children())
}

func TestNoProject(t *testing.T) {
	root := Import(physicalFile(`#1=IFCWALL('g',$,'W',$,$,$,$,$);`))
	c, ok := root.(*scene.Container)
	require.True(t, ok)
	assert.Equal(t, "Unknown", c.Name())
	assert.Empty(t, c.Children())

	root = Import("garbage")
	assert.Equal(t, "Unknown", root.Name())
}

func TestTriangulatedFaceSet(t *testing.T) {
	md := resolveItem(t, physicalFile(triangle), 3, nil)
	require.NotNil(t, md)
	assert.Len(t, md.points, 3)
	assert.Equal(t, [][3]int{{0, 1, 2}}, md.tris)

	// PnIndex remaps, bad faces are dropped
	md = resolveItem(t, physicalFile(
		`#2=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(0.,1.,0.)));`,
		`#3=IFCTRIANGULATEDFACESET(#2,$,$,((1,2,3),(1,2,9),(1,2)),(3,2,1));`), 3, nil)
	require.NotNil(t, md)
	assert.Equal(t, [][3]int{{2, 1, 0}}, md.tris)

	assert.Nil(t, resolveItem(t, physicalFile(`#3=IFCTRIANGULATEDFACESET(#2,$,$,((1,2,3)),$);`), 3, nil))
	assert.Nil(t, resolveItem(t, physicalFile(triangle), 99, nil))
}

func TestPolygonalFaceSet(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#2=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(1.,1.,0.),(0.,1.,0.)));`,
		`#3=IFCINDEXEDPOLYGONALFACE((1,2,3,4));`,
		`#4=IFCPOLYGONALFACESET(#2,$,(#3),$);`), 4, nil)
	require.NotNil(t, md)
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, md.tris)
}

const extrudedRect = `#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCAXIS2PLACEMENT2D(#1,$);
#3=IFCRECTANGLEPROFILEDEF(.AREA.,$,#2,2.,1.);
#4=IFCAXIS2PLACEMENT3D(#1,$,$);
#5=IFCDIRECTION((0.,0.,1.));
#6=IFCEXTRUDEDAREASOLID(#3,#4,#5,2.);`

func TestExtrudedRectangle(t *testing.T) {
	for _, earClip := range []bool{false, true} {
		options := DefaultImportOption()
		options.EarClipCaps = earClip
		md := resolveItem(t, physicalFile(extrudedRect), 6, options)
		require.NotNil(t, md)
		assert.Len(t, md.points, 8)
		assert.Len(t, md.tris, 12)
		for _, p := range md.points {
			assert.True(t, p.Z == 0 || p.Z == 2, "z=%v", p.Z)
		}
		assertWellFormed(t, md)
		assertClosed(t, md)
		assert.InDelta(t, 4.0, volume(md), 1e-9)
	}
}

func TestExtrudedPlacement(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#1=IFCCARTESIANPOINT((0.,0.,0.));`,
		`#2=IFCAXIS2PLACEMENT2D(#1,$);`,
		`#3=IFCRECTANGLEPROFILEDEF(.AREA.,$,#2,2.,1.);`,
		`#7=IFCCARTESIANPOINT((10.,0.,0.));`,
		`#8=IFCDIRECTION((1.,0.,0.));`,
		`#4=IFCAXIS2PLACEMENT3D(#7,#8,$);`,
		`#5=IFCDIRECTION((0.,0.,-1.));`,
		`#6=IFCEXTRUDEDAREASOLID(#3,#4,#5,3.);`), 6, nil)
	require.NotNil(t, md)
	for _, p := range md.points {
		// local z runs along world x, extruded downward
		assert.True(t, math.Abs(p.X-10) < 1e-9 || math.Abs(p.X-7) < 1e-9, "x=%v", p.X)
	}
	assertClosed(t, md)
	assert.InDelta(t, 6.0, volume(md), 1e-9)
}

func TestExtrudedPlacementParallelRefDirection(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#1=IFCCARTESIANPOINT((0.,0.,0.));`,
		`#2=IFCAXIS2PLACEMENT2D(#1,$);`,
		`#3=IFCRECTANGLEPROFILEDEF(.AREA.,$,#2,2.,1.);`,
		`#7=IFCDIRECTION((0.,0.,-1.));`,
		`#8=IFCDIRECTION((0.,0.,1.));`,
		`#4=IFCAXIS2PLACEMENT3D(#1,#7,#8);`,
		`#5=IFCDIRECTION((0.,0.,1.));`,
		`#6=IFCEXTRUDEDAREASOLID(#3,#4,#5,2.);`), 6, nil)
	require.NotNil(t, md)
	for _, p := range md.points {
		// axis -Z is kept, so the solid grows downward
		assert.True(t, p.Z == 0 || p.Z == -2, "z=%v", p.Z)
	}
	assertClosed(t, md)
	assert.InDelta(t, 4.0, volume(md), 1e-9)
}

func TestExtrudedCircleAndCurves(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#3=IFCCIRCLEPROFILEDEF(.AREA.,$,$,0.5);`,
		`#6=IFCEXTRUDEDAREASOLID(#3,$,$,1.);`), 6, nil)
	require.NotNil(t, md)
	assert.Len(t, md.points, 32)
	assert.Len(t, md.tris, 14*2+16*2)
	assertClosed(t, md)

	options := DefaultImportOption()
	options.CircleSegments = 8
	md = resolveItem(t, physicalFile(
		`#3=IFCCIRCLEPROFILEDEF(.AREA.,$,$,0.5);`,
		`#6=IFCEXTRUDEDAREASOLID(#3,$,$,1.);`), 6, options)
	assert.Len(t, md.points, 16)

	// clockwise polyline with closing point
	md = resolveItem(t, physicalFile(
		`#10=IFCCARTESIANPOINT((0.,0.));`,
		`#11=IFCCARTESIANPOINT((0.,1.));`,
		`#12=IFCCARTESIANPOINT((1.,1.));`,
		`#13=IFCCARTESIANPOINT((1.,0.));`,
		`#14=IFCPOLYLINE((#10,#11,#12,#13,#10));`,
		`#3=IFCARBITRARYCLOSEDPROFILEDEF(.AREA.,$,#14);`,
		`#6=IFCEXTRUDEDAREASOLID(#3,$,$,1.);`), 6, nil)
	require.NotNil(t, md)
	assert.Len(t, md.points, 8)
	assertClosed(t, md)
	assert.InDelta(t, 1.0, volume(md), 1e-9)

	// L shaped indexed curve, ear clipped caps
	options = DefaultImportOption()
	options.EarClipCaps = true
	md = resolveItem(t, physicalFile(
		`#20=IFCCARTESIANPOINTLIST2D(((0.,0.),(2.,0.),(2.,1.),(1.,1.),(1.,2.),(0.,2.)));`,
		`#21=IFCINDEXEDPOLYCURVE(#20,(IFCLINEINDEX((1,2,3,4)),IFCLINEINDEX((4,5,6,1))),$);`,
		`#3=IFCARBITRARYPROFILEDEFWITHVOIDS(.AREA.,$,#21,());`,
		`#6=IFCEXTRUDEDAREASOLID(#3,$,$,1.);`), 6, options)
	require.NotNil(t, md)
	assert.Len(t, md.points, 12)
	assertClosed(t, md)
	assert.InDelta(t, 3.0, volume(md), 1e-9)
}

func cubeBrep() []string {
	lines := []string{
		`#1=IFCCARTESIANPOINT((0.,0.,0.));`,
		`#2=IFCCARTESIANPOINT((1.,0.,0.));`,
		`#3=IFCCARTESIANPOINT((1.,1.,0.));`,
		`#4=IFCCARTESIANPOINT((0.,1.,0.));`,
		`#5=IFCCARTESIANPOINT((0.,0.,1.));`,
		`#6=IFCCARTESIANPOINT((1.,0.,1.));`,
		`#7=IFCCARTESIANPOINT((1.,1.,1.));`,
		`#8=IFCCARTESIANPOINT((0.,1.,1.));`,
		// same coordinates as #5..#8
		`#55=IFCCARTESIANPOINT((0.,0.,1.));`,
		`#56=IFCCARTESIANPOINT((1.,0.,1.));`,
	}
	faces := [][]int{{1, 4, 3, 2}, {55, 56, 7, 8}, {1, 2, 6, 5}, {3, 4, 8, 7}, {1, 5, 8, 4}, {2, 3, 7, 6}}
	var faceRefs []string
	for i, f := range faces {
		id := 10 + i*3
		lines = append(lines,
			fmt.Sprintf("#%d=IFCPOLYLOOP((#%d,#%d,#%d,#%d));", id, f[0], f[1], f[2], f[3]),
			fmt.Sprintf("#%d=IFCFACEOUTERBOUND(#%d,.T.);", id+1, id),
			fmt.Sprintf("#%d=IFCFACE((#%d));", id+2, id+1))
		faceRefs = append(faceRefs, fmt.Sprintf("#%d", id+2))
	}
	return append(lines,
		"#40=IFCCLOSEDSHELL(("+strings.Join(faceRefs, ",")+"));",
		"#41=IFCFACETEDBREP(#40);")
}

func TestFacetedBrep(t *testing.T) {
	md := resolveItem(t, physicalFile(cubeBrep()...), 41, nil)
	require.NotNil(t, md)
	assert.Len(t, md.points, 8)
	assert.Len(t, md.tris, 12)
	assertWellFormed(t, md)
	assertClosed(t, md)
	assert.InDelta(t, 1.0, volume(md), 1e-9)

	md = resolveItem(t, physicalFile(append(cubeBrep(), "#42=IFCSHELLBASEDSURFACEMODEL((#40));")...), 42, nil)
	require.NotNil(t, md)
	assert.Len(t, md.tris, 12)
}

func TestFaceOrientation(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#1=IFCCARTESIANPOINT((0.,0.,0.));`,
		`#2=IFCCARTESIANPOINT((1.,0.,0.));`,
		`#3=IFCCARTESIANPOINT((0.,1.,0.));`,
		`#4=IFCPOLYLOOP((#1,#2,#3));`,
		`#5=IFCFACEOUTERBOUND(#4,.F.);`,
		`#6=IFCFACE((#5));`,
		`#7=IFCCONNECTEDFACESET((#6));`,
		`#8=IFCFACEBASEDSURFACEMODEL((#7));`), 8, nil)
	require.NotNil(t, md)
	require.Len(t, md.tris, 1)
	tri := md.tris[0]
	n := md.points[tri[1]].Sub(&md.points[tri[0]]).Cross(md.points[tri[2]].Sub(&md.points[tri[0]]))
	assert.Less(t, n.Z, 0.0)
}

func TestBooleanResult(t *testing.T) {
	md := resolveItem(t, physicalFile(extrudedRect,
		`#20=IFCHALFSPACESOLID(#21,.F.);`,
		`#7=IFCBOOLEANCLIPPINGRESULT(.DIFFERENCE.,#6,#20);`), 7, nil)
	require.NotNil(t, md)
	assert.Len(t, md.tris, 12)

	assert.Nil(t, resolveItem(t, physicalFile(`#7=IFCBOOLEANRESULT(.UNION.,#7,#7);`), 7, nil))
}

func TestMappedItem(t *testing.T) {
	base := physicalFile(triangle,
		`#4=IFCSHAPEREPRESENTATION($,'Body','Tessellation',(#3));`,
		`#5=IFCAXIS2PLACEMENT3D(#1,$,$);`,
		`#6=IFCREPRESENTATIONMAP(#5,#4);`,
		`#7=IFCCARTESIANPOINT((10.,0.,0.));`,
		`#8=IFCCARTESIANTRANSFORMATIONOPERATOR3D($,$,#7,2.,$);`,
		`#9=IFCMAPPEDITEM(#6,#8);`,
		`#10=IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM($,$,#7,2.,$,3.,4.);`,
		`#11=IFCMAPPEDITEM(#6,#10);`,
		`#12=IFCCARTESIANPOINT((0.,0.,5.));`,
		`#13=IFCAXIS2PLACEMENT3D(#12,$,$);`,
		`#14=IFCREPRESENTATIONMAP(#13,#4);`,
		`#15=IFCMAPPEDITEM(#14,#8);`)

	md := resolveItem(t, base, 9, nil)
	require.NotNil(t, md)
	assert.Equal(t, [][3]int{{0, 1, 2}}, md.tris)
	assertVectors(t, [][3]float64{{10, 0, 0}, {12, 0, 0}, {10, 2, 0}}, md)

	md = resolveItem(t, base, 11, nil)
	require.NotNil(t, md)
	assertVectors(t, [][3]float64{{10, 0, 0}, {12, 0, 0}, {10, 3, 0}}, md)

	md = resolveItem(t, base, 15, nil)
	require.NotNil(t, md)
	assertVectors(t, [][3]float64{{10, 0, 10}, {12, 0, 10}, {10, 2, 10}}, md)

	// instance used twice resolves twice
	doc := step.Parse(base)
	r := newResolver(newModel(doc), DefaultImportOption())
	assert.NotNil(t, r.resolve(9))
	assert.NotNil(t, r.resolve(9))
}

func assertVectors(t *testing.T, expected [][3]float64, md *meshData) {
	t.Helper()
	require.Len(t, md.points, len(expected))
	for i, e := range expected {
		assert.InDelta(t, e[0], md.points[i].X, 1e-9, "point %d", i)
		assert.InDelta(t, e[1], md.points[i].Y, 1e-9, "point %d", i)
		assert.InDelta(t, e[2], md.points[i].Z, 1e-9, "point %d", i)
	}
}

func TestMappedItemCycle(t *testing.T) {
	md := resolveItem(t, physicalFile(
		`#4=IFCSHAPEREPRESENTATION($,'Body','MappedRepresentation',(#9));`,
		`#6=IFCREPRESENTATIONMAP($,#4);`,
		`#9=IFCMAPPEDITEM(#6,$);`), 9, nil)
	assert.Nil(t, md)
}

const building = `#100=IFCPROJECT('p',$,'Demo',$,$,$,$,$,$);
#101=IFCSITE('s',$,'Site',$,$,#110,$,$,.ELEMENT.,$,$,$,$,$);
#102=IFCRELAGGREGATES('r1',$,$,$,#100,(#101));
#103=IFCWALL('w',$,'Wall',$,$,#111,#104,$,$);
#104=IFCPRODUCTDEFINITIONSHAPE($,$,(#140,#105));
#105=IFCSHAPEREPRESENTATION($,'Body','Tessellation',(#3));
#106=IFCRELCONTAINEDINSPATIALSTRUCTURE('r2',$,$,$,(#103,#107,#999),#101);
#107=IFCDOOR('d',$,$,$,$,$,$,$,$);
#110=IFCLOCALPLACEMENT($,#112);
#111=IFCLOCALPLACEMENT(#110,#113);
#112=IFCAXIS2PLACEMENT3D(#120,$,$);
#113=IFCAXIS2PLACEMENT3D(#121,$,$);
#120=IFCCARTESIANPOINT((0.,0.,10.));
#121=IFCCARTESIANPOINT((5.,0.,0.));
#130=IFCCOLOURRGB($,1.,0.5,0.);
#131=IFCSURFACESTYLERENDERING(#130,0.25,$,$,$,$,$,$,.NOTDEFINED.);
#132=IFCSURFACESTYLE($,.BOTH.,(#131));
#133=IFCPRESENTATIONSTYLEASSIGNMENT((#132));
#134=IFCSTYLEDITEM(#3,(#133),$);
#140=IFCSHAPEREPRESENTATION($,'Axis','Curve2D',(#141));
#141=IFCTRIANGULATEDFACESET(#2,$,$,((3,2,1)),$);`

func TestBuildSpatialTree(t *testing.T) {
	root := Import(physicalFile(triangle, building))

	project, ok := root.(*scene.Container)
	require.True(t, ok)
	assert.Equal(t, "IFCPROJECT - Demo", project.Name())
	require.Len(t, project.Children(), 1)

	site := project.Children()[0].(*scene.Container)
	assert.Equal(t, "IFCSITE - Site", site.Name())
	require.Len(t, site.Children(), 3)

	wall, ok := site.Children()[0].(*scene.Geometry)
	require.True(t, ok)
	assert.Equal(t, "IFCWALL - Wall", wall.Name())
	mesh := wall.Mesh()
	assert.Equal(t, []float32{5, 0, 10, 6, 0, 10, 5, 1, 10}, mesh.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, mesh.Normals)
	require.NotNil(t, mesh.Color)
	assert.Equal(t, [4]float32{1, 0.5, 0, 0.75}, *mesh.Color)

	assert.Equal(t, "IFCDOOR", site.Children()[1].Name())
	assert.Equal(t, "Unknown", site.Children()[2].Name())
}

func TestBuildOptions(t *testing.T) {
	options := DefaultImportOption()
	options.ApplyObjectPlacement = false
	options.BodyOnly = false
	root := NewImporter(options).Import(physicalFile(triangle, building))
	wall := root.(scene.Branch).Children()[0].(scene.Branch).Children()[0].(*scene.Geometry)
	mesh := wall.Mesh()
	assert.Equal(t, 6, mesh.PointCount())
	assert.Equal(t, float32(0), mesh.Positions[2])
}

func TestBuildCycle(t *testing.T) {
	root := Import(physicalFile(
		`#1=IFCPROJECT('p',$,'P',$,$,$,$,$,$);`,
		`#2=IFCSITE('a',$,'A',$,$,$,$,$,$,$,$,$,$,$);`,
		`#3=IFCBUILDING('b',$,'B',$,$,$,$,$,$,$,$,$);`,
		`#10=IFCRELAGGREGATES('r',$,$,$,#1,(#2));`,
		`#11=IFCRELAGGREGATES('r',$,$,$,#2,(#3));`,
		`#12=IFCRELAGGREGATES('r',$,$,$,#3,(#2,#1));`))

	counts := map[string]int{}
	var walk func(n scene.Node)
	walk = func(n scene.Node) {
		counts[n.Name()]++
		if b, ok := n.(scene.Branch); ok {
			for _, c := range b.Children() {
				walk(c)
			}
		}
	}
	walk(root)
	assert.Equal(t, map[string]int{"IFCPROJECT - P": 1, "IFCSITE - A": 1, "IFCBUILDING - B": 1}, counts)
}

type testFactory struct {
	containers int
	geometries int
}

func (f *testFactory) NewContainer(name string) scene.Parent {
	f.containers++
	return scene.NewContainer(name)
}

func (f *testFactory) NewGeometry(name string, positions []float32, indices []uint32, normals []float32) scene.Node {
	f.geometries++
	return scene.NewGeometry(name, positions, indices, normals)
}

func TestImportFactory(t *testing.T) {
	f := &testFactory{}
	options := DefaultImportOption()
	options.Factory = f
	NewImporter(options).Import(physicalFile(triangle, building))
	assert.Equal(t, 4, f.containers)
	assert.Equal(t, 1, f.geometries)
}

func TestDecode(t *testing.T) {
	text, err := Decode(strings.NewReader("caf\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "café", text)

	text, err = Decode(strings.NewReader("日本"))
	require.NoError(t, err)
	assert.Equal(t, "日本", text)
}
