package ifc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/binzume/ifcconv/scene"
	"github.com/binzume/ifcconv/step"
)

const (
	timeStampFormat = "2006-01-02T15:04:05"
	systemName      = "ifcconv"
)

var typedNameRe = regexp.MustCompile(`^IFC[A-Z0-9]+( - |$)`)

// idAllocator hands out entity ids for one export.
type idAllocator struct {
	last int
}

func (a *idAllocator) next() int {
	a.last++
	return a.last
}

type writer struct {
	options   *ExportOption
	ids       idAllocator
	out       strings.Builder
	context   int
	placement int
}

func (w *writer) emit(typ string, args ...string) int {
	id := w.ids.next()
	w.out.WriteString(step.FormatRef(id))
	w.out.WriteByte('=')
	w.out.WriteString(typ)
	w.out.WriteByte('(')
	w.out.WriteString(strings.Join(args, ","))
	w.out.WriteString(");\n")
	return id
}

func ref(id int) string {
	return step.FormatRef(id)
}

func refs(ids ...int) string {
	return step.FormatRefList(ids)
}

// nameArg strips a "TYPE - " prefix given by import so names do not grow
// on repeated round trips. An empty name is unset.
func nameArg(name string) string {
	name = typedNameRe.ReplaceAllString(name, "")
	if name == "" {
		return "$"
	}
	return step.Quote(name)
}

func (w *writer) write(root scene.Node, name string) string {
	w.writeHeader(name)
	w.out.WriteString("DATA;\n")

	origin := w.emit(TypeCartesianPoint, step.FormatRealTuple(0, 0, 0))
	wcs := w.emit(TypeAxis2Placement3D, ref(origin), "$", "$")
	w.context = w.emit(TypeGeometricContext, "$", "'Model'", "3", step.FormatReal(1e-5), ref(wcs), "$")
	unit := w.emit(TypeSIUnit, "*", step.FormatEnum("LENGTHUNIT"), "$", step.FormatEnum("METRE"))
	units := w.emit(TypeUnitAssignment, refs(unit))
	project := w.emit(TypeProject, step.Quote(pathGUID("project")), "$", nameArg(name), "$", "$", "$", "$", refs(w.context), ref(units))

	w.placement = w.emit(TypeLocalPlacement, "$", ref(wcs))
	site := w.emit(TypeSite, step.Quote(pathGUID("site")), "$", nameArg(w.options.SiteName), "$", "$",
		ref(w.placement), "$", "$", step.FormatEnum("ELEMENT"), "$", "$", "$", "$", "$")
	building := w.emit(TypeBuilding, step.Quote(pathGUID("building")), "$", nameArg(w.options.BuildingName), "$", "$",
		ref(w.placement), "$", "$", step.FormatEnum("ELEMENT"), "$", "$", "$")
	storeyName := w.options.StoreyName
	if storeyName == "" && root != nil {
		storeyName = root.Name()
	}
	storey := w.emit(TypeBuildingStorey, step.Quote(pathGUID("storey")), "$", nameArg(storeyName), "$", "$",
		ref(w.placement), "$", "$", step.FormatEnum("ELEMENT"), step.FormatReal(0))

	if root != nil {
		if isLeaf(root) {
			w.writeRelations(storey, "storey", nil, []int{w.writeLeaf(root, "storey/0")})
		} else {
			w.writeChildren(storey, root, "storey")
		}
	}
	w.writeRelations(building, "building", []int{storey}, nil)
	w.writeRelations(site, "site", []int{building}, nil)
	w.writeRelations(project, "project", []int{site}, nil)

	w.out.WriteString("ENDSEC;\n")
	w.out.WriteString("END-ISO-10303-21;\n")
	return w.out.String()
}

func (w *writer) writeHeader(name string) {
	now := time.Now
	if w.options.Now != nil {
		now = w.options.Now
	}
	w.out.WriteString("ISO-10303-21;\n")
	w.out.WriteString("HEADER;\n")
	w.out.WriteString("FILE_DESCRIPTION(('ViewDefinition [ReferenceView]'),'2;1');\n")
	fmt.Fprintf(&w.out, "FILE_NAME(%s,%s,(%s),(%s),%s,%s,'');\n",
		step.Quote(name), step.Quote(now().Format(timeStampFormat)),
		step.Quote(w.options.Author), step.Quote(w.options.Organization),
		step.Quote(systemName), step.Quote(systemName))
	fmt.Fprintf(&w.out, "FILE_SCHEMA((%s));\n", step.Quote(w.options.Schema))
	w.out.WriteString("ENDSEC;\n")
}

func isLeaf(n scene.Node) bool {
	if ms, ok := n.(scene.MeshSource); ok && !ms.Mesh().IsEmpty() {
		return true
	}
	_, branch := n.(scene.Branch)
	return !branch
}

// writeChildren emits the children of node, then the relationships that
// attach them to parent.
func (w *writer) writeChildren(parent int, node scene.Node, path string) {
	b, ok := node.(scene.Branch)
	if !ok {
		return
	}
	var containers, leaves []int
	for i, c := range b.Children() {
		p := path + "/" + strconv.Itoa(i)
		if isLeaf(c) {
			leaves = append(leaves, w.writeLeaf(c, p))
		} else {
			containers = append(containers, w.writeContainer(c, p))
		}
	}
	w.writeRelations(parent, path, containers, leaves)
}

func (w *writer) writeRelations(parent int, path string, parts, elements []int) {
	if len(parts) > 0 {
		w.emit(TypeRelAggregates, step.Quote(pathGUID(path+"#aggregates")), "$", "$", "$", ref(parent), refs(parts...))
	}
	if len(elements) > 0 {
		w.emit(TypeRelContainedInSpatial, step.Quote(pathGUID(path+"#contains")), "$", "$", "$", refs(elements...), ref(parent))
	}
}

func (w *writer) writeContainer(n scene.Node, path string) int {
	id := w.emit(TypeSpace, step.Quote(pathGUID(path)), "$", nameArg(n.Name()), "$", "$",
		ref(w.placement), "$", "$", step.FormatEnum("ELEMENT"), "$", "$")
	w.writeChildren(id, n, path)
	return id
}

func (w *writer) writeLeaf(n scene.Node, path string) int {
	shape := "$"
	if ms, ok := n.(scene.MeshSource); ok {
		if id := w.writeMesh(ms.Mesh()); id != 0 {
			shape = ref(id)
		}
	}
	return w.emit(TypeBuildingElementProxy, step.Quote(pathGUID(path)), "$", nameArg(n.Name()), "$", "$",
		ref(w.placement), shape, "$", "$")
}

// writeMesh emits a tessellated body and returns its product definition
// shape, or 0 if the mesh has no valid triangle.
func (w *writer) writeMesh(mesh *scene.Mesh) int {
	if mesh.IsEmpty() {
		return 0
	}
	count := mesh.PointCount()
	var faces []string
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(a) >= count || int(b) >= count || int(c) >= count {
			continue
		}
		faces = append(faces, fmt.Sprintf("(%d,%d,%d)", a+1, b+1, c+1))
	}
	if len(faces) == 0 {
		return 0
	}
	points := make([]string, count)
	for i := range points {
		p := mesh.Positions[i*3 : i*3+3]
		points[i] = "(" + step.FormatReal32(p[0]) + "," + step.FormatReal32(p[1]) + "," + step.FormatReal32(p[2]) + ")"
	}
	pl := w.emit(TypeCartesianPointList3D, "("+strings.Join(points, ",")+")")
	fs := w.emit(TypeTriangulatedFaceSet, ref(pl), "$", "$", "("+strings.Join(faces, ",")+")", "$")
	if mesh.Color != nil {
		w.writeStyle(fs, *mesh.Color)
	}
	sr := w.emit(TypeShapeRepresentation, ref(w.context), "'Body'", "'Tessellation'", refs(fs))
	return w.emit(TypeProductDefinitionShape, "$", "$", refs(sr))
}

func (w *writer) writeStyle(item int, c [4]float32) {
	rgb := w.emit(TypeColourRGB, "$", step.FormatReal32(c[0]), step.FormatReal32(c[1]), step.FormatReal32(c[2]))
	shading := w.emit(TypeSurfaceStyleShading, ref(rgb), step.FormatReal32(1-c[3]))
	style := w.emit(TypeSurfaceStyle, "$", step.FormatEnum("BOTH"), refs(shading))
	w.emit(TypeStyledItem, ref(item), refs(style), "$")
}
