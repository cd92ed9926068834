package ifc

import (
	"github.com/binzume/ifcconv/scene"
	"github.com/binzume/ifcconv/step"
)

const unknownName = "Unknown"

// scanRelationships folds aggregation and spatial containment into one
// parent -> children map, in file order.
func scanRelationships(entities []*step.Entity) map[int][]int {
	children := map[int][]int{}
	for _, e := range entities {
		var parent int
		var related []int
		switch e.Type {
		case TypeRelAggregates:
			parent, related = refArg(e, 4), step.ParseRefList(e.Arg(5))
		case TypeRelContainedInSpatial:
			parent, related = refArg(e, 5), step.ParseRefList(e.Arg(4))
		default:
			continue
		}
		if parent == 0 {
			continue
		}
		children[parent] = append(children[parent], related...)
	}
	return children
}

func findRoot(entities []*step.Entity) int {
	for _, e := range entities {
		if e.Type == TypeProject {
			return e.ID
		}
	}
	return 0
}

type builder struct {
	m        *model
	r        *resolver
	factory  scene.Factory
	children map[int][]int
}

func newBuilder(doc *step.Document, options *ImportOption) *builder {
	m := newModel(doc)
	factory := options.Factory
	if factory == nil {
		factory = scene.DefaultFactory{}
	}
	return &builder{
		m:        m,
		r:        newResolver(m, options),
		factory:  factory,
		children: scanRelationships(doc.Entities),
	}
}

// build walks depth first from the project. Each entity id becomes at most
// one node. Entities with a shape that yields geometry become leaves.
func (b *builder) build(entities []*step.Entity) scene.Node {
	rootID := findRoot(entities)
	if rootID == 0 {
		return b.factory.NewContainer(unknownName)
	}

	type task struct {
		id     int
		parent scene.Parent
	}
	var root scene.Node
	visited := map[int]bool{}
	stack := []task{{id: rootID}}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[t.id] {
			continue
		}
		visited[t.id] = true

		node, container := b.newNode(t.id)
		if t.parent == nil {
			root = node
		} else {
			t.parent.Add(node)
		}
		if container == nil {
			continue
		}
		children := b.children[t.id]
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[children[i]] {
				stack = append(stack, task{id: children[i], parent: container})
			}
		}
	}
	return root
}

// newNode returns a geometry leaf, or a container and the same node as a
// Parent.
func (b *builder) newNode(id int) (scene.Node, scene.Parent) {
	o := b.m.objects[id]
	if o == nil {
		c := b.factory.NewContainer(unknownName)
		return c, c
	}
	name := o.typ
	if o.label != "" {
		name = o.typ + " - " + o.label
	}
	if o.shape != 0 {
		if md := b.r.productMesh(o); md != nil {
			positions, indices := md.buffers()
			g := b.factory.NewGeometry(name, positions, indices, scene.ComputeNormals(positions, indices))
			if c, ok := g.(scene.Colorable); ok && md.color != nil {
				c.SetColor(*md.color)
			}
			return g, nil
		}
	}
	c := b.factory.NewContainer(name)
	return c, c
}
