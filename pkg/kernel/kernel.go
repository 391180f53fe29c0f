// Package kernel defines the solid modeling interface the fretboard layout
// is turned into meshes with. Implementations (sdfx) provide extrusion,
// boolean operations and tessellation behind this interface, so the layout
// code never depends on a particular modeler.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives

	// Extrude lifts a closed XY outline from z=0 to z=height. The outline
	// needs at least three corners and may wind either way.
	Extrude(outline [][2]float64, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
