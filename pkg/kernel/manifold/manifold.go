//go:build manifold

// Package manifold implements kernel.Kernel on the Manifold library
// (https://github.com/elalish/manifold). Booleans are exact, so slot walls
// come out as flat faces instead of marching cubes facets.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/fretboarder/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C pointer and frees it when the solid is collected.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New creates a new ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Extrude lifts a polygon from z=0 to z=height.
func (k *ManifoldKernel) Extrude(outline [][2]float64, height float64) (kernel.Solid, error) {
	outline, err := prepareOutline(outline, height)
	if err != nil {
		return nil, err
	}

	pts := (*C.ManifoldVec2)(C.malloc(C.size_t(len(outline)) * C.size_t(unsafe.Sizeof(C.ManifoldVec2{}))))
	defer C.free(unsafe.Pointer(pts))
	buf := unsafe.Slice(pts, len(outline))
	for i, p := range outline {
		buf[i] = C.ManifoldVec2{x: C.double(p[0]), y: C.double(p[1])}
	}

	simple := C.manifold_simple_polygon(C.manifold_alloc_simple_polygon(), pts, C.size_t(len(outline)))
	defer C.manifold_delete_simple_polygon(simple)

	simples := []*C.ManifoldSimplePolygon{simple}
	polys := C.manifold_polygons(C.manifold_alloc_polygons(), &simples[0], 1)
	defer C.manifold_delete_polygons(polys)

	ptr := C.manifold_extrude(C.manifold_alloc_manifold(), polys, C.double(height), 0, 0, 1, 1)
	if C.manifold_is_empty(ptr) != 0 {
		C.manifold_delete_manifold(ptr)
		return nil, fmt.Errorf("manifold: extrusion of %d point outline is empty", len(outline))
	}
	return newSolid(ptr), nil
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	ptr := C.manifold_union(C.manifold_alloc_manifold(), sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Difference returns the boolean difference (a minus b).
func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	ptr := C.manifold_difference(C.manifold_alloc_manifold(), sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Translate moves the solid by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	ptr := C.manifold_translate(C.manifold_alloc_manifold(), ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format, splitting the interleaved vertex properties into the flat
// kernel.Mesh layout.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ms := s.(*manifoldSolid)

	meshGL := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// The first 3 properties of each vertex are its position; normals
	// follow at 3, 4, 5 when present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	vertices, normals := splitProperties(props, numProp)
	if normals == nil {
		normals = vertexNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}
	return mesh, nil
}
