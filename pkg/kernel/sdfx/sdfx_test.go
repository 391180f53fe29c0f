package sdfx

import (
	"math"
	"testing"
)

// rect is a width × depth rectangle with its corner at the origin.
func rect(w, d float64) [][2]float64 {
	return [][2]float64{{0, 0}, {w, 0}, {w, d}, {0, d}}
}

func TestExtrudeBoundingBox(t *testing.T) {
	k := NewWithCells(40)
	s, err := k.Extrude(rect(100, 50), 7)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	min, max := s.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 7}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestExtrudeWindingIndependent(t *testing.T) {
	k := NewWithCells(40)
	cw := [][2]float64{{0, 0}, {0, 10}, {20, 10}, {20, 0}}
	s, err := k.Extrude(cw, 5)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("clockwise outline produced an empty mesh")
	}
}

func TestExtrudeErrors(t *testing.T) {
	k := New()
	if _, err := k.Extrude(rect(10, 10), 0); err == nil {
		t.Error("zero height should fail")
	}
	if _, err := k.Extrude([][2]float64{{0, 0}, {1, 0}}, 1); err == nil {
		t.Error("two point outline should fail")
	}
}

func TestToMesh(t *testing.T) {
	k := NewWithCells(50)
	s, err := k.Extrude(rect(100, 50), 25)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}

	min, max := mesh.Bounds()
	if min[2] < -1 || max[2] > 26 {
		t.Errorf("mesh z range [%f, %f], expected about [0, 25]", min[2], max[2])
	}
}

func TestDifference(t *testing.T) {
	k := NewWithCells(60)

	board, err := k.Extrude(rect(100, 100), 20)
	if err != nil {
		t.Fatalf("Extrude(board) failed: %v", err)
	}
	boardMesh, err := k.ToMesh(board)
	if err != nil {
		t.Fatalf("ToMesh(board) failed: %v", err)
	}

	slot, err := k.Extrude([][2]float64{{45, -10}, {55, -10}, {55, 110}, {45, 110}}, 10)
	if err != nil {
		t.Fatalf("Extrude(slot) failed: %v", err)
	}
	diff := k.Difference(board, k.Translate(slot, 0, 0, 15))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A board with a slot should have more triangles than a plain board.
	if diffMesh.TriangleCount() <= boardMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than board (%d triangles)",
			diffMesh.TriangleCount(), boardMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := NewWithCells(40)
	a, err := k.Extrude(rect(50, 50), 50)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	u := k.Union(a, k.Translate(a, 30, 0, 0))
	min, max := u.BoundingBox()
	if math.Abs(min[0]) > 0.5 || math.Abs(max[0]-80) > 0.5 {
		t.Errorf("union X extent [%f, %f], expected ~[0, 80]", min[0], max[0])
	}
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	s, err := k.Extrude(rect(10, 10), 10)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	translated := k.Translate(s, 100, 200, 300)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestNewWithCells(t *testing.T) {
	if got := NewWithCells(0).Cells(); got != DefaultMeshCells {
		t.Errorf("NewWithCells(0).Cells() = %d, want %d", got, DefaultMeshCells)
	}
	if got := NewWithCells(64).Cells(); got != 64 {
		t.Errorf("NewWithCells(64).Cells() = %d, want 64", got)
	}
}
