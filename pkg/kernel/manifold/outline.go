package manifold

import (
	"fmt"
	"math"
	"slices"
)

// prepareOutline checks an extrusion and returns the outline wound
// counter-clockwise, which Manifold needs to fill it.
func prepareOutline(outline [][2]float64, height float64) ([][2]float64, error) {
	if !(height > 0) {
		return nil, fmt.Errorf("manifold: extrude height %g must be positive", height)
	}
	if len(outline) < 3 {
		return nil, fmt.Errorf("manifold: outline needs at least 3 points, got %d", len(outline))
	}
	area := signedArea(outline)
	if area == 0 || math.IsNaN(area) {
		return nil, fmt.Errorf("manifold: outline encloses no area")
	}
	if area < 0 {
		rev := slices.Clone(outline)
		slices.Reverse(rev)
		return rev, nil
	}
	return outline, nil
}

// signedArea is positive for counter-clockwise outlines.
func signedArea(outline [][2]float64) float64 {
	var a float64
	for i, p := range outline {
		q := outline[(i+1)%len(outline)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

// splitProperties separates MeshGL's interleaved vertex properties into
// positions and, when present, normals.
func splitProperties(props []float32, numProp int) (vertices, normals []float32) {
	numVert := len(props) / numProp
	vertices = make([]float32, numVert*3)
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		copy(vertices[i*3:i*3+3], props[base:base+3])
		if hasNormals {
			copy(normals[i*3:i*3+3], props[base+3:base+6])
		}
	}
	return vertices, normals
}

// vertexNormals averages the face normals around each vertex.
func vertexNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))
	at := func(i uint32) [3]float64 {
		return [3]float64{float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2])}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		tri := indices[t : t+3]
		a, b, c := at(tri[0]), at(tri[1]), at(tri[2])
		e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			float32(e1[1]*e2[2] - e1[2]*e2[1]),
			float32(e1[2]*e2[0] - e1[0]*e2[2]),
			float32(e1[0]*e2[1] - e1[1]*e2[0]),
		}
		for _, idx := range tri {
			for j := 0; j < 3; j++ {
				normals[idx*3+uint32(j)] += n[j]
			}
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		x, y, z := float64(normals[i]), float64(normals[i+1]), float64(normals[i+2])
		if l := math.Sqrt(x*x + y*y + z*z); l > 1e-12 {
			normals[i] = float32(x / l)
			normals[i+1] = float32(y / l)
			normals[i+2] = float32(z / l)
		}
	}
	return normals
}
