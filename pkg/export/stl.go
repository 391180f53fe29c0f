package export

import (
	"fmt"

	"github.com/chazu/fretboarder/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// triangles rebuilds the triangle list of m from its index buffer.
func triangles(m *kernel.Mesh) ([]*sdf.Triangle3, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("export: %s: %d indices is not a whole number of triangles", m.PartName, len(m.Indices))
	}
	nv := uint32(m.VertexCount())
	vertex := func(i uint32) v3.Vec {
		return v3.Vec{
			X: float64(m.Vertices[3*i]),
			Y: float64(m.Vertices[3*i+1]),
			Z: float64(m.Vertices[3*i+2]),
		}
	}

	out := make([]*sdf.Triangle3, 0, len(m.Indices)/3)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if a >= nv || b >= nv || c >= nv {
			return nil, fmt.Errorf("export: %s: triangle %d indexes past %d vertices", m.PartName, t/3, nv)
		}
		out = append(out, &sdf.Triangle3{vertex(a), vertex(b), vertex(c)})
	}
	return out, nil
}

// WriteSTL saves m as an STL file at path.
func WriteSTL(path string, m *kernel.Mesh) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("export: empty mesh")
	}
	tris, err := triangles(m)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}
