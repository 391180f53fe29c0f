package export

import (
	"encoding/json"
	"io"

	"github.com/chazu/fretboarder/pkg/fretboard"
	"github.com/chazu/fretboarder/pkg/kernel"
)

// partPalette assigns distinct display colors to parts.
var partPalette = []string{
	"#C68E5A", "#D8D8D8", "#4A90D9", "#E67E22",
	"#2ECC71", "#9B59B6", "#E74C3C", "#1ABC9C",
}

// MeshData is the JSON form of a part mesh for viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// MeshDocument bundles the meshes of one instrument.
type MeshDocument struct {
	Name   string     `json:"name"`
	Meshes []MeshData `json:"meshes"`
}

// NewMeshDocument converts kernel meshes, coloring parts in order.
func NewMeshDocument(name string, meshes []*kernel.Mesh) MeshDocument {
	doc := MeshDocument{Name: name, Meshes: []MeshData{}}
	for i, m := range meshes {
		doc.Meshes = append(doc.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    partPalette[i%len(partPalette)],
		})
	}
	return doc
}

// WriteLayoutJSON writes l as indented JSON.
func WriteLayoutJSON(w io.Writer, l fretboard.Layout) error {
	return writeJSON(w, l)
}

// WriteMeshJSON writes doc as compact JSON.
func WriteMeshJSON(w io.Writer, doc MeshDocument) error {
	return json.NewEncoder(w).Encode(doc)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
