package converter

import (
	"math"

	"github.com/binzume/c3tconv/c3t"
	"github.com/binzume/c3tconv/scene"
)

type partGroup struct {
	materialID string
	polygons   []*scene.Polygon
}

// groupPolygons splits the polygon list into one group per material id, in
// first-encountered order. materialID resolves the owning id for the
// polygon at index pi.
func groupPolygons(polygons []*scene.Polygon, materialID func(pi int, p *scene.Polygon) string) []*partGroup {
	index := map[string]int{}
	var groups []*partGroup
	for pi, p := range polygons {
		id := materialID(pi, p)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, &partGroup{materialID: id})
		}
		groups[i].polygons = append(groups[i].polygons, p)
	}
	return groups
}

// buildPart emits the triangle indices for one group through the shared
// vertex table. The part's AABB grows only when the table registers a new
// vertex; corners reused from an earlier part do not re-expand it. A part
// whose corners were all registered earlier gets a zero box so the output
// stays finite.
func buildPart(id string, group *partGroup, verts *vertexTable, corner func(p *scene.Polygon, i int) []float64) *c3t.MeshPart {
	part := &c3t.MeshPart{
		ID:      id,
		Type:    c3t.PrimitiveTriangles,
		AABBMin: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		AABBMax: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	touched := false
	for _, poly := range group.polygons {
		for i := range poly.Vertices {
			attrs := corner(poly, i)
			index, added := verts.Add(attrs)
			if added {
				touched = true
				for c := 0; c < 3; c++ {
					part.AABBMin[c] = math.Min(part.AABBMin[c], attrs[c])
					part.AABBMax[c] = math.Max(part.AABBMax[c], attrs[c])
				}
			}
			part.Indices = append(part.Indices, index)
		}
	}
	if !touched {
		part.AABBMin = [3]float64{}
		part.AABBMax = [3]float64{}
	}
	return part
}
