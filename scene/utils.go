package scene

import "github.com/binzume/c3tconv/geom"

// SmoothNormals computes one smoothed normal per vertex from the face
// geometry.
func (m *Mesh) SmoothNormals() []geom.Vector3 {
	normal := make([]geom.Vector3, len(m.Positions))

	for _, face := range m.Polygons {
		n := len(face.Vertices)
		for i, v := range face.Vertices {
			v1 := m.Positions[face.Vertices[(i+n-1)%n]].Sub(m.Positions[v])
			v2 := m.Positions[face.Vertices[(i+1)%n]].Sub(m.Positions[v])
			cross := v1.Cross(v2)
			cross.Normalize()
			normal[v] = *normal[v].Add(cross)
		}
	}
	for i := range normal {
		normal[i].Normalize()
	}
	return normal
}

// LoopCount returns the size of the per-corner arrays implied by the
// polygons' loop indices.
func (m *Mesh) LoopCount() int {
	count := 0
	for _, p := range m.Polygons {
		for _, l := range p.Loops {
			if l+1 > count {
				count = l + 1
			}
		}
	}
	return count
}

// CornerNormals returns one normal per corner (indexed by loop). Split
// normals supplied by the host are used as-is; otherwise smooth vertex
// normals are spread over the corners, so hard edges survive only when the
// host provides split normals.
func (m *Mesh) CornerNormals() []*geom.Vector3 {
	if len(m.Normals) > 0 {
		return m.Normals
	}
	smooth := m.SmoothNormals()
	normals := make([]*geom.Vector3, m.LoopCount())
	for _, p := range m.Polygons {
		for i, l := range p.Loops {
			normals[l] = &smooth[p.Vertices[i]]
		}
	}
	return normals
}

func isInTriangle(p, a, b, c *geom.Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) > 0 && c2.Dot(c3) > 0 && c3.Dot(c1) > 0
}

func triangulatePoly(poly []*geom.Vector3) [][3]int {
	var dst [][3]int
	if len(poly) < 3 {
		return dst
	}
	n := &geom.Vector3{}
	ii := make([]int, len(poly))
	for i := range poly {
		ii[i] = i
		v0 := poly[(i+len(poly)-1)%len(poly)]
		v1 := poly[i]
		v2 := poly[(i+1)%len(poly)]
		n = n.Add(v0.Sub(v1).Cross(v2.Sub(v1)))
	}
	n = n.Normalize()

	// O(N*N)...
	count := len(ii)
	for count >= 3 {
		lastCount := count
		for i := count - 1; i >= 0; i-- {
			i0 := ii[(i+count-1)%count]
			i1 := ii[i]
			i2 := ii[(i+1)%count]
			v0 := poly[i0]
			v1 := poly[i1]
			v2 := poly[i2]
			if v0.Sub(v1).Cross(v2.Sub(v1)).Dot(n) >= 0 {
				ok := true
				var tmp []int
				tmp = append(tmp, ii[:i]...)
				tmp = append(tmp, ii[i+1:]...)
				for _, i := range tmp {
					if isInTriangle(poly[i], v0, v1, v2) {
						ok = false
						break
					}
				}
				if ok {
					dst = append(dst, [3]int{i0, i1, i2})
					ii = tmp
					count--
				}
			}
		}
		if lastCount == count {
			// error: maybe self-intersecting polygon
			for i := 0; i < len(ii)-2; i++ {
				dst = append(dst, [3]int{ii[0], ii[i+1], ii[i+2]})
			}
			break
		}
	}
	return dst
}

// Triangulate replaces every polygon with triangles, preserving corner
// order, material assignment and the per-polygon texture layers. Polygons
// with fewer than three corners are dropped.
func (m *Mesh) Triangulate() {
	needed := false
	for _, p := range m.Polygons {
		if len(p.Vertices) != 3 {
			needed = true
			break
		}
	}
	if !needed {
		return
	}

	var polygons []*Polygon
	var srcIndices []int
	for pi, p := range m.Polygons {
		if len(p.Vertices) == 3 {
			polygons = append(polygons, p)
			srcIndices = append(srcIndices, pi)
			continue
		}
		if len(p.Vertices) < 3 {
			continue
		}
		var poly []*geom.Vector3
		for _, v := range p.Vertices {
			poly = append(poly, m.Positions[v])
		}
		for _, tri := range triangulatePoly(poly) {
			polygons = append(polygons, &Polygon{
				Vertices: []int{p.Vertices[tri[0]], p.Vertices[tri[1]], p.Vertices[tri[2]]},
				Loops:    []int{p.Loops[tri[0]], p.Loops[tri[1]], p.Loops[tri[2]]},
				Material: p.Material,
			})
			srcIndices = append(srcIndices, pi)
		}
	}

	for _, layer := range m.UVLayers {
		if len(layer.PolyTextures) == 0 {
			continue
		}
		textures := make([]*Texture, len(polygons))
		for i, src := range srcIndices {
			if src < len(layer.PolyTextures) {
				textures[i] = layer.PolyTextures[src]
			}
		}
		layer.PolyTextures = textures
	}
	m.Polygons = polygons
}
