package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/binzume/c3tconv/geom"
)

// YAML scene file schema. Textures are declared once at scene level and
// referenced by name, so two references to one texture share identity.
type sceneFile struct {
	Renderer string         `yaml:"renderer"`
	Textures []*textureFile `yaml:"textures"`
	Objects  []*objectFile  `yaml:"objects"`
}

type textureFile struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Image     string `yaml:"image"`
	Extension string `yaml:"extension"`
}

type objectFile struct {
	Name     string    `yaml:"name"`
	Selected bool      `yaml:"selected"`
	Matrix   []float64 `yaml:"matrix"` // 16 values, column-major
	Mesh     *meshFile `yaml:"mesh"`
}

type meshFile struct {
	Positions [][]float64     `yaml:"positions"`
	Polygons  []*polygonFile  `yaml:"polygons"`
	Normals   [][]float64     `yaml:"normals"` // per corner
	UVLayers  []*uvLayerFile  `yaml:"uvlayers"`
	Materials []*materialFile `yaml:"materials"`
}

type polygonFile struct {
	Verts    []int `yaml:"verts"`
	Material int   `yaml:"material"`
}

type uvLayerFile struct {
	Name     string      `yaml:"name"`
	UV       [][]float64 `yaml:"uv"`       // per corner
	Textures []string    `yaml:"textures"` // texture name per polygon
}

type materialFile struct {
	Name     string      `yaml:"name"`
	Diffuse  []float64   `yaml:"diffuse"`
	Specular []float64   `yaml:"specular"`
	Alpha    *float64    `yaml:"alpha"`
	UseNodes bool        `yaml:"use_nodes"`
	Nodes    []*nodeFile `yaml:"nodes"`
	Slots    []string    `yaml:"slots"` // texture names
}

type nodeFile struct {
	Type      string `yaml:"type"`
	Name      string `yaml:"name"`
	Image     string `yaml:"image"`
	Extension string `yaml:"extension"`
	Texture   string `yaml:"texture"`
}

// Load reads a YAML scene description file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse builds a Scene from YAML data.
func Parse(data []byte) (*Scene, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	textures := map[string]*Texture{}
	for _, t := range file.Textures {
		typ := t.Type
		if typ == "" {
			typ = TextureImage
		}
		ext := t.Extension
		if ext == "" {
			ext = ExtensionRepeat
		}
		textures[t.Name] = &Texture{Name: t.Name, Type: typ, Image: t.Image, Extension: ext}
	}

	sc := &Scene{Renderer: file.Renderer}
	for _, o := range file.Objects {
		obj, err := parseObject(o, textures)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", o.Name, err)
		}
		sc.Objects = append(sc.Objects, obj)
	}
	return sc, nil
}

func parseObject(o *objectFile, textures map[string]*Texture) (*Object, error) {
	obj := &Object{Name: o.Name, Selected: o.Selected}
	if len(o.Matrix) == 16 {
		obj.Matrix = geom.NewMatrix4FromSlice(o.Matrix)
	} else if len(o.Matrix) != 0 {
		return nil, fmt.Errorf("matrix needs 16 values, got %d", len(o.Matrix))
	}
	if o.Mesh == nil {
		return obj, nil
	}

	mesh := &Mesh{}
	for _, p := range o.Mesh.Positions {
		if len(p) != 3 {
			return nil, fmt.Errorf("position needs 3 values, got %d", len(p))
		}
		mesh.Positions = append(mesh.Positions, &geom.Vector3{X: p[0], Y: p[1], Z: p[2]})
	}

	// Corners get consecutive loop indices; per-corner arrays (normals, uv)
	// follow the same order.
	loop := 0
	for _, p := range o.Mesh.Polygons {
		poly := &Polygon{Material: p.Material}
		for _, v := range p.Verts {
			if v < 0 || v >= len(mesh.Positions) {
				return nil, fmt.Errorf("vertex index out of range: %d", v)
			}
			poly.Vertices = append(poly.Vertices, v)
			poly.Loops = append(poly.Loops, loop)
			loop++
		}
		mesh.Polygons = append(mesh.Polygons, poly)
	}

	if len(o.Mesh.Normals) > 0 {
		if len(o.Mesh.Normals) != loop {
			return nil, fmt.Errorf("normals: got %d, mesh has %d corners", len(o.Mesh.Normals), loop)
		}
		for _, n := range o.Mesh.Normals {
			if len(n) != 3 {
				return nil, fmt.Errorf("normal needs 3 values, got %d", len(n))
			}
			mesh.Normals = append(mesh.Normals, &geom.Vector3{X: n[0], Y: n[1], Z: n[2]})
		}
	}

	for _, l := range o.Mesh.UVLayers {
		if len(l.UV) != loop {
			return nil, fmt.Errorf("uv layer %q: got %d, mesh has %d corners", l.Name, len(l.UV), loop)
		}
		layer := &UVLayer{Name: l.Name}
		for _, uv := range l.UV {
			if len(uv) != 2 {
				return nil, fmt.Errorf("uv needs 2 values, got %d", len(uv))
			}
			layer.UV = append(layer.UV, geom.Vector2{X: uv[0], Y: uv[1]})
		}
		for _, name := range l.Textures {
			layer.PolyTextures = append(layer.PolyTextures, textures[name])
		}
		mesh.UVLayers = append(mesh.UVLayers, layer)
	}

	for _, m := range o.Mesh.Materials {
		if m == nil {
			mesh.Materials = append(mesh.Materials, nil)
			continue
		}
		mat, err := parseMaterial(m, textures)
		if err != nil {
			return nil, err
		}
		mesh.Materials = append(mesh.Materials, mat)
	}

	obj.Mesh = mesh
	return obj, nil
}

func parseMaterial(m *materialFile, textures map[string]*Texture) (*Material, error) {
	mat := &Material{
		Name:     m.Name,
		Diffuse:  geom.Vector3{X: 0.8, Y: 0.8, Z: 0.8},
		Specular: geom.Vector3{X: 1, Y: 1, Z: 1},
		Alpha:    1,
		UseNodes: m.UseNodes,
	}
	if len(m.Diffuse) == 3 {
		mat.Diffuse = geom.Vector3{X: m.Diffuse[0], Y: m.Diffuse[1], Z: m.Diffuse[2]}
	}
	if len(m.Specular) == 3 {
		mat.Specular = geom.Vector3{X: m.Specular[0], Y: m.Specular[1], Z: m.Specular[2]}
	}
	if m.Alpha != nil {
		mat.Alpha = *m.Alpha
	}
	for _, n := range m.Nodes {
		node := &MaterialNode{Type: n.Type, Name: n.Name, Image: n.Image, Extension: n.Extension}
		if node.Extension == "" {
			node.Extension = ExtensionRepeat
		}
		if n.Texture != "" {
			t, ok := textures[n.Texture]
			if !ok {
				return nil, fmt.Errorf("material %q: unknown texture %q", m.Name, n.Texture)
			}
			node.Texture = t
		}
		mat.Nodes = append(mat.Nodes, node)
	}
	for _, name := range m.Slots {
		if name == "" {
			mat.TextureSlots = append(mat.TextureSlots, nil)
			continue
		}
		t, ok := textures[name]
		if !ok {
			return nil, fmt.Errorf("material %q: unknown texture %q", m.Name, name)
		}
		mat.TextureSlots = append(mat.TextureSlots, t)
	}
	return mat, nil
}
