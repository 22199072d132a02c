package converter

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/binzume/c3tconv/c3t"
	"github.com/binzume/c3tconv/geom"
	"github.com/binzume/c3tconv/scene"
)

const maxUVLayers = 8

const attrFloat = "GL_FLOAT"

type sceneToC3T struct {
	*SceneToC3TOption
	*c3t.Document
	registry *materialRegistry
}

// NewSceneToC3TConverter returns a converter for one export run. The
// material registry and the texture copy set live as long as the converter.
func NewSceneToC3TConverter(options *SceneToC3TOption) *sceneToC3T {
	if options == nil {
		options = &SceneToC3TOption{}
	}
	if options.GlobalScale == 0 {
		options.GlobalScale = 1
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &sceneToC3T{
		SceneToC3TOption: options,
		Document:         c3t.NewDocument(),
	}
}

// Convert compiles the scene into a document. Objects whose mesh cannot be
// evaluated are skipped; only malformed configuration aborts the run.
func (e *sceneToC3T) Convert(sc *scene.Scene) (*c3t.Document, error) {
	if err := e.SceneToC3TOption.Validate(); err != nil {
		return nil, err
	}
	e.registry = newMaterialRegistry(textureSourceFor(sc.Renderer), e.ResolveTexturePath, e.Logger)

	global := e.GlobalMatrix
	if global == nil {
		global = geom.NewScaleMatrix4(e.GlobalScale, e.GlobalScale, e.GlobalScale)
	}

	for _, obj := range sc.Objects {
		if e.UseSelection && !obj.Selected {
			continue
		}
		mesh, err := obj.EvaluateMesh(e.UseMeshModifiersRender, e.UseMeshModifiers)
		if err != nil {
			e.Logger.Warn("mesh evaluation failed, object skipped",
				zap.String("object", obj.Name), zap.Error(err))
			continue
		}
		if mesh == nil {
			e.Logger.Debug("no mesh, object skipped", zap.String("object", obj.Name))
			continue
		}
		e.convertObject(obj, mesh, global)
	}

	e.Document.Materials = e.registry.materials
	return e.Document, nil
}

func (e *sceneToC3T) convertObject(obj *scene.Object, mesh *scene.Mesh, global *geom.Matrix4) {
	mesh.Triangulate()
	if len(mesh.Polygons) == 0 {
		e.Logger.Debug("no polygons, object skipped", zap.String("object", obj.Name))
		return
	}

	var normals []*geom.Vector3
	if e.ExportNormals {
		normals = mesh.CornerNormals()
	}
	numUV := 0
	if e.ExportUVMaps {
		numUV = len(mesh.UVLayers)
		if numUV > maxUVLayers {
			numUV = maxUVLayers
		}
	}

	// The position is always exported; the rest of the attribute layout
	// follows the options and the available UV layers.
	attributes := []*c3t.Attribute{{Attribute: "VERTEX_ATTRIB_POSITION", Size: 3, Type: attrFloat}}
	if e.ExportNormals {
		attributes = append(attributes, &c3t.Attribute{Attribute: "VERTEX_ATTRIB_NORMAL", Size: 3, Type: attrFloat})
	}
	for i := 0; i < numUV; i++ {
		name := "VERTEX_ATTRIB_TEX_COORD"
		if i > 0 {
			name = fmt.Sprintf("VERTEX_ATTRIB_TEX_COORD%d", i)
		}
		attributes = append(attributes, &c3t.Attribute{Attribute: name, Size: 2, Type: attrFloat})
	}
	stride := 3
	if e.ExportNormals {
		stride += 3
	}
	stride += numUV * 2

	corner := func(p *scene.Polygon, i int) []float64 {
		attrs := make([]float64, 0, stride)
		pos := mesh.Positions[p.Vertices[i]]
		attrs = append(attrs, pos.X, pos.Y, pos.Z)
		if e.ExportNormals {
			n := normals[p.Loops[i]]
			attrs = append(attrs, n.X, n.Y, n.Z)
		}
		for l := 0; l < numUV; l++ {
			uv := mesh.UVLayers[l].UV[p.Loops[i]]
			// The V axis is flipped into the engine's image orientation.
			attrs = append(attrs, uv.X, 1-uv.Y)
		}
		return attrs
	}

	groups := groupPolygons(mesh.Polygons, func(pi int, p *scene.Polygon) string {
		textures := make([]*scene.Texture, 0, numUV)
		for l := 0; l < numUV; l++ {
			layer := mesh.UVLayers[l]
			var t *scene.Texture
			if pi < len(layer.PolyTextures) {
				t = layer.PolyTextures[pi]
			}
			textures = append(textures, t)
		}
		return e.registry.Resolve(materialAt(mesh, p.Material), textures)
	})

	verts := newVertexTable()
	var parts []*c3t.MeshPart
	var nodeParts []*c3t.NodePart
	for i, g := range groups {
		partID := fmt.Sprintf("%s_part%d", obj.Name, i+1)
		parts = append(parts, buildPart(partID, g, verts, corner))
		nodeParts = append(nodeParts, &c3t.NodePart{MeshPartID: partID, MaterialID: g.materialID})
	}

	// Column-major storage makes this flattening identical to transposing
	// the row-major matrix and reading it out row by row.
	world := obj.Matrix
	if world == nil {
		world = geom.NewMatrix4()
	}
	var transform [16]float64
	global.Mul(world).ToArray(transform[:])

	e.Meshes = append(e.Meshes, &c3t.Mesh{Attributes: attributes, Vertices: verts.Buffer(), Parts: parts})
	e.Nodes = append(e.Nodes, &c3t.Node{ID: obj.Name, Transform: transform, Parts: nodeParts})
	e.Logger.Debug("object compiled", zap.String("object", obj.Name),
		zap.Int("vertices", verts.Count()), zap.Int("parts", len(parts)))
}

func materialAt(mesh *scene.Mesh, index int) *scene.Material {
	if index < 0 || index >= len(mesh.Materials) {
		return nil
	}
	return mesh.Materials[index]
}

// TextureFiles returns the source image files referenced by the exported
// materials, sorted. The list feeds the texture copy step after the
// document has been written.
func (e *sceneToC3T) TextureFiles() []string {
	if e.registry == nil {
		return nil
	}
	files := make([]string, 0, len(e.registry.copyFiles))
	for f := range e.registry.copyFiles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// WriteFile serializes the document to path. A write failure is fatal for
// the run; no partial file is considered valid.
func WriteFile(doc *c3t.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c3t.WriteDocument(doc, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
