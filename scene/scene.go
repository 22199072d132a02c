// Package scene defines the host-independent scene model consumed by the
// exporter. A host integration (or one of the bundled loaders) fills these
// structs; the exporter never talks to a live scene API.
package scene

import "github.com/binzume/c3tconv/geom"

// Renderer values select how texture bindings are enumerated from a
// material: the node-graph renderer stores them as image nodes, everything
// else uses legacy texture slots.
const (
	RendererCycles   = "CYCLES"
	RendererInternal = "INTERNAL"
)

// Material node types.
const (
	NodeTexImage = "TEX_IMAGE"
	NodeTexture  = "TEXTURE"
)

// TextureImage marks a texture slot backed by an image file.
const TextureImage = "IMAGE"

// Texture extension modes (how the image continues outside [0,1]).
const (
	ExtensionRepeat = "REPEAT"
	ExtensionClip   = "CLIP"
	ExtensionExtend = "EXTEND"
)

type Scene struct {
	Renderer string
	Objects  []*Object
}

type Object struct {
	Name     string
	Selected bool
	// Matrix is the object's world transform. nil means identity.
	Matrix *geom.Matrix4
	// Mesh is the object's static geometry, used when EvalMesh is nil.
	Mesh *Mesh
	// EvalMesh models the host's mesh evaluation (modifier stack etc.).
	// It may fail or return nil; the object is then skipped.
	EvalMesh func(render, applyModifiers bool) (*Mesh, error)
}

// EvaluateMesh returns the geometry to export for this object.
func (o *Object) EvaluateMesh(render, applyModifiers bool) (*Mesh, error) {
	if o.EvalMesh != nil {
		return o.EvalMesh(render, applyModifiers)
	}
	return o.Mesh, nil
}

type Mesh struct {
	Positions []*geom.Vector3
	Polygons  []*Polygon
	// Normals holds one normal per corner (indexed by Polygon.Loops).
	// Optional; when absent, smooth vertex normals are computed on demand.
	Normals []*geom.Vector3
	// UVLayers holds up to 8 exported UV layers.
	UVLayers []*UVLayer
	// Materials are the mesh's material slots, indexed by Polygon.Material.
	// Slots may be nil.
	Materials []*Material
}

type Polygon struct {
	// Vertices indexes Mesh.Positions, Loops indexes the per-corner arrays
	// (UVLayer.UV, Mesh.Normals). Both have one entry per corner.
	Vertices []int
	Loops    []int
	Material int
}

type UVLayer struct {
	Name string
	// UV holds one coordinate pair per corner.
	UV []geom.Vector2
	// PolyTextures assigns a texture per polygon. Optional; entries may be
	// nil and the slice may be shorter than the polygon list.
	PolyTextures []*Texture
}

type Material struct {
	Name     string
	Diffuse  geom.Vector3
	Specular geom.Vector3
	Alpha    float64
	// UseNodes reports whether the material is defined by a node tree.
	UseNodes bool
	Nodes    []*MaterialNode
	// TextureSlots are the legacy fixed texture bindings.
	TextureSlots []*Texture
}

type MaterialNode struct {
	Type string
	Name string
	// Image is the resolved image filename of a TEX_IMAGE node.
	Image     string
	Extension string
	// Texture is the texture referenced by a TEXTURE node.
	Texture *Texture
}

type Texture struct {
	Name string
	Type string
	// Image is the externally-resolved image filename. Empty when the
	// texture has no backing image; such textures are not exported.
	Image     string
	Extension string
}
