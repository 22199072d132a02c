package c3t

import "io"

const Version = "0.7"

// PrimitiveTriangles is the only primitive type emitted. Meshes are
// triangulated before they reach the document.
const PrimitiveTriangles = "TRIANGLES"

const (
	WrapRepeat  = "REPEAT"
	WrapClamp   = "CLAMP"
	WrapUnknown = "UNKNOWN"
)

// TextureTypeDiffuse is the only texture usage emitted.
const TextureTypeDiffuse = "DIFFUSE"

type Document struct {
	Version   string
	ID        string
	Meshes    []*Mesh
	Materials []*Material
	Nodes     []*Node
}

func NewDocument() *Document {
	return &Document{Version: Version}
}

type Attribute struct {
	Attribute string
	Size      int
	Type      string
}

type Mesh struct {
	Attributes []*Attribute
	// Vertices is the deduplicated vertex buffer, VertexSize values per row.
	Vertices []float64
	Parts    []*MeshPart
}

// VertexSize returns the number of values per vertex row.
func (m *Mesh) VertexSize() int {
	n := 0
	for _, a := range m.Attributes {
		n += a.Size
	}
	return n
}

type MeshPart struct {
	ID      string
	Type    string
	Indices []int
	AABBMin [3]float64
	AABBMax [3]float64
}

type Material struct {
	ID        string
	Ambient   [3]float64
	Diffuse   [3]float64
	Emissive  [3]float64
	Opacity   float64
	Specular  [3]float64
	Shininess float64
	Textures  []*Texture
}

type Texture struct {
	ID       string
	Filename string
	Type     string
	WrapU    string
	WrapV    string
}

type Node struct {
	ID string
	// Skeleton is always false; skinning data is not exported.
	Skeleton  bool
	Transform [16]float64
	Parts     []*NodePart
}

type NodePart struct {
	MeshPartID string
	MaterialID string
}

func (doc *Document) Value() *Value {
	meshes := &Value{Kind: Array}
	for _, m := range doc.Meshes {
		meshes.Items = append(meshes.Items, m.value())
	}
	materials := &Value{Kind: Array}
	for _, m := range doc.Materials {
		materials.Items = append(materials.Items, m.value())
	}
	nodes := &Value{Kind: Array}
	for _, n := range doc.Nodes {
		nodes.Items = append(nodes.Items, n.value())
	}
	v := NewObject()
	v.Set("version", NewString(doc.Version))
	v.Set("id", NewString(doc.ID))
	v.Set("meshes", meshes)
	v.Set("materials", materials)
	v.Set("nodes", nodes)
	return v
}

func (m *Mesh) value() *Value {
	attrs := &Value{Kind: Array}
	for _, a := range m.Attributes {
		attrs.Items = append(attrs.Items, NewObject().
			Set("attribute", NewString(a.Attribute)).
			Set("size", NewInt(a.Size)).
			Set("type", NewString(a.Type)))
	}
	parts := &Value{Kind: Array}
	for _, p := range m.Parts {
		parts.Items = append(parts.Items, p.value())
	}
	return NewObject().
		Set("attributes", attrs).
		Set("vertices", NewTable(NewFloatArray(m.Vertices), m.VertexSize())).
		Set("parts", parts)
}

func (p *MeshPart) value() *Value {
	aabb := make([]float64, 0, 6)
	aabb = append(aabb, p.AABBMin[:]...)
	aabb = append(aabb, p.AABBMax[:]...)
	return NewObject().
		Set("id", NewString(p.ID)).
		Set("type", NewString(p.Type)).
		Set("indices", NewTable(NewIntArray(p.Indices), 3)).
		Set("aabb", NewTable(NewFloatArray(aabb), 3))
}

func (m *Material) value() *Value {
	v := NewObject().
		Set("id", NewString(m.ID)).
		Set("ambient", NewInline(NewArray(NewFloatArray(m.Ambient[:])...))).
		Set("diffuse", NewInline(NewArray(NewFloatArray(m.Diffuse[:])...))).
		Set("emissive", NewInline(NewArray(NewFloatArray(m.Emissive[:])...))).
		Set("opacity", NewFloat(m.Opacity)).
		Set("specular", NewInline(NewArray(NewFloatArray(m.Specular[:])...))).
		Set("shininess", NewFloat(m.Shininess))
	if len(m.Textures) > 0 {
		textures := &Value{Kind: Array}
		for _, t := range m.Textures {
			textures.Items = append(textures.Items, t.value())
		}
		v.Set("textures", textures)
	}
	return v
}

func (t *Texture) value() *Value {
	v := NewObject().
		Set("id", NewString(t.ID)).
		Set("filename", NewString(t.Filename)).
		Set("type", NewString(t.Type))
	// Repeat-wrapped textures list V before U. Key order is significant in
	// this format, so the quirk is kept for output compatibility.
	if t.WrapU == WrapRepeat && t.WrapV == WrapRepeat {
		v.Set("wrapModeV", NewString(t.WrapV))
		v.Set("wrapModeU", NewString(t.WrapU))
	} else {
		v.Set("wrapModeU", NewString(t.WrapU))
		v.Set("wrapModeV", NewString(t.WrapV))
	}
	return v
}

func (n *Node) value() *Value {
	parts := &Value{Kind: Array}
	for _, p := range n.Parts {
		parts.Items = append(parts.Items, NewObject().
			Set("meshpartid", NewString(p.MeshPartID)).
			Set("materialid", NewString(p.MaterialID)).
			Set("uvMapping", NewInline(NewArray(NewArray(NewInt(0))))))
	}
	return NewObject().
		Set("id", NewString(n.ID)).
		Set("skeleton", NewBool(n.Skeleton)).
		Set("transform", NewTable(NewFloatArray(n.Transform[:]), 4)).
		Set("parts", parts)
}

// WriteDocument serializes doc as structured text.
func WriteDocument(doc *Document, w io.Writer) error {
	return Write(w, doc.Value())
}
