package converter

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/binzume/c3tconv/geom"
	"github.com/binzume/c3tconv/scene"
)

type GLTFToSceneOption struct {
}

type gltfToScene struct {
	options *GLTFToSceneOption
}

// NewGLTFToSceneConverter builds scene data from a glTF document so it can
// be exported like any host scene.
func NewGLTFToSceneConverter(options *GLTFToSceneOption) *gltfToScene {
	if options == nil {
		options = &GLTFToSceneOption{}
	}
	return &gltfToScene{options: options}
}

func (c *gltfToScene) Convert(doc *gltf.Document) (*scene.Scene, error) {
	// glTF materials are node-graph style: image textures become TEX_IMAGE
	// nodes and the node-based enumeration strategy applies.
	sc := &scene.Scene{Renderer: scene.RendererCycles}

	materials := make([]*scene.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		materials[i] = c.convertMaterial(doc, m)
	}

	for _, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		mesh, err := c.convertMesh(doc, doc.Meshes[*node.Mesh], materials)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Name, err)
		}
		sc.Objects = append(sc.Objects, &scene.Object{
			Name:   node.Name,
			Matrix: nodeMatrix(node),
			Mesh:   mesh,
		})
	}
	return sc, nil
}

func nodeMatrix(n *gltf.Node) *geom.Matrix4 {
	if n.MatrixOrDefault() != gltf.DefaultMatrix {
		mat := &geom.Matrix4{}
		for i, v := range n.Matrix {
			mat[i] = float64(v)
		}
		return mat
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	translate := geom.NewTranslateMatrix4(float64(t[0]), float64(t[1]), float64(t[2]))
	rotate := geom.NewRotationMatrix4FromQuaternion(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
	scale := geom.NewScaleMatrix4(float64(s[0]), float64(s[1]), float64(s[2]))
	return translate.Mul(rotate).Mul(scale)
}

func (c *gltfToScene) convertMaterial(doc *gltf.Document, m *gltf.Material) *scene.Material {
	mat := &scene.Material{
		Name:     m.Name,
		Diffuse:  geom.Vector3{X: 0.8, Y: 0.8, Z: 0.8},
		Specular: geom.Vector3{X: 1, Y: 1, Z: 1},
		Alpha:    1,
		UseNodes: true,
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		col := pbr.BaseColorFactorOrDefault()
		mat.Diffuse = geom.Vector3{X: float64(col[0]), Y: float64(col[1]), Z: float64(col[2])}
		mat.Alpha = float64(col[3])
		metallic := float64(pbr.MetallicFactorOrDefault())
		mat.Specular = geom.Vector3{X: metallic, Y: metallic, Z: metallic}
		if pbr.BaseColorTexture != nil {
			if node := c.convertTexture(doc, pbr.BaseColorTexture.Index); node != nil {
				mat.Nodes = append(mat.Nodes, node)
			}
		}
	}
	return mat
}

func (c *gltfToScene) convertTexture(doc *gltf.Document, index uint32) *scene.MaterialNode {
	t := doc.Textures[index]
	if t.Source == nil {
		return nil
	}
	img := doc.Images[*t.Source]
	name := img.Name
	if name == "" {
		name = img.URI
	}
	extension := scene.ExtensionRepeat
	if t.Sampler != nil {
		switch doc.Samplers[*t.Sampler].WrapS {
		case gltf.WrapClampToEdge:
			extension = scene.ExtensionClip
		case gltf.WrapMirroredRepeat:
			extension = scene.ExtensionExtend
		}
	}
	return &scene.MaterialNode{
		Type:      scene.NodeTexImage,
		Name:      name,
		Image:     img.URI,
		Extension: extension,
	}
}

func (c *gltfToScene) convertMesh(doc *gltf.Document, m *gltf.Mesh, materials []*scene.Material) (*scene.Mesh, error) {
	mesh := &scene.Mesh{Materials: materials}
	uvLayer := &scene.UVLayer{Name: "TEXCOORD_0"}
	hasUV := false
	hasNormals := true
	loop := 0

	for _, p := range m.Primitives {
		if p.Indices == nil {
			continue
		}
		base := len(mesh.Positions)
		if a, ok := p.Attributes["POSITION"]; ok {
			pos, err := modeler.ReadPosition(doc, doc.Accessors[a], [][3]float32{})
			if err != nil {
				return nil, fmt.Errorf("read positions: %w", err)
			}
			for _, v := range pos {
				mesh.Positions = append(mesh.Positions, &geom.Vector3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
			}
		}
		var normals [][3]float32
		if a, ok := p.Attributes["NORMAL"]; ok {
			n, err := modeler.ReadNormal(doc, doc.Accessors[a], [][3]float32{})
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
			normals = n
		} else {
			hasNormals = false
		}
		var texCoord [][2]float32
		if a, ok := p.Attributes["TEXCOORD_0"]; ok {
			t, err := modeler.ReadTextureCoord(doc, doc.Accessors[a], [][2]float32{})
			if err != nil {
				return nil, fmt.Errorf("read texcoords: %w", err)
			}
			texCoord = t
			hasUV = true
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*p.Indices], []uint32{})
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}

		slot := 0
		if p.Material != nil {
			slot = int(*p.Material)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			poly := &scene.Polygon{Material: slot}
			for k := 0; k < 3; k++ {
				vi := int(indices[i+k])
				poly.Vertices = append(poly.Vertices, base+vi)
				poly.Loops = append(poly.Loops, loop)
				loop++
				if normals != nil {
					n := normals[vi]
					mesh.Normals = append(mesh.Normals, &geom.Vector3{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])})
				} else {
					mesh.Normals = append(mesh.Normals, &geom.Vector3{})
				}
				if texCoord != nil {
					uv := texCoord[vi]
					// glTF UVs have a top-left origin; the exporter flips V
					// back, so store the bottom-left form here.
					uvLayer.UV = append(uvLayer.UV, geom.Vector2{X: float64(uv[0]), Y: 1 - float64(uv[1])})
				} else {
					uvLayer.UV = append(uvLayer.UV, geom.Vector2{})
				}
			}
			mesh.Polygons = append(mesh.Polygons, poly)
		}
	}

	if !hasNormals {
		// Mixed or missing normals: recompute smooth normals instead.
		mesh.Normals = nil
	}
	if hasUV {
		mesh.UVLayers = []*scene.UVLayer{uvLayer}
	}
	return mesh, nil
}
