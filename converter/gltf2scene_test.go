package converter

import (
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/binzume/c3tconv/scene"
)

func newTestGLTF(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()
	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		"NORMAL":     modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {0, 0}}),
	}
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	var mf float32 = 0.25
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "m",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 0, 0, 0.5},
			MetallicFactor:  &mf,
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "mesh",
		Primitives: []*gltf.Primitive{{
			Attributes: attributes,
			Indices:    gltf.Index(indices),
			Material:   gltf.Index(0),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        "n",
		Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
		Translation: [3]float32{1, 2, 3},
	})
	return doc
}

func TestGLTFConvert(t *testing.T) {
	sc, err := NewGLTFToSceneConverter(nil).Convert(newTestGLTF(t))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Renderer != scene.RendererCycles {
		t.Error("renderer: ", sc.Renderer)
	}
	if len(sc.Objects) != 1 || sc.Objects[0].Name != "n" {
		t.Fatal("objects: ", sc.Objects)
	}

	obj := sc.Objects[0]
	if obj.Matrix == nil || obj.Matrix[12] != 1 || obj.Matrix[13] != 2 || obj.Matrix[14] != 3 {
		t.Error("node matrix: ", obj.Matrix)
	}

	mesh := obj.Mesh
	if len(mesh.Positions) != 3 || len(mesh.Polygons) != 1 {
		t.Fatal("geometry: ", len(mesh.Positions), len(mesh.Polygons))
	}
	poly := mesh.Polygons[0]
	if len(poly.Vertices) != 3 || poly.Vertices[1] != 1 || poly.Loops[2] != 2 {
		t.Error("polygon: ", poly)
	}
	if len(mesh.Normals) != 3 || mesh.Normals[0].Z != 1 {
		t.Error("normals: ", mesh.Normals)
	}
	// UVs are stored pre-flipped so the exporter's V flip restores them.
	if len(mesh.UVLayers) != 1 || mesh.UVLayers[0].UV[0].Y != 0 || mesh.UVLayers[0].UV[2].Y != 1 {
		t.Error("uv: ", mesh.UVLayers)
	}

	if len(mesh.Materials) != 1 {
		t.Fatal("materials: ", len(mesh.Materials))
	}
	mat := mesh.Materials[0]
	if mat.Name != "m" || !mat.UseNodes {
		t.Error("material: ", mat.Name, mat.UseNodes)
	}
	if mat.Diffuse.X != 1 || mat.Diffuse.Y != 0 || mat.Alpha != 0.5 {
		t.Error("base color: ", mat.Diffuse, mat.Alpha)
	}
	if mat.Specular.X != 0.25 {
		t.Error("metallic: ", mat.Specular)
	}
}

func TestGLTFConvertTexture(t *testing.T) {
	doc := newTestGLTF(t)
	doc.Images = append(doc.Images, &gltf.Image{URI: "tex.png"})
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapClampToEdge})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0), Sampler: gltf.Index(0)})
	doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}

	sc, err := NewGLTFToSceneConverter(nil).Convert(doc)
	if err != nil {
		t.Fatal(err)
	}
	mat := sc.Objects[0].Mesh.Materials[0]
	if len(mat.Nodes) != 1 {
		t.Fatal("nodes: ", len(mat.Nodes))
	}
	node := mat.Nodes[0]
	if node.Type != scene.NodeTexImage || node.Image != "tex.png" {
		t.Error("texture node: ", node)
	}
	if node.Extension != scene.ExtensionClip {
		t.Error("extension: ", node.Extension)
	}
}

func TestGLTFNodeMatrix(t *testing.T) {
	n := &gltf.Node{Matrix: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		5, 6, 7, 1,
	}}
	mat := nodeMatrix(n)
	if mat[12] != 5 || mat[13] != 6 || mat[14] != 7 {
		t.Error("explicit matrix: ", mat)
	}

	// TRS composes translate, rotate, scale in that order.
	s := float32(math.Sin(math.Pi / 4))
	c := float32(math.Cos(math.Pi / 4))
	n = &gltf.Node{
		Translation: [3]float32{1, 0, 0},
		Rotation:    [4]float32{0, 0, s, c},
		Scale:       [3]float32{2, 2, 2},
	}
	mat = nodeMatrix(n)
	const eps = 0.000001
	// Column 0: rotated, scaled X axis.
	if math.Abs(mat[0]) > eps || math.Abs(mat[1]-2) > eps {
		t.Error("rotation/scale: ", mat)
	}
	if mat[12] != 1 || mat[13] != 0 {
		t.Error("translation: ", mat)
	}
}

func TestGLTFMissingNormals(t *testing.T) {
	doc := gltf.NewDocument()
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
	}
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Primitives: []*gltf.Primitive{{
		Attributes: attributes,
		Indices:    gltf.Index(indices),
	}}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "n", Mesh: gltf.Index(0)})

	sc, err := NewGLTFToSceneConverter(nil).Convert(doc)
	if err != nil {
		t.Fatal(err)
	}
	mesh := sc.Objects[0].Mesh
	// Without source normals the mesh falls back to computed smooth normals.
	if mesh.Normals != nil {
		t.Error("normals should be recomputed: ", mesh.Normals)
	}
	if len(mesh.UVLayers) != 0 {
		t.Error("uv layers: ", mesh.UVLayers)
	}
	if len(mesh.Polygons) != 1 {
		t.Error("polygons: ", len(mesh.Polygons))
	}
}
