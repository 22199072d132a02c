package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/binzume/c3tconv/c3t"
	"github.com/binzume/c3tconv/scene"
)

// textureSource enumerates the image textures bound to a material. The two
// implementations read different host data (node graph vs. legacy slots)
// but produce the same descriptor shape.
type textureSource interface {
	Textures(mat *scene.Material) []*scene.Texture
}

func textureSourceFor(renderer string) textureSource {
	if renderer == scene.RendererCycles {
		return nodeTextureSource{}
	}
	return slotTextureSource{}
}

// nodeTextureSource reads image nodes from node-graph materials.
type nodeTextureSource struct{}

func (nodeTextureSource) Textures(mat *scene.Material) []*scene.Texture {
	if !mat.UseNodes {
		return nil
	}
	var textures []*scene.Texture
	for _, node := range mat.Nodes {
		if node.Type == scene.NodeTexImage {
			textures = append(textures, &scene.Texture{
				Name:      node.Name,
				Type:      scene.TextureImage,
				Image:     node.Image,
				Extension: node.Extension,
			})
		}
	}
	return textures
}

// slotTextureSource reads legacy bindings: TEXTURE nodes when the material
// uses a node tree, fixed texture slots otherwise.
type slotTextureSource struct{}

func (slotTextureSource) Textures(mat *scene.Material) []*scene.Texture {
	var textures []*scene.Texture
	if mat.UseNodes {
		for _, node := range mat.Nodes {
			if node.Type == scene.NodeTexture && node.Texture != nil {
				textures = append(textures, node.Texture)
			}
		}
		return textures
	}
	for _, t := range mat.TextureSlots {
		if t != nil && t.Type == scene.TextureImage {
			textures = append(textures, t)
		}
	}
	return textures
}

// materialKey identifies one (material, per-polygon texture set) tuple by
// pointer identity. The registry is scoped to a single export run.
type materialKey struct {
	material *scene.Material
	textures [8]*scene.Texture
}

type materialRegistry struct {
	source    textureSource
	resolve   func(string) string
	ids       map[materialKey]string
	used      map[string]bool
	materials []*c3t.Material
	copyFiles map[string]struct{}
	log       *zap.Logger
}

func newMaterialRegistry(source textureSource, resolve func(string) string, log *zap.Logger) *materialRegistry {
	return &materialRegistry{
		source:    source,
		resolve:   resolve,
		ids:       map[materialKey]string{},
		used:      map[string]bool{},
		copyFiles: map[string]struct{}{},
		log:       log,
	}
}

// Resolve returns the identifier assigned to the (material, texture-list)
// tuple, materializing its descriptor on first sight. Identifiers are
// permanent for the run; a name collision takes the lowest unused integer
// suffix (name.1, name.2, ...).
func (r *materialRegistry) Resolve(mat *scene.Material, textures []*scene.Texture) string {
	key := materialKey{material: mat}
	copy(key.textures[:], textures)
	if id, ok := r.ids[key]; ok {
		return id
	}

	// Prefer the first non-empty name scanning the material, then its
	// per-polygon textures in layer order.
	name := ""
	if mat != nil {
		name = mat.Name
	}
	for _, t := range textures {
		if name != "" {
			break
		}
		if t != nil {
			name = t.Name
		}
	}
	if name == "" {
		name = "mat"
	}
	id := name
	for counter := 1; r.used[id]; counter++ {
		id = fmt.Sprintf("%s.%d", name, counter)
	}
	r.ids[key] = id
	r.used[id] = true
	r.materials = append(r.materials, r.makeMaterial(mat, id))
	return id
}

func (r *materialRegistry) makeMaterial(mat *scene.Material, id string) *c3t.Material {
	desc := &c3t.Material{
		ID:        id,
		Ambient:   [3]float64{1, 1, 1},
		Diffuse:   [3]float64{0.8, 0.8, 0.8},
		Opacity:   1,
		Specular:  [3]float64{1, 1, 1},
		Shininess: 2,
	}
	if mat == nil {
		desc.Emissive = desc.Diffuse
		return desc
	}
	desc.Diffuse = [3]float64{mat.Diffuse.X, mat.Diffuse.Y, mat.Diffuse.Z}
	// The emitted color follows the diffuse color.
	desc.Emissive = desc.Diffuse
	desc.Opacity = mat.Alpha
	desc.Specular = [3]float64{mat.Specular.X, mat.Specular.Y, mat.Specular.Z}
	for _, t := range r.source.Textures(mat) {
		if td := r.makeTexture(t); td != nil {
			desc.Textures = append(desc.Textures, td)
		}
	}
	return desc
}

// makeTexture builds a texture descriptor, or nil when the texture has no
// backing image. The source image file is recorded for the copy step.
func (r *materialRegistry) makeTexture(t *scene.Texture) *c3t.Texture {
	if t.Image == "" {
		r.log.Debug("texture has no image, dropped", zap.String("texture", t.Name))
		return nil
	}
	filename := t.Image
	if r.resolve != nil {
		filename = r.resolve(filename)
	}
	desc := &c3t.Texture{ID: t.Name, Filename: filename, Type: c3t.TextureTypeDiffuse}
	switch t.Extension {
	case scene.ExtensionRepeat:
		desc.WrapU, desc.WrapV = c3t.WrapRepeat, c3t.WrapRepeat
	case scene.ExtensionClip:
		desc.WrapU, desc.WrapV = c3t.WrapClamp, c3t.WrapClamp
	default:
		desc.WrapU, desc.WrapV = c3t.WrapUnknown, c3t.WrapUnknown
	}
	r.copyFiles[t.Image] = struct{}{}
	return desc
}
