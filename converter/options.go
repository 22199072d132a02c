package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/binzume/c3tconv/geom"
)

const (
	// MinGlobalScale and MaxGlobalScale bound the configurable scale.
	MinGlobalScale = 0.01
	MaxGlobalScale = 1000
)

type SceneToC3TOption struct {
	// UseSelection exports only objects marked as selected.
	UseSelection bool
	// ExportNormals adds a normal attribute to every vertex.
	ExportNormals bool
	// ExportUVMaps adds up to 8 texture-coordinate attributes.
	ExportUVMaps bool
	// UseMeshModifiers applies the host's modifier stack when evaluating
	// meshes; UseMeshModifiersRender selects the render-quality settings.
	UseMeshModifiers       bool
	UseMeshModifiersRender bool

	// GlobalScale scales the whole scene. Default: 1.
	GlobalScale float64
	// GlobalMatrix is applied to every node transform (axis remapping,
	// scaling). When nil, a uniform scale matrix from GlobalScale is used.
	GlobalMatrix *geom.Matrix4

	// ResolveTexturePath maps a texture's resolved image filename to the
	// name written into the document, e.g. when textures are re-encoded
	// during the copy step. nil keeps filenames as-is.
	ResolveTexturePath func(string) string

	Logger *zap.Logger
}

// Validate rejects malformed configuration before compilation starts.
func (o *SceneToC3TOption) Validate() error {
	if o.GlobalScale < MinGlobalScale || o.GlobalScale > MaxGlobalScale {
		return fmt.Errorf("global scale out of range [%v, %v]: %v", MinGlobalScale, MaxGlobalScale, o.GlobalScale)
	}
	return nil
}
