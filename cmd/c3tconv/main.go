package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/binzume/c3tconv/converter"
	"github.com/binzume/c3tconv/geom"
	"github.com/binzume/c3tconv/logger"
	"github.com/binzume/c3tconv/scene"
)

func defaultOutputFile(input string) string {
	ext := filepath.Ext(input)
	return input[0:len(input)-len(ext)] + ".c3t"
}

func loadScene(input string) (*scene.Scene, error) {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return scene.Load(input)
	case ".gltf", ".glb":
		doc, err := gltf.Open(input)
		if err != nil {
			return nil, err
		}
		return converter.NewGLTFToSceneConverter(nil).Convert(doc)
	}
	return nil, fmt.Errorf("unsupported input type: %v", input)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.(yaml|gltf|glb) [output.c3t]\n", os.Args[0])
		flag.PrintDefaults()
	}
	scale := flag.Float64("scale", 1, "global scale (0.01-1000)")
	yup := flag.Bool("yup", false, "rotate -90 degrees around X (Z-up scene to Y-up engine)")
	normals := flag.Bool("normals", true, "export vertex normals")
	uvmaps := flag.Bool("uvmaps", true, "export UV maps")
	selection := flag.Bool("selection", false, "export selected objects only")
	modifiers := flag.Bool("modifiers", true, "apply mesh modifiers")
	renderModifiers := flag.Bool("render-modifiers", false, "use render modifier settings")
	copyTex := flag.Bool("copytex", false, "copy referenced textures next to the output")
	reEncode := flag.Bool("retex", false, "re-encode tga/psd/bmp textures to png when copying")
	texLimit := flag.Int("texlimit", 0, "max texture width when re-encoding (0: unlimited)")
	logLevel := flag.String("loglevel", "info", "log level (debug|info|warn|error)")
	logFile := flag.String("logfile", "", "write logs to a rotated file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}

	log, err := logger.New(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	input := flag.Arg(0)
	output := defaultOutputFile(input)
	if flag.NArg() > 1 {
		output = flag.Arg(1)
	}

	sc, err := loadScene(input)
	if err != nil {
		log.Fatal("load failed", zap.String("input", input), zap.Error(err))
	}

	global := geom.NewScaleMatrix4(*scale, *scale, *scale)
	if *yup {
		global = global.Mul(geom.NewRotationXMatrix4(-math.Pi / 2))
	}
	var resolve func(string) string
	if *reEncode {
		resolve = converter.PNGName
	}

	conv := converter.NewSceneToC3TConverter(&converter.SceneToC3TOption{
		UseSelection:           *selection,
		ExportNormals:          *normals,
		ExportUVMaps:           *uvmaps,
		UseMeshModifiers:       *modifiers,
		UseMeshModifiersRender: *renderModifiers,
		GlobalScale:            *scale,
		GlobalMatrix:           global,
		ResolveTexturePath:     resolve,
		Logger:                 log,
	})
	doc, err := conv.Convert(sc)
	if err != nil {
		log.Fatal("export failed", zap.Error(err))
	}
	if err := converter.WriteFile(doc, output); err != nil {
		log.Fatal("write failed", zap.Error(err))
	}
	log.Info("exported", zap.String("output", output),
		zap.Int("meshes", len(doc.Meshes)), zap.Int("materials", len(doc.Materials)), zap.Int("nodes", len(doc.Nodes)))

	if *copyTex {
		if files := conv.TextureFiles(); len(files) > 0 {
			err := converter.CopyTextures(files, filepath.Dir(input), filepath.Dir(output), &converter.TextureCopyOption{
				ResolveName:     resolve,
				ResolutionLimit: *texLimit,
				Logger:          log,
			})
			if err != nil {
				log.Fatal("texture copy failed", zap.Error(err))
			}
		}
	}
}
