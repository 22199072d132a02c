package converter

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/blezek/tga"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
)

type TextureCopyOption struct {
	// ResolveName maps a source filename to its destination name; use
	// PNGName when formats the engine cannot load should be re-encoded.
	// nil keeps names unchanged.
	ResolveName func(string) string
	// ResolutionLimit downscales images wider than this when re-encoding.
	// 0: unlimited.
	ResolutionLimit int
	Logger          *zap.Logger
}

// PNGName maps filenames of formats that get re-encoded during the copy
// step (anything but png/jpeg) to the matching .png name. Pass it as both
// the exporter's ResolveTexturePath and the copy step's ResolveName so the
// document and the copied files agree.
func PNGName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return name
	default:
		return name[:len(name)-len(filepath.Ext(name))] + ".png"
	}
}

// CopyTextures copies the collected texture files from srcDir to dstDir.
// A file whose destination name or size requires it is decoded and
// re-encoded; everything else is copied byte for byte. Unreadable files
// are logged and skipped, so one broken texture does not fail the run.
func CopyTextures(files []string, srcDir, dstDir string, options *TextureCopyOption) error {
	if options == nil {
		options = &TextureCopyOption{}
	}
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, name := range files {
		dstName := name
		if options.ResolveName != nil {
			dstName = options.ResolveName(name)
		}
		if err := copyTexture(filepath.Join(srcDir, name), filepath.Join(dstDir, dstName), options.ResolutionLimit); err != nil {
			log.Warn("texture copy failed", zap.String("texture", name), zap.Error(err))
			continue
		}
		log.Debug("texture copied", zap.String("texture", name), zap.String("as", dstName))
	}
	return nil
}

func copyTexture(src, dst string, limit int) error {
	if src == dst {
		return nil
	}
	srcExt := strings.ToLower(filepath.Ext(src))
	if srcExt == strings.ToLower(filepath.Ext(dst)) && limit == 0 {
		return copyFile(src, dst)
	}

	img, err := loadImage(src)
	if err != nil {
		return err
	}
	img = limitResolution(img, limit)

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(dst)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return f.Close()
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil && strings.ToLower(filepath.Ext(path)) == ".tga" {
		// retry
		f.Seek(0, io.SeekStart)
		img, err = tga.Decode(f)
	}
	return img, err
}

func limitResolution(img image.Image, limit int) image.Image {
	rect := img.Bounds()
	if limit <= 0 || rect.Dx() <= limit {
		return img
	}
	scale := float64(limit) / float64(rect.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(rect.Dx())*scale), int(float64(rect.Dy())*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
	return dst
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
