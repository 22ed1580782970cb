package decoder

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gographics/imagick.v2/imagick"

	"heic2jpg/contracts"
)

type Imagick struct {
	log *zap.Logger
}

func NewImagick(log *zap.Logger) (*Imagick, func(), error) {
	imagick.Initialize()
	return &Imagick{log: log}, imagick.Terminate, nil
}

func (d *Imagick) Decode(path string) (*contracts.DecodedImage, error) {
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, fmt.Errorf("magick read: %w", err)
	}
	format := strings.ToUpper(mw.GetImageFormat())
	if format != "HEIC" && format != "HEIF" {
		return nil, fmt.Errorf("%w: format %s", ErrUnsupported, format)
	}

	mode := "RGB"
	if mw.GetImageAlphaChannel() {
		mode = "RGBA"
	}
	width, height := mw.GetImageWidth(), mw.GetImageHeight()

	exported, err := mw.ExportImagePixels(0, 0, width, height, mode, imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("magick export pixels: %w", err)
	}
	pixels, ok := exported.([]byte)
	if !ok {
		return nil, fmt.Errorf("magick export pixels: unexpected %T", exported)
	}

	var blocks []contracts.MetadataBlock
	if profile := mw.GetImageProfile("exif"); profile != "" {
		blocks = append(blocks, contracts.MetadataBlock{Type: contracts.ExifBlockType, Data: []byte(profile)})
	}

	d.log.Debug("decoded",
		zap.String("path", path),
		zap.String("mode", mode),
		zap.Uint("width", width),
		zap.Uint("height", height),
	)

	return &contracts.DecodedImage{
		Mode:     mode,
		Width:    int(width),
		Height:   int(height),
		Stride:   int(width) * len(mode),
		Pixels:   pixels,
		Metadata: blocks,
	}, nil
}
