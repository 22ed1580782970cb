// Package decoder turns HEIC/HEIF files into raw 8-bit pixel buffers and
// their metadata blocks.
package decoder

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"heic2jpg/contracts"
)

var ErrUnsupported = errors.New("unsupported container variant")

// New starts the named backend. The returned func releases the
// backend's global state and must be called once decoding is done.
func New(name string, log *zap.Logger) (contracts.Decoder, func(), error) {
	switch name {
	case contracts.DecoderVips:
		return NewVips(log)
	case contracts.DecoderImagick:
		return NewImagick(log)
	default:
		return nil, nil, fmt.Errorf("unknown decoder %q", name)
	}
}

func modeForBands(bands int) (string, error) {
	switch bands {
	case 1:
		return "L", nil
	case 2:
		return "LA", nil
	case 3:
		return "RGB", nil
	case 4:
		return "RGBA", nil
	default:
		return "", fmt.Errorf("%w: %d bands", ErrUnsupported, bands)
	}
}

var (
	exifPreamble = []byte("Exif\x00\x00")
	tiffHeaderLE = []byte("II*\x00")
	tiffHeaderBE = []byte("MM\x00*")
)

// exifBlocks locates the EXIF item inside the raw container bytes. HEIF
// stores it behind an "Exif\0\0" preamble; a bare TIFF signature on its
// own is not trusted since compressed image data can contain one.
func exifBlocks(data []byte) []contracts.MetadataBlock {
	for offset := 0; offset < len(data); {
		i := bytes.Index(data[offset:], exifPreamble)
		if i < 0 {
			return nil
		}
		start := offset + i + len(exifPreamble)
		if len(data) >= start+len(tiffHeaderLE) {
			header := data[start : start+len(tiffHeaderLE)]
			if bytes.Equal(header, tiffHeaderLE) || bytes.Equal(header, tiffHeaderBE) {
				return []contracts.MetadataBlock{{Type: contracts.ExifBlockType, Data: data[start:]}}
			}
		}
		offset = start
	}
	return nil
}
