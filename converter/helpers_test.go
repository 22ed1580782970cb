package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"heic2jpg/contracts"
)

// fakeDecoder stands in for the HEIC backends: source files hold a PNG,
// and metadata blocks are attached per path.
type fakeDecoder struct {
	metadata map[string][]contracts.MetadataBlock
	override func(path string) (*contracts.DecodedImage, error)
}

func (f *fakeDecoder) Decode(path string) (*contracts.DecodedImage, error) {
	if f.override != nil {
		return f.override(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, c.R, c.G, c.B)
		}
	}

	return &contracts.DecodedImage{
		Mode:     "RGB",
		Width:    width,
		Height:   height,
		Stride:   width * 3,
		Pixels:   pixels,
		Metadata: f.metadata[path],
	}, nil
}

func writeSource(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 128, 255})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create source image: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode source image: %v", err)
	}
}

func writeCorrupt(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not an image at all"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func rotatedExif(t *testing.T, camera string, orientation uint16) []byte {
	t.Helper()

	im := exifcommon.NewIfdMapping()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		t.Fatalf("load IFD mapping: %v", err)
	}
	ti := exif.NewTagIndex()
	ib := exif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)

	if err := ib.SetStandardWithName("Make", camera); err != nil {
		t.Fatalf("set Make: %v", err)
	}
	if err := ib.SetStandardWithName("Orientation", []uint16{orientation}); err != nil {
		t.Fatalf("set Orientation: %v", err)
	}

	data, err := exif.NewIfdByteEncoder().EncodeToExif(ib)
	if err != nil {
		t.Fatalf("encode EXIF: %v", err)
	}
	return data
}
