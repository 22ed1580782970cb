package converter

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"heic2jpg/contracts"
)

var bytesPerPixel = map[string]int{
	"L":    1,
	"LA":   2,
	"RGB":  3,
	"RGBA": 4,
}

// NewPixelImage wraps the decoder's raw buffer in an image.Image. Modes
// with alpha are flattened onto white since the target has no alpha.
func NewPixelImage(d *contracts.DecodedImage) (image.Image, error) {
	bpp, ok := bytesPerPixel[d.Mode]
	if !ok {
		return nil, fmt.Errorf("unsupported pixel mode %q", d.Mode)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", d.Width, d.Height)
	}
	rowBytes := d.Width * bpp
	if d.Stride < rowBytes {
		return nil, fmt.Errorf("stride %d shorter than row of %d bytes", d.Stride, rowBytes)
	}
	if need := d.Stride*(d.Height-1) + rowBytes; len(d.Pixels) < need {
		return nil, fmt.Errorf("buffer of %d bytes too small for %dx%d %s with stride %d (need %d)",
			len(d.Pixels), d.Width, d.Height, d.Mode, d.Stride, need)
	}

	rect := image.Rect(0, 0, d.Width, d.Height)

	switch d.Mode {
	case "L":
		return &image.Gray{Pix: d.Pixels, Stride: d.Stride, Rect: rect}, nil
	case "RGB":
		img := image.NewRGBA(rect)
		for y := 0; y < d.Height; y++ {
			src := d.Pixels[y*d.Stride : y*d.Stride+rowBytes]
			dst := img.Pix[y*img.Stride : y*img.Stride+d.Width*4]
			for x := 0; x < d.Width; x++ {
				dst[x*4+0] = src[x*3+0]
				dst[x*4+1] = src[x*3+1]
				dst[x*4+2] = src[x*3+2]
				dst[x*4+3] = 0xFF
			}
		}
		return img, nil
	case "RGBA":
		return flatten(&image.NRGBA{Pix: d.Pixels, Stride: d.Stride, Rect: rect}), nil
	default: // LA
		img := image.NewNRGBA(rect)
		for y := 0; y < d.Height; y++ {
			src := d.Pixels[y*d.Stride : y*d.Stride+rowBytes]
			dst := img.Pix[y*img.Stride : y*img.Stride+d.Width*4]
			for x := 0; x < d.Width; x++ {
				dst[x*4+0] = src[x*2]
				dst[x*4+1] = src[x*2]
				dst[x*4+2] = src[x*2]
				dst[x*4+3] = src[x*2+1]
			}
		}
		return flatten(img), nil
	}
}

func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	xdraw.Draw(dst, bounds, image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(dst, bounds, src, bounds.Min, xdraw.Over)
	return dst
}
