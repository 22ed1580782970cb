package converter

import (
	"image"
	"image/color"
	"testing"

	"heic2jpg/contracts"
)

func TestNewPixelImage(t *testing.T) {
	t.Run("RGB with padded stride", func(t *testing.T) {
		// 2x2, stride 8 (6 bytes of pixels + 2 padding)
		pixels := []byte{
			255, 0, 0, 0, 255, 0, 9, 9,
			0, 0, 255, 10, 20, 30, 9, 9,
		}
		img, err := NewPixelImage(&contracts.DecodedImage{Mode: "RGB", Width: 2, Height: 2, Stride: 8, Pixels: pixels})
		if err != nil {
			t.Fatalf("NewPixelImage failed: %v", err)
		}
		want := map[image.Point]color.RGBA{
			{0, 0}: {255, 0, 0, 255},
			{1, 0}: {0, 255, 0, 255},
			{0, 1}: {0, 0, 255, 255},
			{1, 1}: {10, 20, 30, 255},
		}
		for pt, c := range want {
			got := color.RGBAModel.Convert(img.At(pt.X, pt.Y)).(color.RGBA)
			if got != c {
				t.Errorf("pixel %v = %v, want %v", pt, got, c)
			}
		}
	})

	t.Run("L", func(t *testing.T) {
		img, err := NewPixelImage(&contracts.DecodedImage{Mode: "L", Width: 3, Height: 1, Stride: 3, Pixels: []byte{0, 128, 255}})
		if err != nil {
			t.Fatalf("NewPixelImage failed: %v", err)
		}
		if got := color.GrayModel.Convert(img.At(1, 0)).(color.Gray); got.Y != 128 {
			t.Errorf("gray value = %d, want 128", got.Y)
		}
	})

	t.Run("RGBA transparent flattens to white", func(t *testing.T) {
		pixels := []byte{10, 20, 30, 0, 10, 20, 30, 255}
		img, err := NewPixelImage(&contracts.DecodedImage{Mode: "RGBA", Width: 2, Height: 1, Stride: 8, Pixels: pixels})
		if err != nil {
			t.Fatalf("NewPixelImage failed: %v", err)
		}
		if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("transparent pixel = %v, want white", got)
		}
		if got := color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA); got != (color.RGBA{10, 20, 30, 255}) {
			t.Errorf("opaque pixel = %v, want {10 20 30 255}", got)
		}
	})

	t.Run("LA", func(t *testing.T) {
		img, err := NewPixelImage(&contracts.DecodedImage{Mode: "LA", Width: 1, Height: 1, Stride: 2, Pixels: []byte{50, 255}})
		if err != nil {
			t.Fatalf("NewPixelImage failed: %v", err)
		}
		if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{50, 50, 50, 255}) {
			t.Errorf("pixel = %v, want {50 50 50 255}", got)
		}
	})

	invalid := []struct {
		name    string
		decoded contracts.DecodedImage
	}{
		{"unknown mode", contracts.DecodedImage{Mode: "CMYK", Width: 1, Height: 1, Stride: 4, Pixels: make([]byte, 4)}},
		{"zero size", contracts.DecodedImage{Mode: "RGB", Width: 0, Height: 1, Stride: 0, Pixels: nil}},
		{"short stride", contracts.DecodedImage{Mode: "RGB", Width: 4, Height: 1, Stride: 8, Pixels: make([]byte, 12)}},
		{"short buffer", contracts.DecodedImage{Mode: "RGBA", Width: 2, Height: 2, Stride: 8, Pixels: make([]byte, 15)}},
	}
	for _, test := range invalid {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewPixelImage(&test.decoded); err == nil {
				t.Error("expected error")
			}
		})
	}
}
