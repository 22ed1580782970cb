package decoder

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"heic2jpg/contracts"
)

func TestModeForBands(t *testing.T) {
	tests := []struct {
		bands int
		mode  string
	}{
		{1, "L"},
		{2, "LA"},
		{3, "RGB"},
		{4, "RGBA"},
	}
	for _, test := range tests {
		mode, err := modeForBands(test.bands)
		if err != nil || mode != test.mode {
			t.Errorf("modeForBands(%d) = %q, %v; want %q", test.bands, mode, err, test.mode)
		}
	}

	if _, err := modeForBands(5); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for 5 bands, got %v", err)
	}
}

func TestExifBlocks(t *testing.T) {
	t.Run("no EXIF", func(t *testing.T) {
		if blocks := exifBlocks([]byte("ftypheic without metadata")); blocks != nil {
			t.Errorf("expected no blocks, got %d", len(blocks))
		}
	})

	t.Run("stray TIFF signature without EXIF", func(t *testing.T) {
		container := []byte("....ftypheic....mdat\x12\x34II*\x00\xff\xff\xff\x7f\x00\x00")
		if blocks := exifBlocks(container); blocks != nil {
			t.Errorf("expected no blocks, got %d", len(blocks))
		}
	})

	t.Run("preamble not followed by TIFF header", func(t *testing.T) {
		tiff := []byte{'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
		container := append([]byte("....Exif\x00\x00junk....Exif\x00\x00"), tiff...)

		blocks := exifBlocks(container)
		if len(blocks) != 1 {
			t.Fatalf("expected 1 block, got %d", len(blocks))
		}
		if blocks[0].Data[0] != 'I' || len(blocks[0].Data) != len(tiff) {
			t.Errorf("block does not start at the TIFF header: % x", blocks[0].Data)
		}
	})

	t.Run("embedded EXIF", func(t *testing.T) {
		tiff := []byte{'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
		container := append([]byte("....ftypheic....Exif\x00\x00"), tiff...)

		blocks := exifBlocks(container)
		if len(blocks) != 1 {
			t.Fatalf("expected 1 block, got %d", len(blocks))
		}
		if blocks[0].Type != contracts.ExifBlockType {
			t.Errorf("block type = %q, want %q", blocks[0].Type, contracts.ExifBlockType)
		}
		if blocks[0].Data[0] != 'M' || blocks[0].Data[1] != 'M' {
			t.Errorf("block does not start at the TIFF header: % x", blocks[0].Data[:4])
		}
	})
}

func TestNewUnknownBackend(t *testing.T) {
	if _, _, err := New("pyheif", zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for unknown backend")
	}
}
