package utils

import (
	"errors"
	"fmt"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"heic2jpg/contracts"
)

const (
	OrientationTagID = 0x0112 // 274

	// orientation value written to converted files; the pixels are
	// already in display order.
	OrientationNone = 0
)

// Tag groups in the conventional 0th/Exif/GPS naming.
const (
	GroupPrimary = "0th"
	GroupExif    = "Exif"
	GroupGPS     = "GPS"
	GroupInterop = "Interop"
	GroupThumb   = "1st"
)

var groupPaths = map[string]string{
	GroupPrimary: "IFD",
	GroupExif:    "IFD/Exif",
	GroupGPS:     "IFD/GPSInfo",
	GroupInterop: "IFD/Exif/Iop",
	GroupThumb:   "IFD1",
}

// MetadataTable is a decoded EXIF blob. Reads go against the decoded
// IFDs, writes go to a builder that Encode serializes.
type MetadataTable struct {
	index exif.IfdIndex
	root  *exif.IfdBuilder
}

func newIfdMapping() (*exifcommon.IfdMapping, error) {
	im := exifcommon.NewIfdMapping()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return nil, err
	}
	return im, nil
}

// DecodeMetadata parses an EXIF blob. The blob may start at the TIFF
// header or carry an APP1-style "Exif\0\0" preamble.
func DecodeMetadata(data []byte) (*MetadataTable, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return nil, fmt.Errorf("EXIF not found: %w", err)
	}

	im, err := newIfdMapping()
	if err != nil {
		return nil, err
	}
	ti := exif.NewTagIndex()

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return nil, fmt.Errorf("collect EXIF: %w", err)
	}
	if index.RootIfd == nil {
		return nil, errors.New("EXIF has no primary IFD")
	}

	root, err := builderFromChain(index.RootIfd)
	if err != nil {
		return nil, err
	}
	return &MetadataTable{index: index, root: root}, nil
}

// builderFromChain converts the panics go-exif raises on IFDs it cannot
// rebuild into errors.
func builderFromChain(rootIfd *exif.Ifd) (ib *exif.IfdBuilder, err error) {
	defer func() {
		if r := recover(); r != nil {
			ib = nil
			err = fmt.Errorf("rebuild EXIF: %v", r)
		}
	}()
	return exif.NewIfdBuilderFromExistingChain(rootIfd), nil
}

// Tag returns the decoded value of tagID in group.
func (mt *MetadataTable) Tag(group string, tagID uint16) (interface{}, error) {
	fqPath, ok := groupPaths[group]
	if !ok {
		return nil, fmt.Errorf("unknown tag group %q", group)
	}
	ifd, ok := mt.index.Lookup[fqPath]
	if !ok {
		return nil, fmt.Errorf("tag group %q not present", group)
	}
	tags, err := ifd.FindTagWithId(tagID)
	if err != nil {
		return nil, err
	}
	return tags[0].Value()
}

// Set replaces (or adds) tagID in group. The change is visible in the
// output of Encode, not in Tag.
func (mt *MetadataTable) Set(group string, tagID uint16, value interface{}) error {
	fqPath, ok := groupPaths[group]
	if !ok {
		return fmt.Errorf("unknown tag group %q", group)
	}
	ib := mt.root
	if fqPath != groupPaths[GroupPrimary] {
		var err error
		ib, err = exif.GetOrCreateIbFromRootIb(mt.root, fqPath)
		if err != nil {
			return fmt.Errorf("resolve tag group %q: %w", group, err)
		}
	}
	if err := ib.SetStandard(tagID, value); err != nil {
		return fmt.Errorf("set tag 0x%04x in %q: %w", tagID, group, err)
	}
	return nil
}

// Encode serializes the table starting at the TIFF header.
func (mt *MetadataTable) Encode() ([]byte, error) {
	data, err := exif.NewIfdByteEncoder().EncodeToExif(mt.root)
	if err != nil {
		return nil, fmt.Errorf("encode EXIF: %w", err)
	}
	return data, nil
}

// CorrectOrientation picks the last Exif block, resets its orientation
// and re-encodes it. It returns nil bytes when no Exif block exists.
// Malformed EXIF is reported as contracts.ErrMetadataDecode.
func CorrectOrientation(blocks []contracts.MetadataBlock) ([]byte, error) {
	var exifData []byte
	found := false
	for _, block := range blocks {
		if block.Type == contracts.ExifBlockType {
			exifData = block.Data
			found = true
		}
	}
	if !found {
		return nil, nil
	}

	table, err := DecodeMetadata(exifData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrMetadataDecode, err)
	}
	if err := table.Set(GroupPrimary, OrientationTagID, []uint16{OrientationNone}); err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrMetadataDecode, err)
	}
	out, err := table.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrEncode, err)
	}
	return out, nil
}
