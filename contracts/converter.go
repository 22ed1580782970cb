package contracts

// ExifBlockType is the metadata block type carrying EXIF data.
const ExifBlockType = "Exif"

type Decoder interface {
	Decode(path string) (*DecodedImage, error)
}

type MetadataBlock struct {
	Type string
	Data []byte
}

// DecodedImage is the raw output of a container decoder. Pixels holds
// Height rows of Stride bytes each, 8 bits per sample.
type DecodedImage struct {
	Mode     string
	Width    int
	Height   int
	Stride   int
	Pixels   []byte
	Metadata []MetadataBlock
}

type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
}

func (r ConversionResult) Failed() bool {
	return r.Err != nil
}

func CountFailed(results map[string]ConversionResult) int {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	return failed
}
