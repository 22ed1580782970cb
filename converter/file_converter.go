package converter

import (
	"errors"
	"os"

	"github.com/djherbis/times"
	"go.uber.org/zap"

	"heic2jpg/contracts"
	"heic2jpg/files_manager"
	"heic2jpg/jpeg_writer"
	"heic2jpg/utils"
)

type FileConverter struct {
	decoder contracts.Decoder
	logger  *zap.Logger
}

func NewFileConverter(decoder contracts.Decoder, logger *zap.Logger) *FileConverter {
	return &FileConverter{decoder: decoder, logger: logger}
}

// Convert turns one HEIC file into a JPEG next to it, carries over the
// source timestamps and removes the source. The source is removed only
// after the output is written and stamped, so any failure leaves it in
// place. Errors are *contracts.ConversionError.
func (c *FileConverter) Convert(inputPath string) (string, error) {
	fail := func(kind error, err error) (string, error) {
		return "", contracts.NewConversionError(inputPath, kind, err)
	}

	// captured before decoding so the decoder's read cannot move atime;
	// a source that cannot be stat'ed cannot be decoded either
	stamps, err := times.Stat(inputPath)
	if err != nil {
		return fail(contracts.ErrDecode, err)
	}

	decoded, err := c.decoder.Decode(inputPath)
	if err != nil {
		return fail(contracts.ErrDecode, err)
	}

	img, err := NewPixelImage(decoded)
	if err != nil {
		return fail(contracts.ErrImageConstruction, err)
	}

	exifData, err := utils.CorrectOrientation(decoded.Metadata)
	if err != nil {
		return "", contracts.NewConversionError(inputPath, kindOf(err), err)
	}

	outputPath := files_manager.OutputPath(inputPath)

	if err := jpeg_writer.WriteFile(outputPath, img, exifData); err != nil {
		return fail(contracts.ErrEncode, err)
	}
	c.logger.Debug("encoded",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Bool("exif", exifData != nil),
	)

	if err := os.Chtimes(outputPath, stamps.AccessTime(), stamps.ModTime()); err != nil {
		return fail(contracts.ErrTimestamp, err)
	}

	if err := os.Remove(inputPath); err != nil {
		return fail(contracts.ErrDeletion, err)
	}

	return outputPath, nil
}

// kindOf returns the taxonomy kind already attached by the metadata codec.
func kindOf(err error) error {
	if errors.Is(err, contracts.ErrEncode) {
		return contracts.ErrEncode
	}
	return contracts.ErrMetadataDecode
}
