package jpeg_writer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Quality is fixed, matching the default of common imaging tools.
const Quality = 75

const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerAPP1   = 0xE1

	// segment length field covers itself (2 bytes) and the payload
	maxSegmentPayload = 0xFFFF - 2
)

var exifPreamble = []byte("Exif\x00\x00")

var ErrExifTooLarge = errors.New("EXIF payload does not fit in an APP1 segment")

type JPEGWriter struct {
	bw *bufio.Writer
	cw *countingWriter
}

type countingWriter struct {
	w      io.Writer
	offset int64
}

func NewJPEGWriter(dst io.Writer) *JPEGWriter {
	cw := &countingWriter{
		w: dst,
	}
	return &JPEGWriter{
		cw: cw,
		bw: bufio.NewWriterSize(cw, 1024*1024),
	}
}

func (cw *countingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	if err == nil {
		cw.offset += int64(n)
	}
	return n, err
}

// Written returns the number of bytes flushed to the destination.
func (jw *JPEGWriter) Written() int64 {
	return jw.cw.offset
}

// WriteImage encodes img as baseline JPEG. When exifData is non-empty it
// is stored in an APP1 segment right after SOI; otherwise no metadata
// segment is written at all.
func (jw *JPEGWriter) WriteImage(img image.Image, exifData []byte) error {
	if len(exifPreamble)+len(exifData) > maxSegmentPayload {
		return ErrExifTooLarge
	}

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, img, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return fmt.Errorf("error encoding JPEG: %w", err)
	}
	data := encoded.Bytes()
	if len(data) < 2 || data[0] != markerPrefix || data[1] != markerSOI {
		return errors.New("encoder output does not start with SOI")
	}

	if _, err := jw.bw.Write(data[:2]); err != nil {
		return fmt.Errorf("error writing SOI: %w", err)
	}
	if len(exifData) > 0 {
		if err := jw.writeExifSegment(exifData); err != nil {
			return err
		}
	}
	if _, err := jw.bw.Write(data[2:]); err != nil {
		return fmt.Errorf("error writing JPEG body: %w", err)
	}
	if err := jw.bw.Flush(); err != nil {
		return fmt.Errorf("error flushing JPEG: %w", err)
	}
	return nil
}

func (jw *JPEGWriter) writeExifSegment(exifData []byte) error {
	var header [4]byte
	header[0] = markerPrefix
	header[1] = markerAPP1
	binary.BigEndian.PutUint16(header[2:], uint16(2+len(exifPreamble)+len(exifData)))

	if _, err := jw.bw.Write(header[:]); err != nil {
		return fmt.Errorf("error writing APP1 header: %w", err)
	}
	if _, err := jw.bw.Write(exifPreamble); err != nil {
		return fmt.Errorf("error writing EXIF preamble: %w", err)
	}
	if _, err := jw.bw.Write(exifData); err != nil {
		return fmt.Errorf("error writing EXIF payload: %w", err)
	}
	return nil
}

// WriteFile writes the JPEG to a temporary file next to path and renames
// it into place, so path either holds a complete image or is untouched.
func WriteFile(path string, img image.Image, exifData []byte) error {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	jw := NewJPEGWriter(f)
	if err := jw.WriteImage(img, exifData); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if jw.Written() == 0 {
		os.Remove(tmpPath)
		return fmt.Errorf("file is empty: %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
