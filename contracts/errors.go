package contracts

import (
	"errors"
	"fmt"
)

var (
	ErrDecode            = errors.New("decode failed")
	ErrImageConstruction = errors.New("image construction failed")
	ErrMetadataDecode    = errors.New("metadata decode failed")
	ErrEncode            = errors.New("encode failed")
	ErrTimestamp         = errors.New("timestamp propagation failed")
	ErrDeletion          = errors.New("source deletion failed")
	ErrCanceled          = errors.New("conversion canceled")
	ErrPanic             = errors.New("conversion panicked")
	ErrOutputConflict    = errors.New("output path already claimed by another source")
)

// ConversionError records which step of a single-file conversion failed.
type ConversionError struct {
	Path string
	Kind error
	Err  error
}

func NewConversionError(path string, kind error, err error) *ConversionError {
	return &ConversionError{Path: path, Kind: kind, Err: err}
}

func (e *ConversionError) Error() string {
	return e.Path + ": " + e.Reason()
}

// Reason describes the failure without the file path.
func (e *ConversionError) Reason() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	if errors.Is(e.Err, e.Kind) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
