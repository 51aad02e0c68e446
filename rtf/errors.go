package rtf

import (
	"errors"
	"fmt"

	"rtfgen/element"
)

var (
	ErrClosed           = errors.New("document is closed")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrUnbalanced       = errors.New("unbalanced groups in output")
)

// ContentError describes element which could not be placed into document.
// The element is skipped, its siblings are processed normally.
type ContentError struct {
	Kind   element.Kind
	Path   string
	Reason string
	Err    error
}

func (e *ContentError) Error() string {
	msg := fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
