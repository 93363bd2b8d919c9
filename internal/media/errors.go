package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoreWrite indicates the object store rejected an upload.
var ErrStoreWrite = errors.New("object store write failed")

// ErrDecode indicates a payload could not be decoded during thumbnail derivation.
var ErrDecode = errors.New("media decode failed")

// RejectedFile identifies a candidate that failed media-type validation.
type RejectedFile struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
}

// InvalidMediaTypeError is returned when one or more candidates in a request
// carry a disallowed media type. It lists every offending candidate so the
// caller can report all of them at once.
type InvalidMediaTypeError struct {
	Rejected []RejectedFile
}

func (e *InvalidMediaTypeError) Error() string {
	parts := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		parts = append(parts, fmt.Sprintf("%s (%s)", r.Name, r.MediaType))
	}
	return "invalid media type: " + strings.Join(parts, ", ")
}

// ThumbnailError is returned when thumbnail derivation fails for a candidate.
// Callers treat it as "no thumbnails"; the original upload is never rolled back.
type ThumbnailError struct {
	Stage string // "decode", "probe", "extract" or a tier name
	Err   error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail generation failed at %s: %v", e.Stage, e.Err)
}

func (e *ThumbnailError) Unwrap() error {
	return e.Err
}
