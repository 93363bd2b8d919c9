package media

import (
	"sort"
	"strings"
)

// Kind classifies an upload by its declared media type.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// Image media types accepted for upload.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/jpg":     {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/bmp":     {},
	"image/svg+xml": {},
}

// Video media types accepted for upload.
var allowedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/mpeg":      {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/x-ms-wmv":  {},
	"video/webm":      {},
	"video/ogg":       {},
}

// Classify maps a declared media type to its kind. Types outside the
// allow-lists classify as KindOther.
func Classify(mediaType string) Kind {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if _, ok := allowedImageTypes[mediaType]; ok {
		return KindImage
	}
	if _, ok := allowedVideoTypes[mediaType]; ok {
		return KindVideo
	}
	return KindOther
}

// IsAllowed reports whether the declared media type may be uploaded at all.
func IsAllowed(mediaType string) bool {
	return Classify(mediaType) != KindOther
}

// AllowedTypes returns the upload allow-lists, sorted for stable output.
func AllowedTypes() (images, videos []string) {
	for t := range allowedImageTypes {
		images = append(images, t)
	}
	for t := range allowedVideoTypes {
		videos = append(videos, t)
	}
	sort.Strings(images)
	sort.Strings(videos)
	return images, videos
}

// ValidateBatch checks every candidate against the upload allow-lists. It is
// all-or-nothing: if any candidate is disallowed it returns an
// InvalidMediaTypeError listing every offender, and the caller must not upload
// anything from the batch.
func ValidateBatch(candidates []Candidate) error {
	var rejected []RejectedFile
	for _, c := range candidates {
		if !IsAllowed(c.MediaType) {
			rejected = append(rejected, RejectedFile{Name: c.Name, MediaType: c.MediaType})
		}
	}
	if len(rejected) > 0 {
		return &InvalidMediaTypeError{Rejected: rejected}
	}
	return nil
}
