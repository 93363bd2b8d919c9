package media

// Candidate is an inbound file payload awaiting validation and upload.
type Candidate struct {
	Name      string
	MediaType string
	Data      []byte
}

// ThumbnailSet holds the public URLs of the three derived thumbnail sizes.
type ThumbnailSet struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Metadata describes the decoded source media.
type Metadata struct {
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Format   string  `json:"format,omitempty"`
}

// UploadResult is produced once per candidate and is immutable after
// construction. Thumbnails and Metadata are only set when derivation was
// requested and succeeded; ThumbnailWarning records why they are absent when
// derivation was attempted and failed.
type UploadResult struct {
	URL              string        `json:"url"`
	Kind             Kind          `json:"type"`
	Thumbnails       *ThumbnailSet `json:"thumbnails,omitempty"`
	Metadata         *Metadata     `json:"metadata,omitempty"`
	ThumbnailWarning string        `json:"thumbnailWarning,omitempty"`
}

// BatchItem pairs a candidate's name with its outcome. Under the
// all-or-nothing policy Error is always empty; under the per-item policy a
// failed candidate carries its error while siblings keep their results.
type BatchItem struct {
	Name   string        `json:"name"`
	Result *UploadResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// BatchSummary aggregates a batch upload's outcome.
type BatchSummary struct {
	Images         int `json:"images"`
	Videos         int `json:"videos"`
	Other          int `json:"other"`
	WithThumbnails int `json:"withThumbnails"`
	Failed         int `json:"failed,omitempty"`
}
