package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp decoding

	"github.com/OpenHomes/homestead/internal/storage"
)

// Tier is one of the three fixed thumbnail size configurations.
type Tier struct {
	Name    string
	Suffix  string
	Width   int
	Height  int
	Quality int
}

// The three tiers are fixed system constants, not user-configurable.
var thumbnailTiers = []Tier{
	{Name: "small", Suffix: "_thumb_sm", Width: 150, Height: 150, Quality: 80},
	{Name: "medium", Suffix: "_thumb_md", Width: 300, Height: 300, Quality: 85},
	{Name: "large", Suffix: "_thumb_lg", Width: 600, Height: 600, Quality: 90},
}

// Thumbnail-capable subsets. Narrower than the upload allow-lists: svg and gif
// images, wmv and ogg videos can be uploaded but not thumbnailed.
var thumbnailImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
	"image/bmp":  {},
}

var thumbnailVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/mpeg":      {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/webm":      {},
}

// SupportsThumbnails reports whether thumbnail derivation is available for the
// declared media type. An unsupported type is not an error, the upload simply
// proceeds without thumbnails.
func SupportsThumbnails(mediaType string) bool {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if _, ok := thumbnailImageTypes[mediaType]; ok {
		return true
	}
	_, ok := thumbnailVideoTypes[mediaType]
	return ok
}

// Thumbnailer derives fixed-size JPEG thumbnails from image and video uploads
// and writes them to the object store.
type Thumbnailer struct {
	driver        storage.StorageDriver
	ffmpegTimeout time.Duration
}

func NewThumbnailer(driver storage.StorageDriver, ffmpegTimeout time.Duration) *Thumbnailer {
	return &Thumbnailer{driver: driver, ffmpegTimeout: ffmpegTimeout}
}

// Generate decodes the candidate (in-memory for images, through a temporary
// file and ffmpeg frame extraction for videos), resizes the source into the
// three tiers and uploads each derivative. storedKey is the key of the
// already-uploaded original; derivative keys are placed in a thumbnails/
// subfolder next to it. Any tier failure aborts the remaining tiers.
func (t *Thumbnailer) Generate(ctx context.Context, cand Candidate, folder, storedKey string) (*ThumbnailSet, *Metadata, error) {
	mediaType := strings.ToLower(strings.TrimSpace(cand.MediaType))

	var (
		src  image.Image
		meta *Metadata
		err  error
	)
	if _, ok := thumbnailImageTypes[mediaType]; ok {
		src, meta, err = decodeImage(cand.Data)
	} else if _, ok := thumbnailVideoTypes[mediaType]; ok {
		src, meta, err = t.extractVideoFrame(ctx, cand)
	} else {
		return nil, nil, &ThumbnailError{Stage: "decode", Err: fmt.Errorf("unsupported media type %q", cand.MediaType)}
	}
	if err != nil {
		return nil, nil, err
	}

	set, err := t.uploadTiers(ctx, src, folder, storedKey)
	if err != nil {
		return nil, nil, err
	}
	return set, meta, nil
}

// decodeImage decodes an image payload in memory and reads its intrinsic
// dimensions and format.
func decodeImage(data []byte) (image.Image, *Metadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ThumbnailError{Stage: "decode", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, &ThumbnailError{Stage: "decode", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	return src, &Metadata{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// uploadTiers resizes src into each tier with a centered cover-fit crop,
// re-encodes as JPEG at the tier's quality and uploads the derivative.
func (t *Thumbnailer) uploadTiers(ctx context.Context, src image.Image, folder, storedKey string) (*ThumbnailSet, error) {
	set := &ThumbnailSet{}
	for _, tier := range thumbnailTiers {
		thumb := imaging.Fill(src, tier.Width, tier.Height, imaging.Center, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(tier.Quality)); err != nil {
			return nil, &ThumbnailError{Stage: tier.Name, Err: err}
		}

		key := thumbnailKey(folder, storedKey, tier)
		if err := t.driver.Save(ctx, key, &buf, "image/jpeg"); err != nil {
			return nil, &ThumbnailError{Stage: tier.Name, Err: err}
		}

		url := t.driver.URL(key)
		switch tier.Name {
		case "small":
			set.Small = url
		case "medium":
			set.Medium = url
		case "large":
			set.Large = url
		}
	}
	return set, nil
}

// thumbnailKey builds "<folder>/thumbnails/<base(storedKey)><suffix>.jpg".
func thumbnailKey(folder, storedKey string, tier Tier) string {
	base := path.Base(storedKey)
	base = strings.TrimSuffix(base, path.Ext(base))
	return fmt.Sprintf("%s/thumbnails/%s%s.jpg", folder, base, tier.Suffix)
}
