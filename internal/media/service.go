package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OpenHomes/homestead/internal/config"
	"github.com/OpenHomes/homestead/internal/storage"
)

// BatchPolicy controls how a batch upload joins its candidates' results.
type BatchPolicy string

const (
	// BatchAllOrNothing rejects the whole batch when any candidate's original
	// upload fails after validation passed.
	BatchAllOrNothing BatchPolicy = "all_or_nothing"

	// BatchPerItem returns individual success/failure entries so sibling
	// successes survive one candidate's failure.
	BatchPerItem BatchPolicy = "per_item"
)

// Service orchestrates media uploads: validation, key derivation, original
// upload, optional thumbnail derivation and result assembly. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	driver storage.StorageDriver
	thumbs *Thumbnailer
	policy BatchPolicy
	now    func() time.Time
}

func NewService(driver storage.StorageDriver, cfg config.MediaConfig) *Service {
	policy := BatchPolicy(cfg.BatchPolicy)
	if policy != BatchPerItem {
		policy = BatchAllOrNothing
	}
	return &Service{
		driver: driver,
		thumbs: NewThumbnailer(driver, time.Duration(cfg.FFmpegTimeoutSeconds)*time.Second),
		policy: policy,
		now:    time.Now,
	}
}

// UploadSingle validates the candidate, uploads the original payload and
// returns its public URL. No thumbnails are derived.
func (s *Service) UploadSingle(ctx context.Context, cand Candidate, folder string) (string, error) {
	if err := ValidateBatch([]Candidate{cand}); err != nil {
		return "", err
	}

	key, err := s.saveOriginal(ctx, cand, folder)
	if err != nil {
		return "", err
	}
	return s.driver.URL(key), nil
}

// UploadSingleWithThumbnails uploads the original and, when the media type
// supports it, derives and uploads the three thumbnail tiers. Derivation
// failures never fail the call: the original upload is preserved and the
// result carries a warning instead of thumbnails.
func (s *Service) UploadSingleWithThumbnails(ctx context.Context, cand Candidate, folder string) (*UploadResult, error) {
	if err := ValidateBatch([]Candidate{cand}); err != nil {
		return nil, err
	}

	key, err := s.saveOriginal(ctx, cand, folder)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		URL:  s.driver.URL(key),
		Kind: Classify(cand.MediaType),
	}

	if !SupportsThumbnails(cand.MediaType) {
		return result, nil
	}

	set, meta, err := s.thumbs.Generate(ctx, cand, folder, key)
	if err != nil {
		slog.WarnContext(ctx, "thumbnail generation failed", "name", cand.Name, "key", key, "error", err)
		result.ThumbnailWarning = thumbnailWarning(err)
		return result, nil
	}

	result.Thumbnails = set
	result.Metadata = meta
	return result, nil
}

// UploadMultiple validates every candidate up front (all-or-nothing: one
// disallowed type rejects the batch before any upload), then uploads all
// originals concurrently. The returned URLs preserve input order.
func (s *Service) UploadMultiple(ctx context.Context, cands []Candidate, folder string) ([]string, error) {
	if err := ValidateBatch(cands); err != nil {
		return nil, err
	}

	urls := make([]string, len(cands))
	g, ctx := errgroup.WithContext(ctx)
	for i, cand := range cands {
		i, cand := i, cand
		g.Go(func() error {
			key, err := s.saveOriginal(ctx, cand, folder)
			if err != nil {
				return err
			}
			urls[i] = s.driver.URL(key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// UploadMultipleWithThumbnails runs the single-file-with-thumbnails path
// concurrently across all candidates after batch validation. The join policy
// decides whether one candidate's original-upload failure rejects the whole
// batch (default, mirrors UploadMultiple) or only that item. Thumbnail
// failures never fail an item either way. Results preserve input order.
func (s *Service) UploadMultipleWithThumbnails(ctx context.Context, cands []Candidate, folder string) ([]BatchItem, BatchSummary, error) {
	if err := ValidateBatch(cands); err != nil {
		return nil, BatchSummary{}, err
	}

	items := make([]BatchItem, len(cands))
	for i, cand := range cands {
		items[i].Name = cand.Name
	}

	if s.policy == BatchAllOrNothing {
		g, ctx := errgroup.WithContext(ctx)
		for i, cand := range cands {
			i, cand := i, cand
			g.Go(func() error {
				res, err := s.UploadSingleWithThumbnails(ctx, cand, folder)
				if err != nil {
					return fmt.Errorf("%s: %w", cand.Name, err)
				}
				items[i].Result = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, BatchSummary{}, err
		}
		return items, summarize(items), nil
	}

	var wg sync.WaitGroup
	for i, cand := range cands {
		i, cand := i, cand
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.UploadSingleWithThumbnails(ctx, cand, folder)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Result = res
		}()
	}
	wg.Wait()
	return items, summarize(items), nil
}

// Delete removes an object from storage. Deletion is best-effort: failures
// are logged and reported as false rather than returned as errors.
func (s *Service) Delete(ctx context.Context, path string) bool {
	if err := s.driver.Delete(ctx, path); err != nil {
		slog.WarnContext(ctx, "failed to delete object", "path", path, "error", err)
		return false
	}
	return true
}

// FileURL composes the public URL for a stored object path.
func (s *Service) FileURL(path string) string {
	return s.driver.URL(path)
}

// Download streams a stored object back along with its content type.
func (s *Service) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	return s.driver.Get(ctx, path)
}

func (s *Service) saveOriginal(ctx context.Context, cand Candidate, folder string) (string, error) {
	key := StorageKey(folder, cand.Name, s.now())
	if err := s.driver.Save(ctx, key, bytes.NewReader(cand.Data), cand.MediaType); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStoreWrite, cand.Name, err)
	}
	slog.InfoContext(ctx, "file uploaded", "name", cand.Name, "key", key, "size", len(cand.Data))
	return key, nil
}

func summarize(items []BatchItem) BatchSummary {
	var sum BatchSummary
	for _, item := range items {
		if item.Result == nil {
			sum.Failed++
			continue
		}
		switch item.Result.Kind {
		case KindImage:
			sum.Images++
		case KindVideo:
			sum.Videos++
		default:
			sum.Other++
		}
		if item.Result.Thumbnails != nil {
			sum.WithThumbnails++
		}
	}
	return sum
}

// thumbnailWarning reduces a derivation error to a short diagnostic suitable
// for the response envelope; the full error is logged.
func thumbnailWarning(err error) string {
	var te *ThumbnailError
	if errors.As(err, &te) {
		return fmt.Sprintf("thumbnail generation failed at %s", te.Stage)
	}
	return "thumbnail generation failed"
}
