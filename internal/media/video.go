package media

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// frameTargetSize is the resolution of the intermediate frame extracted from a
// video before the per-tier resize fan-out.
const frameTargetSize = "1280x720"

// frameTimestamp picks the point in the stream to sample the representative
// frame: 10% of the duration, capped at one second. The cap keeps long videos
// sampled near the start, the fraction guards against sampling past
// end-of-stream for very short clips. An unknown duration falls back to one
// second.
func frameTimestamp(duration float64) float64 {
	if duration <= 0 {
		return 1.0
	}
	return math.Min(1.0, duration*0.1)
}

// extractVideoFrame materializes the payload to a temporary file, probes its
// metadata via ffprobe and extracts a single representative frame via ffmpeg.
// The external decoders operate on file paths, not in-memory buffers, hence
// the temp file. Both temp files are removed on every exit path; the probe and
// extract calls are bounded by the configured timeout.
func (t *Thumbnailer) extractVideoFrame(ctx context.Context, cand Candidate) (image.Image, *Metadata, error) {
	token := uuid.NewString()
	videoPath := filepath.Join(os.TempDir(), fmt.Sprintf("video_%s%s", token, filepath.Ext(cand.Name)))
	framePath := filepath.Join(os.TempDir(), fmt.Sprintf("frame_%s.jpg", token))
	defer func() {
		os.Remove(videoPath)
		os.Remove(framePath)
	}()

	if err := os.WriteFile(videoPath, cand.Data, 0o600); err != nil {
		return nil, nil, &ThumbnailError{Stage: "decode", Err: fmt.Errorf("write temp video: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, t.ffmpegTimeout)
	defer cancel()

	meta, err := probeVideo(ctx, videoPath)
	if err != nil {
		return nil, nil, &ThumbnailError{Stage: "probe", Err: err}
	}

	ts := frameTimestamp(meta.Duration)
	if err := extractFrame(ctx, videoPath, framePath, ts); err != nil {
		return nil, nil, &ThumbnailError{Stage: "extract", Err: err}
	}

	frame, err := imaging.Open(framePath)
	if err != nil {
		return nil, nil, &ThumbnailError{Stage: "extract", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	return frame, meta, nil
}

// probeVideo reads duration, dimensions and container format via ffprobe.
func probeVideo(ctx context.Context, input string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration,format_name",
		"-of", "default=noprint_wrappers=1",
		input,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	return parseProbeOutput(string(output)), nil
}

// parseProbeOutput reads the flat key=value lines emitted by ffprobe with the
// noprint_wrappers output format. Unparseable lines are skipped.
func parseProbeOutput(output string) *Metadata {
	meta := &Metadata{}
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]

		switch key {
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				meta.Width = w
			}
		case "height":
			if h, err := strconv.Atoi(value); err == nil {
				meta.Height = h
			}
		case "duration":
			if d, err := strconv.ParseFloat(value, 64); err == nil {
				meta.Duration = d
			}
		case "format_name":
			meta.Format = value
		}
	}

	return meta
}

// extractFrame writes a single still frame at the given timestamp to output,
// scaled to the fixed intermediate resolution.
func extractFrame(ctx context.Context, input, output string, timestamp float64) error {
	args := []string{
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", input,
		"-frames:v", "1",
		"-s", frameTargetSize,
		"-pix_fmt", "yuvj420p",
		"-q:v", "2",
		"-y",
		output,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(out))
	}
	return nil
}
