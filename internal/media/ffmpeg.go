package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/logx"
)

// FFmpeg wraps the external ffmpeg/ffprobe binaries.
type FFmpeg struct {
	cfg config.Config
}

func NewFFmpeg(cfg config.Config) *FFmpeg {
	return &FFmpeg{cfg: cfg}
}

// Ensure probes for ffmpeg and attempts a best-effort apt install when the
// probe fails.
func (f *FFmpeg) Ensure(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "ffmpeg", "-version").Run(); err == nil {
		return nil
	}
	lg := logx.FromCtx(ctx)
	lg.Info().Msg("ffmpeg missing, attempting install")
	install := exec.CommandContext(ctx, "sh", "-c", "apt-get update && apt-get install -y ffmpeg")
	if err := install.Run(); err != nil {
		return fmt.Errorf("install ffmpeg: %w", err)
	}
	if err := exec.CommandContext(ctx, "ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg still unavailable: %w", err)
	}
	return nil
}

// ProbeDuration returns a media file's duration in seconds via ffprobe.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	return d, nil
}

// ConcatAudio merges the given audio files in order via the concat demuxer.
// The manifest is removed before returning; the combined file belongs to
// the caller.
func (f *FFmpeg) ConcatAudio(ctx context.Context, paths []string, outPath string) error {
	manifest, err := writeManifest(audioManifest(paths))
	if err != nil {
		return err
	}
	defer os.Remove(manifest)

	return f.run(ctx, "concat-audio",
		"-y", "-f", "concat", "-safe", "0", "-i", manifest,
		"-c", "copy", outPath,
	)
}

// EncodeStill muxes one still image with an audio track, truncated to the
// given duration.
func (f *FFmpeg) EncodeStill(ctx context.Context, imagePath, audioPath string, duration float64, outPath string) error {
	return f.run(ctx, "encode-still",
		"-y",
		"-loop", "1", "-i", imagePath,
		"-i", audioPath,
		"-vf", f.videoFilter(),
		"-r", strconv.Itoa(f.cfg.VideoFPS),
		"-c:v", "libx264", "-tune", "stillimage",
		"-c:a", "aac",
		"-threads", strconv.Itoa(f.cfg.EncodeThreads),
		"-t", formatSeconds(duration),
		outPath,
	)
}

// EncodeSequence muxes a timed image sequence with an audio track. Images
// and segments correspond by index; total caps the output duration.
func (f *FFmpeg) EncodeSequence(ctx context.Context, images []string, segs []Segment, audioPath string, total float64, outPath string) error {
	manifest, err := writeManifest(imageManifest(images, segs))
	if err != nil {
		return err
	}
	defer os.Remove(manifest)

	return f.run(ctx, "encode-sequence",
		"-y",
		"-f", "concat", "-safe", "0", "-i", manifest,
		"-i", audioPath,
		"-vf", f.videoFilter(),
		"-r", strconv.Itoa(f.cfg.VideoFPS),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-threads", strconv.Itoa(f.cfg.EncodeThreads),
		"-t", formatSeconds(total),
		outPath,
	)
}

func (f *FFmpeg) videoFilter() string {
	return fmt.Sprintf("scale=%d:%d,format=yuv420p", f.cfg.VideoWidth, f.cfg.VideoHeight)
}

func (f *FFmpeg) run(ctx context.Context, op string, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logx.NewLineWriter(map[string]string{"tool": "ffmpeg", "op": op}, zerolog.ErrorLevel).Pipe(&stderr)
		return fmt.Errorf("ffmpeg %s: %w", op, err)
	}
	logx.NewLineWriter(map[string]string{"tool": "ffmpeg", "op": op}, zerolog.DebugLevel).Pipe(&stderr)
	return nil
}

// audioManifest renders concat-demuxer lines for plain file concatenation.
func audioManifest(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "file '%s'\n", escapeManifestPath(p))
	}
	return b.String()
}

// imageManifest renders concat-demuxer lines holding each image for its
// segment duration. The final image is repeated without a duration, as the
// demuxer requires.
func imageManifest(images []string, segs []Segment) string {
	var b strings.Builder
	n := len(segs)
	if len(images) < n {
		n = len(images)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "file '%s'\n", escapeManifestPath(images[i]))
		fmt.Fprintf(&b, "duration %s\n", formatSeconds(segs[i].Duration))
	}
	if n > 0 {
		fmt.Fprintf(&b, "file '%s'\n", escapeManifestPath(images[n-1]))
	}
	return b.String()
}

func escapeManifestPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}

func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64)
}

func writeManifest(contents string) (string, error) {
	f, err := os.CreateTemp("", "reel-manifest-*.txt")
	if err != nil {
		return "", fmt.Errorf("create manifest: %w", err)
	}
	if _, err := f.WriteString(contents); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
