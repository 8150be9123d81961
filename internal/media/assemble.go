package media

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/logx"
	"github.com/you/deenreels/internal/render"
)

// Encoder is the subset of FFmpeg the assembler drives.
type Encoder interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ConcatAudio(ctx context.Context, paths []string, outPath string) error
	EncodeStill(ctx context.Context, imagePath, audioPath string, duration float64, outPath string) error
	EncodeSequence(ctx context.Context, images []string, segs []Segment, audioPath string, total float64, outPath string) error
}

// Assembler combines rendered assets into one bounded-duration video.
// Every intermediate file (per-item images and audio, manifests, the
// combined track) is removed before Assemble returns, success or failure.
type Assembler struct {
	cfg config.Config
	ff  Encoder
}

func NewAssembler(cfg config.Config, ff Encoder) *Assembler {
	return &Assembler{cfg: cfg, ff: ff}
}

// Assemble muxes the assets into a video in the data dir and returns its
// path. The assets are consumed: their files are deleted on all paths.
func (a *Assembler) Assemble(ctx context.Context, assets []render.Asset) (string, error) {
	defer render.Cleanup(assets)

	if len(assets) == 0 {
		return "", fmt.Errorf("no assets to assemble")
	}

	outPath := filepath.Join(a.cfg.DataDir, "reel-"+newULID()+".mp4")
	if len(assets) == 1 {
		if err := a.assembleSingle(ctx, assets[0], outPath); err != nil {
			return "", err
		}
	} else {
		if err := a.assembleSequence(ctx, assets, outPath); err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return outPath, nil
}

func (a *Assembler) assembleSingle(ctx context.Context, asset render.Asset, outPath string) error {
	dur, err := a.ff.ProbeDuration(ctx, asset.AudioPath)
	if err != nil {
		return err
	}
	if dur > a.cfg.MaxDuration {
		dur = a.cfg.MaxDuration
	}
	return a.ff.EncodeStill(ctx, asset.ImagePath, asset.AudioPath, dur, outPath)
}

func (a *Assembler) assembleSequence(ctx context.Context, assets []render.Asset, outPath string) error {
	audio := make([]string, len(assets))
	images := make([]string, len(assets))
	durations := make([]float64, len(assets))
	for i, asset := range assets {
		audio[i] = asset.AudioPath
		images[i] = asset.ImagePath
		d, err := a.ff.ProbeDuration(ctx, asset.AudioPath)
		if err != nil {
			return err
		}
		durations[i] = d
	}

	combined := filepath.Join(os.TempDir(), "reel-"+newULID()+"-combined.mp3")
	if err := a.ff.ConcatAudio(ctx, audio, combined); err != nil {
		return fmt.Errorf("combine narration: %w", err)
	}
	defer os.Remove(combined)

	total, err := a.ff.ProbeDuration(ctx, combined)
	if err != nil {
		return err
	}
	if total > a.cfg.MaxDuration {
		total = a.cfg.MaxDuration
	}

	segs := PlanSegments(durations, total)
	if len(segs) == 0 {
		return fmt.Errorf("empty segment plan for %d assets", len(assets))
	}
	lg := logx.FromCtx(ctx)
	lg.Debug().Int("segments", len(segs)).Float64("total", total).Msg("sequence planned")

	return a.ff.EncodeSequence(ctx, images, segs, combined, total, outPath)
}

var outputEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func newULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), outputEntropy).String()
}
