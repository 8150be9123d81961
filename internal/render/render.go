// Package render turns a fetched content unit into still images and
// narration audio, one pair per item. All outputs are temp files; the
// caller owns their deletion.
package render

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/content"
)

// Asset pairs the image and audio produced for one content item.
type Asset struct {
	ImagePath string
	AudioPath string
}

// Paths returns every file backing the asset.
func (a Asset) Paths() []string {
	var out []string
	if a.ImagePath != "" {
		out = append(out, a.ImagePath)
	}
	if a.AudioPath != "" {
		out = append(out, a.AudioPath)
	}
	return out
}

// Cleanup removes every file behind the given assets, ignoring misses.
func Cleanup(assets []Asset) {
	for _, a := range assets {
		for _, p := range a.Paths() {
			if _, err := os.Stat(p); err == nil {
				os.Remove(p)
			}
		}
	}
}

// Renderer produces assets for content units.
type Renderer struct {
	cfg    config.Config
	images *ImageRenderer
	audio  *AudioRenderer
}

func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{
		cfg:    cfg,
		images: NewImageRenderer(cfg),
		audio:  NewAudioRenderer(cfg),
	}
}

// RenderUnit renders an image and a narration track for every item. On any
// failure the files rendered so far are removed before returning.
func (r *Renderer) RenderUnit(ctx context.Context, unit *content.Unit) ([]Asset, error) {
	assets := make([]Asset, 0, len(unit.Items))
	fail := func(err error) ([]Asset, error) {
		Cleanup(assets)
		return nil, err
	}

	for i, item := range unit.Items {
		img, err := r.images.Render(item, i, len(unit.Items))
		if err != nil {
			return fail(fmt.Errorf("render image %d: %w", i, err))
		}
		assets = append(assets, Asset{ImagePath: img})

		var audio string
		switch unit.Kind {
		case content.KindQuran:
			audio, err = r.audio.FetchRecitation(ctx, item.GlobalAyah)
		default:
			audio, err = r.audio.Synthesize(ctx, item.Translation)
		}
		if err != nil {
			return fail(fmt.Errorf("render audio %d: %w", i, err))
		}
		assets[i].AudioPath = audio
	}
	return assets, nil
}

var tempEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// tempPath returns a unique path in the system temp dir.
func tempPath(suffix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), tempEntropy)
	return filepath.Join(os.TempDir(), "reel-"+id.String()+suffix)
}
