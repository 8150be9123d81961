// Package pipeline sequences one publishing run: fetch content, render
// assets, assemble the video, publish it, clean up.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/content"
	"github.com/you/deenreels/internal/logx"
	"github.com/you/deenreels/internal/publish"
	"github.com/you/deenreels/internal/render"
)

// Renderer produces the per-item image/audio assets for a unit.
type Renderer interface {
	RenderUnit(ctx context.Context, unit *content.Unit) ([]render.Asset, error)
}

// Assembler muxes assets into a video file, consuming them.
type Assembler interface {
	Assemble(ctx context.Context, assets []render.Asset) (string, error)
}

// Publisher uploads the finished video.
type Publisher interface {
	Publish(ctx context.Context, videoPath, caption string) error
}

// Preflight verifies the external encoding tool before a run.
type Preflight interface {
	Ensure(ctx context.Context) error
}

// Pipeline runs the five-stage sequence. No retry spans stages; only the
// content fetch retries internally.
type Pipeline struct {
	cfg       config.Config
	preflight Preflight
	renderer  Renderer
	assembler Assembler
	publisher Publisher
	notifier  *publish.Notifier
	rdb       *redis.Client // optional: posted-content dedup and daily cap
}

func New(cfg config.Config, preflight Preflight, r Renderer, a Assembler, p Publisher, n *publish.Notifier, rdb *redis.Client) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		preflight: preflight,
		renderer:  r,
		assembler: a,
		publisher: p,
		notifier:  n,
		rdb:       rdb,
	}
}

var runEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// Run executes one publishing run for the given provider. A run ID already
// on the context (set by the enqueuer) is kept; otherwise one is minted.
// The final video is deleted unconditionally before returning.
func (pl *Pipeline) Run(ctx context.Context, provider content.Provider) error {
	runID, _ := ctx.Value(logx.CtxKeyRunID).(string)
	if runID == "" {
		runID = ulid.MustNew(ulid.Timestamp(time.Now()), runEntropy).String()
	}
	ctx = logx.WithRun(ctx, runID, provider.Name())
	log := logx.FromCtx(ctx)

	if pl.preflight != nil {
		if err := pl.preflight.Ensure(ctx); err != nil {
			log.Error().Err(err).Msg("encoder unavailable")
			return err
		}
	}

	unit, err := pl.fetchFresh(ctx, provider)
	if err != nil {
		log.Error().Err(err).Msg("no content obtained")
		pl.notifier.Notify(fmt.Sprintf("reel run failed (%s): %v", provider.Name(), err))
		return err
	}
	log.Info().Str("source", unit.Source).Int("items", len(unit.Items)).Msg("content fetched")

	assets, err := pl.renderer.RenderUnit(ctx, unit)
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		pl.notifier.Notify(fmt.Sprintf("reel run failed (%s): %v", unit.Source, err))
		return err
	}

	videoPath, err := pl.assembler.Assemble(ctx, assets)
	if err != nil {
		log.Error().Err(err).Msg("video assembly failed")
		pl.notifier.Notify(fmt.Sprintf("reel run failed (%s): %v", unit.Source, err))
		return err
	}
	defer func() {
		if _, statErr := os.Stat(videoPath); statErr == nil {
			os.Remove(videoPath)
		}
	}()
	log.Info().Str("video", videoPath).Msg("video assembled")

	if err := pl.publisher.Publish(ctx, videoPath, unit.Caption); err != nil {
		log.Error().Err(err).Msg("publish failed")
		pl.notifier.Notify(fmt.Sprintf("publish failed (%s): %v", unit.Source, err))
		return err
	}

	pl.markPosted(ctx, unit.Source)
	log.Info().Str("source", unit.Source).Msg("published")
	pl.notifier.Notify(fmt.Sprintf("published: %s", unit.Source))
	return nil
}

// fetchFresh fetches a unit, refetching once when the dedup store says the
// same source was already published.
func (pl *Pipeline) fetchFresh(ctx context.Context, provider content.Provider) (*content.Unit, error) {
	unit, err := provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !pl.alreadyPosted(ctx, unit.Source) {
		return unit, nil
	}
	lg := logx.FromCtx(ctx)
	lg.Info().Str("source", unit.Source).Msg("already published, refetching")
	unit, err = provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if pl.alreadyPosted(ctx, unit.Source) {
		return nil, fmt.Errorf("content %q already published", unit.Source)
	}
	return unit, nil
}
