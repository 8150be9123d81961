// Command reelsd is the scheduled publishing daemon: an asynq worker
// consuming reel:publish tasks plus a cron scheduler that enqueues one per
// provider per day.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/content"
	"github.com/you/deenreels/internal/jobs"
	"github.com/you/deenreels/internal/logx"
	"github.com/you/deenreels/internal/media"
	"github.com/you/deenreels/internal/pipeline"
	"github.com/you/deenreels/internal/publish"
	"github.com/you/deenreels/internal/render"
)

func main() {
	_ = godotenv.Load()
	logx.Setup(logx.FromEnv("reelsd"))

	cfg := config.Load()
	if cfg.IGUsername == "" || cfg.IGPassword == "" {
		log.Fatal().Msg("IG_USERNAME and IG_PASSWORD are required")
	}

	notifier, err := publish.NewNotifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("notifier setup")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ff := media.NewFFmpeg(cfg)
	pl := pipeline.New(cfg, ff,
		render.NewRenderer(cfg),
		media.NewAssembler(cfg, ff),
		publish.NewInstagramPublisher(cfg),
		notifier,
		rdb,
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TaskPublishReel, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.PublishReelPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		return handlePublishReel(ctx, cfg, pl, p)
	})

	scheduler, err := newScheduler(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler setup")
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()

	log.Info().Msg("reelsd starting")
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: cfg.Concurrency,
	})
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}

func handlePublishReel(ctx context.Context, cfg config.Config, pl *pipeline.Pipeline, p jobs.PublishReelPayload) error {
	if p.RunID != "" {
		ctx = logx.WithRun(ctx, p.RunID, p.Provider)
	}

	ok, err := pl.UnderDailyCap(ctx)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().Str("provider", p.Provider).Msg("daily publish cap reached, skipping")
		return nil
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	provider, err := content.NewProvider(p.Provider, cfg, rnd)
	if err != nil {
		return err
	}
	return pl.Run(ctx, provider)
}

// newScheduler registers the daily cron entries. Registration errors are
// returned so main can exit cleanly instead of killing the process from a
// goroutine.
func newScheduler(cfg config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, nil)

	entries := []struct {
		cron     string
		provider content.Kind
	}{
		{cfg.CronHadith, content.KindHadith},
		{cfg.CronQuran, content.KindQuran},
	}
	for _, e := range entries {
		b, _ := json.Marshal(jobs.PublishReelPayload{Provider: string(e.provider)})
		if _, err := scheduler.Register(e.cron, asynq.NewTask(jobs.TaskPublishReel, b), asynq.MaxRetry(0)); err != nil {
			return nil, fmt.Errorf("register %q: %w", e.cron, err)
		}
		log.Info().Str("cron", e.cron).Str("provider", string(e.provider)).Msg("scheduled")
	}
	return scheduler, nil
}
