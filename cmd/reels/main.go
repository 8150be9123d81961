// Command reels performs one publishing run: fetch a content unit, render
// it, assemble the video and upload it.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/content"
	"github.com/you/deenreels/internal/logx"
	"github.com/you/deenreels/internal/media"
	"github.com/you/deenreels/internal/pipeline"
	"github.com/you/deenreels/internal/publish"
	"github.com/you/deenreels/internal/render"
)

func main() {
	_ = godotenv.Load()
	logx.Setup(logx.FromEnv("reels"))

	providerName := flag.String("provider", "hadith", "content provider: hadith or quran")
	flag.Parse()

	cfg := config.Load()
	if cfg.IGUsername == "" || cfg.IGPassword == "" {
		log.Fatal().Msg("IG_USERNAME and IG_PASSWORD are required")
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	provider, err := content.NewProvider(*providerName, cfg, rnd)
	if err != nil {
		log.Fatal().Err(err).Msg("bad provider")
	}

	notifier, err := publish.NewNotifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("notifier setup")
	}

	ff := media.NewFFmpeg(cfg)
	pl := pipeline.New(cfg, ff,
		render.NewRenderer(cfg),
		media.NewAssembler(cfg, ff),
		publish.NewInstagramPublisher(cfg),
		notifier,
		nil, // no dedup store in one-shot mode
	)

	if err := pl.Run(context.Background(), provider); err != nil {
		os.Exit(1)
	}
}
