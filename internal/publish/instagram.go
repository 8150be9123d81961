// Package publish uploads finished reels to Instagram and reports run
// outcomes over Telegram.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Davincible/goinsta/v3"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/logx"
)

// InstagramPublisher uploads videos using a persisted per-account session.
type InstagramPublisher struct {
	cfg config.Config
}

func NewInstagramPublisher(cfg config.Config) *InstagramPublisher {
	return &InstagramPublisher{cfg: cfg}
}

// Publish uploads the video with the given caption. The session file is
// reused when present; otherwise a fresh login is performed and exported.
func (p *InstagramPublisher) Publish(ctx context.Context, videoPath, caption string) error {
	if p.cfg.IGUsername == "" || p.cfg.IGPassword == "" {
		return fmt.Errorf("IG_USERNAME and IG_PASSWORD must be set")
	}
	log := logx.FromCtx(ctx)

	sessionPath := filepath.Join(p.cfg.DataDir, sessionFileName(p.cfg.IGUsername))
	var insta *goinsta.Instagram
	if _, err := os.Stat(sessionPath); err == nil {
		insta, err = goinsta.Import(sessionPath)
		if err != nil {
			log.Warn().Err(err).Msg("stale session, logging in again")
			insta = nil
		}
	}
	if insta == nil {
		insta = goinsta.New(p.cfg.IGUsername, p.cfg.IGPassword)
		if err := insta.Login(); err != nil {
			return fmt.Errorf("instagram login: %w", err)
		}
		if err := insta.Export(sessionPath); err != nil {
			log.Warn().Err(err).Msg("session export failed")
		}
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	if _, err := insta.Upload(&goinsta.UploadOptions{
		File:    f,
		Caption: caption,
	}); err != nil {
		return fmt.Errorf("instagram upload: %w", err)
	}
	log.Info().Str("video", filepath.Base(videoPath)).Msg("uploaded to instagram")
	return nil
}

// sessionFileName derives the session filename from the account username,
// reduced to a conservative character set so an env-provided value cannot
// escape the data dir.
func sessionFileName(username string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, username)
	safe = strings.Trim(safe, ".")
	if safe == "" {
		safe = "account"
	}
	return safe + "_uuid_and_cookie.json"
}
