package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/you/deenreels/internal/config"
)

// AudioRenderer obtains narration audio: synthesized speech for hadith
// translations, pre-recorded recitation for Quran verses.
type AudioRenderer struct {
	cfg  config.Config
	http *http.Client
}

func NewAudioRenderer(cfg config.Config) *AudioRenderer {
	return &AudioRenderer{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Synthesize fetches TTS narration for the given text and writes it to a
// temp MP3.
func (a *AudioRenderer) Synthesize(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", a.cfg.TTSLang)
	q.Set("q", text)
	return a.download(ctx, a.cfg.TTSBase+"?"+q.Encode())
}

// FetchRecitation downloads the pre-recorded recitation for one ayah,
// keyed by its global number.
func (a *AudioRenderer) FetchRecitation(ctx context.Context, globalAyah int) (string, error) {
	return a.download(ctx, fmt.Sprintf("%s/%d.mp3", a.cfg.QuranAudioBase, globalAyah))
}

func (a *AudioRenderer) download(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "DeenReelsBot/1.0")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio endpoint HTTP %d", resp.StatusCode)
	}

	path := tempPath(".mp3")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
