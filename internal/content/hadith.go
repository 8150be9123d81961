package content

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/you/deenreels/internal/config"
)

// Narration speed assumed for the TTS voice, words per second.
const ttsSpeedWPS = 2.5

// HadithProvider fetches a random hadith from the gading.dev hadith API.
type HadithProvider struct {
	cfg  config.Config
	http *http.Client
	rnd  *rand.Rand
}

func NewHadithProvider(cfg config.Config, rnd *rand.Rand) *HadithProvider {
	return &HadithProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		rnd:  rnd,
	}
}

func (p *HadithProvider) Name() string { return string(KindHadith) }

type hadithResp struct {
	Code int `json:"code"`
	Data struct {
		Name    string `json:"name"`
		Hadiths []struct {
			Number int    `json:"number"`
			Arab   string `json:"arab"`
			En     string `json:"en"`
		} `json:"hadiths"`
	} `json:"data"`
}

// Fetch retrieves a random hadith from a random configured book, retrying
// with exponential backoff on any network or validation failure.
func (p *HadithProvider) Fetch(ctx context.Context) (*Unit, error) {
	var unit *Unit
	attempt := 0
	err := retryFetch(ctx, p.cfg.MaxRetries, func() error {
		attempt++
		u, err := p.fetchOnce(ctx)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("hadith fetch failed")
			return err
		}
		unit = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch hadith after %d attempts: %w", attempt, err)
	}
	return unit, nil
}

func (p *HadithProvider) fetchOnce(ctx context.Context) (*Unit, error) {
	book := p.cfg.HadithBooks[p.rnd.Intn(len(p.cfg.HadithBooks))]
	url := fmt.Sprintf("%s/books/%s?range=1-%d&lang=en", p.cfg.HadithAPIBase, book, p.cfg.HadithRangeMax)

	var body hadithResp
	if err := getJSON(ctx, p.http, url, &body); err != nil {
		return nil, err
	}
	if body.Code != 200 {
		return nil, fmt.Errorf("API error %d", body.Code)
	}

	// Keep only entries with both text fields present.
	var candidates []int
	for i, h := range body.Data.Hadiths {
		if strings.TrimSpace(h.Arab) != "" && strings.TrimSpace(h.En) != "" {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable hadiths in %s", book)
	}

	h := body.Data.Hadiths[candidates[p.rnd.Intn(len(candidates))]]
	name := body.Data.Name
	if name == "" {
		name = book
	}

	source := fmt.Sprintf("%s #%d", name, h.Number)
	return &Unit{
		Kind:    KindHadith,
		Source:  source,
		Caption: fmt.Sprintf("Daily Hadith\n%s #%d\n#Hadith #Islam #Sunnah", name, h.Number),
		Items: []Item{{
			Arabic:      h.Arab,
			Translation: h.En,
			SourceName:  name,
			Number:      h.Number,
			EstDuration: estimateSpeech(h.En),
		}},
	}, nil
}

// estimateSpeech guesses narration length from word count at the assumed
// TTS speaking rate.
func estimateSpeech(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return float64(words) / ttsSpeedWPS
}
