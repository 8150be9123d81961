package content

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/you/deenreels/internal/config"
)

const quranPages = 604

// Rough recitation speed for estimating verse narration length before the
// real audio is probed: Arabic runes per second.
const recitationRPS = 12.0

// QuranProvider fetches a set of verses from a random mushaf page of the
// alquran.cloud API, pairing an Arabic edition with a translation edition.
type QuranProvider struct {
	cfg  config.Config
	http *http.Client
	rnd  *rand.Rand
}

func NewQuranProvider(cfg config.Config, rnd *rand.Rand) *QuranProvider {
	return &QuranProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		rnd:  rnd,
	}
}

func (p *QuranProvider) Name() string { return string(KindQuran) }

type quranResp struct {
	Code int `json:"code"`
	Data []struct {
		Ayahs []struct {
			Number        int    `json:"number"` // global ayah number
			NumberInSurah int    `json:"numberInSurah"`
			Text          string `json:"text"`
			Surah         struct {
				Number int `json:"number"`
			} `json:"surah"`
		} `json:"ayahs"`
	} `json:"data"`
}

// Fetch retrieves verses from a random page and greedily accumulates a
// subset whose estimated narration meets the minimum duration without
// exceeding the maximum. Verses with unknown surahs or missing fields are
// skipped.
func (p *QuranProvider) Fetch(ctx context.Context) (*Unit, error) {
	var unit *Unit
	attempt := 0
	err := retryFetch(ctx, p.cfg.MaxRetries, func() error {
		attempt++
		u, err := p.fetchOnce(ctx)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("quran fetch failed")
			return err
		}
		unit = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch verses after %d attempts: %w", attempt, err)
	}
	return unit, nil
}

func (p *QuranProvider) fetchOnce(ctx context.Context) (*Unit, error) {
	page := p.rnd.Intn(quranPages) + 1
	url := fmt.Sprintf("%s/page/%d/editions/%s", p.cfg.QuranAPIBase, page, p.cfg.QuranEditions)

	var body quranResp
	if err := getJSON(ctx, p.http, url, &body); err != nil {
		return nil, err
	}
	if body.Code != 200 {
		return nil, fmt.Errorf("API error %d", body.Code)
	}
	if len(body.Data) < 2 {
		return nil, fmt.Errorf("expected 2 editions, got %d", len(body.Data))
	}
	arabic, translated := body.Data[0].Ayahs, body.Data[1].Ayahs
	if len(arabic) == 0 || len(arabic) != len(translated) {
		return nil, fmt.Errorf("edition mismatch: %d arabic vs %d translated ayahs", len(arabic), len(translated))
	}

	items := p.selectVerses(body)
	if len(items) == 0 {
		return nil, fmt.Errorf("no usable verses on page %d", page)
	}

	source := verseRange(items)
	return &Unit{
		Kind:    KindQuran,
		Source:  source,
		Caption: fmt.Sprintf("Daily Quran\n%s\n#Quran #Islam #Recitation", source),
		Items:   items,
	}, nil
}

// selectVerses shuffles the page's verses and greedily accumulates them
// until the minimum narration duration is met or adding another would
// exceed the maximum. The result is restored to source order.
func (p *QuranProvider) selectVerses(body quranResp) []Item {
	arabic, translated := body.Data[0].Ayahs, body.Data[1].Ayahs

	order := p.rnd.Perm(len(arabic))
	var picked []Item
	total := 0.0
	for _, i := range order {
		if total >= p.cfg.MinDuration {
			break
		}
		a, t := arabic[i], translated[i]
		name, known := surahNames[a.Surah.Number]
		if !known {
			continue
		}
		if strings.TrimSpace(a.Text) == "" || strings.TrimSpace(t.Text) == "" {
			continue
		}
		d := estimateRecitation(a.Text)
		if total+d > p.cfg.MaxDuration {
			break
		}
		picked = append(picked, Item{
			Arabic:      a.Text,
			Translation: t.Text,
			SourceName:  name,
			Number:      a.NumberInSurah,
			GlobalAyah:  a.Number,
			EstDuration: d,
		})
		total += d
	}

	// Recitations are concatenated in mushaf order regardless of pick order.
	sort.Slice(picked, func(i, j int) bool { return picked[i].GlobalAyah < picked[j].GlobalAyah })
	return picked
}

func estimateRecitation(arabic string) float64 {
	d := float64(utf8.RuneCountInString(arabic)) / recitationRPS
	if d < 2 {
		d = 2
	}
	return d
}

func verseRange(items []Item) string {
	first, last := items[0], items[len(items)-1]
	if first.SourceName == last.SourceName {
		if first.Number == last.Number {
			return fmt.Sprintf("%s %d", first.SourceName, first.Number)
		}
		return fmt.Sprintf("%s %d-%d", first.SourceName, first.Number, last.Number)
	}
	return fmt.Sprintf("%s %d - %s %d", first.SourceName, first.Number, last.SourceName, last.Number)
}
