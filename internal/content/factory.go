package content

import (
	"fmt"
	"math/rand"

	"github.com/you/deenreels/internal/config"
)

// NewProvider builds a provider by name ("hadith" or "quran").
func NewProvider(name string, cfg config.Config, rnd *rand.Rand) (Provider, error) {
	switch Kind(name) {
	case KindHadith:
		return NewHadithProvider(cfg, rnd), nil
	case KindQuran:
		return NewQuranProvider(cfg, rnd), nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}
