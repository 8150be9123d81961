// Package content fetches hadith and Quran verse units from their public
// APIs and normalizes them into renderable items.
package content

import "context"

// Kind selects the per-item render policy downstream: hadith narration is
// synthesized from the translation, verse narration is downloaded per ayah.
type Kind string

const (
	KindHadith Kind = "hadith"
	KindQuran  Kind = "quran"
)

// Item is one piece of source text plus the metadata needed to render and
// attribute it.
type Item struct {
	Arabic      string
	Translation string
	SourceName  string // book name or surah name
	Number      int    // hadith number, or ayah number within the surah
	GlobalAyah  int    // verses only: global ayah number for recitation lookup
	EstDuration float64 // narration estimate in seconds, refined after download
}

// Unit is one fetched content unit. Immutable once returned by a Provider.
type Unit struct {
	Kind    Kind
	Source  string // human-readable attribution, e.g. "Sahih Bukhari #42"
	Caption string // upload caption
	Items   []Item
}

// Provider fetches a content unit from a remote API.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (*Unit, error)
}
