package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/content"
)

var (
	colorBackground  = color.RGBA{0, 0, 0, 255}
	colorArabic      = color.RGBA{255, 255, 255, 255}
	colorTranslation = color.RGBA{255, 215, 0, 255}
)

const (
	arabicFontSize  = 64
	englishFontSize = 40
	marginX         = 100
	// Vertical anchors as fractions of canvas height (300/1000/1800 on 1920).
	arabicYFrac  = 0.156
	englishYFrac = 0.521
	captionYFrac = 0.9375
	progressBarH = 12
)

// ImageRenderer composes the vertical still frame for one content item.
type ImageRenderer struct {
	cfg config.Config
}

func NewImageRenderer(cfg config.Config) *ImageRenderer {
	return &ImageRenderer{cfg: cfg}
}

// Render draws the item onto a fresh canvas and writes it to a temp PNG.
// index/total drive the progress bar for multi-item sequences.
func (r *ImageRenderer) Render(item content.Item, index, total int) (string, error) {
	w, h := r.cfg.VideoWidth, r.cfg.VideoHeight
	maxTextWidth := float64(w - 2*marginX)

	dc := gg.NewContext(w, h)
	dc.SetColor(colorBackground)
	dc.Clear()

	// Measures with whichever font face is currently loaded.
	measure := func(s string) float64 {
		lw, _ := dc.MeasureString(s)
		return lw
	}

	// Arabic: wrapped logically, then shaped and visually ordered per
	// line, right-aligned.
	if err := dc.LoadFontFace(r.cfg.ArabicFont, arabicFontSize); err != nil {
		return "", fmt.Errorf("load arabic font: %w", err)
	}
	dc.SetColor(colorArabic)
	y := float64(h) * arabicYFrac
	for _, line := range wrapArabic(item.Arabic, maxTextWidth, measure) {
		dc.DrawString(line, float64(w-marginX)-measure(line), y)
		y += arabicFontSize * 1.5
	}

	// English translation, left-aligned.
	if err := dc.LoadFontFace(r.cfg.EnglishFont, englishFontSize); err != nil {
		return "", fmt.Errorf("load english font: %w", err)
	}
	dc.SetColor(colorTranslation)
	y = float64(h) * englishYFrac
	for _, line := range wrapWords(item.Translation, maxTextWidth, measure) {
		dc.DrawString(line, marginX, y)
		y += englishFontSize * 1.25
	}

	// Source attribution.
	dc.DrawString(fmt.Sprintf("%s #%d", item.SourceName, item.Number), marginX, float64(h)*captionYFrac)

	// Progress bar for multi-item sequences.
	if total > 1 {
		dc.SetColor(colorArabic)
		dc.DrawRectangle(0, float64(h-progressBarH), progressWidth(index, total, w), progressBarH)
		dc.Fill()
	}

	path := tempPath(".png")
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("save frame: %w", err)
	}
	return path, nil
}

// progressWidth returns the bar width for the item at index in a sequence
// of total items, proportional to how far the sequence has advanced.
func progressWidth(index, total, canvasW int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(canvasW) * float64(index+1) / float64(total)
}
