package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
// It is built once at startup and passed by value into each component.
type Config struct {
	DataDir string

	// Content APIs
	HadithAPIBase  string   // hadith lookup endpoint base
	HadithBooks    []string // book slugs to pick from
	HadithRangeMax int      // upper bound of the number range requested per book
	QuranAPIBase   string   // verse page lookup endpoint base
	QuranEditions  string   // comma-joined edition identifiers (arabic,translation)
	QuranAudioBase string   // per-ayah recitation endpoint base
	HTTPTimeout    time.Duration
	MaxRetries     int

	// TTS
	TTSBase string
	TTSLang string

	// Rendering
	ArabicFont  string
	EnglishFont string

	// Video
	VideoWidth    int
	VideoHeight   int
	VideoFPS      int
	MinDuration   float64 // seconds of narration to accumulate for verse reels
	MaxDuration   float64 // hard cap on the published clip
	EncodeThreads int

	// Publishing
	IGUsername  string
	IGPassword  string
	BotToken    string // optional: telegram outcome notifications
	AdminChatID int64

	// Daemon
	RedisAddr   string
	Concurrency int
	DailyMax    int
	CronHadith  string
	CronQuran   string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func mustInt64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func mustFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return def
}

func mustList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		DataDir: getenv("DATA_DIR", "."),

		HadithAPIBase:  getenv("HADITH_API", "https://api.hadith.gading.dev"),
		HadithBooks:    mustList("HADITH_BOOKS", []string{"bukhari", "muslim", "tirmidhi"}),
		HadithRangeMax: mustInt("HADITH_RANGE_MAX", 300),
		QuranAPIBase:   getenv("QURAN_API", "https://api.alquran.cloud/v1"),
		QuranEditions:  getenv("QURAN_EDITIONS", "quran-uthmani,en.asad"),
		QuranAudioBase: getenv("QURAN_AUDIO", "https://cdn.islamic.network/quran/audio/128/ar.alafasy"),
		HTTPTimeout:    time.Duration(mustInt("HTTP_TIMEOUT_SEC", 10)) * time.Second,
		MaxRetries:     mustInt("MAX_RETRIES", 3),

		TTSBase: getenv("TTS_BASE", "https://translate.google.com/translate_tts"),
		TTSLang: getenv("TTS_LANG", "en"),

		ArabicFont:  getenv("ARABIC_FONT", "./fonts/NotoNaskhArabic-Regular.ttf"),
		EnglishFont: getenv("ENGLISH_FONT", "./fonts/Roboto-Regular.ttf"),

		VideoWidth:    mustInt("VIDEO_WIDTH", 1080),
		VideoHeight:   mustInt("VIDEO_HEIGHT", 1920),
		VideoFPS:      mustInt("VIDEO_FPS", 24),
		MinDuration:   mustFloat("MIN_DURATION_SEC", 15),
		MaxDuration:   mustFloat("MAX_DURATION_SEC", 90),
		EncodeThreads: mustInt("ENCODE_THREADS", 4),

		IGUsername:  os.Getenv("IG_USERNAME"),
		IGPassword:  os.Getenv("IG_PASSWORD"),
		BotToken:    os.Getenv("BOT_TOKEN"),
		AdminChatID: mustInt64("ADMIN_CHAT_ID", 0),

		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		Concurrency: mustInt("CONCURRENCY", 1),
		DailyMax:    mustInt("DAILY_MAX", 4),
		CronHadith:  getenv("CRON_HADITH", "0 9 * * *"),
		CronQuran:   getenv("CRON_QURAN", "0 18 * * *"),
	}
}
