package jobs

const (
	TaskPublishReel = "reel:publish"
)

// PublishReelPayload asks the worker to produce and publish one reel.
type PublishReelPayload struct {
	RunID    string `json:"run_id"`   // optional; worker creates one if empty
	Provider string `json:"provider"` // "hadith" or "quran"
}
