// Package media assembles rendered assets into the final video, delegating
// all encoding to ffmpeg.
package media

// Segment is one still frame held on screen for a window of the timeline.
type Segment struct {
	Start    float64
	Duration float64
}

// PlanSegments lays the per-item display windows over the combined audio
// track. Each segment starts at the running sum of prior durations and is
// held for min(item duration, time remaining); the plan stops once the
// audio is exhausted.
func PlanSegments(durations []float64, totalAudio float64) []Segment {
	var segs []Segment
	offset := 0.0
	for _, d := range durations {
		remaining := totalAudio - offset
		if remaining <= 0 {
			break
		}
		if d > remaining {
			d = remaining
		}
		if d <= 0 {
			continue
		}
		segs = append(segs, Segment{Start: offset, Duration: d})
		offset += d
	}
	return segs
}
