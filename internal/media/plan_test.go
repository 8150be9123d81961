package media

import "testing"

func TestPlanSegmentsOffsetsAreCumulative(t *testing.T) {
	segs := PlanSegments([]float64{3, 5, 2}, 100)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	offset := 0.0
	for i, s := range segs {
		if s.Start != offset {
			t.Errorf("segment %d starts at %f, want %f", i, s.Start, offset)
		}
		offset += s.Duration
	}
	if offset != 10 {
		t.Errorf("total displayed = %f, want 10", offset)
	}
}

func TestPlanSegmentsNeverExceedsAudio(t *testing.T) {
	segs := PlanSegments([]float64{4, 4, 4}, 10)
	total := 0.0
	for i, s := range segs {
		if i > 0 && s.Start < segs[i-1].Start {
			t.Errorf("starts not non-decreasing at %d", i)
		}
		total += s.Duration
	}
	if total > 10 {
		t.Errorf("displayed total %f exceeds audio duration 10", total)
	}
	// Last segment truncated to the remaining 2 seconds.
	if last := segs[len(segs)-1]; last.Duration != 2 {
		t.Errorf("last segment duration = %f, want 2", last.Duration)
	}
}

func TestPlanSegmentsStopsWhenAudioExhausted(t *testing.T) {
	segs := PlanSegments([]float64{5, 5, 5}, 10)
	if len(segs) != 2 {
		t.Errorf("got %d segments, want 2 (third has no audio left)", len(segs))
	}
}

func TestPlanSegmentsEmpty(t *testing.T) {
	if segs := PlanSegments(nil, 10); segs != nil {
		t.Errorf("no durations should plan no segments, got %v", segs)
	}
	if segs := PlanSegments([]float64{3}, 0); segs != nil {
		t.Errorf("zero audio should plan no segments, got %v", segs)
	}
}
