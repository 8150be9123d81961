package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/you/deenreels/internal/config"
	"github.com/you/deenreels/internal/render"
)

// stubEncoder stands in for ffmpeg: it reports canned durations and
// materializes output files so Assemble's existence check passes.
type stubEncoder struct {
	durations map[string]float64
	concatErr error

	stillDur float64
	seqTotal float64
	combined string
}

func (s *stubEncoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	d, ok := s.durations[path]
	if !ok {
		return 0, fmt.Errorf("no stream in %s", path)
	}
	return d, nil
}

func (s *stubEncoder) ConcatAudio(ctx context.Context, paths []string, outPath string) error {
	if s.concatErr != nil {
		return s.concatErr
	}
	s.combined = outPath
	return os.WriteFile(outPath, []byte("mp3"), 0o644)
}

func (s *stubEncoder) EncodeStill(ctx context.Context, imagePath, audioPath string, duration float64, outPath string) error {
	s.stillDur = duration
	return os.WriteFile(outPath, []byte("mp4"), 0o644)
}

func (s *stubEncoder) EncodeSequence(ctx context.Context, images []string, segs []Segment, audioPath string, total float64, outPath string) error {
	s.seqTotal = total
	return os.WriteFile(outPath, []byte("mp4"), 0o644)
}

func makeAsset(t *testing.T) render.Asset {
	t.Helper()
	dir := t.TempDir()
	img := filepath.Join(dir, "frame.png")
	aud := filepath.Join(dir, "voice.mp3")
	for _, p := range []string{img, aud} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return render.Asset{ImagePath: img, AudioPath: aud}
}

func assertGone(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("intermediate file %s still exists", p)
		}
	}
}

func TestAssembleSingleTruncatesToMaxDuration(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxDuration: 90}
	asset := makeAsset(t)
	enc := &stubEncoder{durations: map[string]float64{asset.AudioPath: 120}}

	out, err := NewAssembler(cfg, enc).Assemble(context.Background(), []render.Asset{asset})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if enc.stillDur != 90 {
		t.Errorf("encoded duration = %f, want clamped to 90", enc.stillDur)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output video missing: %v", err)
	}
	assertGone(t, asset.ImagePath, asset.AudioPath)
}

func TestAssembleRemovesAssetsOnProbeFailure(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxDuration: 90}
	asset := makeAsset(t)
	enc := &stubEncoder{durations: map[string]float64{}} // probe fails

	if _, err := NewAssembler(cfg, enc).Assemble(context.Background(), []render.Asset{asset}); err == nil {
		t.Fatal("expected probe error")
	}
	assertGone(t, asset.ImagePath, asset.AudioPath)
}

func TestAssembleSequenceRemovesCombinedAudio(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxDuration: 90}
	a, b := makeAsset(t), makeAsset(t)
	// The combined track's duration is never registered, so its probe
	// fails after ConcatAudio has already produced the file.
	enc := &stubEncoder{durations: map[string]float64{
		a.AudioPath: 10,
		b.AudioPath: 20,
	}}

	out, err := NewAssembler(cfg, enc).Assemble(context.Background(), []render.Asset{a, b})
	if err == nil {
		t.Fatalf("expected combined-track probe failure, got output %s", out)
	}
	if enc.combined == "" {
		t.Fatal("ConcatAudio never called")
	}
	assertGone(t, enc.combined, a.ImagePath, a.AudioPath, b.ImagePath, b.AudioPath)
}

func TestAssembleSequenceSuccess(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxDuration: 90}
	a, b := makeAsset(t), makeAsset(t)
	enc := &seedingEncoder{stubEncoder: stubEncoder{durations: map[string]float64{
		a.AudioPath: 40,
		b.AudioPath: 80,
	}}, combinedDur: 120}

	out, err := NewAssembler(cfg, enc).Assemble(context.Background(), []render.Asset{a, b})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if enc.seqTotal != 90 {
		t.Errorf("sequence total = %f, want clamped to 90", enc.seqTotal)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output video missing: %v", err)
	}
	assertGone(t, enc.combined, a.ImagePath, a.AudioPath, b.ImagePath, b.AudioPath)
}

func TestAssembleSequenceRemovesAssetsOnConcatFailure(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxDuration: 90}
	a, b := makeAsset(t), makeAsset(t)
	enc := &stubEncoder{
		durations: map[string]float64{a.AudioPath: 10, b.AudioPath: 20},
		concatErr: fmt.Errorf("disk full"),
	}

	if _, err := NewAssembler(cfg, enc).Assemble(context.Background(), []render.Asset{a, b}); err == nil {
		t.Fatal("expected concat error")
	}
	assertGone(t, a.ImagePath, a.AudioPath, b.ImagePath, b.AudioPath)
}

func TestAssembleEmpty(t *testing.T) {
	asm := NewAssembler(config.Config{DataDir: t.TempDir()}, &stubEncoder{})
	if _, err := asm.Assemble(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty asset list")
	}
}

// seedingEncoder registers the combined track's duration as soon as
// ConcatAudio creates it, so the follow-up probe succeeds.
type seedingEncoder struct {
	stubEncoder
	combinedDur float64
}

func (s *seedingEncoder) ConcatAudio(ctx context.Context, paths []string, outPath string) error {
	if err := s.stubEncoder.ConcatAudio(ctx, paths, outPath); err != nil {
		return err
	}
	s.durations[outPath] = s.combinedDur
	return nil
}
