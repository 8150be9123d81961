package media

import (
	"strings"
	"testing"
)

func TestAudioManifest(t *testing.T) {
	got := audioManifest([]string{"/tmp/a.mp3", "/tmp/b.mp3"})
	want := "file '/tmp/a.mp3'\nfile '/tmp/b.mp3'\n"
	if got != want {
		t.Errorf("manifest:\n got %q\nwant %q", got, want)
	}
}

func TestAudioManifestEscapesQuotes(t *testing.T) {
	got := audioManifest([]string{"/tmp/it's.mp3"})
	if !strings.Contains(got, `'\''`) {
		t.Errorf("single quote not escaped: %q", got)
	}
}

func TestImageManifest(t *testing.T) {
	images := []string{"/tmp/1.png", "/tmp/2.png"}
	segs := []Segment{{Start: 0, Duration: 3.5}, {Start: 3.5, Duration: 2}}

	got := imageManifest(images, segs)
	want := "file '/tmp/1.png'\n" +
		"duration 3.500\n" +
		"file '/tmp/2.png'\n" +
		"duration 2.000\n" +
		"file '/tmp/2.png'\n"
	if got != want {
		t.Errorf("manifest:\n got %q\nwant %q", got, want)
	}
}

func TestImageManifestEmpty(t *testing.T) {
	if got := imageManifest(nil, nil); got != "" {
		t.Errorf("empty inputs produced %q", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(90); got != "90.000" {
		t.Errorf("formatSeconds(90) = %q", got)
	}
	if got := formatSeconds(1.23456); got != "1.235" {
		t.Errorf("formatSeconds(1.23456) = %q", got)
	}
}
