package curated

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeeds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validSeeds = `
english_levels:
  beginner:
    - title: Anne of Green Gables
      author: L. M. Montgomery
  intermediate:
    - title: Pride and Prejudice
      author: Jane Austen
  advanced:
    - title: Moby Dick
      author: Herman Melville
transcription:
  - title: Pride and Prejudice
    author: Jane Austen
    style: elegant, precise prose
difficulty_tiers:
  easy: [Montgomery]
  medium: [Austen]
  hard: [Melville]
quotes:
  pride and prejudice:
    - It is a truth universally acknowledged...
`

func TestLoadSeeds(t *testing.T) {
	seeds, err := LoadSeeds(writeSeeds(t, validSeeds))
	if err != nil {
		t.Fatalf("LoadSeeds: %v", err)
	}
	if got := seeds.EnglishLevels["beginner"][0].Title; got != "Anne of Green Gables" {
		t.Errorf("beginner[0] = %q", got)
	}
	if got := seeds.Transcription[0].Style; got != "elegant, precise prose" {
		t.Errorf("style = %q", got)
	}
	if len(seeds.Quotes["pride and prejudice"]) != 1 {
		t.Errorf("quotes = %+v", seeds.Quotes)
	}
}

func TestLoadSeedsMissingLevel(t *testing.T) {
	const noAdvanced = `
english_levels:
  beginner:
    - {title: A, author: B}
  intermediate:
    - {title: C, author: D}
transcription:
  - {title: E, author: F}
`
	if _, err := LoadSeeds(writeSeeds(t, noAdvanced)); err == nil {
		t.Fatal("expected error for missing level")
	}
}

func TestLoadSeedsEmptyTranscription(t *testing.T) {
	const noTranscription = `
english_levels:
  beginner: [{title: A, author: B}]
  intermediate: [{title: C, author: D}]
  advanced: [{title: E, author: F}]
`
	if _, err := LoadSeeds(writeSeeds(t, noTranscription)); err == nil {
		t.Fatal("expected error for empty transcription list")
	}
}

func TestLoadSeedsMissingFile(t *testing.T) {
	if _, err := LoadSeeds(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestShippedSeedsValid loads the seeds file the binaries ship with.
func TestShippedSeedsValid(t *testing.T) {
	seeds, err := LoadSeeds(filepath.Join("..", "..", "config", "seeds.yaml"))
	if err != nil {
		t.Fatalf("shipped seeds invalid: %v", err)
	}
	for _, level := range Levels {
		if len(seeds.EnglishLevels[level]) != 10 {
			t.Errorf("%s has %d seeds, want 10", level, len(seeds.EnglishLevels[level]))
		}
	}
	if len(seeds.Transcription) != 12 {
		t.Errorf("transcription has %d seeds, want 12", len(seeds.Transcription))
	}
	for _, seed := range seeds.Transcription {
		if seed.Style == "" {
			t.Errorf("transcription seed %q has no style note", seed.Title)
		}
	}
}
