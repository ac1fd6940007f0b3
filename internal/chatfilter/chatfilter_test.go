package chatfilter

import (
	"strings"
	"testing"
)

func TestSanitizeReplaceMasksWords(t *testing.T) {
	f := New(&Config{
		Enabled:     true,
		Mode:        ModeReplace,
		BannedWords: []string{"darn"},
	})

	got, ok := f.Sanitize("well darn it")

	if !ok {
		t.Fatal("Expected message delivered in REPLACE mode")
	}
	if got != "well **** it" {
		t.Errorf("Expected 'well **** it', got %q", got)
	}
}

func TestSanitizeReplaceIsCaseInsensitive(t *testing.T) {
	f := New(&Config{
		Enabled:     true,
		Mode:        ModeReplace,
		BannedWords: []string{"darn"},
	})

	got, _ := f.Sanitize("DARN that")

	if got != "**** that" {
		t.Errorf("Expected case-insensitive mask, got %q", got)
	}
}

func TestSanitizeWordBoundaries(t *testing.T) {
	f := New(&Config{
		Enabled:     true,
		Mode:        ModeReplace,
		BannedWords: []string{"ass"},
	})

	got, _ := f.Sanitize("pass the assignment")

	if got != "pass the assignment" {
		t.Errorf("Expected no match inside larger words, got %q", got)
	}
}

func TestSanitizeBlockRejects(t *testing.T) {
	f := New(&Config{
		Enabled:     true,
		Mode:        ModeBlock,
		BannedWords: []string{"darn"},
	})

	if _, ok := f.Sanitize("darn"); ok {
		t.Error("Expected violating message blocked in BLOCK mode")
	}
	if got, ok := f.Sanitize("hello"); !ok || got != "hello" {
		t.Errorf("Expected clean message delivered, got %q ok=%v", got, ok)
	}
}

func TestSanitizeRejectsEmpty(t *testing.T) {
	f := New(nil)

	if _, ok := f.Sanitize("   "); ok {
		t.Error("Expected whitespace-only message rejected")
	}
}

func TestSanitizeTruncatesLongMessages(t *testing.T) {
	f := New(nil)

	got, ok := f.Sanitize(strings.Repeat("a", 500))

	if !ok {
		t.Fatal("Expected long message delivered after truncation")
	}
	if len(got) != DefaultMaxLength {
		t.Errorf("Expected %d chars after truncation, got %d", DefaultMaxLength, len(got))
	}
}

func TestDisabledFilterPassesThrough(t *testing.T) {
	f := New(&Config{
		Enabled:     false,
		Mode:        ModeBlock,
		BannedWords: []string{"darn"},
	})

	got, ok := f.Sanitize("darn")

	if !ok || got != "darn" {
		t.Errorf("Expected disabled filter to pass messages unchanged, got %q ok=%v", got, ok)
	}
}
