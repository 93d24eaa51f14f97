package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.al")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}

	target := filepath.Join(baseDir, "nested", "file.al")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(filepath.Join("nested", "file.al"))
	if got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" + combining acute accent → "é"
	decomposed := []byte("cafe\u0301 = 1")
	got, changed := normalizeNFC(decomposed)
	if !changed {
		t.Fatal("expected NFC normalization to report a change")
	}
	if string(got) != "caf\u00e9 = 1" {
		t.Fatalf("unexpected normalized content %q", got)
	}

	plain := []byte("answer = 42")
	got, changed = normalizeNFC(plain)
	if changed {
		t.Fatal("ASCII input must already be NFC")
	}
	if string(got) != "answer = 42" {
		t.Fatalf("ASCII input changed: %q", got)
	}
}
