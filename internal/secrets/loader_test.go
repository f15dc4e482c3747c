package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "gemini.key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty.key")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	tests := []struct {
		name    string
		src     Source
		expect  string
		errPart string
	}{
		{name: "inline value", src: Source{Name: "api key", Value: " inline "}, expect: "inline"},
		{name: "file wins over value", src: Source{Value: "inline", File: keyFile}, expect: "from-file"},
		{name: "missing", src: Source{Name: "api key"}, errPart: "api key is not configured"},
		{name: "empty file", src: Source{Name: "api key", File: emptyFile}, errPart: "is empty"},
		{name: "unreadable file", src: Source{File: filepath.Join(dir, "nope")}, errPart: "reading secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Load(tt.src)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("got %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	t.Parallel()

	got, err := LoadOptional(Source{Name: "redis password"})
	if err != nil || got != "" {
		t.Fatalf("unconfigured optional secret: %q, %v", got, err)
	}

	got, err = LoadOptional(Source{Value: "s3cret"})
	if err != nil || got != "s3cret" {
		t.Fatalf("configured optional secret: %q, %v", got, err)
	}
}
