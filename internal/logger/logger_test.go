package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "empty when limit non-positive", input: "olá mundo", limit: 0, expect: ""},
		{name: "shorter than limit", input: "olá", limit: 10, expect: "olá"},
		{name: "truncates runes and adds ellipsis", input: "Padtec Júnior", limit: 8, expect: "Padtec J..."},
		{name: "trims surrounding whitespace", input: "  vagas  ", limit: 3, expect: "vag..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.expect)
			}
		})
	}
}

func TestStringFields(t *testing.T) {
	t.Parallel()

	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
}

func TestWithCommonFields(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "model-x").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "model-x" {
		t.Fatalf("unexpected fields: %v", ctx)
	}

	// The nil fallback must not panic.
	WithCommonFields(nil, "gemini", "").Info("another log")
}

func TestMatchFields(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("scored", MatchFields(4, "Siemens", 92)...)

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldListingID] != int64(4) || ctx[FieldCompany] != "Siemens" || ctx[FieldPercentage] != int64(92) {
		t.Fatalf("unexpected fields: %v", ctx)
	}

	if got := ListingFields(7, ""); len(got) != 1 {
		t.Fatalf("empty company should be dropped, got %d fields", len(got))
	}
}
