package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/vagas/internal/ai"
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/profile"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func request() ai.DraftRequest {
	return ai.DraftRequest{
		Profile: profile.Profile{
			Course:        "Engenharia de Software",
			Period:        6,
			InterestAreas: []string{"Cloud", "Desenvolvimento Web"},
		},
		Listing: &listing.Listing{
			ID:           1,
			Title:        "Desenvolvedor Full Stack - Estágio",
			Company:      "Inatel Competence Center",
			Requirements: []string{"JavaScript"},
		},
		ApplicantName: "Ana Souza",
	}
}

func TestDraft(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: "```text\n\"Olá! Tenho interesse na vaga.\"\n```"}
	drafter := NewDrafter(stub, zap.New(core), 0)

	msg, err := drafter.Draft(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Olá! Tenho interesse na vaga." {
		t.Fatalf("unexpected draft %q", msg)
	}

	for _, want := range []string{"Candidato: Ana Souza", `"curso": "Engenharia de Software"`, `"empresa": "Inatel Competence Center"`} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unreplaced placeholders:\n%s", stub.lastPrompt)
	}

	entries := logs.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["ai_model"] != "stub-model" || ctx["listing_id"] != int64(1) {
		t.Fatalf("unexpected log fields: %v", ctx)
	}
}

func TestDraftErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		stub *stubGenerator
		req  ai.DraftRequest
	}{
		{name: "missing listing", stub: &stubGenerator{response: "ok"}, req: ai.DraftRequest{}},
		{name: "generator failure", stub: &stubGenerator{err: errors.New("quota")}, req: request()},
		{name: "blank response", stub: &stubGenerator{response: "```\n```"}, req: request()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewDrafter(tt.stub, nil, 0).Draft(context.Background(), tt.req); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCleanMessageCutsAtSentence(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Frase curta. ", maxMessageRunes/10)
	got := cleanMessage(long)

	if len([]rune(got)) > maxMessageRunes {
		t.Fatalf("draft too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("draft should end at a sentence, got suffix %q", got[len(got)-5:])
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected missing key error")
	}

	var g *Generator
	if _, err := g.GenerateContent(context.Background(), "oi"); err == nil {
		t.Fatal("expected error from nil generator")
	}
	if g.Model() != "" {
		t.Fatal("nil generator has no model")
	}
}
