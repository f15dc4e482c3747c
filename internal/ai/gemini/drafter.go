// Package gemini drafts candidature messages with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/ai"
	"github.com/spigell/vagas/internal/logger"
)

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
	// The candidature form has no hard limit; longer drafts are cut at a sentence.
	maxMessageRunes = 1200
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

type Drafter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Drafter = (*Drafter)(nil)

func NewDrafter(generator contentGenerator, log *zap.Logger, maxLogLength int) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Drafter{
		generator: generator,
		logger:    logger.WithCommonFields(log, provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// Draft asks the model for a cover message for req.Listing.
func (d *Drafter) Draft(ctx context.Context, req ai.DraftRequest) (string, error) {
	if req.Listing == nil {
		return "", errors.New("listing is required")
	}

	profileJSON, err := json.MarshalIndent(req.Profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	listingJSON, err := json.MarshalIndent(listingPayload(req), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal listing payload: %w", err)
	}

	prompt := buildPrompt(req.ApplicantName, string(profileJSON), string(listingJSON))

	fields := logger.ListingFields(req.Listing.ID, req.Listing.Company)
	d.logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, d.maxLogLen)),
	)...)

	raw, err := d.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	d.logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, d.maxLogLen)),
	)...)

	message := cleanMessage(raw)
	if message == "" {
		return "", errors.New("gemini returned an empty draft")
	}

	return message, nil
}

// listingPayload keeps only what the model needs to write about the listing.
func listingPayload(req ai.DraftRequest) map[string]any {
	l := req.Listing
	return map[string]any{
		"titulo":      l.Title,
		"empresa":     l.Company,
		"descricao":   l.Description,
		"tipo":        l.Type,
		"modalidade":  l.WorkMode,
		"areas":       l.Areas,
		"requisitos":  l.Requirements,
		"cursos":      l.Courses,
		"localizacao": l.Location,
	}
}

func buildPrompt(name, profileJSON, listingJSON string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "não informado"
	}

	return strings.NewReplacer(
		"{{APPLICANT_NAME}}", name,
		"{{PROFILE_JSON}}", profileJSON,
		"{{LISTING_JSON}}", listingJSON,
	).Replace(promptTemplate)
}

// cleanMessage strips code fences and quotes models like to add, and cuts
// overlong drafts at the last full sentence.
func cleanMessage(raw string) string {
	msg := strings.TrimSpace(raw)
	if strings.HasPrefix(msg, "```") {
		msg = strings.TrimPrefix(msg, "```text")
		msg = strings.TrimPrefix(msg, "```")
		if idx := strings.LastIndex(msg, "```"); idx != -1 {
			msg = msg[:idx]
		}
	}
	msg = strings.Trim(strings.TrimSpace(msg), `"“”`)
	msg = strings.TrimSpace(msg)

	runes := []rune(msg)
	if len(runes) <= maxMessageRunes {
		return msg
	}

	cut := string(runes[:maxMessageRunes])
	if idx := strings.LastIndexAny(cut, ".!?"); idx > 0 {
		return cut[:idx+1]
	}
	return cut
}
