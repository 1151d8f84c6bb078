package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	apperrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/observability"
)

const (
	modelInputMaxChars = 500
	limiterBurst       = 5
)

const scorePrompt = `Classify the sentiment of the following text. Respond with a JSON object ` +
	`{"pos": <float>, "neg": <float>, "neu": <float>} where the three values are in [0,1] and sum to 1.

Text: %s`

// Model scores text with a chat-completion model. The client is created by
// Load exactly once; model failures degrade to the lexicon scorer rather
// than failing a mention. Support and desire always come from the lexicons.
type Model struct {
	apiKey  string
	model   string
	limiter *rate.Limiter
	logger  *zerolog.Logger

	loadOnce sync.Once
	client   *openai.Client
	fallback *Lexicon
}

// NewModel returns an unloaded model provider.
func NewModel(apiKey, model string, rps float64, logger *zerolog.Logger) *Model {
	return &Model{
		apiKey:   apiKey,
		model:    model,
		limiter:  rate.NewLimiter(rate.Limit(rps), limiterBurst),
		logger:   logger,
		fallback: NewLexicon(),
	}
}

// Load creates the API client. Safe to call more than once; only the first
// call does work.
func (m *Model) Load(context.Context) error {
	if m.apiKey == "" {
		return fmt.Errorf("%w: LLM_API_KEY is empty", apperrors.ErrInvalidConfig)
	}

	m.loadOnce.Do(func() {
		m.client = openai.NewClient(m.apiKey)
	})

	return nil
}

// Score asks the model for a sentiment triple, falling back to the lexicon
// on any error.
func (m *Model) Score(ctx context.Context, text string) (domain.FeatureSet, error) {
	if m.client == nil {
		return domain.FeatureSet{}, apperrors.ErrProviderNotLoaded
	}

	fs, err := m.scoreModel(ctx, text)
	if err != nil {
		observability.SentimentFallbacks.Inc()
		m.logger.Warn().Err(err).Msg("model sentiment failed, using lexicon")

		return m.fallback.Score(ctx, text)
	}

	// The model only provides the triple; support/desire stay lexicon-based.
	lex, _ := m.fallback.Score(ctx, text)
	fs.Support = lex.Support
	fs.Desire = lex.Desire

	return fs, nil
}

func (m *Model) scoreModel(ctx context.Context, text string) (domain.FeatureSet, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return domain.FeatureSet{}, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()

	truncated := normalize.Truncate(text, modelInputMaxChars)

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(scorePrompt, truncated),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})

	observability.SentimentRequestDuration.WithLabelValues("model").Observe(time.Since(start).Seconds())

	if err != nil {
		return domain.FeatureSet{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.FeatureSet{}, apperrors.ErrEmptyResponse
	}

	var parsed struct {
		Pos float64 `json:"pos"`
		Neg float64 `json:"neg"`
		Neu float64 `json:"neu"`
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.FeatureSet{}, fmt.Errorf("parse sentiment response: %w", err)
	}

	fs := domain.FeatureSet{Pos: clamp01(parsed.Pos), Neg: clamp01(parsed.Neg), Neu: clamp01(parsed.Neu)}

	total := fs.Pos + fs.Neg + fs.Neu
	if total <= 0 {
		return domain.FeatureSet{Neu: 1}, nil
	}

	fs.Pos /= total
	fs.Neg /= total
	fs.Neu /= total

	return fs, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
