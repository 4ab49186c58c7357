// Package translate produces the per-locale translation blocks of content
// records by calling an OpenAI-compatible chat completion API.
//
// Translation is all-or-nothing: if any field in any target locale fails,
// Translate returns an error and no partial result.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/metrics"
)

const systemPrompt = "You are a professional translator for a web development agency website. " +
	"Translate the text you are given. Return only the translated text, without quotes, notes or explanations. " +
	"Keep formatting, line breaks and Markdown intact."

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Completer is the part of the OpenAI client the service needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Field is one piece of source text. Context is a short human label such as
// "portfolio project category" that helps the model pick the right register.
type Field struct {
	Name    string
	Text    string
	Context string
}

// Result holds translated text by locale and field name.
type Result map[i18n.Locale]map[string]string

// Error identifies the first field/locale pair that failed.
type Error struct {
	Locale i18n.Locale
	Field  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate %s to %s: %v", e.Field, e.Locale, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrEmptyTranslation is returned when the API answers without text.
var ErrEmptyTranslation = errors.New("empty translation in response")

// IsTranslationError reports whether err came out of the translation gate.
func IsTranslationError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

type Service struct {
	client Completer
	model  string
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New wraps an existing completion client.
func New(client Completer, model string, opts ...Option) *Service {
	if model == "" {
		model = DefaultModel
	}
	s := &Service{
		client: client,
		model:  model,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOpenAI builds a service talking to baseURL (empty for api.openai.com).
func NewOpenAI(apiKey, baseURL, model string, opts ...Option) *Service {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	return New(openai.NewClientWithConfig(cfg), model, opts...)
}

// Translate sends one request per non-empty field per target locale, all in
// parallel. Empty source fields translate to empty strings without a call.
func (s *Service) Translate(ctx context.Context, fields []Field) (Result, error) {
	result := make(Result, len(i18n.Targets))
	for _, loc := range i18n.Targets {
		result[loc] = make(map[string]string, len(fields))
		for _, f := range fields {
			result[loc][f.Name] = ""
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, loc := range i18n.Targets {
		for _, f := range fields {
			if strings.TrimSpace(f.Text) == "" {
				continue
			}
			g.Go(func() error {
				text, err := s.translateOne(gctx, f, loc)
				if err != nil {
					metrics.TranslationCalls.WithLabelValues(loc.String(), "error").Inc()
					return &Error{Locale: loc, Field: f.Name, Err: err}
				}
				metrics.TranslationCalls.WithLabelValues(loc.String(), "ok").Inc()
				mu.Lock()
				result[loc][f.Name] = text
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Translation failed", "error", err)
		return nil, err
	}
	return result, nil
}

func (s *Service) translateOne(ctx context.Context, f Field, loc i18n.Locale) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(f, loc)},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response: %w", ErrEmptyTranslation)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyTranslation
	}
	return text, nil
}

func userPrompt(f Field, loc i18n.Locale) string {
	return fmt.Sprintf("Translate the following %s from Russian to %s.\n\n%s", f.Context, loc.LanguageName(), f.Text)
}
