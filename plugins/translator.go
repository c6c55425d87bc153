package plugins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	translatorName    = "Translator"
	translatorScore   = 0.8
	translatorTimeout = 3 * time.Second
)

var translatorPrefixes = []string{"translate ", "翻訳 "}

// TranslatorConfig selects the model backing the translator. With an empty
// Host the translator answers with placeholder text and makes no requests.
type TranslatorConfig struct {
	// Host is the base URL of an OpenAI-compatible API.
	// Example: "http://localhost:11434/v1"
	Host string

	// Model is the chat model identifier. Example: "qwen2.5:3b"
	Model string

	// TargetLanguage is the language translations are produced in.
	// Default: "English"
	TargetLanguage string

	// Timeout bounds each model request so a slow server cannot hold up a
	// search. Default: 3s
	Timeout time.Duration
}

// Translator answers "translate <text>" queries.
type Translator struct {
	client  llms.Model
	target  string
	timeout time.Duration
	logger  *slog.Logger
}

var _ Plugin = (*Translator)(nil)

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithTranslatorLogger sets a custom logger.
func WithTranslatorLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithLanguageModel uses model instead of the client built from the config.
func WithLanguageModel(model llms.Model) TranslatorOption {
	return func(t *Translator) {
		t.client = model
	}
}

// NewTranslator creates a translator plugin.
func NewTranslator(config TranslatorConfig, opts ...TranslatorOption) (*Translator, error) {
	t := &Translator{
		target:  config.TargetLanguage,
		timeout: config.Timeout,
		logger:  slog.Default(),
	}
	if t.target == "" {
		t.target = "English"
	}
	if t.timeout <= 0 {
		t.timeout = translatorTimeout
	}

	if config.Host != "" {
		// Use "none" as token for local OpenAI-compatible services that don't require authentication
		client, err := openai.New(
			openai.WithBaseURL(config.Host),
			openai.WithToken("none"),
			openai.WithModel(config.Model),
		)
		if err != nil {
			return nil, err
		}
		t.client = client
	}

	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("plugin", translatorName)
	return t, nil
}

func (t *Translator) Name() string        { return translatorName }
func (t *Translator) Version() string     { return "1.0.0" }
func (t *Translator) Description() string { return "Text translation plugin" }

// CanHandle reports whether query starts with a translation prefix.
func (t *Translator) CanHandle(query string) bool {
	_, ok := stripTranslatePrefix(query)
	return ok
}

// Search translates the text following the prefix.
func (t *Translator) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	text, ok := stripTranslatePrefix(query)
	if !ok {
		return nil, nil
	}

	translated, err := t.translate(ctx, text)
	if err != nil {
		return nil, err
	}

	result := core.NewSearchResult("Translation: "+text, translated).
		WithAction(core.CopyToClipboard{Text: translated}).
		WithCategory(core.PluginCategory(translatorName)).
		WithScore(translatorScore)
	return []core.SearchResult{result}, nil
}

// Execute logs the copied translation; the copy itself is performed by the caller.
func (t *Translator) Execute(ctx context.Context, result core.SearchResult) error {
	if action, ok := result.Action.(core.CopyToClipboard); ok {
		t.logger.Info("translation copied", "text", action.Text)
	}
	return nil
}

func (t *Translator) translate(ctx context.Context, text string) (string, error) {
	if t.client == nil {
		return "Translation of: " + text, nil
	}

	systemPrompt := fmt.Sprintf("Translate the user's text into %s. Reply with the translation only.", t.target)
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.logger.Debug("requesting translation", "length", len(text), "timeout", t.timeout)
	response, err := t.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		t.logger.Error("translation request failed", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errors.New("translation response has no choices")
	}

	translated := strings.TrimSpace(response.Choices[0].Content)
	if translated == "" {
		return "", errors.New("translation response is empty")
	}
	return translated, nil
}

func stripTranslatePrefix(query string) (string, bool) {
	for _, prefix := range translatorPrefixes {
		if text, ok := strings.CutPrefix(query, prefix); ok {
			return text, true
		}
	}
	return "", false
}
