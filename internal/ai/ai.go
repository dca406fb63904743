// Package ai talks to the Gemini generateContent REST API to split a task
// into subtasks and to summarize notes.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Collaborator is what the session manager needs from an AI backend.
type Collaborator interface {
	Breakdown(ctx context.Context, title string) ([]string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash"
	DefaultTimeout  = 20 * time.Second
)

var ErrNotConfigured = errors.New("gemini API key is not configured")

type Config struct {
	APIKey        string
	Model         string
	Endpoint      string
	Timeout       time.Duration
	RatePerMinute int
}

type Gemini struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

var _ Collaborator = (*Gemini)(nil)

func NewGemini(cfg Config, logger logging.Logger) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	return &Gemini{
		cfg:     cfg,
		client:  &http.Client{},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

const (
	breakdownPrompt = `Break down the following task into a short list of actionable sub-tasks: "%s". Provide only the sub-task titles.`
	summarizePrompt = "Summarize the following note concisely in a few bullet points:\n\n%s"
)

var subtaskSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "STRING",
				"description": "The title of a single, actionable sub-task.",
			},
		},
		"required": []string{"title"},
	},
}

// Breakdown asks for subtask titles for a task. Blank titles in the reply
// are dropped.
func (g *Gemini) Breakdown(ctx context.Context, title string) ([]string, error) {
	text, err := g.generate(ctx, fmt.Sprintf(breakdownPrompt, title), map[string]any{
		"responseMimeType": "application/json",
		"responseSchema":   subtaskSchema,
	})
	if err != nil {
		return nil, wrapFailure("failed to generate sub-tasks from AI", err)
	}

	parsed := gjson.Parse(strings.TrimSpace(text))
	if !parsed.IsArray() {
		return nil, wrapFailure("failed to generate sub-tasks from AI", errors.New("AI returned an invalid format"))
	}

	titles := make([]string, 0, len(parsed.Array()))
	parsed.ForEach(func(_, item gjson.Result) bool {
		if t := strings.TrimSpace(item.Get("title").String()); t != "" {
			titles = append(titles, t)
		}
		return true
	})
	return titles, nil
}

func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	out, err := g.generate(ctx, fmt.Sprintf(summarizePrompt, text), nil)
	if err != nil {
		return "", wrapFailure("failed to summarize note from AI", err)
	}
	return out, nil
}

func wrapFailure(msg string, err error) error {
	if errors.Is(err, ErrNotConfigured) {
		return fmt.Errorf("%w: %w", common.ErrExternalService, err)
	}
	return fmt.Errorf("%w: %s: %v", common.ErrExternalService, msg, err)
}
