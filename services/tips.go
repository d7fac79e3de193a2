package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformedTips means the completion decoded but lacks the required shape.
var ErrMalformedTips = errors.New("tip bundle failed shape validation")

// Completer sends a prompt to a text-completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type Tip struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Habit struct {
	Emoji string `json:"emoji"`
	Time  string `json:"time"`
	Habit string `json:"habit"`
}

// TipBundle is the body served by the tips endpoint.
type TipBundle struct {
	Quote  *Quote   `json:"quote"`
	Tips   []Tip    `json:"tips"`
	Habits []Habit  `json:"habits"`
	Facts  []string `json:"facts"`
}

// TipSource tells where a bundle came from.
type TipSource string

const (
	SourceModel    TipSource = "model"
	SourceFallback TipSource = "fallback"
)

// TipsResult is either a decoded model bundle or the fallback bundle.
type TipsResult struct {
	Bundle TipBundle
	Source TipSource
}

// The prompt asks for at least three items per list, but only presence is
// checked on the way back, and the fallback carries two of each.
const tipsPrompt = `Generate a JSON object:
{
  "quote": { "text": "", "author": "" },
  "tips": [{ "emoji": "", "title": "", "description": "" }],
  "habits": [{ "emoji": "", "time": "", "habit": "" }],
  "facts": [""]
}

Rules:
- Respond ONLY with valid JSON.
- NO text, NO markdown, NO explanations.
- Ensure arrays contain at least 3 items.
- Make content heart-health related.`

// FallbackTips returns a fresh copy of the fixed bundle served on any failure.
func FallbackTips() TipBundle {
	return TipBundle{
		Quote: &Quote{Text: "Your heart is your engine. Take care of it daily.", Author: "Unknown"},
		Tips: []Tip{
			{Emoji: "💧", Title: "Stay Hydrated", Description: "Drink water throughout the day."},
			{Emoji: "🚶‍♂️", Title: "Light Walk", Description: "Take short walks to boost circulation."},
		},
		Habits: []Habit{
			{Emoji: "☀️", Time: "Morning", Habit: "Drink a glass of water"},
			{Emoji: "🌙", Time: "Night", Habit: "Stretch for 5 minutes"},
		},
		Facts: []string{
			"Your heart beats over 100,000 times a day.",
			"Laughing reduces stress and improves blood flow.",
		},
	}
}

var codeFence = regexp.MustCompile("```json|```")

// DecodeTipBundle strips code fences from a completion and decodes it.
func DecodeTipBundle(raw string) (*TipBundle, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(raw), ""))

	var bundle TipBundle
	if err := json.Unmarshal([]byte(cleaned), &bundle); err != nil {
		return nil, errors.Wrap(err, "completion is not a tip bundle")
	}
	if bundle.Quote == nil || bundle.Quote.Text == "" ||
		bundle.Tips == nil || bundle.Habits == nil || bundle.Facts == nil {
		return nil, ErrMalformedTips
	}
	return &bundle, nil
}

type TipsService struct {
	completer Completer
	timeout   time.Duration
}

// NewTipsService builds the tips proxy. A nil completer always serves the fallback.
func NewTipsService(completer Completer, timeout time.Duration) *TipsService {
	return &TipsService{completer: completer, timeout: timeout}
}

// Tips asks the completer for a bundle. It never fails: every error path
// degrades to the fallback bundle.
func (s *TipsService) Tips(ctx context.Context) TipsResult {
	fallback := TipsResult{Bundle: FallbackTips(), Source: SourceFallback}
	if s.completer == nil {
		return fallback
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.completer.Complete(ctx, tipsPrompt)
	if err != nil {
		log.Printf("[ai] completion failed, using fallback: %v", err)
		return fallback
	}

	bundle, err := DecodeTipBundle(raw)
	if err != nil {
		log.Printf("[ai] unusable completion, using fallback: %v; raw: %q", err, raw)
		return fallback
	}
	return TipsResult{Bundle: *bundle, Source: SourceModel}
}
