// Package generator turns free text into flashcards by prompting a generative
// text service and validating the JSON it answers with.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/andrewpaige1/flashgen-api/errs"
	"github.com/andrewpaige1/flashgen-api/models"
)

// Completer sends one prompt to a generative text service and returns the raw
// text of its answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BreakerConfig controls when the generator stops calling a failing service.
// Zero values select the defaults.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

const (
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
)

type Generator struct {
	completer Completer
	breaker   *gobreaker.CircuitBreaker
}

func New(completer Completer, bc BreakerConfig) *Generator {
	if bc.MaxFailures == 0 {
		bc.MaxFailures = defaultMaxFailures
	}
	if bc.OpenTimeout == 0 {
		bc.OpenTimeout = defaultOpenTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generator",
		MaxRequests: 1,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Generator: circuit %s moved from %s to %s", name, from, to)
		},
		// Cancellation is not a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Generator{
		completer: completer,
		breaker:   breaker,
	}
}

// Generate returns exactly CardCount cards built from text. The service is
// called at most once; there is no retry and no caching.
func (g *Generator) Generate(ctx context.Context, text string) ([]models.Card, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("Text is required to generate flashcards")
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.completer.Complete(ctx, BuildPrompt(text))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errs.Downstream(err, "Flashcard generation is temporarily unavailable")
		}
		return nil, errs.Downstream(err, "Failed to generate flashcards")
	}

	return ParseCards(out.(string))
}

type generatedSet struct {
	Flashcards *[]generatedCard `json:"flashcards"`
}

type generatedCard struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
}

// ParseCards validates a raw model answer. Anything other than an object with a
// "flashcards" array of exactly CardCount {front, back} string pairs is rejected
// as a whole.
func ParseCards(raw string) ([]models.Card, error) {
	var parsed generatedSet
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errs.Format(err, "Invalid response format from AI")
	}
	if parsed.Flashcards == nil {
		return nil, errs.Format(nil, "Invalid response format from AI: missing flashcards array")
	}

	generated := *parsed.Flashcards
	if len(generated) != CardCount {
		return nil, errs.Format(nil, "Invalid response format from AI: expected %d flashcards, got %d", CardCount, len(generated))
	}

	cards := make([]models.Card, 0, CardCount)
	for i, c := range generated {
		if c.Front == nil || c.Back == nil || strings.TrimSpace(*c.Front) == "" || strings.TrimSpace(*c.Back) == "" {
			return nil, errs.Format(nil, "Invalid response format from AI: flashcard %d is missing front or back", i+1)
		}
		cards = append(cards, models.Card{Front: *c.Front, Back: *c.Back})
	}
	return cards, nil
}

// NewCompleter builds the completer for the named provider.
func NewCompleter(ctx context.Context, provider, apiKey, model string) (Completer, error) {
	switch provider {
	case "gemini":
		c, err := NewGeminiCompleter(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		c, err := NewOpenAICompleter(apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported generator provider %q", provider)
	}
}
