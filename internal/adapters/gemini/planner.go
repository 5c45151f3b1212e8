// Package gemini implements ports.PlannerClient on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"
)

const routePromptTemplate = `From the user's travel request below, extract JSON structured like this:

{
    "city": "...",
    "places": ["Place 1", "Place 2"],
    "food": ["Dish 1", "Dish 2"],
    "itinerary": [
        {"day": "Day 1", "activities": ["Visit Place A", "Try Food B"]},
        {"day": "Day 2", "activities": ["Activity X", "Activity Y"]}
    ]
}

Ensure to cover ALL places over multiple days, with 2-4 activities per day. Respond ONLY with the pure JSON, no explanations.

User's request: '%s'
`

const itineraryPromptTemplate = `Create a detailed day-wise travel itinerary as a JSON array spanning %d day(s). Each day should be an object like {"day": "Day X", "activities": ["Activity 1", "Activity 2"]}. For these places: %s. Respond ONLY with the pure JSON.`

var (
	fenceOpenRe  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// Planner calls Gemini and returns raw JSON documents for the pipeline.
type Planner struct {
	client  *genai.Client
	model   string
	retries int
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Planner. retries counts additional attempts after the first.
func New(ctx context.Context, apiKey, model string, retries int, timeout time.Duration, log *slog.Logger) (*Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	if retries < 0 {
		retries = 0
	}
	return &Planner{client: client, model: model, retries: retries, timeout: timeout, log: log}, nil
}

// GenerateRoute asks for a city/places/food/itinerary document.
func (p *Planner) GenerateRoute(ctx context.Context, prompt string) (json.RawMessage, error) {
	return p.generate(ctx, fmt.Sprintf(routePromptTemplate, prompt))
}

// GenerateItinerary asks for a day-wise plan over the given places.
func (p *Planner) GenerateItinerary(ctx context.Context, places []string, days int) (json.RawMessage, error) {
	if days < 1 {
		days = 1
	}
	return p.generate(ctx, fmt.Sprintf(itineraryPromptTemplate, days, strings.Join(places, ", ")))
}

func (p *Planner) generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		text, err := p.once(ctx, prompt)
		if err == nil {
			return json.RawMessage(StripCodeFence(text)), nil
		}
		lastErr = err
		p.log.Warn("gemini request failed", "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second * time.Duration(attempt+1)):
		}
	}
	return nil, fmt.Errorf("gemini request after %d attempts: %w", p.retries+1, lastErr)
}

func (p *Planner) once(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	return b.String(), nil
}

// StripCodeFence removes a wrapping markdown code block, which Gemini adds
// despite being told not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		s = fenceOpenRe.ReplaceAllString(s, "")
		s = fenceCloseRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
