package usecases

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yatramap/yatramap/internal/core/domain"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	directionRe     = regexp.MustCompile(`(?i)\b(?:go|head)\s+([a-z]+)`)
	distanceRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m\b`)
)

var directions = map[string]domain.Direction{
	"left":      domain.DirectionLeft,
	"right":     domain.DirectionRight,
	"straight":  domain.DirectionStraight,
	"back":      domain.DirectionBack,
	"northeast": domain.DirectionNortheast,
	"northwest": domain.DirectionNorthwest,
	"southeast": domain.DirectionSoutheast,
	"southwest": domain.DirectionSouthwest,
}

// ParseInstructions cleans and deduplicates free-text routing directions.
// Parenthetical asides are stripped and whitespace collapsed; distance is
// extracted from the original text before stripping so "(100m)" still counts.
// Duplicates are keyed on the lowercased normalized text, first occurrence
// kept.
func ParseInstructions(texts []string) []domain.InstructionStep {
	var steps []domain.InstructionStep
	seen := make(map[string]struct{}, len(texts))
	for _, raw := range texts {
		text := normalizeInstruction(raw)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		step := domain.InstructionStep{Text: text, Direction: parseDirection(text)}
		if m := distanceRe.FindStringSubmatch(raw); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				step.DistanceMeters = &v
			}
		}
		steps = append(steps, step)
	}
	return steps
}

func normalizeInstruction(s string) string {
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func parseDirection(text string) domain.Direction {
	if m := directionRe.FindStringSubmatch(text); m != nil {
		if d, ok := directions[strings.ToLower(m[1])]; ok {
			return d
		}
	}
	return domain.DirectionForward
}
