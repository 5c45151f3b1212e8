package usecases_test

import (
	"testing"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/usecases"
)

func TestParseInstructions_DedupAndOrder(t *testing.T) {
	steps := usecases.ParseInstructions([]string{
		"Go left (100m)",
		"go LEFT",
		"Go right (50m)",
	})
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Direction != domain.DirectionLeft {
		t.Errorf("step 0 direction = %s", steps[0].Direction)
	}
	if steps[0].DistanceMeters == nil || *steps[0].DistanceMeters != 100 {
		t.Errorf("step 0 distance = %v", steps[0].DistanceMeters)
	}
	if steps[1].Direction != domain.DirectionRight {
		t.Errorf("step 1 direction = %s", steps[1].Direction)
	}
	if steps[1].DistanceMeters == nil || *steps[1].DistanceMeters != 50 {
		t.Errorf("step 1 distance = %v", steps[1].DistanceMeters)
	}
}

func TestParseInstructions_DefaultsToForward(t *testing.T) {
	steps := usecases.ParseInstructions([]string{"Continue along the riverbank"})
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Direction != domain.DirectionForward {
		t.Errorf("direction = %s, want forward", steps[0].Direction)
	}
	if steps[0].DistanceMeters != nil {
		t.Errorf("distance = %v, want nil", *steps[0].DistanceMeters)
	}
}

func TestParseInstructions_HeadPattern(t *testing.T) {
	steps := usecases.ParseInstructions([]string{"Head northeast for 250 m toward the gate"})
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Direction != domain.DirectionNortheast {
		t.Errorf("direction = %s", steps[0].Direction)
	}
	if steps[0].DistanceMeters == nil || *steps[0].DistanceMeters != 250 {
		t.Errorf("distance = %v", steps[0].DistanceMeters)
	}
}

func TestParseInstructions_DropsEmptyAfterNormalization(t *testing.T) {
	steps := usecases.ParseInstructions([]string{"   ", "(only an aside)", ""})
	if len(steps) != 0 {
		t.Fatalf("expected no steps, got %d", len(steps))
	}
}

func TestParseInstructions_CollapsesWhitespace(t *testing.T) {
	steps := usecases.ParseInstructions([]string{"Go   straight \n ahead"})
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Text != "Go straight ahead" {
		t.Errorf("text = %q", steps[0].Text)
	}
	if steps[0].Direction != domain.DirectionStraight {
		t.Errorf("direction = %s", steps[0].Direction)
	}
}
