package ui

import (
	"strings"
	"testing"
)

func TestRenderStep(t *testing.T) {
	tests := []struct {
		name       string
		step       Step
		wantMarker string
	}{
		{name: "pending", step: Step{Name: "Erasing", Status: StepPending}, wantMarker: StepMarkerPending},
		{name: "running", step: Step{Name: "Erasing", Status: StepRunning}, wantMarker: StepMarkerRunning},
		{name: "complete", step: Step{Name: "Erasing", Status: StepComplete}, wantMarker: StepMarkerComplete},
		{name: "failed", step: Step{Name: "Erasing", Status: StepFailed}, wantMarker: FailureMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := RenderStep(tt.step)
			if !strings.Contains(line, tt.step.Name) {
				t.Errorf("line %q does not contain step name %q", line, tt.step.Name)
			}
			if !strings.Contains(line, tt.wantMarker) {
				t.Errorf("line %q does not contain marker %q", line, tt.wantMarker)
			}
		})
	}
}

func TestRenderStepMessage(t *testing.T) {
	line := RenderStep(Step{Name: "Programming", Status: StepComplete, Message: "4,096 bytes"})
	if !strings.Contains(line, "4,096 bytes") {
		t.Errorf("line %q does not contain the step message", line)
	}
}

func TestBarRenderBounds(t *testing.T) {
	bar := NewBar("Verifying")
	for _, fraction := range []float64{0, 0.5, 1} {
		out := bar.Render(fraction)
		if !strings.Contains(out, "Verifying") {
			t.Errorf("Render(%v) = %q, want the label included", fraction, out)
		}
	}
}

func TestGetTerminalWidthBounds(t *testing.T) {
	width := GetTerminalWidth()
	if width < 60 || width > 100 {
		t.Errorf("GetTerminalWidth() = %d, want between 60 and 100", width)
	}
}
