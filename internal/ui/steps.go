package ui

import (
	"github.com/charmbracelet/bubbles/progress"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Step represents a single step in a multi-step operation,
// e.g. one phase of the flashing sequence.
type Step struct {
	Name    string     // Step description
	Status  StepStatus // Current status
	Message string     // Optional status message (e.g., "1,234 bytes")
}

// RenderStep returns one styled step line with its status marker.
func RenderStep(s Step) string {
	marker := StepMarkerPending
	style := StepPendingStyle
	switch s.Status {
	case StepComplete:
		marker = StepMarkerComplete
		style = StepCompleteStyle
	case StepFailed:
		marker = FailureMarker
		style = ErrorTitleStyle
	case StepRunning:
		marker = StepMarkerRunning
		style = StepRunningStyle
	case StepSkipped:
		marker = "⊘"
		style = StepPendingStyle
	}

	line := "  " + style.Render(s.Name)
	line += "  " + style.Render(marker)
	if s.Message != "" {
		line += "  " + StepNoteStyle.Render("(" + s.Message + ")")
	}
	return line
}

// Bar is a static progress bar for long-running operations.
// It renders a bubbles progress model at a given completion
// fraction without running a full terminal program.
type Bar struct {
	label string
	model progress.Model
}

// NewBar creates a progress bar with the given label.
func NewBar(label string) *Bar {
	return &Bar{
		label: label,
		model: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
	}
}

// Render returns the bar at the given completion fraction (0.0 - 1.0).
func (b *Bar) Render(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return "  " + b.label + "  " + b.model.ViewAs(fraction)
}

