// Package ui provides the styled terminal output used by probe-cli.
//
// Commands print a header box describing what is about to run, step
// lines while a multi-phase operation (such as flashing) progresses,
// and a result box when it finishes. All rendering is done with
// lipgloss styles defined in styles.go; layout adapts to the terminal
// width reported by the terminal, clamped between MinTerminalWidth
// and MaxContentWidth.
//
// The flash progress bar is a bubbles progress model rendered
// statically with ViewAs - there is no interactive terminal program,
// output is plain sequential printing.
package ui
