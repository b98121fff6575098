package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerLine shows one in-flight operation. On a non-terminal writer the
// spinner library draws nothing, so output stays line based.
type spinnerLine struct {
	spinner *spinner.Spinner
}

func newSpinnerLine(out io.Writer) *spinnerLine {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &spinnerLine{spinner: s}
}

func (l *spinnerLine) Start(message string) {
	l.spinner.Suffix = " " + message
	if !l.spinner.Active() {
		l.spinner.Start()
	}
}

func (l *spinnerLine) Stop() {
	if l.spinner.Active() {
		l.spinner.Stop()
	}
}

// Pause stops the spinner and returns a function that restarts it if it was running
func (l *spinnerLine) Pause() func() {
	if !l.spinner.Active() {
		return func() {}
	}
	l.spinner.Stop()
	return l.spinner.Start
}
