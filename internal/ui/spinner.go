package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Braille scan frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated status line while a backend call runs.
type Spinner struct {
	mu           sync.Mutex
	label        string
	detail       string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	out          io.Writer
	animated     bool
	running      bool
	lastRendered string
}

// NewSpinner creates a spinner writing to stderr. Animation is only shown
// when stderr is a terminal; otherwise just the final line is printed.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		label:    label,
		state:    SpinnerPending,
		out:      os.Stderr,
		animated: IsTerminal(os.Stderr),
	}
}

// SetOutput redirects the spinner. Non-terminal writers get no animation.
func (s *Spinner) SetOutput(w io.Writer, animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = w
	s.animated = animated
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	animated := s.animated
	s.mu.Unlock()

	if !animated {
		close(s.doneChan)
		return
	}
	s.render()
	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and prints the label with an optional detail,
// e.g. "Added 2 host(s)".
func (s *Spinner) Success(detail string) {
	s.finish(SpinnerSuccess, detail)
}

// Fail stops the spinner and prints the label with the failure detail.
func (s *Spinner) Fail(detail string) {
	s.finish(SpinnerFailed, detail)
}

func (s *Spinner) finish(state SpinnerState, detail string) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.detail = detail
	s.mu.Unlock()
	s.renderFinal()
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Run shows a spinner for the duration of fn. The final line carries the
// detail fn returns on success, or the error text on failure.
func Run(w io.Writer, animated bool, label string, fn func() (string, error)) error {
	s := NewSpinner(label)
	s.SetOutput(w, animated)
	s.Start()
	detail, err := fn()
	if err != nil {
		s.Fail(firstLine(err.Error()))
		return err
	}
	s.Success(detail)
	return nil
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	colorIndex := (s.frame / 2) % len(GradientColors)
	style := lipgloss.NewStyle().Foreground(GradientColors[colorIndex])
	line := fmt.Sprintf("%s %s...", style.Render(spinnerFrames[s.frame]), s.label)

	s.clearLine()
	fmt.Fprint(s.out, line)
	s.lastRendered = line
}

// clearLine blanks the previous frame. Caller holds mu.
func (s *Spinner) clearLine() {
	if s.lastRendered == "" {
		return
	}
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", lipgloss.Width(s.lastRendered))+"\r")
	s.lastRendered = ""
}

func (s *Spinner) renderFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := SymbolPending
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	switch s.state {
	case SpinnerSuccess:
		symbol = SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ColorSuccess)
	case SpinnerFailed:
		symbol = SymbolFail
		style = lipgloss.NewStyle().Foreground(ColorError)
	}

	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	line := style.Render(symbol) + " " + s.label
	if s.detail != "" {
		line += ": " + s.detail
	}
	line += " " + muted.Render(formatDuration(time.Since(s.startTime)))

	s.clearLine()
	fmt.Fprintln(s.out, line)
}

// formatDuration formats a duration for display (e.g., "0.03s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}

func firstLine(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, SymbolFail))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
