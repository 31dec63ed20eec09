package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// spinnerFrames are the braille animation frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerTickMsg advances the animation.
type spinnerTickMsg time.Time

func spinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// spinnerModel is the bubbletea model behind Spinner.
type spinnerModel struct {
	message string
	frame   int
}

func (m spinnerModel) Init() tea.Cmd { return spinnerTick() }

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinnerTickMsg); ok {
		m.frame++
		return m, spinnerTick()
	}
	return m, nil
}

func (m spinnerModel) View() string {
	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	return styleIconSpinner.Render(frame) + " " + StyleDim.Render(m.message)
}

// Spinner shows an animated progress indicator on stderr while a slow
// operation (usually the LLM request) is in flight.
type Spinner struct {
	message string
	parent  context.Context
	cancel  context.CancelFunc
	prog    *tea.Program
	stop    sync.Once
	stopped chan struct{}
	started bool
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	runCtx, cancel := context.WithCancel(ctx)
	prog := tea.NewProgram(
		spinnerModel{message: message},
		tea.WithContext(runCtx),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &Spinner{
		message: message,
		parent:  ctx,
		cancel:  cancel,
		prog:    prog,
		stopped: make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		// Run exits when the spinner context is cancelled.
		_, _ = s.prog.Run()
		s.clearLine()
	}()
}

// Stop stops the spinner and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the surrounding context was cancelled while
// the spinner was running.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
