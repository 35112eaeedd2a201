package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ProgressMsg struct {
	Accepted, Target int
}

// DoneMsg ends the progress view; Err is nil on success.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

// ProgressModel shows sampler progress while a curve is computed in another
// goroutine. Feed it with Program.Send(ProgressMsg{...}) and finish with
// DoneMsg. Quitting early calls cancel.
type ProgressModel struct {
	title    string
	accepted int
	target   int
	frame    int
	started  time.Time
	elapsed  time.Duration
	done     bool
	err      error
	cancel   func()
}

func NewProgressModel(title string, cancel func()) ProgressModel {
	return ProgressModel{title: title, cancel: cancel, started: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/15, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case ProgressMsg:
		if msg.Accepted > m.accepted {
			m.accepted = msg.Accepted
		}
		m.target = msg.Target
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m ProgressModel) Percent() float64 {
	if m.target <= 0 {
		return 0
	}
	return float64(m.accepted) / float64(m.target)
}

func (m ProgressModel) Done() bool { return m.done }

func (m ProgressModel) Err() error { return m.err }

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m ProgressModel) View() string {
	var s strings.Builder

	status := spinner[m.frame%len(spinner)] + " sampling"
	switch {
	case m.err != nil:
		status = ErrorText.Render("failed: " + m.err.Error())
	case m.done:
		status = fmt.Sprintf("done in %s", m.elapsed.Round(time.Millisecond))
	case m.target > 0 && m.accepted >= m.target:
		status = spinner[m.frame%len(spinner)] + " computing curve"
	}

	s.WriteString(Title.Render(m.title) + "\n")
	s.WriteString(ProgressBar(m.Percent(), 40))
	s.WriteString(fmt.Sprintf(" %d/%d\n", m.accepted, m.target))
	s.WriteString(Subtle.Render(status) + "\n")
	return s.String()
}
