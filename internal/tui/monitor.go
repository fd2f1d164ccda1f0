package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wardscribe/voicepanel/internal/bus"
)

// StatusFunc fetches the daemon's session summary.
type StatusFunc func() (bus.Status, error)

// CommandFunc sends one bus command.
type CommandFunc func(cmd byte) (bus.Response, error)

type statusMsg struct {
	status bus.Status
	err    error
}

type commandMsg struct {
	resp bus.Response
	err  error
}

type pollMsg struct{}

// Monitor is a live status panel that polls the daemon and maps keys to
// session commands.
type Monitor struct {
	query    StatusFunc
	send     CommandFunc
	interval time.Duration

	status  bus.Status
	err     error
	notice  string
	spinner spinner.Model
}

var monitorKeys = map[string]byte{
	" ": bus.CmdToggle,
	"p": bus.CmdPause,
	"r": bus.CmdRetry,
	"d": bus.CmdDone,
	"c": bus.CmdCancel,
}

func NewMonitor(query StatusFunc, send CommandFunc, interval time.Duration) Monitor {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return Monitor{
		query:    query,
		send:     send,
		interval: interval,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StyleHighlight)),
	}
}

func (m Monitor) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.spinner.Tick)
}

func (m Monitor) poll() tea.Cmd {
	query := m.query
	return func() tea.Msg {
		s, err := query()
		return statusMsg{status: s, err: err}
	}
}

func (m Monitor) command(cmd byte) tea.Cmd {
	send := m.send
	return func() tea.Msg {
		resp, err := send(cmd)
		return commandMsg{resp: resp, err: err}
	}
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		if cmd, ok := monitorKeys[key]; ok {
			return m, m.command(cmd)
		}

	case commandMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		return m, m.poll()

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return pollMsg{} })

	case pollMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Monitor) View() string {
	if m.err != nil {
		return StyleError.Render("daemon unreachable: "+m.err.Error()) + "\n\n" + StyleSubtle.Render("q quit") + "\n"
	}

	view := RenderStatus(m.status)
	if m.status.Phase == "transcribing" {
		view += "\n" + m.spinner.View() + " " + StyleMuted.Render("transcribing")
	}
	if m.notice != "" {
		view += "\n" + StyleWarning.Render(m.notice)
	}
	return view + "\n\n" + StyleSubtle.Render("space record/stop • p pause • r retry • d done • c cancel • q quit") + "\n"
}

// RunMonitor runs the live panel against the local daemon until the user quits.
func RunMonitor(interval time.Duration) error {
	_, err := tea.NewProgram(NewMonitor(bus.QueryStatus, bus.Request, interval)).Run()
	return err
}
