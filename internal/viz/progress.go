package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/edgesim/internal/sweep"
)

const (
	maxBarWidth = 60
	recentRows  = 8
)

// OutcomeMsg reports one finished task to the Progress model.
type OutcomeMsg sweep.Outcome

// DoneMsg ends the live view once the sweep returns.
type DoneMsg struct {
	Report *sweep.Report
	Err    error
}

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "abort sweep"),
	),
}

// Progress is a bubbletea model that follows a sweep.
type Progress struct {
	total  int
	done   int
	failed int
	recent []sweep.Outcome
	bar    progress.Model

	report   *sweep.Report
	err      error
	finished bool
	aborted  bool
}

func NewProgress(total int) Progress {
	return Progress{
		total: total,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m Progress) Init() tea.Cmd { return nil }

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
	case OutcomeMsg:
		m.done++
		if msg.Err != nil {
			m.failed++
		}
		m.recent = append(m.recent, sweep.Outcome(msg))
		if len(m.recent) > recentRows {
			m.recent = m.recent[len(m.recent)-recentRows:]
		}
	case DoneMsg:
		m.report, m.err, m.finished = msg.Report, msg.Err, true
		return m, tea.Quit
	}
	return m, nil
}

func (m Progress) View() string {
	var sb strings.Builder

	sb.WriteString(GradientTitle.Render("edge sweep"))
	sb.WriteString("\n\n")
	sb.WriteString(m.bar.ViewAs(m.Percent()))
	sb.WriteString("  ")
	sb.WriteString(MetricValue.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.failed > 0 {
		sb.WriteString("  ")
		sb.WriteString(StatusFailed.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	sb.WriteString("\n\n")

	for _, o := range m.recent {
		line := fmt.Sprintf("%-16s (%9.4g, %9.4g)  ", o.Label, o.Final.X, o.Final.Y)
		sb.WriteString(MetricLabel.Render(line))
		if o.Err != nil {
			sb.WriteString(StatusFailed.Render(o.Err.Error()))
		} else {
			sb.WriteString(RegimeStyle(o.Regime).Render(string(o.Regime)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	switch {
	case m.finished:
		sb.WriteString(StatusRunning.Render("done"))
	case m.aborted:
		sb.WriteString(StatusFailed.Render("aborted"))
	default:
		sb.WriteString(KeyHint.Render(keys.Quit.Help().Key + " " + keys.Quit.Help().Desc))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m Progress) Percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// Result returns the sweep result once a DoneMsg arrived. Aborted reports
// whether the user quit first.
func (m Progress) Result() (report *sweep.Report, aborted bool, err error) {
	return m.report, m.aborted, m.err
}

type programObserver struct {
	p *tea.Program
}

// Forward returns a sweep observer that sends every outcome to p.
func Forward(p *tea.Program) sweep.Observer {
	return programObserver{p: p}
}

func (o programObserver) OnOutcome(out sweep.Outcome) {
	o.p.Send(OutcomeMsg(out))
}
