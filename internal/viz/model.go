package viz

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/knapviz/internal/config"
	"github.com/san-kum/knapviz/internal/export"
	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

const (
	delayStep      = 50 * time.Millisecond
	maxDelay       = 2 * time.Second
	sidePanelWidth = 36
	chromeLines    = 7
)

type screen int

const (
	screenForm screen = iota
	screenBoard
)

const (
	fieldCapacity = iota
	fieldWeights
	fieldPrices
	fieldDelay
	fieldCount
)

var fieldLabels = [fieldCount]string{"Capacity", "Weights", "Prices", "Delay ms"}

// stepMsg resumes run at chain seq. Messages of a superseded run or of an
// abandoned chain are dropped.
type stepMsg struct {
	run uint64
	seq int
}

type startMsg struct{}

type copiedMsg struct{ err error }

// CopyToClipboard writes the exported table; tests replace it.
var CopyToClipboard = clipboard.WriteAll

// Model is the Bubble Tea model of the terminal front end.
type Model struct {
	cfg     *config.Config
	logger  *slog.Logger
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	inputs  []textinput.Model
	focus   int

	screen   screen
	viewport *grid.Viewport
	session  *knapsack.Session
	anim     *knapsack.Animator
	run      uint64
	seq      int
	delay    time.Duration
	paused   bool

	status    string
	notice    string
	err       error
	theme     Theme
	autostart bool

	width, height int
}

// NewModel builds the form prefilled from cfg. With autostart the first run
// begins without waiting for enter.
func NewModel(cfg *config.Config, logger *slog.Logger, autostart bool) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	inputs := make([]textinput.Model, fieldCount)
	values := [fieldCount]string{
		strconv.Itoa(cfg.Capacity),
		joinInts(cfg.Weights),
		joinInts(cfg.Prices),
		strconv.Itoa(cfg.DelayMS),
	}
	placeholders := [fieldCount]string{"5", "2,3,4,5", "3,4,5,6", "200"}
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Width = 30
		in.SetValue(values[i])
		inputs[i] = in
	}
	inputs[fieldCapacity].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	vw, vh := ViewportSize(80, 24-chromeLines)
	viewport := grid.NewViewport(vw, vh)
	session := knapsack.NewSession(knapsack.SessionConfig{
		Container:  viewport,
		Stylesheet: cfg.Stylesheet,
		GridOptions: []grid.Option{
			grid.WithGap(TerminalGap),
			grid.WithMeasurer(TerminalMeasurer),
		},
		Highlight: true,
		Logger:    logger,
	})

	return Model{
		cfg:       cfg,
		logger:    logger,
		keys:      DefaultKeyMap,
		help:      help.New(),
		spinner:   s,
		inputs:    inputs,
		viewport:  viewport,
		session:   session,
		delay:     cfg.Delay(),
		theme:     ThemeForStylesheet(cfg.Stylesheet, cfg.Theme),
		autostart: autostart,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.autostart {
		cmds = append(cmds, func() tea.Msg { return startMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles input events and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resizeViewport()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case startMsg:
		return m.start()
	case stepMsg:
		return m.step(msg)
	case copiedMsg:
		if msg.err != nil {
			m.notice = "copy failed: " + msg.err.Error()
		} else {
			m.notice = "table copied as CSV"
		}
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenForm {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}

	if m.screen == screenForm {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) resizeViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w, h := ViewportSize(m.width-sidePanelWidth-2, m.height-chromeLines)
	m.viewport.Resize(w, h)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m.start()
	case key.Matches(msg, m.keys.Next):
		return m, m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.New):
		m.session.Cancel()
		m.screen = screenForm
		m.notice = ""
		return m, m.focusField(m.focus)
	case key.Matches(msg, m.keys.Pause):
		if m.anim == nil || m.anim.Finished() {
			return m, nil
		}
		m.paused = !m.paused
		if !m.paused {
			return m, m.schedule()
		}
	case key.Matches(msg, m.keys.Slower):
		m.setDelay(min(m.delay+delayStep, maxDelay))
	case key.Matches(msg, m.keys.Faster):
		m.setDelay(max(m.delay-delayStep, 0))
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme.Name)
	case key.Matches(msg, m.keys.Copy):
		if m.anim != nil {
			return m, copyTable(m.anim.Table())
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setDelay(d time.Duration) {
	m.delay = d
	m.inputs[fieldDelay].SetValue(strconv.Itoa(int(d / time.Millisecond)))
}

func copyTable(t *knapsack.Table) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		if err := export.WriteCSV(&b, t); err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{err: CopyToClipboard(b.String())}
	}
}

func (m Model) parseForm() (capacity int, weights, prices []int, delayMS int, err error) {
	if capacity, err = config.ParseCapacity(m.inputs[fieldCapacity].Value()); err != nil {
		return
	}
	if weights, err = config.ParseList("weights", m.inputs[fieldWeights].Value()); err != nil {
		return
	}
	if prices, err = config.ParseList("prices", m.inputs[fieldPrices].Value()); err != nil {
		return
	}
	delayMS, err = config.ParseDelay(m.inputs[fieldDelay].Value())
	return
}

// start supersedes any run in flight with a fresh grid and animator.
func (m Model) start() (tea.Model, tea.Cmd) {
	capacity, weights, prices, delayMS, err := m.parseForm()
	if err != nil {
		m.err = err
		return m, nil
	}
	a, token, err := m.session.Prepare(capacity, weights, prices)
	if err != nil {
		m.logger.Warn("run rejected", "err", err)
		m.err = err
		return m, nil
	}

	m.err = nil
	m.notice = ""
	m.status = ""
	m.anim = a
	m.run = token.ID()
	m.paused = false
	m.delay = time.Duration(delayMS) * time.Millisecond
	m.screen = screenBoard
	m.inputs[m.focus].Blur()
	return m, m.schedule()
}

// schedule starts a new step chain; pending messages of older chains become
// stale.
func (m *Model) schedule() tea.Cmd {
	m.seq++
	msg := stepMsg{run: m.run, seq: m.seq}
	if m.delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return msg })
}

func (m Model) step(msg stepMsg) (tea.Model, tea.Cmd) {
	if m.anim == nil || msg.seq != m.seq || !m.session.Controller().Live(msg.run) {
		return m, nil
	}
	if m.paused || m.anim.Finished() {
		return m, nil
	}

	s, err := m.anim.Advance()
	if err != nil {
		m.logger.Error("step failed", "run", m.run, "err", err)
		m.err = err
		m.session.Cancel()
		return m, nil
	}
	if s.Kind == knapsack.TableEntry {
		m.status = s.Status
	}
	if m.anim.Finished() {
		answer, _ := m.anim.Answer()
		m.logger.Info("run finished", "run", m.run, "answer", answer)
		return m, nil
	}
	return m, m.schedule()
}

// View renders the current screen.
func (m Model) View() string {
	if m.screen == screenForm {
		return m.viewForm()
	}
	return m.viewBoard()
}

func (m Model) viewForm() string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render("0/1 KNAPSACK") + "\n\n")
	for i, in := range m.inputs {
		label := MetricLabel.Render(fieldLabels[i])
		if i == m.focus {
			label = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Width(10).Render(fieldLabels[i])
		}
		s.WriteString(label + " " + in.View() + "\n")
	}
	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(StatusError.Render(m.err.Error()) + "\n\n")
	}
	s.WriteString(m.help.View(formKeys{m.keys}))
	return s.String()
}

func (m Model) viewBoard() string {
	g := m.session.Grid()
	if g == nil || m.anim == nil {
		return ""
	}
	snap := g.Snapshot()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("0/1 KNAPSACK") + "  " + m.stateLabel() + "\n\n")

	board := RenderBoard(snap, m.theme)
	side := GlassPanel.Width(sidePanelWidth - 4).Render(m.sidePanel(snap))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side) + "\n\n")

	if m.status != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Secondary).Render(m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString(StatusError.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		s.WriteString(Subtle.Render(m.notice) + "\n")
	}
	s.WriteString(m.help.View(boardKeys{m.keys}))
	return s.String()
}

func (m Model) stateLabel() string {
	switch state := m.anim.State(); {
	case state == knapsack.Done:
		return StatusRunning.Render("DONE")
	case state == knapsack.Cancelled:
		return StatusError.Render("CANCELLED")
	case m.paused:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(m.spinner.View() + " RUNNING")
	}
}

func (m Model) sidePanel(snap grid.Snapshot) string {
	var s strings.Builder
	written, total := m.anim.Progress()
	s.WriteString(Metric("capacity", strconv.Itoa(m.anim.Capacity())) + "\n")
	s.WriteString(Metric("items", strconv.Itoa(m.anim.Items())) + "\n")
	s.WriteString(Metric("delay", m.delay.String()) + "\n")
	s.WriteString(Metric("cell", fmt.Sprintf("%.1f / font %.1f", snap.CellSize, snap.FontSize)) + "\n")
	s.WriteString(Metric("theme", m.theme.Name) + "\n")
	s.WriteString(Metric("entries", fmt.Sprintf("%d/%d", written, total)) + "\n")
	if total > 0 {
		s.WriteString(ProgressBar(float64(written)/float64(total), sidePanelWidth-8) + "\n")
	}

	if answer, ok := m.anim.Answer(); ok {
		s.WriteString("\n" + Metric("best", strconv.Itoa(answer)) + "\n")
		s.WriteString(Metric("items", "["+joinInts(m.anim.Selection())+"]") + "\n")
	}
	if chart := ProfitChart(m.anim.Table(), 5, sidePanelWidth-12); chart != "" {
		s.WriteString("\n" + chart)
	}
	return s.String()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
