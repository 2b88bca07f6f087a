package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quipe/internal/flow"
	"github.com/verte-zerg/quipe/internal/model"
	"github.com/verte-zerg/quipe/internal/notify"
)

const (
	focusCategory = iota
	focusTopic
	focusStyle
	focusCount
)

const placeholderText = "Your quote will appear here..."

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	quoteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Italic(true)
	authorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8A1E3"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#6B3FA0")).Padding(0, 2)
	disabledStyle = buttonStyle.Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#3A2A50"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnCount     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030"))
	boxStyle      = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A3A6A"))

	toastStyles = map[notify.Kind]lipgloss.Style{
		notify.KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#1F6B3A")).Padding(0, 1),
		notify.KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#8B1E1E")).Padding(0, 1),
		notify.KindWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#8A6212")).Padding(0, 1),
		notify.KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#1E3F8B")).Padding(0, 1),
		notify.KindLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A")).Padding(0, 1),
	}
)

type quoteDoneMsg struct {
	err error
}

type noteMsg notify.Notification

type toastExpiredMsg struct {
	seq     int
	warning bool
}

// Model implements the Bubble Tea quote UI.
type Model struct {
	ctx   context.Context
	ctrl  *flow.Controller
	notes *Notifier

	categories []model.Category
	category   int
	topic      textinput.Model
	style      textinput.Model
	focus      int

	spinner spinner.Model
	pending bool

	toast    *notify.Notification
	toastSeq int
	// Warnings have their own slot so a following loading or result
	// toast cannot hide them before they expire.
	warning    *notify.Notification
	warningSeq int

	width  int
	height int
}

// NewModel constructs a quote TUI model. notes must be the notifier the
// controller was built with.
func NewModel(ctx context.Context, ctrl *flow.Controller, notes *Notifier, prefs model.Preferences) *Model {
	m := &Model{
		ctx:        ctx,
		ctrl:       ctrl,
		notes:      notes,
		categories: model.Categories(),
		topic:      newInput("e.g., perseverance, courage...", model.TopicMaxLen),
		style:      newInput("e.g., Shakespeare, modern...", model.StyleMaxLen),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(focusedStyle)),
	}
	m.selectCategory(prefs.Category)
	m.topic.SetValue(prefs.Topic)
	m.style.SetValue(prefs.Style)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Width = 40
	return input
}

func (m *Model) selectCategory(c model.Category) {
	if c == "" {
		c = model.DefaultCategory
	}
	for i, known := range m.categories {
		if known == c {
			m.category = i
			return
		}
	}
}

// Preferences returns the preferences currently entered in the form.
func (m *Model) Preferences() model.Preferences {
	return model.Preferences{
		Category: m.categories[m.category],
		Topic:    m.topic.Value(),
		Style:    m.style.Value(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForNote()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := maxInt(10, minInt(60, m.width/2))
		m.topic.Width = inputWidth
		m.style.Width = inputWidth
		return m, nil
	case noteMsg:
		return m, tea.Batch(m.showToast(notify.Notification(msg)), m.waitForNote())
	case toastExpiredMsg:
		if msg.warning {
			if msg.seq == m.warningSeq {
				m.warning = nil
			}
			return m, nil
		}
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	case quoteDoneMsg:
		m.pending = false
		return m, nil
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "enter":
		return m, m.startRequest(false)
	case "ctrl+r":
		return m, m.startRequest(true)
	case "ctrl+y":
		// Clipboard failures surface as a notification.
		_ = m.ctrl.Copy()
		return m, nil
	}

	switch m.focus {
	case focusCategory:
		switch msg.String() {
		case "left", "h":
			m.cycleCategory(-1)
		case "right", "l", " ":
			m.cycleCategory(1)
		}
		return m, nil
	case focusTopic:
		var cmd tea.Cmd
		m.topic, cmd = m.topic.Update(msg)
		return m, cmd
	case focusStyle:
		var cmd tea.Cmd
		m.style, cmd = m.style.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) cycleCategory(delta int) {
	count := len(m.categories)
	m.category = (m.category + delta + count) % count
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.focus = (m.focus + delta + focusCount) % focusCount
	m.topic.Blur()
	m.style.Blur()
	switch m.focus {
	case focusTopic:
		return m.topic.Focus()
	case focusStyle:
		return m.style.Focus()
	}
	return nil
}

// startRequest runs a generation in the background. The trigger is ignored
// while a request is in flight.
func (m *Model) startRequest(random bool) tea.Cmd {
	if m.pending || m.ctrl.State() == model.StateInFlight {
		return nil
	}
	m.pending = true
	ctx := m.ctx
	prefs := m.Preferences()
	ctrl := m.ctrl
	run := func() tea.Msg {
		var err error
		if random {
			_, err = ctrl.Random(ctx)
		} else {
			_, err = ctrl.Generate(ctx, prefs)
		}
		return quoteDoneMsg{err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) showToast(n notify.Notification) tea.Cmd {
	if n.Kind == notify.KindWarning {
		m.warningSeq++
		m.warning = &n
		seq := m.warningSeq
		return tea.Tick(n.Kind.Duration(), func(_ time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq, warning: true}
		})
	}
	m.toastSeq++
	m.toast = &n
	if n.Sticky() {
		return nil
	}
	seq := m.toastSeq
	return tea.Tick(n.Kind.Duration(), func(_ time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) waitForNote() tea.Cmd {
	if m.notes == nil {
		return nil
	}
	return m.notes.wait
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()
	contentWidth := 60
	if m.width > 0 {
		contentWidth = maxInt(20, minInt(80, m.width-8))
	}

	sections := []string{
		titleStyle.Render("Ayō · quote generator"),
		m.renderQuote(snap, contentWidth),
		m.renderForm(),
		m.renderButton(snap),
	}
	if warning := renderNote(m.warning); warning != "" {
		sections = append(sections, warning)
	}
	if toast := renderNote(m.toast); toast != "" {
		sections = append(sections, toast)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter(snap)
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	bodyHeight := maxInt(1, m.height-1)
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderQuote(snap flow.Snapshot, width int) string {
	innerWidth := maxInt(10, width-8)
	if snap.Display.Empty() {
		return boxStyle.Width(width).Render(emptyStyle.Render(placeholderText))
	}
	quoted := "“" + snap.Display.Text + "”"
	if snap.Failed && snap.Display.Text == flow.ErrorText {
		quoted = snap.Display.Text
	}
	lines := wrapText(quoted, innerWidth)
	parts := []string{quoteStyle.Render(strings.Join(lines, "\n"))}
	if snap.Display.Author != "" {
		author := authorStyle.Render("— " + snap.Display.Author)
		parts = append(parts, "", lipgloss.PlaceHorizontal(innerWidth, lipgloss.Right, author))
	}
	return boxStyle.Width(width).Render(strings.Join(parts, "\n"))
}

func (m *Model) renderForm() string {
	category := m.categories[m.category].Title()
	categoryLine := fmt.Sprintf("‹ %s ›", category)
	if m.focus == focusCategory {
		categoryLine = focusedStyle.Render(categoryLine)
	}
	rows := []string{
		m.label("Category", focusCategory) + "  " + categoryLine,
		m.label("Topic (optional)", focusTopic) + "  " + m.topic.View(),
		m.label("Style (optional)", focusStyle) + "  " + m.style.View(),
	}
	return strings.Join(rows, "\n")
}

func (m *Model) label(text string, field int) string {
	padded := fmt.Sprintf("%-17s", text)
	if m.focus == field {
		return focusedStyle.Render(padded)
	}
	return labelStyle.Render(padded)
}

func (m *Model) renderButton(snap flow.Snapshot) string {
	if m.pending || snap.State == model.StateInFlight {
		return disabledStyle.Render(m.spinner.View() + " Generating...")
	}
	return buttonStyle.Render("Generate Quote")
}

func renderNote(n *notify.Notification) string {
	if n == nil {
		return ""
	}
	style, ok := toastStyles[n.Kind]
	if !ok {
		style = toastStyles[notify.KindInfo]
	}
	return style.Render(n.Text)
}

func (m *Model) renderFooter(snap flow.Snapshot) string {
	count := fmt.Sprintf("Requests %d", snap.Count)
	if snap.Count > m.ctrl.WarnThreshold() {
		count = warnCount.Render(count)
	} else {
		count = footerStyle.Render(count)
	}
	help := footerStyle.Render("enter: generate  ctrl+r: random  ctrl+y: copy  tab: next field  ←/→: category  esc: quit")
	return help + "  " + count
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
