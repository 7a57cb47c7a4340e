// Package tui provides the Bubble Tea drafting interface: a chat view
// over the drafting controller with attachment ingestion mapped onto
// terminal modalities.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/diario/internal/app/drafting"
	"github.com/PabloGalante/diario/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	readyBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
)

// Model is the drafting chat TUI.
type Model struct {
	ctrl *drafting.Controller

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	width  int
	height int
	sized  bool

	loading     bool
	summarizing bool
	uploading   bool
	quitting    bool

	draft    *domain.Draft
	canceled bool
}

// New builds the TUI around a drafting controller.
func New(ctrl *drafting.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textarea.New()
	ti.Placeholder = "Type a message… (/attach <path> adds images)"
	ti.CharLimit = 4000
	ti.SetWidth(80)
	ti.SetHeight(3)
	ti.ShowLineNumbers = false
	ti.Focus()

	return Model{
		ctrl: ctrl,
		spin: s,
		input: ti,
	}
}

// Draft returns the completed draft, if the flow finished successfully.
func (m Model) Draft() (domain.Draft, bool) {
	if m.draft == nil {
		return domain.Draft{}, false
	}
	return *m.draft, true
}

// Canceled reports whether the user abandoned the flow.
func (m Model) Canceled() bool {
	return m.canceled
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, textarea.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg)

	case TurnAppendedMsg:
		// The refresh below picks up the new turn and follows the bottom.

	case replySettledMsg:
		m.loading = false

	case attachSettledMsg:
		m.uploading = false

	case pasteTextMsg:
		m.input.InsertString(msg.text)

	case draftReadyMsg:
		m.summarizing = false
		m.draft = &msg.draft
		m.quitting = true
		return m, tea.Quit

	case summarizeFailedMsg:
		// Failure stays out of the transcript; the caller sees it in
		// the logs and the flow remains usable.
		m.summarizing = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.busy() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refreshViewport()

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.canceled = true
		m.quitting = true
		return m, tea.Quit

	case "ctrl+s":
		// Summarize affordance: only revealed once the backend has
		// signaled readiness, and disabled while anything is in flight.
		if !m.ctrl.Session().ReadyToSummarize() || m.busy() {
			return m, nil
		}
		m.summarizing = true
		return m, summarizeCmd(m.ctrl)

	case "ctrl+v":
		if m.busy() {
			return m, nil
		}
		return m, pasteCmd(m.ctrl)

	case "enter":
		if m.busy() {
			return m, nil
		}
		return m.handleSubmit()

	case "pgup", "pgdown":
		// Transcript scrolling works even while a call is in flight.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	// A bare path in the input line is how a file lands on a terminal
	// when dragged onto it: treat it as the drop modality.
	if rest, ok := strings.CutPrefix(text, "/attach "); ok {
		m.uploading = true
		return m, attachCmd(m.ctrl, strings.Fields(rest))
	}
	if rest, ok := strings.CutPrefix(text, "/rm "); ok {
		removeByField(m.ctrl, rest)
		return m, nil
	}
	if paths := droppedPaths(text); len(paths) > 0 {
		m.uploading = true
		return m, dropCmd(m.ctrl, paths)
	}

	m.loading = true
	return m, submitCmd(m.ctrl, text)
}

func (m Model) busy() bool {
	return m.loading || m.summarizing || m.uploading
}

func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	inputHeight := 5
	chromeHeight := 4
	vpHeight := msg.Height - inputHeight - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.sized {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.sized = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(msg.Width - 4)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *Model) refreshViewport() {
	if !m.sized {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderTurns(m.ctrl.Session().Turns(), m.viewport.Width))
	if atBottom {
		// Newest turn stays visible.
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.sized {
		return "loading…"
	}

	var b strings.Builder

	header := titleStyle.Render("✎ Draft a journal entry from a conversation")
	if m.ctrl.Session().ReadyToSummarize() {
		header += "  " + readyBadgeStyle.Render("ctrl+s: turn into entry")
	}
	b.WriteString(header + "\n")

	b.WriteString(m.viewport.View() + "\n")

	b.WriteString(m.statusLine() + "\n")
	b.WriteString(inputBorderStyle.Render(m.input.View()) + "\n")
	b.WriteString(hintStyle.Render("enter: send · drop or /attach <path>: add image · /rm <n>: remove · esc: cancel"))

	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.loading:
		return m.spin.View() + " thinking…"
	case m.summarizing:
		return m.spin.View() + " writing your entry…"
	case m.uploading:
		return m.spin.View() + " uploading…"
	}

	var parts []string
	if n := m.ctrl.Attachments().Len(); n > 0 {
		parts = append(parts, labelStyle.Render(fmt.Sprintf("%d image(s) attached", n)))
	}
	if errMsg := m.ctrl.Attachments().Err(); errMsg != "" {
		parts = append(parts, errStyle.Render(errMsg))
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, "  ")
}

// renderTurns lays out the transcript, assistant turns on the left and
// user turns indented.
func renderTurns(turns []domain.Turn, width int) string {
	if width <= 0 {
		width = 80
	}
	bodyWidth := width - 8
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch t.Role {
		case domain.RoleUser:
			b.WriteString(labelStyle.Render("you ") + "\n")
			b.WriteString(userStyle.Width(bodyWidth).PaddingLeft(4).Render(t.Text))
		default:
			b.WriteString(labelStyle.Render("diario ") + "\n")
			b.WriteString(assistantStyle.Width(bodyWidth).Render(t.Text))
		}
	}
	return b.String()
}
