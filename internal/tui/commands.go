package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PabloGalante/diario/internal/app/drafting"
	"github.com/PabloGalante/diario/internal/domain"
	"github.com/PabloGalante/diario/internal/observability"
)

// TurnAppendedMsg signals that the session transcript grew. The program
// wiring sends it from the controller's append callback so the view
// re-renders mid-exchange, with the newest turn kept visible.
type TurnAppendedMsg struct{}

type (
	replySettledMsg    struct{}
	attachSettledMsg   struct{}
	draftReadyMsg      struct{ draft domain.Draft }
	summarizeFailedMsg struct{ err error }
	pasteTextMsg       struct{ text string }
)

// submitCmd runs one SubmitTurn exchange. Transport failures surface as
// synthetic turns inside the session, so the settled message is all the
// UI needs either way.
func submitCmd(ctrl *drafting.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.SubmitTurn(context.Background(), text); err != nil {
			observability.Logger().Warn("turn rejected", "error", err)
		}
		return replySettledMsg{}
	}
}

func summarizeCmd(ctrl *drafting.Controller) tea.Cmd {
	return func() tea.Msg {
		draft, err := ctrl.Summarize(context.Background())
		if err != nil {
			return summarizeFailedMsg{err: err}
		}
		return draftReadyMsg{draft: draft}
	}
}

// attachCmd is the explicit-picker modality: validation errors are
// reported through the manager's error state.
func attachCmd(ctrl *drafting.Controller, paths []string) tea.Cmd {
	return func() tea.Msg {
		ctrl.Attachments().AddFiles(context.Background(), LoadFiles(paths)...)
		return attachSettledMsg{}
	}
}

// dropCmd is the drop modality: non-image files are silently ignored.
func dropCmd(ctrl *drafting.Controller, paths []string) tea.Cmd {
	return func() tea.Msg {
		ctrl.Attachments().AddDropped(context.Background(), LoadFiles(paths)...)
		return attachSettledMsg{}
	}
}

// pasteCmd reads the clipboard. When it names an image file the paste is
// consumed by the attachment manager; otherwise the text falls through
// to the input field, which is the default paste behavior.
func pasteCmd(ctrl *drafting.Controller) tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadAll()
		if err != nil || text == "" {
			return attachSettledMsg{}
		}

		if paths := droppedPaths(text); len(paths) > 0 {
			if ctrl.Attachments().AddPasted(context.Background(), LoadFiles(paths)...) {
				return attachSettledMsg{}
			}
		}
		return pasteTextMsg{text: text}
	}
}

func removeByField(ctrl *drafting.Controller, field string) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return
	}
	// The status line counts from one.
	ctrl.Attachments().RemoveAt(n - 1)
}
