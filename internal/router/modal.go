package router

import tea "github.com/charmbracelet/bubbletea"

// ModalHandler is implemented by whatever owns the active modal's key
// handling. HandleKey returns true if it consumed the event, stopping
// further propagation to the pane handler (spec §4.8 "Modal stack
// rule"), mirroring the bool-returning match arms in the upstream
// modal dispatcher.
type ModalHandler interface {
	HandleKey(msg tea.KeyMsg) bool
}

// PaneHandler is implemented by whatever owns the currently focused
// pane's key handling, invoked only when no modal consumed the event.
type PaneHandler interface {
	HandleKey(msg tea.KeyMsg) tea.Cmd
}

// Dispatch implements the modal-stack-consumes-event rule (spec §4.8):
// any key event is first offered to the active modal handler; only
// when there is no active modal (modal is nil) or it declines to
// consume the event does the pane handler see it.
func Dispatch(modal ModalHandler, pane PaneHandler, msg tea.KeyMsg) tea.Cmd {
	if modal != nil && modal.HandleKey(msg) {
		return nil
	}
	if pane == nil {
		return nil
	}
	return pane.HandleKey(msg)
}
