// Package router implements the Input Router / Focus Machine (spec
// §4.8): the pane-cycle focus domain, the modal-stack-consumes-event
// rule, and the deletion/Enter key semantics for the three install-
// adjacent lists. The pane-cycle idiom (an ordered list of focus
// targets with wraparound forward/backward cycling) is carried over
// from the teacher's widget-focus navigation, generalized from 1-of-N
// widget IDs to Pacsea's fixed pane/sub-pane focus enum.
package router

// Focus identifies the top-level pane holding input focus (spec §4.8).
type Focus string

const (
	FocusSearch    Focus = "search"
	FocusInstall   Focus = "install"
	FocusRecent    Focus = "recent"
	FocusDowngrade Focus = "downgrade"
	FocusRemove    Focus = "remove"
)

// RightPaneFocus is the sub-focus within the right column when the
// view is in installed-only mode (spec §4.8).
type RightPaneFocus string

const (
	RightPaneInstall   RightPaneFocus = "install"
	RightPaneRemove    RightPaneFocus = "remove"
	RightPaneDowngrade RightPaneFocus = "downgrade"
)

// normalCycle and installedOnlyCycle encode the two pane-cycle orders
// from spec §4.8. In normal mode the right column is a single
// "Install" stop. Installed-
// only mode drops the Install stop and promotes Downgrade and Remove
// to top-level cycle stops in their own right: Search -> Downgrade ->
// Remove -> Recent -> Search.
var normalCycle = []Focus{FocusSearch, FocusInstall, FocusRecent}
var installedOnlyCycle = []Focus{FocusSearch, FocusDowngrade, FocusRemove, FocusRecent}

// FocusMachine tracks the current pane/sub-pane focus and implements
// the forward/backward pane cycle (spec §4.8).
type FocusMachine struct {
	Current       Focus
	RightPane     RightPaneFocus
	InstalledOnly bool
}

// NewFocusMachine builds a FocusMachine starting on the Search pane.
func NewFocusMachine() *FocusMachine {
	return &FocusMachine{Current: FocusSearch, RightPane: RightPaneInstall}
}

func (f *FocusMachine) cycle() []Focus {
	if f.InstalledOnly {
		return installedOnlyCycle
	}
	return normalCycle
}

// CycleForward advances focus to the next pane, wrapping around.
func (f *FocusMachine) CycleForward() {
	order := f.cycle()
	idx := f.indexOf(order)
	f.Current = order[(idx+1)%len(order)]
}

// CycleBackward moves focus to the previous pane, wrapping around.
func (f *FocusMachine) CycleBackward() {
	order := f.cycle()
	idx := f.indexOf(order)
	f.Current = order[(idx-1+len(order))%len(order)]
}

func (f *FocusMachine) indexOf(order []Focus) int {
	for i, c := range order {
		if c == f.Current {
			return i
		}
	}
	return 0
}

// CycleRightPaneForward moves the installed-only right-column
// sub-focus to the next of Install/Remove/Downgrade, wrapping around.
// Reached by horizontal arrows while Install-column focus is active
// (spec §4.8).
func (f *FocusMachine) CycleRightPaneForward() {
	order := []RightPaneFocus{RightPaneInstall, RightPaneRemove, RightPaneDowngrade}
	for i, c := range order {
		if c == f.RightPane {
			f.RightPane = order[(i+1)%len(order)]
			return
		}
	}
	f.RightPane = RightPaneInstall
}

// CycleRightPaneBackward is CycleRightPaneForward's reverse.
func (f *FocusMachine) CycleRightPaneBackward() {
	order := []RightPaneFocus{RightPaneInstall, RightPaneRemove, RightPaneDowngrade}
	for i, c := range order {
		if c == f.RightPane {
			f.RightPane = order[(i-1+len(order))%len(order)]
			return
		}
	}
	f.RightPane = RightPaneInstall
}
