package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

// S1: Tab cycles Search -> Install -> Recent -> Search in normal mode.
func TestFocusMachineCyclesSearchInstallRecent(t *testing.T) {
	f := NewFocusMachine()
	if f.Current != FocusSearch {
		t.Fatalf("expected initial focus Search, got %v", f.Current)
	}
	f.CycleForward()
	if f.Current != FocusInstall {
		t.Fatalf("expected Install after one forward cycle, got %v", f.Current)
	}
	f.CycleForward()
	if f.Current != FocusRecent {
		t.Fatalf("expected Recent after two forward cycles, got %v", f.Current)
	}
	f.CycleForward()
	if f.Current != FocusSearch {
		t.Fatalf("expected wraparound to Search, got %v", f.Current)
	}
}

// S2: installed-only mode cycles Search -> Downgrade -> Remove -> Recent -> Search.
func TestFocusMachineInstalledOnlyCyclesThroughDowngradeAndRemove(t *testing.T) {
	f := NewFocusMachine()
	f.InstalledOnly = true

	want := []Focus{FocusDowngrade, FocusRemove, FocusRecent, FocusSearch}
	for i, w := range want {
		f.CycleForward()
		if f.Current != w {
			t.Fatalf("step %d: expected %v, got %v", i, w, f.Current)
		}
	}
}

func TestFocusMachineCycleBackwardWraps(t *testing.T) {
	f := NewFocusMachine()
	f.CycleBackward()
	if f.Current != FocusRecent {
		t.Fatalf("expected backward wrap to Recent, got %v", f.Current)
	}
}

// S3: Enter on a non-empty Install list opens Preflight on Summary with
// a frozen item clone, unless skip_preflight is set.
func TestHandleInstallEnterOpensPreflightOnSummary(t *testing.T) {
	list := &model.PackageList{Items: []model.Package{{Name: "ripgrep"}}}

	res := HandleInstallEnter(list, false)
	if !res.OpenPreflight || res.Preflight == nil {
		t.Fatal("expected preflight to open")
	}
	if res.Preflight.Tab != model.TabSummary {
		t.Fatalf("expected Summary tab, got %v", res.Preflight.Tab)
	}
	if len(res.Preflight.Items) != 1 || res.Preflight.Items[0].Name != "ripgrep" {
		t.Fatalf("expected frozen clone of install list, got %v", res.Preflight.Items)
	}

	list.Items[0].Name = "mutated"
	if res.Preflight.Items[0].Name != "ripgrep" {
		t.Fatal("expected preflight items to be a snapshot, unaffected by later list mutation")
	}
}

func TestHandleInstallEnterSkipsPreflightWhenConfigured(t *testing.T) {
	list := &model.PackageList{Items: []model.Package{{Name: "ripgrep"}}}

	res := HandleInstallEnter(list, true)
	if res.OpenPreflight || res.Preflight != nil {
		t.Fatal("expected no preflight modal when skip_preflight is set")
	}
	if !res.EmitInstall {
		t.Fatal("expected install action to be emitted directly")
	}
}

func TestHandleInstallEnterOnEmptyListDoesNothing(t *testing.T) {
	list := &model.PackageList{}
	res := HandleInstallEnter(list, false)
	if res.OpenPreflight || res.EmitInstall {
		t.Fatal("expected no-op on empty install list")
	}
}

func TestDeleteFromListInvalidatesOnlyForInstallList(t *testing.T) {
	list := &model.PackageList{Items: []model.Package{{Name: "a"}, {Name: "b"}}, Cursor: 1}

	calls := 0
	if !DeleteFromList(list, 0, true, func() { calls++ }) {
		t.Fatal("expected removal to succeed")
	}
	if calls != 1 {
		t.Fatalf("expected invalidation callback once for install list, got %d", calls)
	}
	if !list.Dirty() {
		t.Fatal("expected list marked dirty")
	}
	if list.Cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", list.Cursor)
	}

	calls = 0
	DeleteFromList(list, 0, false, func() { calls++ })
	if calls != 0 {
		t.Fatal("expected no invalidation callback for a non-install list")
	}
}

// E5: typing "hello" into Search, entering normal mode, anchoring at 1,
// moving the caret to 3, then deleting the marked selection.
func TestSearchInputE5SelectionAndDelete(t *testing.T) {
	s := NewSearchInput()
	for _, r := range "hello" {
		s.Type(r)
	}
	if s.Caret != 5 || s.Text() != "hello" {
		t.Fatalf("expected buffer 'hello' caret 5, got %q caret %d", s.Text(), s.Caret)
	}

	s.EnterNormalMode()
	s.MoveCaretTo(1)
	s.SetAnchor()
	s.MoveCaretTo(3)

	if !s.HasSelection() {
		t.Fatal("expected an active selection")
	}
	start, end := s.SelectionRange()
	if start != 1 || end != 3 {
		t.Fatalf("expected selection [1,3), got [%d,%d)", start, end)
	}
	if string(s.Buffer[start:end]) != "el" {
		t.Fatalf("expected selected text 'el', got %q", string(s.Buffer[start:end]))
	}

	s.Delete()
	if s.Text() != "hlo" {
		t.Fatalf("expected buffer 'hlo' after delete, got %q", s.Text())
	}
	if s.Caret != 1 {
		t.Fatalf("expected caret at 1 after delete, got %d", s.Caret)
	}
	if s.HasSelection() {
		t.Fatal("expected selection cleared after delete")
	}
}

func TestFindModeNextMatchWrapsAround(t *testing.T) {
	f := &FindMode{Active: true, Query: "rip"}
	names := []string{"firefox", "ripgrep", "fd", "ripgrep-all"}

	idx := f.NextMatch(names, 3)
	if idx != 1 {
		t.Fatalf("expected wraparound match at index 1, got %d", idx)
	}
}

// consumingModal and recordingPane are a minimal ModalHandler/PaneHandler pair for
// testing the modal-stack-consumes-event rule in isolation.
type consumingModal struct{ consume bool }

func (m consumingModal) HandleKey(tea.KeyMsg) bool { return m.consume }

type recordingPane struct{ called bool }

func (p *recordingPane) HandleKey(tea.KeyMsg) tea.Cmd {
	p.called = true
	return nil
}

func TestDispatchModalConsumesBeforePane(t *testing.T) {
	pane := &recordingPane{}
	Dispatch(consumingModal{consume: true}, pane, tea.KeyMsg{})
	if pane.called {
		t.Fatal("expected pane handler not to be invoked when modal consumes the event")
	}
}

func TestDispatchFallsThroughToPane(t *testing.T) {
	pane := &recordingPane{}
	Dispatch(consumingModal{consume: false}, pane, tea.KeyMsg{})
	if !pane.called {
		t.Fatal("expected pane handler to be invoked when modal declines the event")
	}
}

func TestDispatchNoModalGoesStraightToPane(t *testing.T) {
	pane := &recordingPane{}
	Dispatch(nil, pane, tea.KeyMsg{})
	if !pane.called {
		t.Fatal("expected pane handler to be invoked with no active modal")
	}
}
