package preflight

import "github.com/Firstp1ck/Pacsea-sub003/internal/model"

// ActionDescriptor is what the engine hands to the external spawner on
// confirm (spec §4.7 "Preflight execution"): an install set with chosen
// optdepends, or a remove set with its cascade flag.
type ActionDescriptor struct {
	Action      model.Action
	Targets     []string
	OptDepends  map[string][]string // package -> chosen optdep strings, install only
	Cascade     bool                // remove only
}

// BuildActionDescriptor snapshots p into the descriptor handed to the
// spawner when the user confirms a Preflight run.
func BuildActionDescriptor(p *model.PreflightState) ActionDescriptor {
	targets := make([]string, len(p.Items))
	for i, it := range p.Items {
		targets[i] = it.Name
	}

	desc := ActionDescriptor{Action: p.Action, Targets: targets}
	if p.Action == model.ActionInstall {
		desc.OptDepends = make(map[string][]string, len(p.SelectedOptdepends))
		for pkg, set := range p.SelectedOptdepends {
			chosen := make([]string, 0, len(set))
			for optdep := range set {
				chosen = append(chosen, optdep)
			}
			desc.OptDepends[pkg] = chosen
		}
	} else {
		desc.Cascade = p.CascadeMode == model.CascadeCascade
	}
	return desc
}

// ExecLog buffers log lines from a running Preflight execution, capped
// to a fixed viewport size so a long build log cannot grow unbounded
// (spec §4.7 "PreflightExec ... capped to viewport").
type ExecLog struct {
	lines    []string
	capacity int
}

// NewExecLog builds an ExecLog holding at most capacity lines.
func NewExecLog(capacity int) *ExecLog {
	if capacity <= 0 {
		capacity = 500
	}
	return &ExecLog{capacity: capacity}
}

// Append adds line to the buffer, dropping the oldest line once
// capacity is exceeded.
func (l *ExecLog) Append(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.capacity {
		l.lines = l.lines[len(l.lines)-l.capacity:]
	}
}

// Lines returns the buffered lines in submission order.
func (l *ExecLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

// PostSummary aggregates the counts shown after a Preflight execution
// closes, derived from a best-effort rescan of the catalog and
// filesystem (spec §4.7).
type PostSummary struct {
	Installed []string
	Removed   []string
	Failed    []string
}

// Succeeded reports whether no target ended up in Failed. A target
// missing from all three lists does not count as a failure.
func (s PostSummary) Succeeded() bool {
	return len(s.Failed) == 0
}
