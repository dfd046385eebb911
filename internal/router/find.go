package router

import "strings"

// FindMode holds an in-pane "/" find buffer for the Search-results,
// Recent, and Install panes (spec §4.8 in-pane find). Enter jumps to
// the next case-insensitive substring match on the candidate names,
// wrapping around; Esc cancels; Backspace trims the buffer.
type FindMode struct {
	Active bool
	Query  string
}

// Start activates find mode with an empty query.
func (f *FindMode) Start() {
	f.Active = true
	f.Query = ""
}

// Cancel deactivates find mode and clears the buffer.
func (f *FindMode) Cancel() {
	f.Active = false
	f.Query = ""
}

// Type appends r to the query.
func (f *FindMode) Type(r rune) {
	if f.Active {
		f.Query += string(r)
	}
}

// Backspace trims the last rune from the query.
func (f *FindMode) Backspace() {
	if !f.Active || f.Query == "" {
		return
	}
	runes := []rune(f.Query)
	f.Query = string(runes[:len(runes)-1])
}

// NextMatch returns the index of the next candidate whose name
// contains the query, starting just after from and wrapping around.
// Returns -1 if no candidate matches or the query is empty.
func (f *FindMode) NextMatch(names []string, from int) int {
	if f.Query == "" || len(names) == 0 {
		return -1
	}
	lower := strings.ToLower(f.Query)
	n := len(names)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if strings.Contains(strings.ToLower(names[idx]), lower) {
			return idx
		}
	}
	return -1
}
