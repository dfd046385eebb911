package model

// PackageList is an ordered, name-deduplicated sequence of packages with
// its own selection cursor and dirty flag (spec §3.4: InstallList,
// RemoveList, DowngradeList all share this shape).
type PackageList struct {
	Items   []Package
	Cursor  int
	dirty   bool
}

// Add appends pkg if no existing entry names the same target (spec §3.1
// case-insensitive identity). Returns true if it was added.
func (l *PackageList) Add(pkg Package) bool {
	for _, existing := range l.Items {
		if SameTarget(existing, pkg) {
			return false
		}
	}
	l.Items = append(l.Items, pkg)
	l.dirty = true
	return true
}

// RemoveAt removes the item at index i, clamping the cursor to stay in
// bounds (spec §4.8 deletion semantics).
func (l *PackageList) RemoveAt(i int) bool {
	if i < 0 || i >= len(l.Items) {
		return false
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	l.dirty = true
	if len(l.Items) == 0 {
		l.Cursor = 0
	} else if l.Cursor > len(l.Items)-1 {
		l.Cursor = len(l.Items) - 1
	}
	return true
}

// Names returns the list's package names in order.
func (l *PackageList) Names() []string {
	names := make([]string, len(l.Items))
	for i, p := range l.Items {
		names[i] = p.Name
	}
	return names
}

// Dirty reports whether the list has unflushed mutations.
func (l *PackageList) Dirty() bool { return l.dirty }

// MarkDirty flags the list as having unflushed mutations.
func (l *PackageList) MarkDirty() { l.dirty = true }

// ClearDirty clears the dirty flag, typically after a successful flush.
func (l *PackageList) ClearDirty() { l.dirty = false }
