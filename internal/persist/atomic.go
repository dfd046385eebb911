// Package persist implements the flush-if-dirty contract for Pacsea's
// on-disk caches (spec §4.1): dirty-gated writes, the install-list
// throttle, and the signature-keyed empty-payload-on-empty-list rule for
// the four resolver caches.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite writes data to path via a temp file in the same directory
// followed by a rename, so a process killed mid-write never leaves a
// half-written cache file. Adapted from the teacher's
// pkg/cache.atomicWrite.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("persist: rename into place: %w", err)
	}

	success = true
	return nil
}

// MarshalError wraps a JSON marshaling failure so callers (MaybeFlush in
// particular) can tell it apart from an I/O failure: per spec §4.1, a
// serialization error aborts the flush and keeps the dirty flag set,
// while an I/O error is logged and swallowed with the dirty flag cleared
// regardless.
type MarshalError struct {
	Path string
	Err  error
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("persist: marshal %s: %v", e.Path, e.Err)
}

func (e *MarshalError) Unwrap() error { return e.Err }

// WriteJSON serializes v and atomically writes it to path. A
// serialization error is returned as *MarshalError (the caller must
// decide whether to keep the dirty flag set); an I/O error is also
// returned but per spec §4.1 is logged-and-swallowed by callers, not
// treated as fatal.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &MarshalError{Path: path, Err: err}
	}
	if err := atomicWrite(path, data); err != nil {
		return err
	}
	return nil
}

// ReadJSON reads and decodes path into v. Missing files are reported via
// os.IsNotExist on the returned error so callers can degrade to an empty
// in-memory default (spec §7 Parse error taxonomy).
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("persist: unmarshal %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
