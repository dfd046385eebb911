package persist

import (
	"errors"
	"log/slog"
	"os"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

// SignedCacheFlusher manages one of the four install-list-signature-keyed
// resolver caches (deps, files, services, sandbox; spec §3.9, §4.1).
type SignedCacheFlusher[T any] struct {
	Path  string
	dirty bool
}

// MarkDirty flags the cache as having unflushed mutations.
func (f *SignedCacheFlusher[T]) MarkDirty() { f.dirty = true }

// Dirty reports whether the cache has unflushed mutations.
func (f *SignedCacheFlusher[T]) Dirty() bool { return f.dirty }

// MaybeFlush implements the signature-keyed cache flush rule (spec §4.1,
// §3.9, P3):
//
//   - If the install list is non-empty: flush only when dirty, writing
//     {signature, payload}; clear dirty regardless of write outcome,
//     unless serialization itself failed.
//   - If the install list is empty: write an empty-signature record
//     `{signature: [], payload: []}` whenever dirty OR the file does not
//     yet exist — an empty cache file is never deleted, only
//     (re)written, so downstream readers always see a well-formed file.
func (f *SignedCacheFlusher[T]) MaybeFlush(logger *slog.Logger, installListNames []string, sig []string, payload []T) {
	empty := len(installListNames) == 0

	if empty {
		if !f.dirty && Exists(f.Path) {
			return
		}
		if payload == nil {
			payload = []T{}
		}
		f.write(logger, model.SignedCache[T]{InstallListSignature: []string{}, Payload: payload})
		return
	}

	if !f.dirty {
		return
	}
	f.write(logger, model.SignedCache[T]{InstallListSignature: sig, Payload: payload})
}

func (f *SignedCacheFlusher[T]) write(logger *slog.Logger, doc model.SignedCache[T]) {
	err := WriteJSON(f.Path, doc)
	if err != nil {
		logger.Warn("signed cache flush failed", "path", f.Path, "error", err)
		var marshalErr *MarshalError
		if errors.As(err, &marshalErr) {
			return
		}
	}
	f.dirty = false
}

// Load reads the cache file and reports whether its signature matches the
// current install list. A missing or malformed file, or a signature
// mismatch, is treated as an empty cache (spec §3.9, §7 Parse taxonomy).
func (f *SignedCacheFlusher[T]) Load(logger *slog.Logger, installListNames []string) []T {
	var doc model.SignedCache[T]
	if err := ReadJSON(f.Path, &doc); err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("signed cache load failed", "path", f.Path, "error", err)
		}
		return nil
	}
	if !doc.Matches(installListNames) {
		return nil
	}
	return doc.Payload
}
