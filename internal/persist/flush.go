package persist

import (
	"errors"
	"log/slog"
)

// Dirtyable is any in-memory cache that tracks its own unflushed-mutation
// state, matching model.DetailsCache and model.PackageList.
type Dirtyable interface {
	Dirty() bool
	ClearDirty()
}

// MaybeFlush implements the simple per-cache contract of spec §4.1: if
// the cache isn't dirty, do nothing. Otherwise marshal value, write it to
// path, and clear the dirty flag whether or not the write succeeded — a
// serialization error is the one case that aborts the flush and leaves
// the dirty flag set so the next tick retries (P1).
func MaybeFlush(logger *slog.Logger, path string, cache Dirtyable, value any) {
	if !cache.Dirty() {
		return
	}

	if err := WriteJSON(path, value); err != nil {
		logger.Warn("cache flush failed", "path", path, "error", err)
		var marshalErr *MarshalError
		if errors.As(err, &marshalErr) {
			// Never reached disk; retry on the next tick.
			return
		}
	}

	cache.ClearDirty()
}
