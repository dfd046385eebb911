package persist

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

// InstallListFlushThrottle is the minimum interval between successive
// install-list flushes (spec §4.1, P2): 1000ms.
const InstallListFlushThrottle = 1000 * time.Millisecond

// InstallListFlusher tracks the throttle state for the install list's
// maybe_flush, which is dirty-gated like every other cache but also
// requires at least InstallListFlushThrottle since the last mutation
// before it is allowed to write (spec §4.1, P2, E4).
type InstallListFlusher struct {
	Path string

	lastChange time.Time
	hasChange  bool
}

// MarkMutated records that the install list was just mutated, arming the
// throttle window. Callers invoke this from every list-mutating event
// (add/remove) in addition to the list's own MarkDirty.
func (f *InstallListFlusher) MarkMutated(now time.Time) {
	f.lastChange = now
	f.hasChange = true
}

// MaybeFlush flushes the install list if it is dirty and at least
// InstallListFlushThrottle has elapsed since the last mutation. A
// successful flush clears both the list's dirty flag and the throttle
// timestamp (spec §4.1, E4). Returns true if a flush was performed.
func (f *InstallListFlusher) MaybeFlush(logger *slog.Logger, list *model.PackageList, now time.Time) bool {
	if !list.Dirty() {
		return false
	}
	if f.hasChange && now.Sub(f.lastChange) < InstallListFlushThrottle {
		return false
	}

	err := WriteJSON(f.Path, list.Items)
	if err != nil {
		logger.Warn("install list flush failed", "path", f.Path, "error", err)
		var marshalErr *MarshalError
		if errors.As(err, &marshalErr) {
			// Keep dirty and the throttle timestamp so the next tick
			// retries once the condition re-passes.
			return false
		}
	}

	list.ClearDirty()
	f.hasChange = false
	return true
}
