package coordinator

import (
	"context"
	"time"

	"github.com/Firstp1ck/Pacsea-sub003/internal/catalog"
)

// DefaultPostActionPollInterval and DefaultPostActionDeadline bound the
// installed-rescan poll window after a confirmed install/remove (spec
// §4.9 "post-action installed-rescan poll window").
const (
	DefaultPostActionPollInterval = 500 * time.Millisecond
	DefaultPostActionDeadline     = 10 * time.Second
)

// RunPostActionRescan launches the catalog's post-action poll in its
// own goroutine, using the coordinator's default interval/deadline.
// onDone is invoked on the poll goroutine once targets settle or the
// deadline expires; callers typically use it to send a redraw message
// back to the event loop.
func (c *Coordinator) RunPostActionRescan(ctx context.Context, cat *catalog.Catalog, targets []string, wantInstalled bool, onDone func()) {
	go cat.PostActionPoll(ctx, targets, wantInstalled, DefaultPostActionPollInterval, DefaultPostActionDeadline, onDone)
}
