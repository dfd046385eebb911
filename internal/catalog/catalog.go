// Package catalog implements the Package Catalog (spec §4.2): the
// installed/official package universe backing is_installed checks, the
// browse-all-official listing, and repo/distro classification
// predicates. It is refreshed lazily, with a short post-action poll
// window so the UI notices an install/remove completing without a
// constant background refresh loop.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
	"github.com/Firstp1ck/Pacsea-sub003/internal/pacman"
)

// Catalog tracks installed package names and the set of all official
// packages, refreshing both lazily via a pacman Client.
type Catalog struct {
	client *pacman.Client
	logger *slog.Logger

	mu        sync.RWMutex
	installed map[string]struct{}
	official  []model.Package
	loadedAt  time.Time

	// refreshEvery gates how often Refresh actually re-shells out; a
	// zero value always refreshes.
	refreshEvery time.Duration
}

// New builds a Catalog over the given pacman Client.
func New(client *pacman.Client, logger *slog.Logger) *Catalog {
	return &Catalog{
		client:       client,
		logger:       logger,
		installed:    make(map[string]struct{}),
		refreshEvery: 5 * time.Second,
	}
}

// Refresh re-queries installed packages if the last refresh is older
// than refreshEvery (lazy refresh, spec §4.2).
func (c *Catalog) Refresh(ctx context.Context) {
	c.mu.Lock()
	stale := time.Since(c.loadedAt) >= c.refreshEvery
	c.mu.Unlock()
	if !stale {
		return
	}
	c.ForceRefresh(ctx)
}

// ForceRefresh unconditionally re-queries installed packages.
func (c *Catalog) ForceRefresh(ctx context.Context) {
	installed := c.client.InstalledPackages(ctx)
	c.mu.Lock()
	c.installed = installed
	c.loadedAt = time.Now()
	c.mu.Unlock()
}

// IsInstalled reports whether name is currently installed.
func (c *Catalog) IsInstalled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.installed[name]
	return ok
}

// AllOfficial returns the cached snapshot of all official-repo
// packages known to the catalog. Populated only by SetAllOfficial;
// Refresh does not fill it, and nothing in this module calls
// SetAllOfficial, so the snapshot stays empty unless a caller sets it.
func (c *Catalog) AllOfficial() []model.Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Package, len(c.official))
	copy(out, c.official)
	return out
}

// SetAllOfficial replaces the cached official-package snapshot.
func (c *Catalog) SetAllOfficial(pkgs []model.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.official = append([]model.Package(nil), pkgs...)
}

// PostActionPoll polls the catalog every pollInterval until either
// deadline elapses or every name in targets has the expected presence
// (true after an install, false after a remove). It blocks the calling
// goroutine; callers run it in a background goroutine and report
// completion via onDone, matching the coordinator's poll-then-redraw
// pattern (spec §4.2, §4.9).
func (c *Catalog) PostActionPoll(ctx context.Context, targets []string, wantInstalled bool, pollInterval, deadline time.Duration, onDone func()) {
	end := time.Now().Add(deadline)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		c.ForceRefresh(ctx)
		if c.targetsSettled(targets, wantInstalled) {
			if onDone != nil {
				onDone()
			}
			return
		}
		if time.Now().After(end) {
			c.logger.Debug("catalog post-action poll window expired", "targets", targets, "want_installed", wantInstalled)
			if onDone != nil {
				onDone()
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Catalog) targetsSettled(targets []string, wantInstalled bool) bool {
	for _, name := range targets {
		if c.IsInstalled(name) != wantInstalled {
			return false
		}
	}
	return true
}

// --- repo / distro classification predicates (spec §4.2) ---

var eosRepoPrefixes = []string{"endeavouros", "eos"}

// IsEosRepo reports whether repo belongs to the EndeavourOS package
// universe.
func IsEosRepo(repo string) bool {
	repo = strings.ToLower(strings.TrimSpace(repo))
	for _, p := range eosRepoPrefixes {
		if strings.Contains(repo, p) {
			return true
		}
	}
	return false
}

var cachyosRepoPrefixes = []string{"cachyos"}

// IsCachyosRepo reports whether repo belongs to the CachyOS package
// universe.
func IsCachyosRepo(repo string) bool {
	repo = strings.ToLower(strings.TrimSpace(repo))
	for _, p := range cachyosRepoPrefixes {
		if strings.Contains(repo, p) {
			return true
		}
	}
	return false
}

// IsManjaroRepo reports whether repo belongs to Manjaro's repos.
func IsManjaroRepo(repo string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(repo)), "manjaro")
}

// IsArtixRepo reports whether repo belongs to Artix's repos.
func IsArtixRepo(repo string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(repo)), "artix")
}

// IsNameManjaro reports whether a package name carries Manjaro's
// branding/suffix convention (e.g. "-manjaro" packages), distinct from
// repo-based classification for cases where the repo name itself is
// generic.
func IsNameManjaro(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "manjaro")
}

// IsMultilibRepo reports whether repo is the multilib repository.
func IsMultilibRepo(repo string) bool {
	return strings.EqualFold(strings.TrimSpace(repo), "multilib")
}

// IsCoreExtraRepo reports whether repo is one of the two mainline Arch
// repositories, used to distinguish "vanilla Arch official" from
// distro-specific/optional repos for filter toggles (spec §4.3).
func IsCoreExtraRepo(repo string) bool {
	r := strings.ToLower(strings.TrimSpace(repo))
	return r == "core" || r == "extra"
}

// SortByName returns a copy of pkgs sorted case-insensitively by name,
// used for the official tail of the AUR-popularity sort mode (spec §4.3).
func SortByName(pkgs []model.Package) []model.Package {
	out := append([]model.Package(nil), pkgs...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
