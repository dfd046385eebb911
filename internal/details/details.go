// Package details implements the Detail Enricher (spec §4.4): fetching
// and caching per-package metadata for the focused search result, with
// at-most-one in-flight fetch per package name, plus lazy PKGBUILD and
// comments fetches keyed by (package name, source revision).
package details

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
	"github.com/Firstp1ck/Pacsea-sub003/internal/netcache"
	"github.com/Firstp1ck/Pacsea-sub003/internal/pacman"
)

// Fetcher retrieves PackageDetails for one package. The production
// implementation shells out via internal/pacman; tests supply a stub.
type Fetcher interface {
	FetchDetails(ctx context.Context, name string, source model.Source) (model.PackageDetails, error)
	FetchPKGBUILD(ctx context.Context, name string) (body, revision string, err error)
	FetchComments(ctx context.Context, name string) (body, revision string, err error)
}

// Enricher coordinates detail fetches against a DetailsCache, enforcing
// a single in-flight request per package name (spec §4.4).
type Enricher struct {
	fetcher Fetcher
	cache   *model.DetailsCache
	logger  *slog.Logger

	mu        sync.Mutex
	inFlight  map[string]struct{}
	onUpdated func(name string)
}

// New builds an Enricher over fetcher and cache. onUpdated, if non-nil,
// is invoked after each successful fetch so the caller can set a dirty
// flag / trigger a redraw.
func New(fetcher Fetcher, cache *model.DetailsCache, logger *slog.Logger, onUpdated func(name string)) *Enricher {
	return &Enricher{
		fetcher:   fetcher,
		cache:     cache,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
		onUpdated: onUpdated,
	}
}

// EnsureFetched enqueues a fetch for name if the cache entry is missing
// or incomplete and no fetch is already in flight for it (spec §4.4).
// Call this from the focused-result-changed path; it returns
// immediately, running the actual fetch on a background goroutine.
func (e *Enricher) EnsureFetched(ctx context.Context, name string, source model.Source) {
	existing, ok := e.cache.Get(name)
	if ok && !existing.Incomplete() {
		return
	}

	e.mu.Lock()
	if _, busy := e.inFlight[name]; busy {
		e.mu.Unlock()
		return
	}
	e.inFlight[name] = struct{}{}
	e.mu.Unlock()

	go e.runFetch(ctx, name, source)
}

func (e *Enricher) runFetch(ctx context.Context, name string, source model.Source) {
	defer func() {
		e.mu.Lock()
		delete(e.inFlight, name)
		e.mu.Unlock()
	}()

	d, err := e.fetcher.FetchDetails(ctx, name, source)
	if err != nil {
		e.logger.Warn("detail fetch failed", "package", name, "error", err)
		return
	}
	// AUR descriptions and maintainer fields are untrusted text; strip
	// any embedded ANSI/control sequences before they reach the pane
	// renderer.
	d.Description = ansi.Strip(d.Description)
	d.Maintainer = ansi.Strip(d.Maintainer)
	e.cache.Put(name, d)
	if e.onUpdated != nil {
		e.onUpdated(name)
	}
}

// FetchPKGBUILDIfStale fetches and caches a package's PKGBUILD the
// first time its pane is opened, or again if the cached revision no
// longer matches currentRevision (spec §4.4). currentRevision is
// typically the package's Version field; an empty string means "no
// known revision, always treat as stale".
func (e *Enricher) FetchPKGBUILDIfStale(ctx context.Context, name, currentRevision string) error {
	d, _ := e.cache.Get(name)
	if d.PKGBUILD != "" && d.PKGBUILDRevision == currentRevision && currentRevision != "" {
		return nil
	}

	body, revision, err := e.fetcher.FetchPKGBUILD(ctx, name)
	if err != nil {
		return err
	}
	d.Name = name
	d.PKGBUILD = body
	d.PKGBUILDRevision = revision
	e.cache.Put(name, d)
	if e.onUpdated != nil {
		e.onUpdated(name)
	}
	return nil
}

// FetchCommentsIfStale is FetchPKGBUILDIfStale's counterpart for the
// comments pane (spec §4.4).
func (e *Enricher) FetchCommentsIfStale(ctx context.Context, name, currentRevision string) error {
	d, _ := e.cache.Get(name)
	if d.Comments != "" && d.CommentsRevision == currentRevision && currentRevision != "" {
		return nil
	}

	body, revision, err := e.fetcher.FetchComments(ctx, name)
	if err != nil {
		return err
	}
	d.Name = name
	d.Comments = body
	d.CommentsRevision = revision
	e.cache.Put(name, d)
	if e.onUpdated != nil {
		e.onUpdated(name)
	}
	return nil
}

// PacmanFetcher is the production Fetcher, backed by pacman.Client and
// a netcache.Store to absorb repeated AUR RPC lookups (spec §4.4
// implementation note).
type PacmanFetcher struct {
	Client *pacman.Client
	Cache  *netcache.Store
}

func (f *PacmanFetcher) FetchDetails(ctx context.Context, name string, source model.Source) (model.PackageDetails, error) {
	if !source.IsAur() {
		return f.fetchOfficialDetails(ctx, name)
	}
	return f.fetchAurDetails(ctx, name)
}

func (f *PacmanFetcher) fetchOfficialDetails(ctx context.Context, name string) (model.PackageDetails, error) {
	fields, err := f.Client.SingleInfo(ctx, "", name)
	if err != nil {
		return model.PackageDetails{}, err
	}
	return model.PackageDetails{
		Name:          name,
		Description:   fields["description"],
		URL:           fields["url"],
		Version:       fields["version"],
		InstalledSize: fields["installed size"],
		DownloadSize:  fields["download size"],
		Depends:       splitFields(fields["depends on"]),
		OptDepends:    splitFields(fields["optional deps"]),
	}, nil
}

func splitFields(s string) []string {
	if s == "" || s == "None" {
		return nil
	}
	return strings.Fields(s)
}

func (f *PacmanFetcher) fetchAurDetails(ctx context.Context, name string) (model.PackageDetails, error) {
	if cached, ok := netcache.GetTyped[model.PackageDetails](f.Cache, "aurinfo:"+name); ok {
		return cached, nil
	}

	info, err := f.Client.AurRPCInfo(ctx, name)
	if err != nil {
		return model.PackageDetails{}, err
	}

	d := model.PackageDetails{
		Name:         info.Name,
		Description:  info.Description,
		Version:      info.Version,
		Votes:        info.NumVotes,
		Popularity:   info.Popularity,
		Depends:      info.Depends,
		MakeDepends:  info.MakeDepends,
		CheckDepends: info.CheckDepends,
		OptDepends:   info.OptDepends,
	}
	if info.Maintainer != nil {
		d.Maintainer = *info.Maintainer
	}
	if info.URL != nil {
		d.URL = *info.URL
	}

	_ = netcache.PutTyped(f.Cache, "aurinfo:"+name, d)
	return d, nil
}

func (f *PacmanFetcher) FetchPKGBUILD(ctx context.Context, name string) (string, string, error) {
	// PKGBUILD fetching requires an AUR git/cgit HTTP call outside the
	// pacman/paru/yay/AUR-RPC surface this layer otherwise uses; left
	// as a hook for a future aur.archlinux.org/cgit client.
	return "", "", nil
}

func (f *PacmanFetcher) FetchComments(ctx context.Context, name string) (string, string, error) {
	return "", "", nil
}
