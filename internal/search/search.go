// Package search implements the Search Engine (spec §4.3): ranking an
// ordered sequence of Packages for a query under one of three sort
// modes, then applying client-side repo/source filter toggles.
package search

import (
	"sort"
	"strings"

	"github.com/Firstp1ck/Pacsea-sub003/internal/catalog"
	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

// SortMode selects how a result set is ordered (spec §4.3).
type SortMode string

const (
	SortRepoThenName          SortMode = "repo_then_name"
	SortAurPopularityThenOfficial SortMode = "aur_popularity_then_official"
	SortBestMatches           SortMode = "best_matches"
)

// Filters are the client-side toggles applied after ranking (spec §4.3).
type Filters struct {
	ShowAur      bool
	ShowCore     bool
	ShowExtra    bool
	ShowMultilib bool
	ShowOptional bool // EOS/CachyOS/Manjaro/Artix and similar distro repos
}

// DefaultFilters enables every source, matching a fresh search with no
// toggles yet touched.
func DefaultFilters() Filters {
	return Filters{ShowAur: true, ShowCore: true, ShowExtra: true, ShowMultilib: true, ShowOptional: true}
}

// Rank orders candidates for query under mode, then applies filters.
// candidates is expected to already be the union of the catalog's
// official listing and the caller's AUR RPC search results; Rank does
// not itself perform I/O.
func Rank(query string, candidates []model.Package, mode SortMode, filters Filters) []model.Package {
	filtered := apply(candidates, filters)

	switch mode {
	case SortAurPopularityThenOfficial:
		return sortAurPopularityThenOfficial(filtered)
	case SortBestMatches:
		return sortBestMatches(query, filtered)
	default:
		return sortRepoThenName(filtered)
	}
}

func apply(pkgs []model.Package, f Filters) []model.Package {
	out := make([]model.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Source.IsAur() {
			if f.ShowAur {
				out = append(out, p)
			}
			continue
		}
		repo := strings.ToLower(p.Source.Repo)
		switch {
		case catalog.IsMultilibRepo(repo):
			if f.ShowMultilib {
				out = append(out, p)
			}
		case catalog.IsEosRepo(repo), catalog.IsCachyosRepo(repo), catalog.IsManjaroRepo(repo), catalog.IsArtixRepo(repo):
			if f.ShowOptional {
				out = append(out, p)
			}
		case repo == "core":
			if f.ShowCore {
				out = append(out, p)
			}
		case repo == "extra":
			if f.ShowExtra {
				out = append(out, p)
			}
		default:
			// Unknown repo: default to showing it rather than silently
			// hiding a result no toggle names.
			out = append(out, p)
		}
	}
	return out
}

// sortRepoThenName groups official before AUR, then sorts by repo name,
// then package name, all case-insensitively.
func sortRepoThenName(pkgs []model.Package) []model.Package {
	out := append([]model.Package(nil), pkgs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Source.IsAur() != b.Source.IsAur() {
			return !a.Source.IsAur()
		}
		if !a.Source.IsAur() {
			ra, rb := strings.ToLower(a.Source.Repo), strings.ToLower(b.Source.Repo)
			if ra != rb {
				return ra < rb
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return out
}

// sortAurPopularityThenOfficial lists AUR results first, ranked by
// descending popularity, followed by official results alphabetically.
func sortAurPopularityThenOfficial(pkgs []model.Package) []model.Package {
	var aur, official []model.Package
	for _, p := range pkgs {
		if p.Source.IsAur() {
			aur = append(aur, p)
		} else {
			official = append(official, p)
		}
	}
	sort.SliceStable(aur, func(i, j int) bool {
		pi, pj := popularityOf(aur[i]), popularityOf(aur[j])
		if pi != pj {
			return pi > pj
		}
		return strings.ToLower(aur[i].Name) < strings.ToLower(aur[j].Name)
	})
	official = catalog.SortByName(official)
	return append(aur, official...)
}

func popularityOf(p model.Package) float64 {
	if p.Popularity == nil {
		return 0
	}
	return *p.Popularity
}

// sortBestMatches ranks by relevance to query: exact name match first,
// then name-has-prefix, then name-contains, then description-contains,
// each tier broken by case-insensitive name order.
func sortBestMatches(query string, pkgs []model.Package) []model.Package {
	q := strings.ToLower(strings.TrimSpace(query))
	out := append([]model.Package(nil), pkgs...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := matchTier(q, out[i]), matchTier(q, out[j])
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func matchTier(q string, p model.Package) int {
	name := strings.ToLower(p.Name)
	switch {
	case q == "":
		return 3
	case name == q:
		return 0
	case strings.HasPrefix(name, q):
		return 1
	case strings.Contains(name, q):
		return 2
	case strings.Contains(strings.ToLower(p.Description), q):
		return 3
	default:
		return 4
	}
}
