// Package model defines Pacsea's core data types: packages, dependency
// resolution results, file and service impact, and the preflight modal
// state that ties them together.
package model

import "strings"

// Source identifies where a package comes from.
type Source struct {
	Kind SourceKind `json:"type"`
	Repo string     `json:"repo,omitempty"`
	Arch string     `json:"arch,omitempty"`
}

// SourceKind is the tag of a Source.
type SourceKind string

const (
	SourceOfficial SourceKind = "official"
	SourceAur      SourceKind = "aur"
)

// Official builds an Official source.
func Official(repo, arch string) Source {
	return Source{Kind: SourceOfficial, Repo: repo, Arch: arch}
}

// Aur builds an Aur source.
func Aur() Source {
	return Source{Kind: SourceAur}
}

// IsAur reports whether the source is the AUR.
func (s Source) IsAur() bool {
	return s.Kind == SourceAur
}

// Package is an installable or installed unit, from either the official
// repositories or the AUR.
type Package struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description"`
	Source      Source  `json:"source"`
	Popularity  *float64 `json:"popularity,omitempty"`
	OutOfDate   *bool   `json:"out_of_date,omitempty"`
	Orphaned    *bool   `json:"orphaned,omitempty"`
}

// NameKey normalizes a package name for case-insensitive identity
// comparisons. Two Packages with equal NameKey are the same
// installation-target (spec §3.1).
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameTarget reports whether two packages name the same installation
// target, ignoring case.
func SameTarget(a, b Package) bool {
	return NameKey(a.Name) == NameKey(b.Name)
}

// PackageDetails holds enriched metadata for a single package, populated
// by the detail enricher (spec §3.2, §4.4).
type PackageDetails struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Maintainer   string   `json:"maintainer"`
	Version      string   `json:"version"`
	InstalledSize string  `json:"installed_size,omitempty"`
	DownloadSize string   `json:"download_size,omitempty"`
	Depends      []string `json:"depends,omitempty"`
	MakeDepends  []string `json:"make_depends,omitempty"`
	CheckDepends []string `json:"check_depends,omitempty"`
	OptDepends   []string `json:"opt_depends,omitempty"`
	Votes        int      `json:"votes,omitempty"`
	Popularity   float64  `json:"popularity,omitempty"`

	// PKGBUILD and Comments are fetched lazily and keyed by the revision
	// they were fetched against (spec §4.4).
	PKGBUILD         string `json:"pkgbuild,omitempty"`
	PKGBUILDRevision string `json:"pkgbuild_revision,omitempty"`
	Comments         string `json:"comments,omitempty"`
	CommentsRevision string `json:"comments_revision,omitempty"`
}

// Incomplete reports whether d is missing fields the enricher is expected
// to have filled in, making it eligible for a re-fetch (spec §4.4).
func (d *PackageDetails) Incomplete() bool {
	if d == nil {
		return true
	}
	return d.Description == "" && d.URL == "" && d.Maintainer == ""
}
