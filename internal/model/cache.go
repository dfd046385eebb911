package model

import (
	"sort"
	"strings"
)

// Signature computes the install-list signature used to key the four
// resolver caches: the lowercased, sorted sequence of names (spec §3.9).
func Signature(names []string) []string {
	sig := make([]string, len(names))
	for i, n := range names {
		sig[i] = strings.ToLower(strings.TrimSpace(n))
	}
	sort.Strings(sig)
	return sig
}

// SignatureEqual reports whether two signatures are identical.
func SignatureEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SignedCache is the on-disk shape shared by the four install-list-keyed
// resolver caches (deps, files, services, sandbox; spec §3.9).
type SignedCache[T any] struct {
	InstallListSignature []string `json:"install_list_signature"`
	Payload               []T     `json:"payload"`
}

// Matches reports whether the cache's signature matches the given
// install-list names (after normalization).
func (c SignedCache[T]) Matches(names []string) bool {
	return SignatureEqual(c.InstallListSignature, Signature(names))
}

// DetailsCache is a mapping from package name to enriched details,
// persisted as JSON with a dirty flag (spec §3.3).
type DetailsCache struct {
	Entries map[string]PackageDetails
	dirty   bool
}

// NewDetailsCache builds an empty DetailsCache.
func NewDetailsCache() *DetailsCache {
	return &DetailsCache{Entries: make(map[string]PackageDetails)}
}

// Get looks up a package's cached details by name.
func (c *DetailsCache) Get(name string) (PackageDetails, bool) {
	d, ok := c.Entries[NameKey(name)]
	return d, ok
}

// Put inserts or updates an entry and marks the cache dirty.
func (c *DetailsCache) Put(name string, details PackageDetails) {
	if c.Entries == nil {
		c.Entries = make(map[string]PackageDetails)
	}
	c.Entries[NameKey(name)] = details
	c.dirty = true
}

// Dirty reports whether the cache has unflushed mutations.
func (c *DetailsCache) Dirty() bool { return c.dirty }

// MarkDirty flags the cache as having unflushed mutations.
func (c *DetailsCache) MarkDirty() { c.dirty = true }

// ClearDirty clears the dirty flag, typically after a successful flush.
func (c *DetailsCache) ClearDirty() { c.dirty = false }
