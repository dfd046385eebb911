package search

import (
	"testing"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

func pop(v float64) *float64 { return &v }

func TestSortRepoThenNamePutsOfficialFirst(t *testing.T) {
	pkgs := []model.Package{
		{Name: "zzz", Source: model.Official("extra", "")},
		{Name: "aaa", Source: model.Aur()},
		{Name: "bbb", Source: model.Official("core", "")},
	}
	got := Rank("", pkgs, SortRepoThenName, DefaultFilters())
	if got[0].Name != "bbb" || got[1].Name != "zzz" || got[2].Name != "aaa" {
		t.Fatalf("unexpected order: %v", names(got))
	}
}

func TestSortAurPopularityThenOfficial(t *testing.T) {
	pkgs := []model.Package{
		{Name: "low-pop", Source: model.Aur(), Popularity: pop(1.0)},
		{Name: "high-pop", Source: model.Aur(), Popularity: pop(9.0)},
		{Name: "official-pkg", Source: model.Official("extra", "")},
	}
	got := Rank("", pkgs, SortAurPopularityThenOfficial, DefaultFilters())
	if got[0].Name != "high-pop" || got[1].Name != "low-pop" || got[2].Name != "official-pkg" {
		t.Fatalf("unexpected order: %v", names(got))
	}
}

func TestSortBestMatchesRanksExactFirst(t *testing.T) {
	pkgs := []model.Package{
		{Name: "ripgrep-bin", Source: model.Aur()},
		{Name: "ripgrep", Source: model.Official("extra", "")},
		{Name: "other-tool", Description: "uses ripgrep internally", Source: model.Official("extra", "")},
	}
	got := Rank("ripgrep", pkgs, SortBestMatches, DefaultFilters())
	if got[0].Name != "ripgrep" {
		t.Fatalf("expected exact match first, got %v", names(got))
	}
	if got[1].Name != "ripgrep-bin" {
		t.Fatalf("expected prefix match second, got %v", names(got))
	}
}

func TestFiltersExcludeAur(t *testing.T) {
	pkgs := []model.Package{
		{Name: "aur-pkg", Source: model.Aur()},
		{Name: "official-pkg", Source: model.Official("extra", "")},
	}
	f := DefaultFilters()
	f.ShowAur = false
	got := Rank("", pkgs, SortRepoThenName, f)
	if len(got) != 1 || got[0].Name != "official-pkg" {
		t.Fatalf("expected AUR filtered out, got %v", names(got))
	}
}

func TestFiltersExcludeMultilib(t *testing.T) {
	pkgs := []model.Package{
		{Name: "lib32-glibc", Source: model.Official("multilib", "")},
		{Name: "glibc", Source: model.Official("core", "")},
	}
	f := DefaultFilters()
	f.ShowMultilib = false
	got := Rank("", pkgs, SortRepoThenName, f)
	if len(got) != 1 || got[0].Name != "glibc" {
		t.Fatalf("expected multilib filtered out, got %v", names(got))
	}
}

func names(pkgs []model.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}
