// Package preflight implements the Preflight Modal Engine (spec §4.7):
// the sync rules that keep a PreflightState's per-tab caches consistent
// with the signature-keyed resolver caches, triggered by modal open,
// tab switch, install-list mutation, or a resolver job completing.
package preflight

import "github.com/Firstp1ck/Pacsea-sub003/internal/model"

// SyncDepsInstall filters cachedDeps (install_list_deps) to entries
// whose RequiredBy intersects items, replacing DependencyInfo and
// resetting DepSelected only when the filtered set is non-empty (spec
// §4.7 Deps (install) sync rule).
func SyncDepsInstall(p *model.PreflightState, cachedDeps []model.DependencyInfo) {
	items := p.ItemNameSet()
	filtered := filterByRequiredBy(cachedDeps, items)
	if len(filtered) == 0 {
		return
	}
	p.DependencyInfo = filtered
	p.DepSelected = 0
	p.DepsLoaded = true
}

// SyncDepsRemove installs the cached reverse-dependency-derived
// DependencyInfo list for a Remove preflight (spec §4.7 Deps (remove)).
func SyncDepsRemove(p *model.PreflightState, reverseDeps []model.DependencyInfo) {
	if len(reverseDeps) == 0 {
		return
	}
	p.DependencyInfo = reverseDeps
	p.DepSelected = 0
	p.DepsLoaded = true
}

// SyncFiles filters cachedFiles (install_list_files) to entries whose
// Package is one of items, replacing FileInfo and resetting
// FileSelected on a non-empty result (spec §4.7 Files sync rule).
func SyncFiles(p *model.PreflightState, cachedFiles []model.PackageFileInfo) {
	items := p.ItemNameSet()
	var filtered []model.PackageFileInfo
	for _, f := range cachedFiles {
		if _, ok := items[model.NameKey(f.Package)]; ok {
			filtered = append(filtered, f)
		}
	}
	if len(filtered) == 0 {
		return
	}
	p.FileInfo = filtered
	p.FileSelected = 0
	p.FilesLoaded = true
}

// SyncServices filters cachedServices (install_list_services) to
// entries whose Providers intersect items, preserving each surviving
// unit's user-set RestartDecision across the replacement (spec §4.7
// Services sync rule, §3.7 decision-preservation invariant).
func SyncServices(p *model.PreflightState, cachedServices []model.ServiceImpact) {
	items := p.ItemNameSet()

	preserved := make(map[string]model.RestartDecision, len(p.ServiceInfo))
	for _, existing := range p.ServiceInfo {
		preserved[existing.UnitName] = existing.RestartDecision
	}

	var filtered []model.ServiceImpact
	for _, svc := range cachedServices {
		if !svc.ProvidersIntersect(items) {
			continue
		}
		if decision, ok := preserved[svc.UnitName]; ok {
			svc.RestartDecision = decision
		}
		filtered = append(filtered, svc)
	}

	p.ServiceInfo = filtered
	p.ServicesLoaded = true
}

// SyncSandbox filters cachedSandbox (install_list_sandbox) to entries
// whose PackageName is one of items, replacing SandboxInfo. It never
// touches SelectedOptdepends, which persists across arbitrary re-syncs
// (spec §4.7 Sandbox sync rule).
func SyncSandbox(p *model.PreflightState, cachedSandbox []model.SandboxInfo) {
	items := p.ItemNameSet()
	var filtered []model.SandboxInfo
	for _, s := range cachedSandbox {
		if _, ok := items[model.NameKey(s.PackageName)]; ok {
			filtered = append(filtered, s)
		}
	}
	p.SandboxInfo = filtered
	p.SandboxLoaded = true
}

func filterByRequiredBy(deps []model.DependencyInfo, items map[string]struct{}) []model.DependencyInfo {
	var out []model.DependencyInfo
	for _, d := range deps {
		for name := range d.RequiredBySet() {
			if _, ok := items[model.NameKey(name)]; ok {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// SyncTab runs the sync rule for the destination tab only; it does not
// clear or touch caches belonging to other tabs (spec §4.7 "Tab
// transitions" rule). Callers pass whichever cached payload is
// relevant to dest; payloads for tabs other than dest are ignored.
func SyncTab(p *model.PreflightState, dest model.Tab, deps []model.DependencyInfo, files []model.PackageFileInfo, services []model.ServiceImpact, sandbox []model.SandboxInfo) {
	p.Tab = dest
	switch dest {
	case model.TabDeps:
		if p.Action == model.ActionRemove {
			SyncDepsRemove(p, deps)
		} else {
			SyncDepsInstall(p, deps)
		}
	case model.TabFiles:
		SyncFiles(p, files)
	case model.TabServices:
		SyncServices(p, services)
	case model.TabSandbox:
		SyncSandbox(p, sandbox)
	}
}
