// Package resolver implements the Dependency Resolver in both
// directions (spec §4.5 install, §4.6 remove): expanding a set of
// install targets into a flat, merged, priority-sorted list of
// DependencyInfo, and computing reverse-dependency reports for a
// removal set. The install direction mirrors the upstream Pacsea
// core's deps.rs resolver line for line, expressed with Go error
// returns and a pacman.Client in place of ad-hoc os/exec.Command
// calls. The remove direction has no upstream counterpart to port
// (see remove.go) and follows the spec's stated behavior instead.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
	"github.com/Firstp1ck/Pacsea-sub003/internal/pacman"
)

// systemPackages is the hard-coded is_core classification list (spec §4.5).
var systemPackages = map[string]struct{}{
	"glibc": {}, "linux": {}, "systemd": {}, "pacman": {}, "bash": {},
	"coreutils": {}, "gcc": {}, "binutils": {}, "filesystem": {},
	"util-linux": {}, "shadow": {}, "sed": {}, "grep": {},
}

// IsSystemPackage reports whether name is one of the small set of
// critical system packages used to flag is_system (spec §4.5 step 5).
func IsSystemPackage(name string) bool {
	_, ok := systemPackages[name]
	return ok
}

// Resolver resolves install-direction dependencies via a pacman.Client.
type Resolver struct {
	client *pacman.Client
	logger *slog.Logger
}

// New builds a Resolver over the given pacman Client.
func New(client *pacman.Client, logger *slog.Logger) *Resolver {
	return &Resolver{client: client, logger: logger}
}

// systemState snapshots the installed/upgradable sets queried once per
// ResolveInstall call (spec §4.5 step 1), so every per-package
// resolution in the batch sees a consistent view.
type systemState struct {
	installed  map[string]struct{}
	upgradable map[string]struct{}
}

func (s systemState) isInstalled(name string) bool {
	_, ok := s.installed[name]
	return ok
}

func (s systemState) isUpgradable(name string) bool {
	_, ok := s.upgradable[name]
	return ok
}

// ResolveInstall resolves dependencies for a batch of install targets,
// returning a flat, merged, priority-sorted DependencyInfo list (spec
// §4.5). A failure resolving one input package is logged and skipped;
// partial results are still returned.
func (r *Resolver) ResolveInstall(ctx context.Context, items []model.Package) []model.DependencyInfo {
	if len(items) == 0 {
		return nil
	}

	state := systemState{
		installed:  r.client.InstalledPackages(ctx),
		upgradable: r.client.UpgradablePackages(ctx),
	}

	var deps []model.DependencyInfo
	index := make(map[string]int)

	for _, item := range items {
		resolved, err := r.resolvePackageDeps(ctx, item, state)
		if err != nil {
			r.logger.Warn("dependency resolution failed for package", "package", item.Name, "error", err)
			continue
		}
		for _, dep := range resolved {
			if i, ok := index[dep.Name]; ok {
				deps[i] = r.mergeDependency(ctx, deps[i], dep, state)
				continue
			}
			index[dep.Name] = len(deps)
			deps = append(deps, dep)
		}
	}

	sort.SliceStable(deps, func(i, j int) bool {
		pi, pj := deps[i].Status.Priority(), deps[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(deps[i].Name) < strings.ToLower(deps[j].Name)
	})

	return deps
}

// mergeDependency implements the §3.5 merge invariants: required_by is
// unioned, Conflict is sticky, and otherwise the constraint that
// evaluates to the worse status (re-derived against the system state)
// replaces the other.
func (r *Resolver) mergeDependency(ctx context.Context, existing, incoming model.DependencyInfo, state systemState) model.DependencyInfo {
	existing.RequiredBy = unionNames(existing.RequiredBy, incoming.RequiredBy)

	if existing.Status.Kind == model.StatusConflict {
		return existing
	}
	if incoming.Status.Kind == model.StatusConflict {
		existing.Status = incoming.Status
		return existing
	}

	versionChanged := false
	if incoming.Version != "" && incoming.Version != existing.Version {
		if existing.Version == "" {
			existing.Version = incoming.Version
			versionChanged = true
		} else {
			existingStatus := r.determineStatus(ctx, existing.Name, existing.Version, state)
			incomingStatus := r.determineStatus(ctx, existing.Name, incoming.Version, state)
			if incomingStatus.Priority() < existingStatus.Priority() {
				existing.Version = incoming.Version
				versionChanged = true
			}
		}
	}

	if versionChanged {
		existing.Status = r.determineStatus(ctx, existing.Name, existing.Version, state)
	} else if incoming.Status.Priority() < existing.Status.Priority() {
		existing.Status = incoming.Status
	}

	return existing
}

func unionNames(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, n := range a {
		seen[n] = struct{}{}
	}
	for _, n := range b {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// resolvePackageDeps enumerates and classifies the direct dependencies
// of a single install target (spec §4.5 steps 2-5).
func (r *Resolver) resolvePackageDeps(ctx context.Context, item model.Package, state systemState) ([]model.DependencyInfo, error) {
	var tokens []string
	var err error

	if item.Source.IsAur() {
		tokens, err = r.aurDependsOn(ctx, item.Name)
	} else {
		tokens, err = r.client.DependsOn(ctx, item.Source.Repo, item.Name)
	}
	if err != nil {
		return nil, err
	}

	var deps []model.DependencyInfo
	for _, tok := range tokens {
		name, constraint := parseDepSpec(tok)
		if isVirtualProvide(name) {
			continue
		}
		if name == item.Name {
			continue
		}

		status := r.determineStatus(ctx, name, constraint, state)
		source, isCore := r.determineSource(ctx, name, state)
		isSystem := isCore || IsSystemPackage(name)

		deps = append(deps, model.DependencyInfo{
			Name:       name,
			Version:    constraint,
			Status:     status,
			Source:     source,
			RequiredBy: []string{item.Name},
			IsCore:     isCore,
			IsSystem:   isSystem,
		})
	}

	return deps, nil
}

// aurDependsOn tries paru then yay's `-Si` output, falling back to the
// AUR RPC info endpoint if neither local helper is available or
// produces a "Depends On" line (spec §4.5 step 2 AUR branch).
func (r *Resolver) aurDependsOn(ctx context.Context, name string) ([]string, error) {
	for _, helper := range []string{"paru", "yay"} {
		if !r.client.HasHelper(helper) {
			continue
		}
		tokens, err := r.client.HelperDependsOn(ctx, helper, name)
		if err != nil {
			r.logger.Debug("AUR helper -Si failed, trying next fallback", "helper", helper, "package", name, "error", err)
			continue
		}
		if len(tokens) > 0 {
			return tokens, nil
		}
	}

	info, err := r.client.AurRPCInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	return info.Depends, nil
}

// determineSource resolves (source, is_core) for a dependency name
// (spec §4.5 step 5): installed packages report their real repository
// via `pacman -Qi`; uninstalled packages default to Aur.
func (r *Resolver) determineSource(ctx context.Context, name string, state systemState) (model.Source, bool) {
	if !state.isInstalled(name) {
		return model.Aur(), false
	}

	if repo, ok := r.client.Repository(ctx, name); ok {
		return model.Official(repo, ""), repo == "core"
	}

	isCore := IsSystemPackage(name)
	repo := "extra"
	if isCore {
		repo = "core"
	}
	return model.Official(repo, ""), isCore
}

// determineStatus classifies a dependency's status against the
// installed/upgradable sets (spec §4.5 step 4). A package that is not
// installed needs no version lookup; for an installed one the installed
// version is always queried.
func (r *Resolver) determineStatus(ctx context.Context, name, constraint string, state systemState) model.DependencyStatus {
	if !state.isInstalled(name) {
		return model.ToInstall()
	}

	isUpgradable := state.isUpgradable(name)

	if constraint != "" {
		installedVersion, ok := r.client.InstalledVersion(ctx, name)
		if ok {
			if !versionSatisfies(installedVersion, constraint) {
				return model.ToUpgrade(installedVersion, constraint)
			}
			if isUpgradable {
				available, ok := r.client.AvailableVersion(ctx, name)
				if !ok {
					available = "newer"
				}
				return model.ToUpgrade(installedVersion, available)
			}
			return model.Installed(installedVersion)
		}
	}

	if isUpgradable {
		current, ok := r.client.InstalledVersion(ctx, name)
		if !ok {
			return model.ToUpgrade("installed", "newer")
		}
		available, ok := r.client.AvailableVersion(ctx, name)
		if !ok {
			available = "newer"
		}
		return model.ToUpgrade(current, available)
	}

	version, ok := r.client.InstalledVersion(ctx, name)
	if !ok {
		version = "installed"
	}
	return model.Installed(version)
}

// versionSatisfies is a lexicographic fallback comparison (spec §4.5
// step 4, Open Question decision in DESIGN.md): inaccuracies manifest
// as conservative "upgrade available" hints, never as data loss, so a
// proper pkgver comparator is left as a follow-up rather than a
// blocker.
func versionSatisfies(installed, requirement string) bool {
	for _, op := range []string{">=", "<=", "="} {
		if rest, ok := strings.CutPrefix(requirement, op); ok {
			req := rest
			switch op {
			case ">=":
				return installed >= req
			case "<=":
				return installed <= req
			case "=":
				return installed == req
			}
		}
	}
	if rest, ok := strings.CutPrefix(requirement, ">"); ok {
		return installed > rest
	}
	if rest, ok := strings.CutPrefix(requirement, "<"); ok {
		return installed < rest
	}
	return true
}

// parseDepSpec splits a raw dependency token into (name, constraint).
// Operators are tried in the fixed order <=, >=, =, <, > and the first
// one present anywhere in the token wins, matching the upstream
// parser's operator-priority (not earliest-index) tie-break (spec
// §4.5 step 3).
func parseDepSpec(spec string) (name, constraint string) {
	for _, op := range []string{"<=", ">=", "=", "<", ">"} {
		if idx := strings.Index(spec, op); idx >= 0 {
			return strings.TrimSpace(spec[:idx]), strings.TrimSpace(spec[idx:])
		}
	}
	return strings.TrimSpace(spec), ""
}

// isVirtualProvide reports whether name is a `.so` virtual-package
// provide rather than a real package dependency (spec §4.5 step 3).
func isVirtualProvide(name string) bool {
	return strings.HasSuffix(name, ".so") || strings.Contains(name, ".so.") || strings.Contains(name, ".so=")
}
