package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

// ResolveRemove computes the reverse-dependency report for a set of
// remove targets (spec §4.6): for each target, which installed
// packages depend on it. In CascadeCascade mode, transitive
// reverse-dependants are expanded and flagged Transitive; in
// CascadeBasic only direct dependants are listed.
//
// It also returns a flat DependencyInfo-shaped list (status always
// Installed, since everything under consideration is already on the
// system) so the Deps tab can reuse the same rendering path as the
// install direction. The report is meant to be computed once per
// modal open and cached on PreflightState.ReverseDeps by the caller.
func (r *Resolver) ResolveRemove(ctx context.Context, targets []model.Package, mode model.CascadeMode) ([]model.ReverseDependency, []model.DependencyInfo) {
	if len(targets) == 0 {
		return nil, nil
	}

	installed := r.client.InstalledPackages(ctx)

	targetSet := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		targetSet[model.NameKey(t.Name)] = struct{}{}
	}

	// dependants[name] = set of installed packages that directly
	// depend on name, built by asking each installed package (other
	// than the targets themselves) for its own dependency list and
	// recording a reverse edge for every dependency it names, so
	// Cascade mode can follow chains past a target's direct
	// dependants. This direction only needs direct Depends On parsing,
	// not status classification.
	dependants := make(map[string][]string)
	for name := range installed {
		if _, isTarget := targetSet[model.NameKey(name)]; isTarget {
			continue
		}
		repo, _ := r.client.Repository(ctx, name)
		tokens, err := r.client.DependsOn(ctx, repo, name)
		if err != nil {
			r.logger.Debug("reverse-dependency scan: DependsOn failed", "package", name, "error", err)
			continue
		}
		for _, tok := range tokens {
			depName, _ := parseDepSpec(tok)
			if isVirtualProvide(depName) {
				continue
			}
			dependants[depName] = append(dependants[depName], name)
		}
	}

	reports := make([]model.ReverseDependency, 0, len(targets))
	var flat []model.DependencyInfo

	for _, t := range targets {
		direct := uniqueSorted(dependants[t.Name])
		all := direct
		transitive := false

		if mode == model.CascadeCascade {
			all = expandTransitive(t.Name, dependants, targetSet)
			transitive = len(all) > len(direct)
		}

		reports = append(reports, model.ReverseDependency{
			Target:     t.Name,
			Dependants: all,
			Transitive: transitive,
		})

		for _, dep := range all {
			flat = append(flat, model.DependencyInfo{
				Name:       dep,
				Status:     model.Installed(""),
				Source:     model.Official("", ""),
				RequiredBy: []string{t.Name},
				IsSystem:   IsSystemPackage(dep),
			})
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return strings.ToLower(flat[i].Name) < strings.ToLower(flat[j].Name)
	})

	return reports, flat
}

// expandTransitive walks dependants starting from target's direct
// dependants, following further reverse-edges until no new package is
// discovered (spec §4.6 Cascade mode).
func expandTransitive(target string, dependants map[string][]string, targetSet map[string]struct{}) []string {
	seen := make(map[string]struct{})
	queue := append([]string(nil), dependants[target]...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		queue = append(queue, dependants[name]...)
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return uniqueSorted(out)
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
