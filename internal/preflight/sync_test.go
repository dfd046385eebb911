package preflight

import (
	"testing"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

func TestSyncDepsInstallFiltersByRequiredBy(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "ripgrep"}})
	cached := []model.DependencyInfo{
		{Name: "gcc-libs", RequiredBy: []string{"ripgrep"}},
		{Name: "unrelated", RequiredBy: []string{"firefox"}},
	}
	SyncDepsInstall(p, cached)

	if len(p.DependencyInfo) != 1 || p.DependencyInfo[0].Name != "gcc-libs" {
		t.Fatalf("unexpected filtered deps: %+v", p.DependencyInfo)
	}
}

func TestSyncDepsInstallDoesNotClearOnEmptyFilter(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "ripgrep"}})
	p.DependencyInfo = []model.DependencyInfo{{Name: "preexisting"}}

	SyncDepsInstall(p, []model.DependencyInfo{{Name: "unrelated", RequiredBy: []string{"other"}}})

	if len(p.DependencyInfo) != 1 || p.DependencyInfo[0].Name != "preexisting" {
		t.Fatalf("expected sync to leave existing deps alone when filtered set is empty, got %+v", p.DependencyInfo)
	}
}

// TestSyncServicesPreservesRestartDecision covers P8: decision
// preservation across a tab-switch-triggered re-sync.
func TestSyncServicesPreservesRestartDecision(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "docker"}})
	p.ServiceInfo = []model.ServiceImpact{
		{UnitName: "docker.service", Providers: []string{"docker"}, RecommendedDecision: model.DecisionRestart, RestartDecision: model.DecisionDefer},
	}

	cached := []model.ServiceImpact{
		{UnitName: "docker.service", Providers: []string{"docker"}, RecommendedDecision: model.DecisionRestart, RestartDecision: model.DecisionRestart},
	}
	SyncServices(p, cached)

	if len(p.ServiceInfo) != 1 {
		t.Fatalf("expected one surviving service, got %+v", p.ServiceInfo)
	}
	if p.ServiceInfo[0].RestartDecision != model.DecisionDefer {
		t.Fatalf("expected user's Defer decision to survive the resync, got %v", p.ServiceInfo[0].RestartDecision)
	}
	if !p.ServicesLoaded {
		t.Fatal("expected ServicesLoaded to be set")
	}
}

// TestSyncServicesThreeUnitTabSwitchPreservesDecisions is the literal
// scenario from spec §8 E3: toggle svc-1 and svc-2, then resync (as if
// the user had switched to Deps, to Files, and back to Services) and
// check all three decisions survive as expected.
func TestSyncServicesThreeUnitTabSwitchPreservesDecisions(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "app"}})
	p.ServiceInfo = []model.ServiceImpact{
		{UnitName: "svc-1", Providers: []string{"app"}, RestartDecision: model.DecisionRestart},
		{UnitName: "svc-2", Providers: []string{"app"}, RestartDecision: model.DecisionDefer},
		{UnitName: "svc-3", Providers: []string{"app"}, RestartDecision: model.DecisionRestart},
	}

	// User toggles svc-1 -> Defer, svc-2 -> Restart.
	p.ServiceInfo[0].RestartDecision = model.DecisionDefer
	p.ServiceInfo[1].RestartDecision = model.DecisionRestart

	// Switching to Deps and Files tabs doesn't touch ServiceInfo; a
	// resync on returning to Services re-fetches the same cached set.
	cached := []model.ServiceImpact{
		{UnitName: "svc-1", Providers: []string{"app"}, RestartDecision: model.DecisionRestart},
		{UnitName: "svc-2", Providers: []string{"app"}, RestartDecision: model.DecisionDefer},
		{UnitName: "svc-3", Providers: []string{"app"}, RestartDecision: model.DecisionRestart},
	}
	SyncServices(p, cached)

	want := map[string]model.RestartDecision{
		"svc-1": model.DecisionDefer,
		"svc-2": model.DecisionRestart,
		"svc-3": model.DecisionRestart,
	}
	if len(p.ServiceInfo) != 3 {
		t.Fatalf("expected all three services to survive the resync, got %+v", p.ServiceInfo)
	}
	for _, svc := range p.ServiceInfo {
		if svc.RestartDecision != want[svc.UnitName] {
			t.Errorf("unit %s: got decision %v, want %v", svc.UnitName, svc.RestartDecision, want[svc.UnitName])
		}
	}
}

func TestSyncSandboxNeverTouchesSelectedOptdepends(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "yay-bin"}})
	p.SelectedOptdepends.Select("yay-bin", "git: for -G flag")

	SyncSandbox(p, []model.SandboxInfo{{PackageName: "yay-bin"}})

	if !p.SelectedOptdepends.IsSelected("yay-bin", "git: for -G flag") {
		t.Fatal("expected selected optdepends to survive a sandbox sync")
	}
}

// TestSequentialAddition covers the §8 sequential-addition property:
// adding package B must not disturb A's already-cached facts, and a
// B-introduced Conflict on a dep A had as ToInstall must surface.
func TestSequentialAddition(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "a"}, {Name: "b"}})

	cached := []model.DependencyInfo{
		{Name: "shared-dep", Status: model.Conflict("version mismatch"), RequiredBy: []string{"a", "b"}},
		{Name: "a-only-dep", Status: model.ToInstall(), RequiredBy: []string{"a"}},
		{Name: "b-only-dep", Status: model.ToInstall(), RequiredBy: []string{"b"}},
	}
	SyncDepsInstall(p, cached)

	if len(p.DependencyInfo) != 3 {
		t.Fatalf("expected all three deps to survive filtering, got %+v", p.DependencyInfo)
	}
	for _, d := range p.DependencyInfo {
		if d.Name == "shared-dep" && d.Status.Kind != model.StatusConflict {
			t.Fatalf("expected shared-dep to remain Conflict, got %+v", d.Status)
		}
		if d.Name == "a-only-dep" && d.Status.Kind != model.StatusToInstall {
			t.Fatalf("expected a-only-dep to remain ToInstall, got %+v", d.Status)
		}
	}
}
