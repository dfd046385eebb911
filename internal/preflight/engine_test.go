package preflight

import (
	"testing"

	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
)

func TestExecLogCapsToCapacity(t *testing.T) {
	log := NewExecLog(3)
	log.Append("one")
	log.Append("two")
	log.Append("three")
	log.Append("four")

	got := log.Lines()
	if len(got) != 3 {
		t.Fatalf("expected 3 lines retained, got %d: %v", len(got), got)
	}
	if got[0] != "two" || got[2] != "four" {
		t.Fatalf("expected oldest line dropped, got %v", got)
	}
}

func TestBuildActionDescriptorInstall(t *testing.T) {
	p := model.NewPreflightState(model.ActionInstall, []model.Package{{Name: "yay-bin"}})
	p.SelectedOptdepends.Select("yay-bin", "git: for -G flag")

	desc := BuildActionDescriptor(p)
	if desc.Action != model.ActionInstall {
		t.Fatalf("expected install action, got %v", desc.Action)
	}
	if len(desc.Targets) != 1 || desc.Targets[0] != "yay-bin" {
		t.Fatalf("unexpected targets: %v", desc.Targets)
	}
	if len(desc.OptDepends["yay-bin"]) != 1 {
		t.Fatalf("expected one chosen optdep, got %v", desc.OptDepends)
	}
}

func TestBuildActionDescriptorRemoveCarriesCascade(t *testing.T) {
	p := model.NewPreflightState(model.ActionRemove, []model.Package{{Name: "old-pkg"}})
	p.CascadeMode = model.CascadeCascade

	desc := BuildActionDescriptor(p)
	if !desc.Cascade {
		t.Fatal("expected cascade flag to carry through")
	}
}
