package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Firstp1ck/Pacsea-sub003/internal/pacman"
)

type fakeRunner struct {
	qq string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	if name == "pacman" && len(args) == 1 && args[0] == "-Qq" {
		return f.qq, nil
	}
	return "", nil
}

func (f *fakeRunner) LookPath(string) bool { return false }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsInstalledAfterRefresh(t *testing.T) {
	client := pacman.NewClientWithRunner(&fakeRunner{qq: "glibc\nbash\n"}, nil)
	c := New(client, testLogger())
	c.ForceRefresh(context.Background())

	if !c.IsInstalled("glibc") {
		t.Fatal("expected glibc to be installed")
	}
	if c.IsInstalled("firefox") {
		t.Fatal("expected firefox to be not installed")
	}
}

func TestRefreshIsLazy(t *testing.T) {
	runner := &fakeRunner{qq: "glibc\n"}
	client := pacman.NewClientWithRunner(runner, nil)
	c := New(client, testLogger())
	c.refreshEvery = time.Hour

	c.ForceRefresh(context.Background())
	runner.qq = "glibc\nbash\n"
	c.Refresh(context.Background())

	if c.IsInstalled("bash") {
		t.Fatal("expected lazy refresh to skip re-querying within refreshEvery")
	}
}

func TestRepoClassification(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		repo string
		want bool
	}{
		{"eos match", IsEosRepo, "endeavouros", true},
		{"eos no match", IsEosRepo, "core", false},
		{"cachyos match", IsCachyosRepo, "cachyos-extra-v3", true},
		{"manjaro match", IsManjaroRepo, "manjaro-extra", true},
		{"artix match", IsArtixRepo, "artix-system", true},
		{"multilib exact", IsMultilibRepo, "Multilib", true},
		{"core/extra", IsCoreExtraRepo, "Extra", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.fn(c.repo); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}
