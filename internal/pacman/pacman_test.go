package pacman

import (
	"context"
	"errors"
	"testing"
)

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	paths   map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name
	for _, a := range args {
		key += " " + a
	}
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func (f *fakeRunner) LookPath(name string) bool { return f.paths[name] }

func TestParseDependsOnField(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"none", "Depends On      : None\n", nil},
		{"empty colon", "Depends On      :\n", nil},
		{"basic", "Depends On      : curl  expat  perl\n", []string{"curl", "expat", "perl"}},
		{"with virtual", "Depends On      : glibc  libedit.so=0-64\n", []string{"glibc", "libedit.so=0-64"}},
		{"missing field", "Name : foo\n", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := parseDependsOnField(c.text)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestInstalledPackages(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"pacman -Qq": "glibc\nbash\n\n"}}
	c := NewClientWithRunner(r, nil)
	set := c.InstalledPackages(context.Background())
	if _, ok := set["glibc"]; !ok {
		t.Fatal("expected glibc in installed set")
	}
	if _, ok := set["bash"]; !ok {
		t.Fatal("expected bash in installed set")
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
}

func TestUpgradablePackagesParsesArrowFormat(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"pacman -Qu": "firefox 120.0-1 -> 121.0-1\nsome-aur-pkg\n"}}
	c := NewClientWithRunner(r, nil)
	set := c.UpgradablePackages(context.Background())
	if _, ok := set["firefox"]; !ok {
		t.Fatal("expected firefox in upgradable set")
	}
	if _, ok := set["some-aur-pkg"]; !ok {
		t.Fatal("expected some-aur-pkg in upgradable set")
	}
}

func TestInstalledVersionStripsRevision(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"pacman -Q ripgrep": "ripgrep 14.1.0-1\n"}}
	c := NewClientWithRunner(r, nil)
	v, ok := c.InstalledVersion(context.Background(), "ripgrep")
	if !ok || v != "14.1.0" {
		t.Fatalf("got (%q, %v), want (14.1.0, true)", v, ok)
	}
}

func TestInstalledVersionNotFound(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{"pacman -Q nope": errors.New("not found")}}
	c := NewClientWithRunner(r, nil)
	if _, ok := c.InstalledVersion(context.Background(), "nope"); ok {
		t.Fatal("expected not-found version lookup to report false")
	}
}

func TestRepositoryLowercased(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"pacman -Qi glibc": "Name            : glibc\nRepository      : Core\n",
	}}
	c := NewClientWithRunner(r, nil)
	repo, ok := c.Repository(context.Background(), "glibc")
	if !ok || repo != "core" {
		t.Fatalf("got (%q, %v), want (core, true)", repo, ok)
	}
}

func TestHasHelper(t *testing.T) {
	r := &fakeRunner{paths: map[string]bool{"paru": true}}
	c := NewClientWithRunner(r, nil)
	if !c.HasHelper("paru") {
		t.Fatal("expected paru to be detected")
	}
	if c.HasHelper("yay") {
		t.Fatal("expected yay to be undetected")
	}
}
