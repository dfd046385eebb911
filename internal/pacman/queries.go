package pacman

import (
	"context"
	"strings"
)

// Client exposes the pacman/paru/yay/AUR-RPC queries the catalog and
// resolver packages need, backed by a Runner.
type Client struct {
	runner Runner
	http   AurRPCFetcher
}

// NewClient builds a Client over the production ExecRunner and AUR RPC
// HTTP fetcher.
func NewClient() *Client {
	return &Client{runner: ExecRunner{}, http: NewAurRPCClient()}
}

// NewClientWithRunner allows tests to substitute a fake Runner/fetcher.
func NewClientWithRunner(r Runner, f AurRPCFetcher) *Client {
	return &Client{runner: r, http: f}
}

// InstalledPackages returns the set of installed package names via
// `pacman -Qq`.
func (c *Client) InstalledPackages(ctx context.Context) map[string]struct{} {
	out, err := c.runner.Run(ctx, "pacman", "-Qq")
	set := make(map[string]struct{})
	if err != nil {
		return set
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			set[line] = struct{}{}
		}
	}
	return set
}

// UpgradablePackages returns the set of upgradable package names via
// `pacman -Qu`. Output lines look like "name old -> new" or, for AUR
// packages, just "name"; only the leading token before the first space
// is kept.
func (c *Client) UpgradablePackages(ctx context.Context) map[string]struct{} {
	out, err := c.runner.Run(ctx, "pacman", "-Qu")
	set := make(map[string]struct{})
	if err != nil {
		return set
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sp := strings.IndexByte(line, ' '); sp >= 0 {
			set[line[:sp]] = struct{}{}
		} else {
			set[line] = struct{}{}
		}
	}
	return set
}

// InstalledVersion returns the installed version of name, with the
// `-revision` suffix stripped, via `pacman -Q NAME`.
func (c *Client) InstalledVersion(ctx context.Context, name string) (string, bool) {
	out, err := c.runner.Run(ctx, "pacman", "-Q", name)
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(out, "\n")
	_, version, found := strings.Cut(line, " ")
	if !found {
		return "", false
	}
	version = strings.TrimSpace(version)
	version, _, _ = strings.Cut(version, "-")
	return version, version != ""
}

// AvailableVersion returns the repository version of name, with the
// `-revision` suffix stripped, via `pacman -Si NAME`.
func (c *Client) AvailableVersion(ctx context.Context, name string) (string, bool) {
	fields, err := c.singleInfo(ctx, "pacman", "-Si", name)
	if err != nil {
		return "", false
	}
	v, ok := fields["version"]
	if !ok {
		return "", false
	}
	v, _, _ = strings.Cut(v, "-")
	return v, true
}

// Repository returns the lowercased "Repository" field from
// `pacman -Qi NAME` for an installed package.
func (c *Client) Repository(ctx context.Context, name string) (string, bool) {
	fields, err := c.singleInfo(ctx, "pacman", "-Qi", name)
	if err != nil {
		return "", false
	}
	repo, ok := fields["repository"]
	if !ok || repo == "" {
		return "", false
	}
	return strings.ToLower(repo), true
}

// DependsOn returns the whitespace-separated tokens of the "Depends On"
// field from `pacman -Si [repo/]name`.
func (c *Client) DependsOn(ctx context.Context, repo, name string) ([]string, error) {
	spec := name
	if repo != "" {
		spec = repo + "/" + name
	}
	out, err := c.runner.Run(ctx, "pacman", "-Si", spec)
	if err != nil {
		return nil, err
	}
	return parseDependsOnField(out), nil
}

// SingleInfo runs `pacman -Si [repo/]name` and returns its
// "Field: value" lines as a lowercased-key map, for callers that need
// more than DependsOn's single field (e.g. the detail enricher).
func (c *Client) SingleInfo(ctx context.Context, repo, name string) (map[string]string, error) {
	spec := name
	if repo != "" {
		spec = repo + "/" + name
	}
	return c.singleInfo(ctx, "pacman", "-Si", spec)
}

// AurRPCInfo fetches a package's AUR RPC v5 info record, the fallback
// used when neither local helper resolves a package's dependencies
// (spec §4.5 step 2, §6.2).
func (c *Client) AurRPCInfo(ctx context.Context, name string) (*AurInfo, error) {
	return c.http.Info(ctx, name)
}

// HasHelper reports whether the named AUR helper (paru or yay) is on PATH.
func (c *Client) HasHelper(name string) bool {
	return c.runner.LookPath(name)
}

// HelperDependsOn runs `paru -Si NAME` or `yay -Si NAME` and parses its
// "Depends On" field. An empty, non-error result means the helper ran
// but reported no dependencies to parse; callers treat that the same
// as a failure and move to the next fallback.
func (c *Client) HelperDependsOn(ctx context.Context, helper, name string) ([]string, error) {
	out, err := c.runner.Run(ctx, helper, "-Si", name)
	if err != nil {
		return nil, err
	}
	return parseDependsOnField(out), nil
}

// singleInfo runs a `-Qi`/`-Si`-shaped command and parses its
// "Field: value" lines into a lowercased-key map, keeping only the
// first occurrence of each field.
func (c *Client) singleInfo(ctx context.Context, name string, args ...string) (map[string]string, error) {
	out, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = strings.TrimSpace(line[colon+1:])
	}
	return fields, nil
}

// parseDependsOnField extracts the whitespace-separated tokens of a
// "Depends On" field from pacman/paru/yay `-Si`-shaped output.
func parseDependsOnField(text string) []string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "Depends On") {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil
		}
		val := strings.TrimSpace(line[colon+1:])
		if val == "" || val == "None" {
			return nil
		}
		return strings.Fields(val)
	}
	return nil
}
