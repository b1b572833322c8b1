// Package version resolves the running tt version and compares semantic
// versions, e.g. to spot bundles written by a newer tt.
package version

import (
	"runtime/debug"
	"strconv"
	"strings"
)

// Effective returns v when the build injected a real version, otherwise the
// best version Go build info can provide.
func Effective(v string) string {
	if v != "" && v != "dev" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v
	}

	// When installed via `go install module@vX.Y.Z`, this will typically be `vX.Y.Z`.
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if rev == "" {
		return v
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	parts := []string{"devel", rev}
	if modified == "true" {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "+")
}

// IsDevelopmentVersion returns true for non-release versions.
func IsDevelopmentVersion(v string) bool {
	if v == "" || v == "unknown" || v == "dev" || v == "devel" {
		return true
	}
	return strings.HasPrefix(v, "devel+")
}

// parseSemver extracts major.minor.patch, ignoring a leading v, prerelease
// and build metadata. Missing or unparseable parts are 0.
func parseSemver(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out [3]int
	for i, part := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return [3]int{}
		}
		out[i] = n
	}
	return out
}

// IsNewer reports whether candidate is a later release than current.
// Development versions are never newer, and nothing is newer than one.
func IsNewer(candidate, current string) bool {
	if IsDevelopmentVersion(candidate) || IsDevelopmentVersion(current) {
		return false
	}
	a, b := parseSemver(candidate), parseSemver(current)
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
