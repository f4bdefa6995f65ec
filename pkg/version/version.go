// Package version detects the installed FastTransfer binary version and maps it
// to the capabilities that version is known to support.
package version

import (
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	// bareVersionPattern finds a MAJOR.MINOR.PATCH.BUILD token anywhere in a string.
	bareVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

	// probeOutputPattern matches the banner printed by `FastTransfer --version`.
	probeOutputPattern = regexp.MustCompile(`FastTransfer\s+Version\s+(\d+\.\d+\.\d+\.\d+)`)

	// onlyVersionPattern matches output that is nothing but a version number.
	onlyVersionPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)$`)
)

// Version is a four component FastTransfer version number.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
	Build int `json:"build"`
}

// Parse reads a version from "FastTransfer Version 0.16.0.0" or a bare "0.16.0.0".
func Parse(s string) (Version, error) {
	token := bareVersionPattern.FindString(strings.TrimSpace(s))
	if token == "" {
		return Version{}, fmt.Errorf("cannot parse version from %q", s)
	}
	return fromToken(token)
}

// MustParse is like Parse but panics on malformed input. Intended for static tables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// parseProbeOutput extracts the version from the binary's --version output.
// Output consisting only of a bare version number is accepted as well.
func parseProbeOutput(output string) (Version, bool) {
	m := probeOutputPattern.FindStringSubmatch(output)
	if m == nil {
		m = onlyVersionPattern.FindStringSubmatch(strings.TrimSpace(output))
	}
	if m == nil {
		return Version{}, false
	}
	v, err := fromToken(m[1])
	if err != nil {
		return Version{}, false
	}
	return v, true
}

func fromToken(token string) (Version, error) {
	gv, err := goversion.NewVersion(token)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", token, err)
	}
	seg := gv.Segments()
	if len(seg) != 4 {
		return Version{}, fmt.Errorf("version %q must have four components", token)
	}
	return Version{Major: seg[0], Minor: seg[1], Patch: seg[2], Build: seg[3]}, nil
}

// String renders the version as MAJOR.MINOR.PATCH.BUILD.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

func (v Version) goVersion() *goversion.Version {
	return goversion.Must(goversion.NewVersion(v.String()))
}

// Compare orders versions by (major, minor, patch, build).
// It returns -1, 0 or +1.
func (v Version) Compare(other Version) int {
	return v.goVersion().Compare(other.goVersion())
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}
