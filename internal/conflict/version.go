package conflict

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arbor-cli/arbor/internal/errors"
)

// Version is a parsed git version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted form of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// versionPattern matches the leading "<tool> version X.Y.Z" of
// `git version` output. Trailing platform suffixes ("2.39.3 (Apple
// Git-146)") are accepted.
var versionPattern = regexp.MustCompile(`^\S+ version (\d+)\.(\d+)\.(\d+)`)

// ParseVersion parses `git version` output into a Version. This is the one
// place in the engine allowed to produce a hard error: without a version,
// no detection strategy downstream is safe to select.
func ParseVersion(output string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(output))
	if m == nil {
		return Version{}, errors.NewVersionError("unexpected version output", output)
	}

	// The pattern guarantees digit-only submatches.
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// SupportsMergeTree reports whether git can compute a dry-run tree merge
// (`git merge-tree --write-tree`). The primitive landed in 2.38.0; the
// boundary is inclusive.
func SupportsMergeTree(v Version) bool {
	return v.Major > 2 || (v.Major == 2 && v.Minor >= 38)
}

// ResolveVersion returns the installed git version, invoking `git version`
// at most once per Detector. Subsequent calls return the cached value even
// if the underlying environment changes mid-batch.
func (d *Detector) ResolveVersion() (Version, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.version != nil {
		return *d.version, nil
	}

	out, err := d.runner.Run("", "version")
	if err != nil {
		return Version{}, errors.NewVersionError("failed to invoke git", out).WithCause(err)
	}

	v, err := ParseVersion(out)
	if err != nil {
		return Version{}, err
	}

	d.version = &v
	d.log.Debug("resolved git version", "version", v.String())
	return v, nil
}

// ResetVersion clears the cached version so the next ResolveVersion
// re-queries the tool. It exists for tests; production batches resolve once.
func (d *Detector) ResetVersion() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = nil
}
