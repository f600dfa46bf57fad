package versions

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// API versions such as "58.0" or "v58.0" are compared as semver; anything
// that does not parse falls back to string comparison.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)

	if errNew != nil || errOld != nil {
		return newVersion > oldVersion
	}

	return newSemver.GreaterThan(oldSemver)
}

// LatestVersion returns the greatest of the given API versions, or "" when
// the list is empty
func LatestVersion(candidates []string) string {
	latest := ""
	for _, v := range candidates {
		if latest == "" || IsNewerVersion(v, latest) {
			latest = v
		}
	}
	return latest
}

// NormalizeAPIVersion strips a leading "v" so "v58.0" and "58.0" name the
// same API version
func NormalizeAPIVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
