package model

import (
	"sort"

	"github.com/blang/semver"
)

// Tags is a collection of version tag names supporting version-aware ordering.
type Tags []string

// versioned pairs a raw tag name with its parsed version. Tags that do not
// parse as a version (release candidates with exotic suffixes, stray branch
// names) are excluded from ordering altogether.
type versioned struct {
	raw string
	ver semver.Version
}

func parseVersioned(tags Tags) []versioned {
	parsed := make([]versioned, 0, len(tags))
	for _, t := range tags {
		v, err := semver.ParseTolerant(t)
		if err != nil {
			continue
		}
		parsed = append(parsed, versioned{raw: t, ver: v})
	}
	return parsed
}

// Latest returns the highest version tag under version-aware ordering,
// e.g. v1.10 ranks above v1.9. The second return is false when no tag
// parses as a version.
func (tags Tags) Latest() (string, bool) {
	parsed := parseVersioned(tags)
	if len(parsed) == 0 {
		return "", false
	}
	latest := parsed[0]
	for _, candidate := range parsed[1:] {
		if candidate.ver.GT(latest.ver) {
			latest = candidate
		}
	}
	return latest.raw, true
}

// Sorted returns the version tags in ascending version order, excluding
// tags that do not parse as versions.
func (tags Tags) Sorted() Tags {
	parsed := parseVersioned(tags)
	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].ver.LT(parsed[j].ver)
	})
	sorted := make(Tags, 0, len(parsed))
	for _, p := range parsed {
		sorted = append(sorted, p.raw)
	}
	return sorted
}
