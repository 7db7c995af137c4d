package semver

// Max returns the greatest candidate satisfying comparator, the Go analog
// of Java's Stream.max(versionComparator). It exists and is unique for
// any non-empty set of valid candidates, since VersionComparator defines a
// total order over them.
func Max(comparator VersionComparator, candidates []string) (string, bool) {
	var best string
	found := false
	for _, c := range candidates {
		if !comparator.IsValid(c) {
			continue
		}
		if !found || comparator.Compare(c, best) > 0 {
			best = c
			found = true
		}
	}
	return best, found
}

// NewerThan finds the best upgrade candidate strictly newer than current,
// grounded on UpgradeParentVersion.findNewerDependencyVersion: candidates
// are filtered by comparator validity and an optional MetadataPattern,
// then by LatestRelease.compare(current, v) < 0, and the remainder is
// reduced with Max under comparator's ordering.
func NewerThan(current string, candidates []string, comparator VersionComparator, pattern *MetadataPattern) (string, bool) {
	comparator = BindReference(comparator, current)
	lr := LatestRelease{}
	var valid []string
	for _, v := range candidates {
		if !comparator.IsValid(v) {
			continue
		}
		if pattern != nil && !pattern.Matches(v) {
			continue
		}
		if lr.Compare(current, v) >= 0 {
			continue
		}
		valid = append(valid, v)
	}
	return Max(comparator, valid)
}
