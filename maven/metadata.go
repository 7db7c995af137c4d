package maven

// MavenMetadata is the per-GroupArtifact version listing produced by a
// remote repository's maven-metadata.xml.
type MavenMetadata struct {
	GroupID            string
	ArtifactID         string
	Versions           []string
	Latest             string
	Release            string
	SnapshotTimestamp  string
}

// MergeMetadata merges metadata fetched from several repositories for the
// same GroupArtifact by taking the union of their version lists, per
// spec.md §4.G's downloadMetadata contract. Latest/Release/SnapshotTimestamp
// are taken from the first metadata that sets them.
func MergeMetadata(metas ...MavenMetadata) MavenMetadata {
	var merged MavenMetadata
	seen := map[string]struct{}{}
	for _, m := range metas {
		if merged.GroupID == "" {
			merged.GroupID = m.GroupID
			merged.ArtifactID = m.ArtifactID
		}
		if merged.Latest == "" {
			merged.Latest = m.Latest
		}
		if merged.Release == "" {
			merged.Release = m.Release
		}
		if merged.SnapshotTimestamp == "" {
			merged.SnapshotTimestamp = m.SnapshotTimestamp
		}
		for _, v := range m.Versions {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged.Versions = append(merged.Versions, v)
		}
	}
	return merged
}
