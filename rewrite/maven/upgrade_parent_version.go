// Package maven holds the recipes this repository ships over the XML
// tree model, grounded line-for-line on
// org.openrewrite.maven.UpgradeParentVersion and its companion
// ChangeParentVersion from the original source.
package maven

import (
	"github.com/openrewrite-go/rewrite-maven/maven"
	"github.com/openrewrite-go/rewrite-maven/maven/semver"
	"github.com/openrewrite-go/rewrite-maven/maven/xmltree"
	"github.com/openrewrite-go/rewrite-maven/rewrite"
)

// UpgradeParentVersion finds the <parent> tag matching GroupID/ArtifactID
// and, if a newer version satisfying Constraint exists in the parent's
// metadata, schedules a ChangeParentVersion follow-up via doAfterVisit —
// grounded on UpgradeParentVersion.java's UpgradeParentVersionVisitor.
type UpgradeParentVersion struct {
	rewrite.BaseRecipe

	GroupID    string
	ArtifactID string
	Constraint string
	// MetadataPattern filters candidate versions' build-metadata
	// component, mirroring Semver.validate's optional second argument.
	MetadataPattern string

	// Downloader resolves the parent's maven-metadata.xml to list
	// candidate versions, the Go analog of UpgradeParentVersionVisitor's
	// MavenPomDownloader(MavenPomCache.NOOP, ...) call.
	Downloader *maven.Downloader
	Repos      []maven.Repository
}

// Name returns the recipe's fully-qualified name, matching the source's
// Recipe.getName() convention of using the Java class's package path.
func (r *UpgradeParentVersion) Name() string {
	return "org.openrewrite.maven.UpgradeParentVersion"
}

// Visitor returns the tag-rewriting visitor for this recipe.
func (r *UpgradeParentVersion) Visitor() *rewrite.Visitor {
	comparator, err := semver.Parse(r.Constraint)
	if err != nil {
		return &rewrite.Visitor{}
	}
	var pattern *semver.MetadataPattern
	if r.MetadataPattern != "" {
		if p, err := semver.NewMetadataPattern(r.MetadataPattern); err == nil {
			pattern = p
		}
	}

	var availableVersions []string
	var fetched bool

	return &rewrite.Visitor{
		VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *rewrite.ExecutionContext) *xmltree.Tag {
			if !isParentTag(ancestors, tag) {
				return tag
			}
			groupID, ok := tag.ChildValue("groupId")
			if !ok || groupID != r.GroupID {
				return tag
			}
			artifactID, ok := tag.ChildValue("artifactId")
			if !ok || artifactID != r.ArtifactID {
				return tag
			}
			currentVersion, ok := tag.ChildValue("version")
			if !ok {
				return tag
			}

			boundComparator := semver.BindReference(comparator, currentVersion)

			if !fetched {
				availableVersions = r.availableVersions(ctx, boundComparator)
				fetched = true
			}

			newer, found := semver.NewerThan(currentVersion, availableVersions, boundComparator, pattern)
			if found {
				ctx.DoAfterVisit(&ChangeParentVersion{
					GroupID:    r.GroupID,
					ArtifactID: r.ArtifactID,
					NewVersion: newer,
				})
			}
			return tag
		},
	}
}

func (r *UpgradeParentVersion) availableVersions(ctx *rewrite.ExecutionContext, comparator semver.VersionComparator) []string {
	if r.Downloader == nil {
		return nil
	}
	metadata, err := r.Downloader.DownloadMetadata(ctx.Context, maven.GroupArtifact{GroupID: r.GroupID, ArtifactID: r.ArtifactID}, r.Repos)
	if err != nil {
		return nil
	}
	versions := make([]string, 0, len(metadata.Versions))
	for _, v := range metadata.Versions {
		if comparator.IsValid(v) {
			versions = append(versions, v)
		}
	}
	return versions
}

// isParentTag reports whether tag is the direct <parent> child of the
// root <project> tag, the Go analog of MavenVisitor.isParentTag().
func isParentTag(ancestors []*xmltree.Tag, tag *xmltree.Tag) bool {
	if tag.Name != "parent" {
		return false
	}
	if len(ancestors) == 0 {
		return false
	}
	return ancestors[len(ancestors)-1].Name == "project"
}
