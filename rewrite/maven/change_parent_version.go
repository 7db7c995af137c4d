package maven

import (
	"github.com/openrewrite-go/rewrite-maven/maven/xmltree"
	"github.com/openrewrite-go/rewrite-maven/rewrite"
)

// ChangeParentVersion rewrites the <version> child of the <parent> tag
// matching GroupID/ArtifactID to NewVersion, leaving every other tag
// untouched. Grounded on UpgradeParentVersion.java's
// UpgradeParentVersionVisitor scheduling `new ChangeParentVersion(...)`
// as a doAfterVisit follower.
type ChangeParentVersion struct {
	rewrite.BaseRecipe

	GroupID    string
	ArtifactID string
	NewVersion string
}

func (r *ChangeParentVersion) Name() string {
	return "org.openrewrite.maven.ChangeParentVersion"
}

func (r *ChangeParentVersion) Visitor() *rewrite.Visitor {
	return &rewrite.Visitor{
		VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, _ *rewrite.ExecutionContext) *xmltree.Tag {
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
			if current, ok := tag.ChildValue("version"); ok && current == r.NewVersion {
				return tag
			}
			return tag.WithChildValue("version", r.NewVersion)
		},
	}
}
