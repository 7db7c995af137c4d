package maven

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"
)

// pomXML mirrors the standard Maven POM schema elements spec.md §6
// requires: parent, groupId, artifactId, version, properties,
// dependencyManagement, dependencies, repositories, modules, scope,
// optional, exclusions, classifier, type.
type pomXML struct {
	XMLName    xml.Name     `xml:"project"`
	GroupID    string       `xml:"groupId"`
	ArtifactID string       `xml:"artifactId"`
	Version    string       `xml:"version"`
	Parent     *xmlParent   `xml:"parent"`
	Properties xmlProps     `xml:"properties"`

	DependencyManagement struct {
		Dependencies []xmlDependency `xml:"dependencies>dependency"`
	} `xml:"dependencyManagement"`

	Dependencies []xmlDependency `xml:"dependencies>dependency"`
	Repositories []xmlRepository `xml:"repositories>repository"`
	Modules      []string        `xml:"modules>module"`
}

type xmlParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type xmlDependency struct {
	GroupID    string          `xml:"groupId"`
	ArtifactID string          `xml:"artifactId"`
	Version    string          `xml:"version"`
	Scope      string          `xml:"scope"`
	Classifier string          `xml:"classifier"`
	Type       string          `xml:"type"`
	Optional   bool            `xml:"optional"`
	Exclusions []xmlExclusion  `xml:"exclusions>exclusion"`
}

type xmlExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

type xmlRepository struct {
	ID        string `xml:"id"`
	URL       string `xml:"url"`
	Releases  struct {
		Enabled bool `xml:"enabled"`
	} `xml:"releases"`
	Snapshots struct {
		Enabled bool `xml:"enabled"`
	} `xml:"snapshots"`
}

// xmlProps decodes an arbitrary <properties><foo>bar</foo>...</properties>
// block into an ordered map, preserving declaration order the way
// spec.md §3 requires of RawPom.Properties. Grounded on the teacher's own
// properties.UnmarshalXML in pkg/crawler/types.go.
type xmlProps orderedMap

func (p *xmlProps) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	om := newOrderedMap()
	for {
		var el struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		}
		if err := d.Decode(&el); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		om.Set(el.XMLName.Local, el.Value)
	}
	*p = xmlProps(*om)
	return nil
}

// parsePomXML decodes r into a pomXML, using a charset-tolerant decoder
// the way pkg/crawler/pom/parse.go:parsePom and pkg/crawler/crawler.go's
// metadata decode both do.
func parsePomXML(r io.Reader) (*pomXML, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	parsed := &pomXML{}
	if err := decoder.Decode(parsed); err != nil {
		return nil, xerrors.Errorf("xml decode: %w", err)
	}
	return parsed, nil
}

// toRawPom converts the wire representation into the immutable RawPom
// spec.md §3 describes.
func (x *pomXML) toRawPom() RawPom {
	raw := RawPom{
		GroupArtifact: GroupArtifact{GroupID: x.GroupID, ArtifactID: x.ArtifactID},
		Version:       x.Version,
		Properties:    (*orderedMap)(&x.Properties),
	}
	if raw.Properties == nil {
		raw.Properties = newOrderedMap()
	}
	if x.Parent != nil {
		raw.Parent = &Coordinate{
			GroupArtifact: GroupArtifact{GroupID: x.Parent.GroupID, ArtifactID: x.Parent.ArtifactID},
			Version:       x.Parent.Version,
		}
		raw.ParentRelativePath = x.Parent.RelativePath
		if raw.GroupID == "" {
			raw.GroupID = x.Parent.GroupID
		}
		if raw.Version == "" {
			raw.Version = x.Parent.Version
		}
	}
	for _, d := range x.DependencyManagement.Dependencies {
		raw.DependencyManagement = append(raw.DependencyManagement, toManagedDep(d))
	}
	for _, d := range x.Dependencies {
		raw.Dependencies = append(raw.Dependencies, toRawDep(d))
	}
	for _, r := range x.Repositories {
		raw.Repositories = append(raw.Repositories, Repository{
			ID:        r.ID,
			URI:       r.URL,
			Releases:  r.Releases.Enabled,
			Snapshots: r.Snapshots.Enabled,
		})
	}
	raw.Modules = append(raw.Modules, x.Modules...)
	return raw
}

func toManagedDep(d xmlDependency) ManagedDep {
	return ManagedDep{
		GroupArtifact: GroupArtifact{GroupID: d.GroupID, ArtifactID: d.ArtifactID},
		Version:       d.Version,
		Scope:         d.Scope,
		Classifier:    d.Classifier,
		Type:          d.Type,
		Exclusions:    toExclusions(d.Exclusions),
	}
}

func toRawDep(d xmlDependency) RawDep {
	return RawDep{
		GroupArtifact: GroupArtifact{GroupID: d.GroupID, ArtifactID: d.ArtifactID},
		Version:       d.Version,
		Scope:         d.Scope,
		Classifier:    d.Classifier,
		Type:          d.Type,
		Optional:      d.Optional,
		Exclusions:    toExclusions(d.Exclusions),
	}
}

func toExclusions(xs []xmlExclusion) []Exclusion {
	out := make([]Exclusion, 0, len(xs))
	for _, x := range xs {
		out = append(out, Exclusion{GroupArtifact{GroupID: x.GroupID, ArtifactID: x.ArtifactID}})
	}
	return out
}

// xmlMetadata mirrors maven-metadata.xml's versioning/versions/version
// list plus optional latest/release, per spec.md §6.
type xmlMetadata struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Versions    []string `xml:"versions>version"`
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}

func parseMetadataXML(r io.Reader) (*xmlMetadata, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	parsed := &xmlMetadata{}
	if err := decoder.Decode(parsed); err != nil {
		return nil, xerrors.Errorf("xml decode: %w", err)
	}
	return parsed, nil
}

func (x *xmlMetadata) toMavenMetadata() MavenMetadata {
	return MavenMetadata{
		GroupID:           x.GroupID,
		ArtifactID:        x.ArtifactID,
		Versions:          x.Versioning.Versions,
		Latest:            x.Versioning.Latest,
		Release:           x.Versioning.Release,
		SnapshotTimestamp: x.Versioning.LastUpdated,
	}
}
