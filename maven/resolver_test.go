package maven

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
)

// fakeTransport serves canned POM/metadata bodies keyed by exact URL,
// standing in for a real repository in resolver/downloader/tree tests.
type fakeTransport struct {
	bodies map[string]string
	calls  map[string]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bodies: map[string]string{}, calls: map[string]int{}}
}

func (f *fakeTransport) withPom(coord Coordinate, xml string) *fakeTransport {
	f.bodies[pomURL(MavenCentral, coord)] = xml
	return f
}

func (f *fakeTransport) withMetadata(ga GroupArtifact, xml string) *fakeTransport {
	f.bodies[metadataURL(MavenCentral, ga)] = xml
	return f
}

func (f *fakeTransport) Get(ctx context.Context, url string) (io.ReadCloser, bool, error) {
	f.calls[url]++
	body, ok := f.bodies[url]
	if !ok {
		return nil, false, nil
	}
	return io.NopCloser(strings.NewReader(body)), true, nil
}

func newTestDownloader(transport *fakeTransport) *Downloader {
	return NewDownloader(NewInMemoryPomCache(map[string]struct{}{}), transport)
}

func leafPom(artifactID string) string {
	return `<project>
  <groupId>com.example</groupId>
  <artifactId>` + artifactID + `</artifactId>
  <version>1.0.0</version>
</project>`
}

func pomWithParent(groupID, artifactID, version, parentGroup, parentArtifact, parentVersion string) string {
	return `<project>
  <parent>
    <groupId>` + parentGroup + `</groupId>
    <artifactId>` + parentArtifact + `</artifactId>
    <version>` + parentVersion + `</version>
  </parent>
  <groupId>` + groupID + `</groupId>
  <artifactId>` + artifactID + `</artifactId>
  <version>` + version + `</version>
</project>`
}

func TestResolveNoParent(t *testing.T) {
	downloader := newTestDownloader(newFakeTransport())
	raw := RawPom{
		GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "leaf"},
		Version:       "1.0.0",
		Properties:    newOrderedMap(),
	}
	resolver := NewResolver(downloader)

	resolved, err := resolver.Resolve(context.Background(), raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.EffectiveProperties["project.version"] != "1.0.0" {
		t.Errorf("project.version = %s, want 1.0.0", resolved.EffectiveProperties["project.version"])
	}
}

func TestResolveIdempotence(t *testing.T) {
	downloader := newTestDownloader(newFakeTransport())
	raw := RawPom{
		GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "leaf"},
		Version:       "1.0.0",
		Properties:    newOrderedMap(),
		Dependencies: []RawDep{
			{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "dep"}, Version: "2.0.0"},
		},
	}
	resolver := NewResolver(downloader)

	r1, err := resolver.Resolve(context.Background(), raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := resolver.Resolve(context.Background(), raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(r1.EffectiveDeps) != len(r2.EffectiveDeps) {
		t.Fatalf("EffectiveDeps length differs across resolves: %d vs %d", len(r1.EffectiveDeps), len(r2.EffectiveDeps))
	}
	for i := range r1.EffectiveDeps {
		if !reflect.DeepEqual(r1.EffectiveDeps[i], r2.EffectiveDeps[i]) {
			t.Errorf("dep %d differs: %+v vs %+v", i, r1.EffectiveDeps[i], r2.EffectiveDeps[i])
		}
	}
}

func TestResolveWithParentExpandsPropertiesAndDeps(t *testing.T) {
	parentCoord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "parent-pom"}, Version: "1.0.0"}
	parentXML := `<project>
  <groupId>com.example</groupId>
  <artifactId>parent-pom</artifactId>
  <version>1.0.0</version>
  <properties>
    <lib.version>3.2.1</lib.version>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.example</groupId>
        <artifactId>lib</artifactId>
        <version>${lib.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>inherited</artifactId>
      <version>9.9.9</version>
    </dependency>
  </dependencies>
</project>`

	transport := newFakeTransport().withPom(parentCoord, parentXML)
	downloader := newTestDownloader(transport)
	resolver := NewResolver(downloader)

	childRaw := RawPom{
		GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "child"},
		Version:       "1.0.0",
		Parent:        &parentCoord,
		Properties:    newOrderedMap(),
		Dependencies: []RawDep{
			{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "lib"}},
		},
	}

	resolved, err := resolver.Resolve(context.Background(), childRaw, []Repository{MavenCentral})
	if err != nil {
		t.Fatal(err)
	}

	if resolved.EffectiveProperties["lib.version"] != "3.2.1" {
		t.Errorf("lib.version = %s, want inherited from parent (3.2.1)", resolved.EffectiveProperties["lib.version"])
	}

	var libDep, inheritedDep *RawDep
	for i := range resolved.EffectiveDeps {
		d := &resolved.EffectiveDeps[i]
		switch d.ArtifactID {
		case "lib":
			libDep = d
		case "inherited":
			inheritedDep = d
		}
	}
	if libDep == nil {
		t.Fatal("expected lib dependency in effective deps")
	}
	if libDep.Version != "3.2.1" {
		t.Errorf("lib version = %s, want 3.2.1 from dependencyManagement", libDep.Version)
	}
	if inheritedDep == nil {
		t.Fatal("expected parent's own dependency to be inherited")
	}
}

func TestResolveUnresolvedVersionError(t *testing.T) {
	downloader := newTestDownloader(newFakeTransport())
	resolver := NewResolver(downloader)

	raw := RawPom{
		GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "broken"},
		Version:       "1.0.0",
		Properties:    newOrderedMap(),
		Dependencies: []RawDep{
			{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "missing-version"}},
		},
	}

	_, err := resolver.Resolve(context.Background(), raw, nil)
	if err == nil {
		t.Fatal("expected UnresolvedVersion error")
	}
	merr, ok := err.(*Error)
	if !ok || merr.Kind != KindUnresolvedVersion {
		t.Fatalf("err = %v, want KindUnresolvedVersion", err)
	}
}

func TestResolveCycleDetected(t *testing.T) {
	selfCoord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "cyclic"}, Version: "1.0.0"}
	cyclicXML := pomWithParent("com.example", "cyclic", "1.0.0", "com.example", "cyclic", "1.0.0")
	transport := newFakeTransport().withPom(selfCoord, cyclicXML)
	downloader := newTestDownloader(transport)
	resolver := NewResolver(downloader)

	raw := RawPom{
		GroupArtifact: selfCoord.GroupArtifact,
		Version:       selfCoord.Version,
		Parent:        &selfCoord,
		Properties:    newOrderedMap(),
	}

	_, err := resolver.Resolve(context.Background(), raw, []Repository{MavenCentral})
	if err == nil {
		t.Fatal("expected cycle detection error")
	}
	merr, ok := err.(*Error)
	if !ok || merr.Kind != KindCycleDetected {
		t.Fatalf("err = %v, want KindCycleDetected", err)
	}
}

func TestInterpolatePropertiesFixpoint(t *testing.T) {
	props := map[string]string{
		"a": "${b}",
		"b": "${c}",
		"c": "final",
	}
	resolved, err := interpolateProperties(props)
	if err != nil {
		t.Fatal(err)
	}
	if resolved["a"] != "final" {
		t.Errorf("a = %s, want final (chained through b, c)", resolved["a"])
	}
}

func TestInterpolatePropertiesUnresolvedPlaceholder(t *testing.T) {
	props := map[string]string{"a": "${nonexistent}"}
	if _, err := interpolateProperties(props); err == nil {
		t.Fatal("expected error for a placeholder with no matching property")
	}
}

func TestMergeManagedDepsPreferredWins(t *testing.T) {
	preferred := []ManagedDep{{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "2.0.0"}}
	fallback := []ManagedDep{{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "1.0.0"}}

	merged := mergeManagedDeps(preferred, fallback)
	if len(merged) != 1 || merged[0].Version != "2.0.0" {
		t.Fatalf("merged = %+v, want single entry with version 2.0.0", merged)
	}
}

func TestMergeRawDepsFirstOccurrenceWins(t *testing.T) {
	parent := []RawDep{{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "1.0.0"}}
	child := []RawDep{{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "2.0.0"}}

	merged := mergeRawDeps(parent, child)
	if len(merged) != 1 || merged[0].Version != "1.0.0" {
		t.Fatalf("merged = %+v, want parent's version to win", merged)
	}
}

func TestBuildTreeNearestWinsAndExclusions(t *testing.T) {
	midCoord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "mid"}, Version: "1.0.0"}
	leafCoord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "leaf"}, Version: "1.0.0"}
	excludedCoord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "excluded"}, Version: "1.0.0"}

	midXML := `<project>
  <groupId>com.example</groupId>
  <artifactId>mid</artifactId>
  <version>1.0.0</version>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>leaf</artifactId>
      <version>1.0.0</version>
    </dependency>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>excluded</artifactId>
      <version>1.0.0</version>
    </dependency>
  </dependencies>
</project>`

	transport := newFakeTransport().
		withPom(midCoord, midXML).
		withPom(leafCoord, leafPom("leaf")).
		withPom(excludedCoord, leafPom("excluded"))
	downloader := newTestDownloader(transport)
	resolver := NewResolver(downloader)

	root := &ResolvedPom{
		RawPom: RawPom{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "root"}, Version: "1.0.0"},
		EffectiveDeps: []RawDep{
			// Direct on leaf at depth 1, nearer than mid's transitive edge to it.
			{GroupArtifact: leafCoord.GroupArtifact, Version: "1.0.0", Scope: "compile"},
			{
				GroupArtifact: midCoord.GroupArtifact, Version: "1.0.0", Scope: "compile",
				Exclusions: []Exclusion{{GroupArtifact{GroupID: "com.example", ArtifactID: "excluded"}}},
			},
		},
	}

	tree, err := resolver.BuildTree(context.Background(), root, []Repository{MavenCentral})
	if err != nil {
		t.Fatal(err)
	}

	var seenArtifacts []string
	tree.Walk(func(d *Dependency) {
		if d.ArtifactID != "" {
			seenArtifacts = append(seenArtifacts, d.ArtifactID)
		}
	})

	hasLeaf, hasExcluded, leafCount := false, false, 0
	for _, a := range seenArtifacts {
		if a == "leaf" {
			hasLeaf = true
			leafCount++
		}
		if a == "excluded" {
			hasExcluded = true
		}
	}
	if !hasLeaf {
		t.Error("expected leaf to appear in tree")
	}
	if leafCount != 1 {
		t.Errorf("leaf appeared %d times, want 1 (nearest-wins dedup)", leafCount)
	}
	if hasExcluded {
		t.Error("excluded dependency should not appear in tree")
	}
}

func TestBuildTreeSystemScopeIsLeaf(t *testing.T) {
	downloader := newTestDownloader(newFakeTransport())
	resolver := NewResolver(downloader)

	root := &ResolvedPom{
		RawPom: RawPom{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "root"}, Version: "1.0.0"},
		EffectiveDeps: []RawDep{
			{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "sysjar"}, Version: "1.0.0", Scope: "system"},
		},
	}

	tree, err := resolver.BuildTree(context.Background(), root, []Repository{MavenCentral})
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected exactly one child, got %d", len(tree.Children))
	}
	if tree.Children[0].Scope != ScopeSystem {
		t.Errorf("scope = %s, want system", tree.Children[0].Scope)
	}
	if len(tree.Children[0].Children) != 0 {
		t.Error("system-scope dependency must be a resolution leaf")
	}
}

func TestBuildTreeOptionalDependencySkipped(t *testing.T) {
	downloader := newTestDownloader(newFakeTransport())
	resolver := NewResolver(downloader)

	root := &ResolvedPom{
		RawPom: RawPom{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "root"}, Version: "1.0.0"},
		EffectiveDeps: []RawDep{
			{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "opt"}, Version: "1.0.0", Scope: "compile", Optional: true},
		},
	}

	tree, err := resolver.BuildTree(context.Background(), root, []Repository{MavenCentral})
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected optional dependency to be skipped, got %d children", len(tree.Children))
	}
}
