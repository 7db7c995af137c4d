package maven

import (
	"context"
	"testing"
)

func TestDownloadPomCachesAcrossCalls(t *testing.T) {
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "widget"}, Version: "1.0.0"}
	transport := newFakeTransport().withPom(coord, leafPom("widget"))
	downloader := newTestDownloader(transport)

	url := pomURL(MavenCentral, coord)

	if _, _, err := downloader.DownloadPom(context.Background(), coord, []Repository{MavenCentral}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := downloader.DownloadPom(context.Background(), coord, []Repository{MavenCentral}); err != nil {
		t.Fatal(err)
	}
	if transport.calls[url] != 1 {
		t.Errorf("transport fetched %d times, want 1 (second call should hit cache)", transport.calls[url])
	}
}

func TestDownloadPomNotFoundAcrossAllRepos(t *testing.T) {
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "missing"}, Version: "1.0.0"}
	downloader := newTestDownloader(newFakeTransport())

	_, _, err := downloader.DownloadPom(context.Background(), coord, []Repository{MavenCentral})
	if err == nil {
		t.Fatal("expected PomNotFound")
	}
	merr, ok := err.(*Error)
	if !ok || merr.Kind != KindPomNotFound {
		t.Fatalf("err = %v, want KindPomNotFound", err)
	}
}

func TestDownloadPomStopsAtFirstRepoThatHasIt(t *testing.T) {
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "widget"}, Version: "1.0.0"}
	secondary := Repository{ID: "secondary", URI: "https://repo.other.example.com/"}

	transport := newFakeTransport()
	transport.bodies[pomURL(NormalizeRepository(secondary), coord)] = leafPom("widget")
	downloader := newTestDownloader(transport)

	_, repo, err := downloader.DownloadPom(context.Background(), coord, []Repository{MavenCentral, secondary})
	if err != nil {
		t.Fatal(err)
	}
	if repo.CacheKey() != NormalizeRepository(secondary).CacheKey() {
		t.Errorf("resolved from %s, want secondary repo", repo.CacheKey())
	}
}

func TestDownloadPomRejectsPlaceholderVersion(t *testing.T) {
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "com.example", ArtifactID: "widget"}, Version: "${revision}"}
	downloader := newTestDownloader(newFakeTransport())

	_, _, err := downloader.DownloadPom(context.Background(), coord, []Repository{MavenCentral})
	if err == nil {
		t.Fatal("expected UnresolvedVersion for a placeholder coordinate")
	}
	merr, ok := err.(*Error)
	if !ok || merr.Kind != KindUnresolvedVersion {
		t.Fatalf("err = %v, want KindUnresolvedVersion", err)
	}
}

const sampleMetadataXML = `<metadata>
  <groupId>com.example</groupId>
  <artifactId>widget</artifactId>
  <versioning>
    <versions>
      <version>1.0.0</version>
      <version>1.1.0</version>
    </versions>
    <release>1.1.0</release>
  </versioning>
</metadata>`

func TestDownloadMetadataMergesAcrossRepos(t *testing.T) {
	ga := GroupArtifact{GroupID: "com.example", ArtifactID: "widget"}
	secondary := Repository{ID: "secondary", URI: "https://repo.other.example.com/"}

	transport := newFakeTransport().withMetadata(ga, sampleMetadataXML)
	transport.bodies[metadataURL(NormalizeRepository(secondary), ga)] = `<metadata>
  <groupId>com.example</groupId>
  <artifactId>widget</artifactId>
  <versioning>
    <versions>
      <version>1.1.0</version>
      <version>2.0.0</version>
    </versions>
  </versioning>
</metadata>`
	downloader := newTestDownloader(transport)

	meta, err := downloader.DownloadMetadata(context.Background(), ga, []Repository{MavenCentral, secondary})
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Versions) != 3 {
		t.Errorf("Versions = %v, want 3 unique entries across both repos", meta.Versions)
	}
	if meta.Release != "1.1.0" {
		t.Errorf("Release = %s, want 1.1.0", meta.Release)
	}
}
