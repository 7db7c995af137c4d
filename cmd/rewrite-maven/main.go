// Command rewrite-maven is a thin driver over the resolution core and
// recipe engine, grounded on cmd/df-java-db/main.go's cobra layout
// (persistent cache-dir flag defaulting to os.UserCacheDir, one
// subcommand per operation) and pkg/builder/builder.go's cheggaaa/pb
// progress-bar idiom.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/openrewrite-go/rewrite-maven/internal/log"
	"github.com/openrewrite-go/rewrite-maven/maven"
	"github.com/openrewrite-go/rewrite-maven/maven/xmltree"
	"github.com/openrewrite-go/rewrite-maven/rewrite"
	rewritemaven "github.com/openrewrite-go/rewrite-maven/rewrite/maven"
)

var (
	workspace     string
	maxCacheSize  int
	repoURL       string
	verbose       bool

	rootCmd = &cobra.Command{
		Use:   "rewrite-maven",
		Short: "Resolve Maven dependency trees and run manifest-rewriting recipes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLevel(verbose)
		},
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve <groupId:artifactId:version>",
		Short: "Resolve a coordinate's full dependency tree and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolve(cmd.Context(), args[0])
		},
	}

	upgradeParentCmd = &cobra.Command{
		Use:   "upgrade-parent <pom-file> <groupId:artifactId> <constraint>",
		Short: "Rewrite a POM's parent version to the newest release matching constraint",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return upgradeParent(cmd.Context(), args[0], args[1], args[2])
		},
	}
)

func init() {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Logger.Fatal(err)
	}

	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", filepath.Join(userCacheDir, "rewrite-maven"),
		"persistent cache workspace directory")
	rootCmd.PersistentFlags().IntVar(&maxCacheSize, "max-cache-size", 0,
		"bounded in-memory cache size (0 means unbounded)")
	rootCmd.PersistentFlags().StringVar(&repoURL, "repo", maven.MavenCentral.URI, "repository URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(upgradeParentCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Logger.Fatalf("%+v", err)
	}
	_ = log.Sync()
}

func newDownloader(ctx context.Context) (*maven.Downloader, maven.PomCache, error) {
	persistent, err := maven.NewPersistentPomCache(ctx, workspace, map[string]struct{}{})
	if err != nil {
		return nil, nil, xerrors.Errorf("open cache: %w", err)
	}
	cache := maven.ComposePomCache(maven.NewBoundedPomCache(maxCacheSize, map[string]struct{}{}), persistent)
	return maven.NewDownloader(cache, maven.NewHTTPTransport()), cache, nil
}

func repos() []maven.Repository {
	return []maven.Repository{maven.NormalizeRepository(maven.Repository{ID: "central", URI: repoURL, Releases: true})}
}

func resolve(ctx context.Context, coordStr string) error {
	coord, err := maven.ParseCoordinate(coordStr)
	if err != nil {
		return err
	}

	downloader, cache, err := newDownloader(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	raw, repo, err := downloader.DownloadPom(ctx, coord, repos())
	if err != nil {
		return xerrors.Errorf("download %s: %w", coord, err)
	}

	resolver := maven.NewResolver(downloader)
	resolvedPom, err := resolver.Resolve(ctx, raw, []maven.Repository{repo})
	if err != nil {
		return xerrors.Errorf("resolve %s: %w", coord, err)
	}

	bar := pb.StartNew(len(resolvedPom.EffectiveDeps))
	defer bar.Finish()

	tree, err := resolver.BuildTree(ctx, resolvedPom, []maven.Repository{repo})
	if err != nil {
		return xerrors.Errorf("build tree %s: %w", coord, err)
	}

	tree.Walk(func(d *maven.Dependency) {
		bar.Increment()
		fmt.Printf("%s:%s (%s)\n", d.GroupArtifact, d.Version, d.Scope)
	})
	return nil
}

func upgradeParent(ctx context.Context, pomPath, ga, constraint string) error {
	groupID, artifactID, ok := splitGroupArtifact(ga)
	if !ok {
		return xerrors.Errorf("%s: expected groupId:artifactId", ga)
	}

	f, err := os.Open(pomPath)
	if err != nil {
		return err
	}
	tree, err := xmltree.Parse(f)
	f.Close()
	if err != nil {
		return xerrors.Errorf("parse %s: %w", pomPath, err)
	}

	downloader, cache, err := newDownloader(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	recipe := &rewritemaven.UpgradeParentVersion{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Constraint: constraint,
		Downloader: downloader,
		Repos:      repos(),
	}

	rewritten, err := rewrite.Run(rewrite.NewExecutionContext(ctx), recipe, tree)
	if err != nil {
		return err
	}

	out, err := os.Create(pomPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return xmltree.Render(out, rewritten)
}

func splitGroupArtifact(s string) (groupID, artifactID string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
