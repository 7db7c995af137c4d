package maven

import "context"

// queuedDep is one pending edge of the breadth-first walk BuildTree
// performs: a dependency discovered while visiting parent, requested
// with scope (already adjusted for transitivity), at path hops from the
// tree root, carrying the exclusions accumulated along the path.
type queuedDep struct {
	parent     *Dependency
	dep        RawDep
	scope      Scope
	path       int
	exclusions []Exclusion
	repos      []Repository
}

// BuildTree implements spec.md §4.H/§4.C's transitive walk: starting from
// root's own effective dependencies, each edge is expanded by downloading
// and resolving the dependency's own POM, then its effective dependencies
// are re-queued with the scope table applied (§4.C) and the accumulated
// exclusion set checked. The walk is breadth-first, so the first time a
// (groupId, artifactId, classifier, type) key is reached is always its
// nearest occurrence, with ties broken by declaration order — the
// "nearest wins" rule from spec.md §4.H, grounded on
// pkg/crawler/pom/parse.go's queue-driven artifact resolution generalized
// from its soft-requirement override check to full scope transitivity.
func (r *Resolver) BuildTree(ctx context.Context, root *ResolvedPom, repos []Repository) (*Dependency, error) {
	rootNode := &Dependency{
		Coordinate: Coordinate{GroupArtifact: root.GroupArtifact, Version: root.Version},
		Scope:      ScopeNone,
	}

	queue := make([]queuedDep, 0, len(root.EffectiveDeps))
	for _, d := range root.EffectiveDeps {
		queue = append(queue, queuedDep{
			parent: rootNode,
			dep:    d,
			scope:  ScopeFromName(d.Scope),
			path:   1,
			repos:  repos,
		})
	}

	seen := map[string]struct{}{}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.dep.Optional {
			continue
		}
		ga := item.dep.GroupArtifact
		if AnyExclusionMatches(item.exclusions, ga) {
			continue
		}

		key := item.dep.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		node := &Dependency{
			Coordinate:       Coordinate{GroupArtifact: ga, Version: item.dep.Version},
			Scope:            item.scope,
			Exclusions:       item.dep.Exclusions,
			Optional:         item.dep.Optional,
			Classifier:       item.dep.Classifier,
			Type:             item.dep.Type,
			RequestedVersion: item.dep.Version,
		}
		item.parent.Children = append(item.parent.Children, node)

		if item.scope == ScopeSystem {
			continue
		}

		depRaw, depRepo, err := r.Downloader.DownloadPom(ctx, node.Coordinate, item.repos)
		if err != nil {
			return nil, err
		}
		node.Repository = depRepo

		childRepos := prependRepo(item.repos, depRepo)
		childResolved, err := r.resolveDepth(ctx, depRaw, childRepos, 0, map[string]struct{}{})
		if err != nil {
			return nil, err
		}

		combinedExclusions := append(append([]Exclusion{}, item.exclusions...), node.Exclusions...)
		for _, cd := range childResolved.EffectiveDeps {
			transitive, ok := TransitiveOf(item.scope, ScopeFromName(cd.Scope))
			if !ok {
				continue
			}
			queue = append(queue, queuedDep{
				parent:     node,
				dep:        cd,
				scope:      transitive,
				path:       item.path + 1,
				exclusions: combinedExclusions,
				repos:      childRepos,
			})
		}
	}

	return rootNode, nil
}
