package maven

import (
	"context"
	"regexp"
)

const (
	maxParentDepth         = 16
	maxInterpolationPasses = 10
)

// Resolver implements spec.md §4.H: given a RawPom it expands the parent
// chain, interpolates properties to a fixpoint, merges dependency
// management (including import-scope BOMs), and — via BuildTree — walks
// declared dependencies transitively applying exclusions and the scope
// table (§4.C) to produce the resolved Dependency tree. Grounded
// line-for-line on pkg/crawler/pom/parse.go's analyze/mergeDependencyManagements
// /resolveDepManagement/mergeDependencies/excludeDep/parseDependencies,
// generalized from npm-flavored "nearest wins" soft requirements to full
// Maven scope transitivity and dependency-management semantics.
type Resolver struct {
	Downloader *Downloader
}

// NewResolver wires a Downloader into a Resolver.
func NewResolver(d *Downloader) *Resolver {
	return &Resolver{Downloader: d}
}

// Resolve produces a ResolvedPom for raw, recursively resolving its
// parent chain. It is safe to call repeatedly for the same RawPom:
// resolving twice yields equal ResolvedPoms (the resolver idempotence
// property of spec.md §8).
func (r *Resolver) Resolve(ctx context.Context, raw RawPom, repos []Repository) (*ResolvedPom, error) {
	return r.resolveDepth(ctx, raw, repos, 0, map[string]struct{}{})
}

func (r *Resolver) resolveDepth(ctx context.Context, raw RawPom, repos []Repository, depth int, seen map[string]struct{}) (*ResolvedPom, error) {
	key := raw.GroupArtifact.String() + ":" + raw.Version
	if _, ok := seen[key]; ok {
		return nil, newError(KindCycleDetected, key, nil)
	}
	if depth > maxParentDepth {
		return nil, newError(KindCycleDetected, key, nil)
	}
	seen[key] = struct{}{}

	var parent *ResolvedPom
	parentRepos := repos
	if raw.Parent != nil && !raw.Parent.IsPlaceholder() {
		parentRaw, parentRepo, err := r.Downloader.DownloadPom(ctx, *raw.Parent, repos)
		if err != nil {
			return nil, err
		}
		parentRepos = prependRepo(repos, parentRepo)
		parent, err = r.resolveDepth(ctx, parentRaw, parentRepos, depth+1, seen)
		if err != nil {
			return nil, err
		}
	}

	props := newOrderedMap()
	if parent != nil {
		for _, k := range orderedKeysOf(parent.EffectiveProperties) {
			props.Set(k, parent.EffectiveProperties[k])
		}
	}
	if raw.Properties != nil {
		for _, k := range raw.Properties.Keys() {
			v, _ := raw.Properties.Get(k)
			props.Set(k, v)
		}
	}
	props.Set("project.version", raw.Version)
	props.Set("project.groupId", raw.GroupID)
	props.Set("project.artifactId", raw.ArtifactID)
	props.Set("version", raw.Version)

	effectiveProps, err := interpolateProperties(props.ToMap())
	if err != nil {
		return nil, err
	}

	managed := r.resolveManagedDependencies(ctx, raw.DependencyManagement, effectiveProps, repos)
	if parent != nil {
		managed = mergeManagedDeps(managed, parent.EffectiveManaged)
	}

	deps, err := resolveRawDeps(raw.Dependencies, effectiveProps, managed)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		deps = mergeRawDeps(parent.EffectiveDeps, deps)
	}

	return &ResolvedPom{
		RawPom:              raw,
		EffectiveProperties: effectiveProps,
		EffectiveManaged:    managed,
		EffectiveDeps:       deps,
	}, nil
}

// resolveManagedDependencies resolves a dependencyManagement section:
// plain entries are interpolated in declaration order; entries with
// scope "import" name a BOM whose own managed section is pulled in after
// the rest, per Maven's own ordering rule (grounded on
// pkg/crawler/pom/parse.go:resolveDepManagement).
func (r *Resolver) resolveManagedDependencies(ctx context.Context, raw []ManagedDep, props map[string]string, repos []Repository) []ManagedDep {
	var normal, imports []ManagedDep
	for _, d := range raw {
		if d.Scope == "import" {
			imports = append(imports, d)
			continue
		}
		normal = append(normal, interpolateManagedDep(d, props))
	}

	for _, imp := range imports {
		coord := Coordinate{
			GroupArtifact: imp.GroupArtifact,
			Version:       interpolateString(imp.Version, props),
		}
		bomRaw, bomRepo, err := r.Downloader.DownloadPom(ctx, coord, repos)
		if err != nil {
			continue
		}
		bomResolved, err := r.resolveDepth(ctx, bomRaw, prependRepo(repos, bomRepo), 0, map[string]struct{}{})
		if err != nil {
			continue
		}
		normal = mergeManagedDeps(normal, bomResolved.EffectiveManaged)
	}
	return normal
}

// mergeManagedDeps merges two dependencyManagement lists; preferred wins
// by (groupId, artifactId, classifier, type), fallback entries not
// already present are appended.
func mergeManagedDeps(preferred, fallback []ManagedDep) []ManagedDep {
	seen := map[string]struct{}{}
	merged := make([]ManagedDep, 0, len(preferred)+len(fallback))
	for _, d := range preferred {
		if _, ok := seen[d.key()]; ok {
			continue
		}
		seen[d.key()] = struct{}{}
		merged = append(merged, d)
	}
	for _, d := range fallback {
		if _, ok := seen[d.key()]; ok {
			continue
		}
		seen[d.key()] = struct{}{}
		merged = append(merged, d)
	}
	return merged
}

func interpolateManagedDep(d ManagedDep, props map[string]string) ManagedDep {
	d.GroupID = interpolateString(d.GroupID, props)
	d.ArtifactID = interpolateString(d.ArtifactID, props)
	d.Version = interpolateString(d.Version, props)
	return d
}

// resolveRawDeps interpolates each declared dependency and falls back to
// dependencyManagement for a missing version or scope. A dependency
// left with a placeholder or empty version after that is UnresolvedVersion.
func resolveRawDeps(raw []RawDep, props map[string]string, managed []ManagedDep) ([]RawDep, error) {
	managedByKey := make(map[string]ManagedDep, len(managed))
	for _, m := range managed {
		managedByKey[m.GroupArtifact.String()+":"+m.Classifier+":"+m.Type] = m
	}

	out := make([]RawDep, 0, len(raw))
	for _, d := range raw {
		d.GroupID = interpolateString(d.GroupID, props)
		d.ArtifactID = interpolateString(d.ArtifactID, props)
		d.Version = interpolateString(d.Version, props)
		d.Scope = interpolateString(d.Scope, props)

		if m, ok := managedByKey[d.GroupArtifact.String()+":"+d.Classifier+":"+d.Type]; ok {
			if d.Version == "" {
				d.Version = m.Version
			}
			if d.Scope == "" {
				d.Scope = m.Scope
			}
			d.Exclusions = append(d.Exclusions, m.Exclusions...)
		}
		if d.Scope == "" {
			d.Scope = "compile"
		}
		if d.Version == "" || isPlaceholder(d.Version) {
			return nil, newError(KindUnresolvedVersion, d.GroupArtifact.String(), nil)
		}
		out = append(out, d)
	}
	return out, nil
}

// mergeRawDeps merges a parent's already-resolved dependency list with a
// child's own, keeping the first occurrence of each (groupId, artifactId,
// classifier, type) key — grounded on
// pkg/crawler/pom/parse.go:mergeDependencies.
func mergeRawDeps(parent, child []RawDep) []RawDep {
	seen := map[string]struct{}{}
	merged := make([]RawDep, 0, len(parent)+len(child))
	for _, d := range append(append([]RawDep{}, parent...), child...) {
		if _, ok := seen[d.key()]; ok {
			continue
		}
		seen[d.key()] = struct{}{}
		merged = append(merged, d)
	}
	return merged
}

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateProperties substitutes ${name} placeholders to a fixpoint,
// bounded at maxInterpolationPasses per spec.md §3's invariant. A
// placeholder still present after the bound is surfaced as a resolution
// error.
func interpolateProperties(props map[string]string) (map[string]string, error) {
	current := make(map[string]string, len(props))
	for k, v := range props {
		current[k] = v
	}

	for pass := 0; pass < maxInterpolationPasses; pass++ {
		changed := false
		for k, v := range current {
			next := interpolateString(v, current)
			if next != v {
				current[k] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for k, v := range current {
		if placeholderPattern.MatchString(v) {
			return nil, newError(KindUnresolvedVersion, k, nil)
		}
	}
	return current, nil
}

// interpolateString substitutes every ${name} placeholder it recognizes
// in props, leaving unrecognized placeholders untouched for the caller
// (or a later interpolation pass) to deal with.
func interpolateString(s string, props map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := props[name]; ok {
			return v
		}
		return match
	})
}

func orderedKeysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func prependRepo(repos []Repository, repo Repository) []Repository {
	out := make([]Repository, 0, len(repos)+1)
	out = append(out, repo)
	for _, r := range repos {
		if r.CacheKey() != repo.CacheKey() {
			out = append(out, r)
		}
	}
	return out
}
