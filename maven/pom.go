package maven

// ManagedDep is one entry of a <dependencyManagement> section: a version
// and/or scope constraint that applies to a matching dependency declared
// without an explicit version.
type ManagedDep struct {
	GroupArtifact
	Version    string
	Scope      string
	Classifier string
	Type       string
	Exclusions []Exclusion
}

func (m ManagedDep) key() string {
	return m.GroupArtifact.String() + ":" + m.Classifier + ":" + m.Type
}

// RawDep is a <dependency> entry as declared in a POM, before property
// interpolation or dependency-management resolution.
type RawDep struct {
	GroupArtifact
	Version    string
	Scope      string
	Classifier string
	Type       string
	Optional   bool
	Exclusions []Exclusion
}

func (d RawDep) key() string {
	return d.GroupArtifact.String() + ":" + d.Classifier + ":" + d.Type
}

// RawPom is a parsed manifest before inheritance. It is immutable after
// parse.
type RawPom struct {
	GroupArtifact
	Version              string
	Parent               *Coordinate
	ParentRelativePath   string
	Properties           *orderedMap
	DependencyManagement []ManagedDep
	Dependencies         []RawDep
	Repositories         []Repository
	Modules              []string
}

// ResolvedPom is a RawPom after parent merge and property interpolation.
// It is still immutable.
type ResolvedPom struct {
	RawPom
	EffectiveProperties map[string]string
	EffectiveManaged    []ManagedDep
	EffectiveDeps       []RawDep
}

// orderedMap is a minimal insertion-ordered string map, matching spec.md
// §3's "properties: ordered map<string,string>".
type orderedMap struct {
	keys   []string
	values map[string]string
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: map[string]string{}}
}

func (m *orderedMap) Set(k, v string) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap) Get(k string) (string, bool) {
	v, ok := m.values[k]
	return v, ok
}

// ToMap returns the ordered map's entries as a plain map. Iteration order
// is not preserved by the returned type; use Keys() when order matters.
func (m *orderedMap) ToMap() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *orderedMap) Keys() []string {
	return m.keys
}
