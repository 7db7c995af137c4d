package config

import "github.com/openrewrite-go/rewrite-maven/rewrite"

// NamedStyles is a named, loadable style descriptor — this repository's
// styles carry no behavior beyond their name, since code-style
// formatting of the XML tree is out of scope; they exist so
// listStyles/activateStyles have something concrete to operate on.
type NamedStyles struct {
	Name string
}

// ResourceLoader enumerates recipes and styles from one source —
// a YAML document, a directory scan, or any other origin — mirroring
// the source's ResourceLoader interface.
type ResourceLoader interface {
	ListRecipes() []rewrite.Recipe
	ListRecipeDescriptors() []RecipeDescriptor
	ListStyles() []NamedStyles
}

// Environment aggregates ResourceLoaders and answers listRecipes/
// activateRecipes/listStyles/activateStyles, grounded on
// org.openrewrite.config.Environment.
type Environment struct {
	loaders []ResourceLoader
}

// Builder accumulates ResourceLoaders before building an Environment,
// the Go analog of Environment.Builder's fluent Load(...).
type Builder struct {
	loaders []ResourceLoader
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Load appends a ResourceLoader and returns the builder for chaining.
func (b *Builder) Load(loader ResourceLoader) *Builder {
	b.loaders = append(b.loaders, loader)
	return b
}

// Build finalizes the Environment.
func (b *Builder) Build() *Environment {
	return &Environment{loaders: append([]ResourceLoader{}, b.loaders...)}
}

// ListRecipes unions every loader's recipes and initializes declarative
// recipes against the full resulting list, per spec.md §4.J.
func (e *Environment) ListRecipes() ([]rewrite.Recipe, error) {
	var all []rewrite.Recipe
	for _, l := range e.loaders {
		all = append(all, l.ListRecipes()...)
	}
	for _, r := range all {
		if d, ok := r.(*DeclarativeRecipe); ok {
			if err := d.Initialize(all); err != nil {
				return nil, err
			}
		}
	}
	return all, nil
}

// ListRecipeDescriptors unions every loader's descriptors without
// constructing visitors.
func (e *Environment) ListRecipeDescriptors() []RecipeDescriptor {
	var all []RecipeDescriptor
	for _, l := range e.loaders {
		all = append(all, l.ListRecipeDescriptors()...)
	}
	return all
}

// ActivateRecipes builds a root recipe chaining each named recipe in
// input order. Names matching no loaded recipe are silently skipped —
// the resolved Open Question from spec.md §9, kept permissive to match
// Environment.activateRecipes in the original source verbatim.
func (e *Environment) ActivateRecipes(names []string) (rewrite.Recipe, error) {
	all, err := e.ListRecipes()
	if err != nil {
		return nil, err
	}
	root := rewrite.NewRootRecipe()
	for _, name := range names {
		for _, recipe := range all {
			if name == recipe.Name() {
				root.DoNext(recipe)
			}
		}
	}
	return root, nil
}

// ListStyles unions every loader's styles.
func (e *Environment) ListStyles() []NamedStyles {
	var all []NamedStyles
	for _, l := range e.loaders {
		all = append(all, l.ListStyles()...)
	}
	return all
}

// ActivateStyles returns the loaded styles whose name appears in names,
// in the order names were given, matching Environment.activateStyles in
// the original source.
func (e *Environment) ActivateStyles(names []string) []NamedStyles {
	styles := e.ListStyles()
	var activated []NamedStyles
	for _, name := range names {
		for _, style := range styles {
			if style.Name == name {
				activated = append(activated, style)
			}
		}
	}
	return activated
}
