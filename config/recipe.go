// Package config implements spec.md §4.J: an Environment aggregating
// ResourceLoaders, declarative recipes assembled from YAML documents
// referencing other recipes by name, and named style activation.
// Grounded on rewrite-core's
// org.openrewrite.config.Environment/DeclarativeRecipe, with YAML
// decoding via gopkg.in/yaml.v3 in place of the classpath/Jackson
// machinery the original relies on.
package config

import (
	"fmt"

	"github.com/openrewrite-go/rewrite-maven/rewrite"
)

// RecipeDescriptor is the metadata half of a recipe: enough to list and
// display it without constructing a Visitor, mirroring the source's
// RecipeDescriptor used by listRecipeDescriptors.
type RecipeDescriptor struct {
	Name        string
	DisplayName string
	Description string
}

// recipeYAML is the literal shape of one declarative recipe document per
// spec.md §6.
type recipeYAML struct {
	Type        string          `yaml:"type"`
	Name        string          `yaml:"name"`
	DisplayName string          `yaml:"displayName"`
	Description string          `yaml:"description"`
	RecipeList  []recipeListRef `yaml:"recipeList"`
}

// recipeListRef is one entry of recipeList: either a bare recipe name or
// a single-key map of name to its parameters.
type recipeListRef struct {
	Name   string
	Params map[string]interface{}
}

// UnmarshalYAML accepts both YAML scalar form ("- some.recipe.Name") and
// mapping form ("- some.recipe.Name: { param: value }"), matching the
// two forms spec.md §6 documents for recipeList entries.
func (r *recipeListRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		r.Name = name
		return nil
	}
	var m map[string]map[string]interface{}
	if err := unmarshal(&m); err != nil {
		return err
	}
	for k, v := range m {
		r.Name = k
		r.Params = v
		break
	}
	return nil
}

// DeclarativeRecipe is a recipe assembled from a YAML document
// referencing other recipes by name. It does nothing itself until
// Initialize resolves its recipeList references against the full set of
// recipes an Environment has loaded, grounded on
// DeclarativeRecipe.initialize in the original source.
type DeclarativeRecipe struct {
	rewrite.BaseRecipe

	Descriptor RecipeDescriptor

	refs        []recipeListRef
	initialized bool
}

func newDeclarativeRecipe(doc recipeYAML) *DeclarativeRecipe {
	return &DeclarativeRecipe{
		Descriptor: RecipeDescriptor{
			Name:        doc.Name,
			DisplayName: doc.DisplayName,
			Description: doc.Description,
		},
		refs: doc.RecipeList,
	}
}

func (d *DeclarativeRecipe) Name() string { return d.Descriptor.Name }

func (d *DeclarativeRecipe) Visitor() *rewrite.Visitor {
	return &rewrite.Visitor{}
}

// Initialize resolves each recipeList reference against all, chaining
// the matches with DoNext in declaration order. A reference matching no
// loaded recipe causes validation failure — unlike activateRecipes'
// silent skip, because a declarative recipe's own author controls its
// recipeList and a typo there is a configuration error, not a caller
// naming an optional recipe (activateRecipes' permissive choice is
// recorded under Open Questions in SPEC_FULL.md §9).
func (d *DeclarativeRecipe) Initialize(all []rewrite.Recipe) error {
	if d.initialized {
		return nil
	}
	byName := make(map[string]rewrite.Recipe, len(all))
	for _, r := range all {
		byName[r.Name()] = r
	}
	for _, ref := range d.refs {
		match, ok := byName[ref.Name]
		if !ok {
			return fmt.Errorf("config: declarative recipe %s references unknown recipe %s", d.Descriptor.Name, ref.Name)
		}
		d.DoNext(match)
	}
	d.initialized = true
	return nil
}
