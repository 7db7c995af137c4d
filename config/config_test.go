package config

import (
	"strings"
	"testing"

	"github.com/openrewrite-go/rewrite-maven/rewrite"
)

const upgradeYAML = `---
type: specs.openrewrite.org/v1beta/recipe
name: test.UpgradeEverything
displayName: Upgrade everything
description: Chains the two built-in parent-upgrade recipes.
recipeList:
  - test.StepOne
  - test.StepTwo:
      someParam: someValue
`

const stepYAML = `---
type: specs.openrewrite.org/v1beta/recipe
name: test.StepOne
displayName: Step one
---
type: specs.openrewrite.org/v1beta/recipe
name: test.StepTwo
displayName: Step two
`

func TestYamlResourceLoaderDecodesMultipleDocuments(t *testing.T) {
	loader, err := NewYamlResourceLoader(strings.NewReader(stepYAML))
	if err != nil {
		t.Fatal(err)
	}
	recipes := loader.ListRecipes()
	if len(recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(recipes))
	}
}

func TestYamlResourceLoaderSkipsUnnamedDocument(t *testing.T) {
	malformed := `---
displayName: no name field
`
	loader, err := NewYamlResourceLoader(strings.NewReader(malformed))
	if err != nil {
		t.Fatal(err)
	}
	if len(loader.ListRecipes()) != 0 {
		t.Error("a document missing name should be skipped, not error")
	}
}

func TestRecipeListRefAcceptsBareAndMapForms(t *testing.T) {
	loader, err := NewYamlResourceLoader(strings.NewReader(upgradeYAML))
	if err != nil {
		t.Fatal(err)
	}
	recipes := loader.ListRecipes()
	if len(recipes) != 1 {
		t.Fatalf("got %d recipes, want 1", len(recipes))
	}
	d := recipes[0].(*DeclarativeRecipe)
	if len(d.refs) != 2 {
		t.Fatalf("refs = %+v, want 2", d.refs)
	}
	if d.refs[0].Name != "test.StepOne" {
		t.Errorf("refs[0].Name = %s, want test.StepOne (bare scalar form)", d.refs[0].Name)
	}
	if d.refs[1].Name != "test.StepTwo" {
		t.Errorf("refs[1].Name = %s, want test.StepTwo (mapping form)", d.refs[1].Name)
	}
	if d.refs[1].Params["someParam"] != "someValue" {
		t.Errorf("refs[1].Params = %+v", d.refs[1].Params)
	}
}

func TestDeclarativeRecipeInitializeChainsReferencedRecipes(t *testing.T) {
	combined := upgradeYAML + "\n" + stepYAML
	loader, err := NewYamlResourceLoader(strings.NewReader(combined))
	if err != nil {
		t.Fatal(err)
	}
	all := loader.ListRecipes()

	var top *DeclarativeRecipe
	for _, r := range all {
		if r.Name() == "test.UpgradeEverything" {
			top = r.(*DeclarativeRecipe)
		}
	}
	if top == nil {
		t.Fatal("expected to find test.UpgradeEverything")
	}

	if err := top.Initialize(all); err != nil {
		t.Fatal(err)
	}
	next := top.NextRecipes()
	if len(next) != 2 {
		t.Fatalf("NextRecipes = %+v, want 2 chained recipes", next)
	}
	if next[0].Name() != "test.StepOne" || next[1].Name() != "test.StepTwo" {
		t.Errorf("chained in wrong order: %s, %s", next[0].Name(), next[1].Name())
	}
}

func TestDeclarativeRecipeInitializeErrorsOnUnknownReference(t *testing.T) {
	loader, err := NewYamlResourceLoader(strings.NewReader(upgradeYAML))
	if err != nil {
		t.Fatal(err)
	}
	all := loader.ListRecipes()
	d := all[0].(*DeclarativeRecipe)

	if err := d.Initialize(all); err == nil {
		t.Fatal("expected an error: test.StepOne/test.StepTwo are not loaded in this test")
	}
}

func TestDeclarativeRecipeInitializeIsIdempotent(t *testing.T) {
	combined := upgradeYAML + "\n" + stepYAML
	loader, err := NewYamlResourceLoader(strings.NewReader(combined))
	if err != nil {
		t.Fatal(err)
	}
	all := loader.ListRecipes()
	var top *DeclarativeRecipe
	for _, r := range all {
		if r.Name() == "test.UpgradeEverything" {
			top = r.(*DeclarativeRecipe)
		}
	}

	if err := top.Initialize(all); err != nil {
		t.Fatal(err)
	}
	if err := top.Initialize(all); err != nil {
		t.Fatal(err)
	}
	if len(top.NextRecipes()) != 2 {
		t.Errorf("calling Initialize twice should not duplicate chained recipes, got %d", len(top.NextRecipes()))
	}
}

func TestEnvironmentListRecipesUnionsLoadersAndInitializes(t *testing.T) {
	combined := upgradeYAML + "\n" + stepYAML
	loader, err := NewYamlResourceLoader(strings.NewReader(combined))
	if err != nil {
		t.Fatal(err)
	}

	env := NewBuilder().Load(loader).Build()
	all, err := env.ListRecipes()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d recipes, want 3", len(all))
	}
}

func TestEnvironmentActivateRecipesSkipsUnmatchedNames(t *testing.T) {
	loader, err := NewYamlResourceLoader(strings.NewReader(stepYAML))
	if err != nil {
		t.Fatal(err)
	}
	env := NewBuilder().Load(loader).Build()

	root, err := env.ActivateRecipes([]string{"test.StepOne", "does.not.Exist", "test.StepTwo"})
	if err != nil {
		t.Fatal(err)
	}
	next := root.NextRecipes()
	if len(next) != 2 {
		t.Fatalf("NextRecipes = %+v, want 2 (unmatched name silently skipped)", next)
	}
}

func TestEnvironmentActivateRecipesChainsInRequestedOrder(t *testing.T) {
	loader, err := NewYamlResourceLoader(strings.NewReader(stepYAML))
	if err != nil {
		t.Fatal(err)
	}
	env := NewBuilder().Load(loader).Build()

	root, err := env.ActivateRecipes([]string{"test.StepTwo", "test.StepOne"})
	if err != nil {
		t.Fatal(err)
	}
	next := root.NextRecipes()
	if len(next) != 2 {
		t.Fatalf("NextRecipes = %+v, want 2", next)
	}
	if next[0].Name() != "test.StepTwo" || next[1].Name() != "test.StepOne" {
		t.Errorf("chained in wrong order: %s, %s, want test.StepTwo, test.StepOne (the order names was given, not loader order)", next[0].Name(), next[1].Name())
	}
}

func TestEnvironmentActivateStylesFiltersAndOrdersByNames(t *testing.T) {
	env := &Environment{loaders: []ResourceLoader{fakeStyleLoader{styles: []NamedStyles{{Name: "b"}, {Name: "a"}, {Name: "c"}}}}}
	activated := env.ActivateStyles([]string{"a", "c"})
	if len(activated) != 2 {
		t.Fatalf("got %d styles, want 2", len(activated))
	}
	if activated[0].Name != "a" || activated[1].Name != "c" {
		t.Errorf("activated = %+v, want [a, c] in requested order", activated)
	}
}

type fakeStyleLoader struct {
	styles []NamedStyles
}

func (f fakeStyleLoader) ListRecipes() []rewrite.Recipe            { return nil }
func (f fakeStyleLoader) ListRecipeDescriptors() []RecipeDescriptor { return nil }
func (f fakeStyleLoader) ListStyles() []NamedStyles                { return f.styles }
