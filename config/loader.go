package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrewrite-go/rewrite-maven/rewrite"
	"gopkg.in/yaml.v3"
)

// YamlResourceLoader decodes one YAML stream of declarative recipe
// documents, grounded on org.openrewrite.config.YamlResourceLoader.
// Style documents are not modeled (spec.md §1's styles are name-only
// placeholders wired through NamedStyles, not a YAML schema of their
// own), so ListStyles always returns nil for this loader.
type YamlResourceLoader struct {
	recipes []*DeclarativeRecipe
}

// NewYamlResourceLoader decodes every YAML document in r. A document
// without a name is skipped; a document that fails to decode aborts the
// whole stream and its error is returned.
func NewYamlResourceLoader(r io.Reader) (*YamlResourceLoader, error) {
	decoder := yaml.NewDecoder(r)
	loader := &YamlResourceLoader{}
	for {
		var doc recipeYAML
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if doc.Name == "" {
			continue
		}
		loader.recipes = append(loader.recipes, newDeclarativeRecipe(doc))
	}
	return loader, nil
}

func (l *YamlResourceLoader) ListRecipes() []rewrite.Recipe {
	out := make([]rewrite.Recipe, 0, len(l.recipes))
	for _, r := range l.recipes {
		out = append(out, r)
	}
	return out
}

func (l *YamlResourceLoader) ListRecipeDescriptors() []RecipeDescriptor {
	out := make([]RecipeDescriptor, 0, len(l.recipes))
	for _, r := range l.recipes {
		out = append(out, r.Descriptor)
	}
	return out
}

func (l *YamlResourceLoader) ListStyles() []NamedStyles { return nil }

// DirectoryResourceLoader scans a directory of *.yml/*.yaml files, the
// stand-in for ClasspathScanningLoader's classpath scan: a compiled Go
// binary has no classpath to scan, so a directory of recipe documents is
// the closest faithful analog, per SPEC_FULL.md §6.
type DirectoryResourceLoader struct {
	loaders []*YamlResourceLoader
}

// NewDirectoryResourceLoader reads every *.yml/*.yaml file directly
// under dir (non-recursive, matching a single classpath resource
// directory) into its own YamlResourceLoader.
func NewDirectoryResourceLoader(dir string) (*DirectoryResourceLoader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	result := &DirectoryResourceLoader{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		loader, err := NewYamlResourceLoader(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		result.loaders = append(result.loaders, loader)
	}
	return result, nil
}

func (d *DirectoryResourceLoader) ListRecipes() []rewrite.Recipe {
	var out []rewrite.Recipe
	for _, l := range d.loaders {
		out = append(out, l.ListRecipes()...)
	}
	return out
}

func (d *DirectoryResourceLoader) ListRecipeDescriptors() []RecipeDescriptor {
	var out []RecipeDescriptor
	for _, l := range d.loaders {
		out = append(out, l.ListRecipeDescriptors()...)
	}
	return out
}

func (d *DirectoryResourceLoader) ListStyles() []NamedStyles { return nil }

// ScanUserHome loads ~/.rewrite/rewrite.yml if present, mirroring
// Environment.Builder.scanUserHome; a missing file is not an error.
func ScanUserHome() (*YamlResourceLoader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".rewrite", "rewrite.yml")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &YamlResourceLoader{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewYamlResourceLoader(f)
}
