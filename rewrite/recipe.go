package rewrite

import (
	"fmt"

	"github.com/openrewrite-go/rewrite-maven/maven/xmltree"
)

// Recipe is a named, validated unit of transformation that produces a
// Visitor over the tree. Recipes chain via DoNext: one recipe's visitor
// runs to fixpoint, then control passes to the next, per spec.md §4.I.
type Recipe interface {
	Name() string
	Visitor() *Visitor
	DoNext(next Recipe)
	NextRecipes() []Recipe
}

// BaseRecipe implements the DoNext/NextRecipes chaining every concrete
// recipe embeds, the Go analog of Recipe.doNext in the source.
type BaseRecipe struct {
	next []Recipe
}

func (b *BaseRecipe) DoNext(next Recipe)    { b.next = append(b.next, next) }
func (b *BaseRecipe) NextRecipes() []Recipe { return b.next }

// rootRecipe is the Go analog of `new Recipe()` used as the accumulator
// in Environment.activateRecipes: it has no visitor of its own and
// exists only to chain the activated recipes in order.
type rootRecipe struct {
	BaseRecipe
}

func (rootRecipe) Name() string      { return "org.openrewrite.Recipe" }
func (rootRecipe) Visitor() *Visitor { return &Visitor{} }

// NewRootRecipe returns an empty chaining root, used by
// config.Environment.ActivateRecipes.
func NewRootRecipe() Recipe { return &rootRecipe{} }

// Run drives recipe and every recipe chained after it over root in
// order: each visitor runs to fixpoint, its queued doAfterVisit
// followers drain (in insertion order, each to its own fixpoint) before
// the next chained recipe runs. maxPendingDepth bounds total follow-up
// rounds to catch a recipe that schedules itself indefinitely.
func Run(ctx *ExecutionContext, recipe Recipe, root *xmltree.Tag) (*xmltree.Tag, error) {
	current := root
	queue := []Recipe{recipe}
	rounds := 0

	for len(queue) > 0 {
		rounds++
		if rounds > maxPendingDepth {
			return nil, fmt.Errorf("rewrite: doAfterVisit schedule exceeded %d rounds", maxPendingDepth)
		}

		next := queue[0]
		queue = queue[1:]

		ctx.pending = nil
		current = next.Visitor().VisitToFixpoint(current, ctx)
		queue = append(append(append([]Recipe{}, ctx.pending...), queue...), next.NextRecipes()...)
	}
	return current, nil
}
