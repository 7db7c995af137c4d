package rewrite

import (
	"context"
	"testing"

	"github.com/openrewrite-go/rewrite-maven/maven/xmltree"
)

func upperCaseTextRecipe() *testRecipe {
	return &testRecipe{
		name: "test.UpperCaseText",
		visitor: &Visitor{
			VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
				if tag.Text == "" || tag.Text == upper(tag.Text) {
					return tag
				}
				clone := *tag
				clone.Text = upper(tag.Text)
				return &clone
			},
		},
	}
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

// testRecipe is a minimal Recipe used only by this package's tests.
type testRecipe struct {
	BaseRecipe
	name    string
	visitor *Visitor
}

func (r *testRecipe) Name() string      { return r.name }
func (r *testRecipe) Visitor() *Visitor { return r.visitor }

func TestVisitorRewritesMatchingLeaves(t *testing.T) {
	root := &xmltree.Tag{Name: "project", Children: []*xmltree.Tag{
		xmltree.NewTag("groupId", "com.example"),
	}}

	v := upperCaseTextRecipe().Visitor()
	result := v.Visit(root, NewExecutionContext(context.Background()))

	groupID, _ := result.ChildValue("groupId")
	if groupID != "COM.EXAMPLE" {
		t.Errorf("groupId = %s, want COM.EXAMPLE", groupID)
	}
	// original untouched
	origGroupID, _ := root.ChildValue("groupId")
	if origGroupID != "com.example" {
		t.Error("Visit should not mutate the original tree")
	}
}

func TestVisitorDeletesNodeOnNil(t *testing.T) {
	root := &xmltree.Tag{Name: "project", Children: []*xmltree.Tag{
		xmltree.NewTag("keep", "1"),
		xmltree.NewTag("drop", "2"),
	}}
	v := &Visitor{
		VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
			if tag.Name == "drop" {
				return nil
			}
			return tag
		},
	}
	result := v.Visit(root, NewExecutionContext(context.Background()))
	if len(result.Children) != 1 || result.Children[0].Name != "keep" {
		t.Errorf("got children %+v", result.Children)
	}
}

func TestVisitToFixpointConverges(t *testing.T) {
	root := &xmltree.Tag{Name: "project", Children: []*xmltree.Tag{
		xmltree.NewTag("name", "mixedCase"),
	}}
	v := upperCaseTextRecipe().Visitor()
	result := v.VisitToFixpoint(root, NewExecutionContext(context.Background()))

	// A second pass over the already-converged result must be a no-op,
	// the fixpoint invariant a pure visitor must satisfy.
	again := v.Visit(result, NewExecutionContext(context.Background()))
	if !sameTag(result, again) {
		t.Error("visitor did not reach a stable fixpoint")
	}
}

func TestExecutionContextDoAfterVisitOrder(t *testing.T) {
	ec := NewExecutionContext(context.Background())
	a := &testRecipe{name: "a"}
	b := &testRecipe{name: "b"}
	ec.DoAfterVisit(a)
	ec.DoAfterVisit(b)
	if len(ec.pending) != 2 || ec.pending[0] != a || ec.pending[1] != b {
		t.Errorf("pending = %+v, want [a, b] in insertion order", ec.pending)
	}
}

func TestBaseRecipeDoNextChaining(t *testing.T) {
	var r BaseRecipe
	first := &testRecipe{name: "first"}
	second := &testRecipe{name: "second"}
	r.DoNext(first)
	r.DoNext(second)
	next := r.NextRecipes()
	if len(next) != 2 || next[0] != first || next[1] != second {
		t.Errorf("NextRecipes = %+v", next)
	}
}

func TestRunAppliesRecipeAndChainedFollowers(t *testing.T) {
	root := &xmltree.Tag{Name: "project", Children: []*xmltree.Tag{
		xmltree.NewTag("name", "abc"),
	}}

	renameRecipe := &testRecipe{
		name: "test.Rename",
		visitor: &Visitor{
			VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
				if tag.Name != "name" {
					return tag
				}
				ctx.DoAfterVisit(upperCaseTextRecipe())
				return tag
			},
		},
	}

	result, err := Run(NewExecutionContext(context.Background()), renameRecipe, root)
	if err != nil {
		t.Fatal(err)
	}
	name, _ := result.ChildValue("name")
	if name != "ABC" {
		t.Errorf("name = %s, want ABC (doAfterVisit follower should have run)", name)
	}
}

func TestRunChainsDoNextRecipesInOrder(t *testing.T) {
	root := &xmltree.Tag{Name: "project", Children: []*xmltree.Tag{
		xmltree.NewTag("a", "x"),
		xmltree.NewTag("b", "y"),
	}}

	renameA := &testRecipe{
		name: "renameA",
		visitor: &Visitor{VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
			if tag.Name != "a" {
				return tag
			}
			clone := *tag
			clone.Text = "A-done"
			return &clone
		}},
	}
	renameB := &testRecipe{
		name: "renameB",
		visitor: &Visitor{VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
			if tag.Name != "b" {
				return tag
			}
			clone := *tag
			clone.Text = "B-done"
			return &clone
		}},
	}
	renameA.DoNext(renameB)

	result, err := Run(NewExecutionContext(context.Background()), renameA, root)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := result.ChildValue("a")
	b, _ := result.ChildValue("b")
	if a != "A-done" || b != "B-done" {
		t.Errorf("a=%s b=%s, want A-done/B-done", a, b)
	}
}

func TestRunDetectsRunawayDoAfterVisitSchedule(t *testing.T) {
	root := &xmltree.Tag{Name: "project"}

	var selfSchedulingRecipe *testRecipe
	selfSchedulingRecipe = &testRecipe{
		name: "loop",
		visitor: &Visitor{VisitTag: func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
			ctx.DoAfterVisit(selfSchedulingRecipe)
			return tag
		}},
	}

	_, err := Run(NewExecutionContext(context.Background()), selfSchedulingRecipe, root)
	if err == nil {
		t.Fatal("expected an error for a recipe that schedules itself indefinitely")
	}
}

func TestRootRecipeChainsActivatedRecipes(t *testing.T) {
	root := NewRootRecipe()
	activated := &testRecipe{name: "activated"}
	root.DoNext(activated)
	if len(root.NextRecipes()) != 1 || root.NextRecipes()[0] != activated {
		t.Error("root recipe should chain activated recipes via DoNext")
	}
}
