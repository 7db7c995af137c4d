package rewrite

import "github.com/openrewrite-go/rewrite-maven/maven/xmltree"

// Visitor is a variant-dispatched traversal over an xmltree.Tag: a
// struct of per-node-kind function fields rather than a subclassed tree
// walker, per spec.md §9's reshaping guidance. The only node kind the
// minimal tree model has is Tag, so there is exactly one hook; a richer
// tree would add one function field per additional node kind.
//
// VisitTag is called with the chain of ancestor tags (root first) and
// the tag itself; it returns the (possibly replaced) tag, or nil to
// delete it from its parent's children. Returning tag unchanged — the
// default when VisitTag is nil — is "recurse into children" with no
// rewrite at this node.
type Visitor struct {
	VisitTag func(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag
}

// Visit walks root and every descendant depth-first, applying VisitTag
// at each node and rebuilding parents whose children changed. A visitor
// that is a pure function of its input must leave its own output
// unchanged on a second Visit call — the fixpoint invariant spec.md
// §4.I requires.
func (v *Visitor) Visit(root *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
	return v.visit(nil, root, ctx)
}

func (v *Visitor) visit(ancestors []*xmltree.Tag, tag *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
	if tag == nil {
		return nil
	}

	result := tag
	if v.VisitTag != nil {
		result = v.VisitTag(ancestors, tag, ctx)
		if result == nil {
			return nil
		}
	}

	childAncestors := append(append([]*xmltree.Tag{}, ancestors...), result)
	children := make([]*xmltree.Tag, 0, len(result.Children))
	changed := false
	for _, c := range result.Children {
		visited := v.visit(childAncestors, c, ctx)
		if visited != c {
			changed = true
		}
		if visited != nil {
			children = append(children, visited)
		}
	}
	if changed {
		result = result.WithChildren(children)
	}
	return result
}

// VisitToFixpoint repeatedly applies v until a pass produces no change,
// matching spec.md §4.I's "the visitor runs to fixpoint on the tree"
// before control passes to the next recipe. A pure visitor converges on
// its second pass; this guards against one that doesn't by capping
// iterations at maxPendingDepth rather than looping forever.
func (v *Visitor) VisitToFixpoint(root *xmltree.Tag, ctx *ExecutionContext) *xmltree.Tag {
	current := root
	for i := 0; i < maxPendingDepth; i++ {
		next := v.Visit(current, ctx)
		if sameTag(current, next) {
			return next
		}
		current = next
	}
	return current
}

func sameTag(a, b *xmltree.Tag) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Name != b.Name || a.Text != b.Text || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !sameTag(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
