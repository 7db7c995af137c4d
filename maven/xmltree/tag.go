// Package xmltree supplies the minimal tree type the visitor core
// (package rewrite) needs to be exercised and tested. Full XML parsing is
// out of scope per spec.md §1; this is the smallest model that lets
// UpgradeParentVersion-style recipes walk and rewrite manifest tags,
// modeled directly on the original source's
// org.openrewrite.xml.tree.Xml.Tag.
package xmltree

import "strings"

// Tag is one XML element: a name, optional child tags, and optional text
// content when the tag has no children (e.g. <version>2.3.0</version>).
type Tag struct {
	Name     string
	Text     string
	Children []*Tag
}

// NewTag returns a leaf tag with the given name and text content.
func NewTag(name, text string) *Tag {
	return &Tag{Name: name, Text: text}
}

// ChildValue returns the text content of the first direct child named
// name, mirroring Xml.Tag.getChildValue.
func (t *Tag) ChildValue(name string) (string, bool) {
	for _, c := range t.Children {
		if c.Name == name {
			return c.Text, true
		}
	}
	return "", false
}

// Child returns the first direct child named name.
func (t *Tag) Child(name string) *Tag {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// WithChildValue returns a copy of t with the text of its first child
// named name replaced by value. If no such child exists, an unmodified
// copy of t is returned — callers check ChildValue first, matching the source's
// Optional-based flow.
func (t *Tag) WithChildValue(name, value string) *Tag {
	clone := t.shallowClone()
	for i, c := range clone.Children {
		if c.Name == name {
			child := *c
			child.Text = value
			clone.Children[i] = &child
			return clone
		}
	}
	return clone
}

// WithChildren returns a copy of t with its children replaced, used by the
// visitor driver to rebuild a tag after visiting its children.
func (t *Tag) WithChildren(children []*Tag) *Tag {
	clone := *t
	clone.Children = children
	return &clone
}

func (t *Tag) shallowClone() *Tag {
	clone := *t
	clone.Children = make([]*Tag, len(t.Children))
	copy(clone.Children, t.Children)
	return &clone
}

// Path renders a dotted path from root tag names, used by visitors to
// recognize e.g. "project.parent" without a full XPath model.
func Path(ancestors []*Tag, self *Tag) string {
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	names = append(names, self.Name)
	return strings.Join(names, ".")
}
