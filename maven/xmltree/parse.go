package xmltree

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

// Parse decodes an XML document into a Tag tree, the concrete bridge
// between a POM file on disk and the visitor core in package rewrite.
// Attributes are dropped — the recipes this repository ships (parent
// version rewriting) only need element text and structure.
func Parse(r io.Reader) (*Tag, error) {
	decoder := xml.NewDecoder(r)
	var root *Tag
	var stack []*Tag

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("xmltree: decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			tag := &Tag{Name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, tag)
			} else {
				root = tag
			}
			stack = append(stack, tag)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack[len(stack)-1].Text = strings.TrimSpace(stack[len(stack)-1].Text)
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil {
		return nil, xerrors.New("xmltree: empty document")
	}
	return root, nil
}

// Render serializes a Tag tree back to indented XML, the inverse of
// Parse. It is not guaranteed to byte-for-byte reproduce the original
// document (attributes and comments are not modeled), but round-trips
// every element name and value this repository's recipes touch.
func Render(w io.Writer, root *Tag) error {
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := renderTag(encoder, root); err != nil {
		return err
	}
	return encoder.Flush()
}

func renderTag(encoder *xml.Encoder, tag *Tag) error {
	start := xml.StartElement{Name: xml.Name{Local: tag.Name}}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	if len(tag.Children) == 0 {
		if tag.Text != "" {
			if err := encoder.EncodeToken(xml.CharData(tag.Text)); err != nil {
				return err
			}
		}
	} else {
		for _, c := range tag.Children {
			if err := renderTag(encoder, c); err != nil {
				return err
			}
		}
	}
	return encoder.EncodeToken(start.End())
}
