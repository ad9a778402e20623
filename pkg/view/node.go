package view

import (
	"fmt"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <input>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a view tree node.
type Node struct {
	Kind     Kind
	Tag      string
	Props    Props
	Children []*Node
	Text     string
}

// Props holds element attributes.
type Props map[string]any

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// El creates an element. Arguments may be nil, Attr, []Attr, *Node, []*Node
// or string (a text child).
func El(tag string, args ...any) *Node {
	node := &Node{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		default:
			panic(fmt.Sprintf("view: unsupported element argument %T", arg))
		}
	}

	return node
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "class" {
		if existing, ok := n.Props["class"].(string); ok && existing != "" {
			n.Props["class"] = existing + " " + fmt.Sprint(a.Value)
			return
		}
	}
	n.Props[a.Key] = a.Value
}

// Text creates a text node. Its content is escaped when rendered.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Attribute helpers.

func attr(key string, value any) Attr { return Attr{Key: key, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
// Empty names are dropped.
func Class(classes ...string) Attr {
	kept := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return Attr{}
	}
	return attr("class", strings.Join(kept, " "))
}

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key string, value any) Attr { return attr("data-"+key, value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Checked sets the boolean checked attribute.
func Checked(on bool) Attr { return attr("checked", on) }

// Disabled sets the boolean disabled attribute.
func Disabled(on bool) Attr { return attr("disabled", on) }

// Value sets the value attribute.
func Value(v any) Attr { return attr("value", v) }

// Max sets the max attribute.
func Max(v any) Attr { return attr("max", v) }

// AriaBusy sets the aria-busy attribute.
func AriaBusy(busy bool) Attr { return attr("aria-busy", busy) }

// Find returns the first node, depth first, for which match returns true.
func Find(root *Node, match func(*Node) bool) *Node {
	if root == nil {
		return nil
	}
	if match(root) {
		return root
	}
	for _, c := range root.Children {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all text below n.
func TextContent(n *Node) string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindText {
			b.WriteString(n.Text)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
