package domain

import "html/template"

// Component is one node of the visual tree the renderers build. A node is
// either a typed component (Kind set) or a raw leaf carrying pre-escaped
// markup (Kind empty, Markup set). Children keep document order.
type Component struct {
	Kind     string
	Attrs    map[string]string
	Bools    []string // boolean attributes, emitted without a value
	Markup   template.HTML
	Children []*Component
}

// ComponentRenderer turns a component tree into markup. The transcript
// package ships two implementations: one that emits the components as
// custom-element tags for the client-side runtime, and one that
// pre-renders them to plain HTML so no runtime is needed.
type ComponentRenderer interface {
	Render(c *Component) (template.HTML, error)
}

// NewComponent returns a typed node with an empty attribute bag.
func NewComponent(kind string) *Component {
	return &Component{Kind: kind, Attrs: make(map[string]string)}
}

// RawNode returns a leaf carrying markup that is already escaped.
func RawNode(markup template.HTML) *Component {
	return &Component{Markup: markup}
}

// Set records an attribute and returns the node for chaining.
func (c *Component) Set(name, value string) *Component {
	c.Attrs[name] = value
	return c
}

// SetBool records a valueless attribute.
func (c *Component) SetBool(name string) *Component {
	c.Bools = append(c.Bools, name)
	return c
}

// Append adds child nodes, skipping nils.
func (c *Component) Append(children ...*Component) *Component {
	for _, child := range children {
		if child != nil {
			c.Children = append(c.Children, child)
		}
	}
	return c
}
