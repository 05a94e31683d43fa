package transcript

import (
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// deferredRenderer emits components as authored custom-element tags; the
// external component runtime finishes rendering them in the browser.
type deferredRenderer struct{}

func (deferredRenderer) Render(c *domain.Component) (template.HTML, error) {
	var b strings.Builder
	writeDeferred(&b, c)
	return template.HTML(b.String()), nil
}

func writeDeferred(b *strings.Builder, c *domain.Component) {
	if c == nil {
		return
	}
	if c.Kind == "" {
		b.WriteString(string(c.Markup))
		return
	}

	b.WriteByte('<')
	b.WriteString(c.Kind)
	writeAttrs(b, c)
	b.WriteByte('>')
	for _, child := range c.Children {
		writeDeferred(b, child)
	}
	b.WriteString("</" + c.Kind + ">")
}

// writeAttrs emits the attribute bag in sorted key order so output is
// deterministic, then the valueless boolean attributes.
func writeAttrs(b *strings.Builder, c *domain.Component) {
	keys := make([]string, 0, len(c.Attrs))
	for k := range c.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(c.Attrs[k]))
		b.WriteByte('"')
	}
	for _, k := range c.Bools {
		b.WriteByte(' ')
		b.WriteString(k)
	}
}
