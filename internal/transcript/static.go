package transcript

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// staticRenderer pre-renders the component tree to plain styled HTML so
// the document is viewable without loading any component runtime. The
// profile directory is injected directly instead of being read by a
// client-side script.
type staticRenderer struct {
	profiles map[string]domain.Profile
}

func (r *staticRenderer) Render(c *domain.Component) (template.HTML, error) {
	var b strings.Builder
	r.write(&b, c)
	return template.HTML(b.String()), nil
}

func (r *staticRenderer) write(b *strings.Builder, c *domain.Component) {
	if c == nil {
		return
	}
	if c.Kind == "" {
		b.WriteString(string(c.Markup))
		return
	}

	switch c.Kind {
	case "discord-messages":
		b.WriteString(`<div class="dc-messages">`)
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-header":
		r.writeHeader(b, c)
	case "discord-message":
		r.writeMessage(b, c)
	case "discord-mention":
		r.writeMention(b, c)
	case "discord-custom-emoji":
		fmt.Fprintf(b, `<img class="dc-emoji" src="%s" alt="%s">`,
			html.EscapeString(c.Attrs["url"]), html.EscapeString(c.Attrs["name"]))
	case "discord-spoiler":
		b.WriteString(`<span class="dc-spoiler">`)
		r.writeChildren(b, c)
		b.WriteString(`</span>`)
	case "discord-attachments":
		b.WriteString(`<div class="dc-attachments">`)
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-attachment":
		r.writeAttachment(b, c)
	case "discord-embed":
		r.writeEmbed(b, c)
	case "discord-embed-description":
		b.WriteString(`<div class="dc-embed-description">`)
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-embed-fields":
		b.WriteString(`<div class="dc-embed-fields">`)
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-embed-field":
		class := "dc-embed-field"
		if hasBool(c, "inline") {
			class += " dc-embed-field--inline"
		}
		fmt.Fprintf(b, `<div class="%s"><div class="dc-embed-field-title">%s</div>`,
			class, html.EscapeString(c.Attrs["field-title"]))
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-embed-footer":
		b.WriteString(`<div class="dc-embed-footer">`)
		if icon := c.Attrs["footer-image"]; icon != "" {
			fmt.Fprintf(b, `<img class="dc-embed-footer-icon" src="%s" alt="">`, html.EscapeString(icon))
		}
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-reactions":
		b.WriteString(`<div class="dc-reactions">`)
		r.writeChildren(b, c)
		b.WriteString(`</div>`)
	case "discord-reaction":
		b.WriteString(`<span class="dc-reaction">`)
		if url := c.Attrs["emoji"]; url != "" {
			fmt.Fprintf(b, `<img class="dc-emoji" src="%s" alt="%s">`,
				html.EscapeString(url), html.EscapeString(c.Attrs["name"]))
		} else {
			b.WriteString(html.EscapeString(c.Attrs["name"]))
		}
		fmt.Fprintf(b, `<span class="dc-reaction-count">%s</span></span>`, html.EscapeString(c.Attrs["count"]))
	case "discord-reply":
		b.WriteString(`<div class="dc-reply">`)
		if id, ok := c.Attrs["profile"]; ok {
			p := r.profile(id)
			if p.Avatar != "" {
				fmt.Fprintf(b, `<img class="dc-reply-avatar" src="%s" alt="">`, html.EscapeString(p.Avatar))
			}
			fmt.Fprintf(b, `<span class="dc-reply-author"%s>%s</span> `, colorStyle(p.RoleColor), html.EscapeString(p.Author))
		}
		r.writeChildren(b, c)
		if hasBool(c, "edited") {
			b.WriteString(`<span class="dc-edited">(edited)</span>`)
		}
		b.WriteString(`</div>`)
	case "discord-command":
		p := r.profile(c.Attrs["profile"])
		b.WriteString(`<div class="dc-reply">`)
		if p.Avatar != "" {
			fmt.Fprintf(b, `<img class="dc-reply-avatar" src="%s" alt="">`, html.EscapeString(p.Avatar))
		}
		fmt.Fprintf(b, `<span class="dc-reply-author"%s>%s</span> used <span class="dc-command">%s</span></div>`,
			colorStyle(p.RoleColor), html.EscapeString(p.Author), html.EscapeString(c.Attrs["command"]))
	default:
		// Passthrough for plain elements (jump links and the like).
		b.WriteByte('<')
		b.WriteString(c.Kind)
		writeAttrs(b, c)
		b.WriteByte('>')
		r.writeChildren(b, c)
		b.WriteString("</" + c.Kind + ">")
	}
}

func (r *staticRenderer) writeChildren(b *strings.Builder, c *domain.Component) {
	for _, child := range c.Children {
		r.write(b, child)
	}
}

func (r *staticRenderer) profile(id string) domain.Profile {
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return domain.Profile{Author: placeholderUser}
}

func (r *staticRenderer) writeHeader(b *strings.Builder, c *domain.Component) {
	b.WriteString(`<div class="dc-header">`)
	if icon := c.Attrs["icon"]; icon != "" {
		fmt.Fprintf(b, `<img class="dc-header-icon" src="%s" alt="">`, html.EscapeString(icon))
	}
	b.WriteString(`<div class="dc-header-text">`)
	fmt.Fprintf(b, `<div class="dc-header-guild">%s</div>`, html.EscapeString(c.Attrs["guild"]))
	fmt.Fprintf(b, `<div class="dc-header-channel">%s</div>`, html.EscapeString(c.Attrs["channel"]))
	b.WriteString(`<div class="dc-header-topic">`)
	r.writeChildren(b, c)
	b.WriteString(`</div></div></div>`)
}

func (r *staticRenderer) writeMessage(b *strings.Builder, c *domain.Component) {
	p := r.profile(c.Attrs["profile"])

	// Slot children render in their own regions; everything unslotted is
	// the message body.
	var reply, body, rest []*domain.Component
	for _, child := range c.Children {
		switch {
		case child.Kind != "" && child.Attrs["slot"] == "reply":
			reply = append(reply, child)
		case child.Kind == "discord-attachments", child.Kind == "discord-embed", child.Kind == "discord-reactions":
			rest = append(rest, child)
		default:
			body = append(body, child)
		}
	}

	fmt.Fprintf(b, `<div class="dc-msg" id="%s">`, html.EscapeString(c.Attrs["id"]))
	for _, child := range reply {
		r.write(b, child)
	}

	if !hasBool(c, "continuation") {
		b.WriteString(`<div class="dc-msg-header">`)
		if p.Avatar != "" {
			fmt.Fprintf(b, `<img class="dc-avatar" src="%s" alt="">`, html.EscapeString(p.Avatar))
		}
		fmt.Fprintf(b, `<span class="dc-author"%s>%s</span>`, colorStyle(p.RoleColor), html.EscapeString(p.Author))
		if p.Bot {
			badge := "BOT"
			if p.Verified {
				badge = "✓ BOT"
			}
			fmt.Fprintf(b, `<span class="dc-badge">%s</span>`, badge)
		}
		if p.RoleIcon != "" {
			fmt.Fprintf(b, `<img class="dc-role-icon" src="%s" alt="%s">`,
				html.EscapeString(p.RoleIcon), html.EscapeString(p.RoleName))
		}
		fmt.Fprintf(b, `<span class="dc-msg-timestamp">%s</span>`, html.EscapeString(c.Attrs["timestamp"]))
		b.WriteString(`</div>`)
	}

	b.WriteString(`<div class="dc-msg-content">`)
	for _, child := range body {
		r.write(b, child)
	}
	if hasBool(c, "edited") {
		b.WriteString(`<span class="dc-edited">(edited)</span>`)
	}
	b.WriteString(`</div>`)

	for _, child := range rest {
		r.write(b, child)
	}
	b.WriteString(`</div>`)
}

func (r *staticRenderer) writeMention(b *strings.Builder, c *domain.Component) {
	prefix := "@"
	if t := c.Attrs["type"]; t == "channel" || t == "voice" || t == "thread" || t == "forum" {
		prefix = "#"
	}
	fmt.Fprintf(b, `<span class="dc-mention"%s>%s`, colorStyle(c.Attrs["color"]), prefix)
	r.writeChildren(b, c)
	b.WriteString(`</span>`)
}

func (r *staticRenderer) writeAttachment(b *strings.Builder, c *domain.Component) {
	url := c.Attrs["url"]
	alt := c.Attrs["alt"]
	switch c.Attrs["type"] {
	case "image":
		dims := ""
		if w := c.Attrs["width"]; w != "" {
			dims += fmt.Sprintf(` width="%s"`, html.EscapeString(w))
		}
		if h := c.Attrs["height"]; h != "" {
			dims += fmt.Sprintf(` height="%s"`, html.EscapeString(h))
		}
		fmt.Fprintf(b, `<img class="dc-attachment-image" src="%s" alt="%s"%s>`,
			html.EscapeString(url), html.EscapeString(alt), dims)
	case "video":
		fmt.Fprintf(b, `<video class="dc-attachment-video" src="%s" controls></video>`, html.EscapeString(url))
	case "audio":
		fmt.Fprintf(b, `<audio class="dc-attachment-audio" src="%s" controls></audio>`, html.EscapeString(url))
	default:
		fmt.Fprintf(b, `<div class="dc-attachment-file"><a href="%s">%s</a> <span class="dc-attachment-size">%s</span></div>`,
			html.EscapeString(url), html.EscapeString(alt), html.EscapeString(c.Attrs["size"]))
	}
}

func (r *staticRenderer) writeEmbed(b *strings.Builder, c *domain.Component) {
	style := ""
	if color := c.Attrs["color"]; color != "" {
		style = fmt.Sprintf(` style="border-left-color:%s"`, html.EscapeString(color))
	}
	fmt.Fprintf(b, `<div class="dc-embed"%s>`, style)

	if name := c.Attrs["author-name"]; name != "" {
		b.WriteString(`<div class="dc-embed-author">`)
		if icon := c.Attrs["author-image"]; icon != "" {
			fmt.Fprintf(b, `<img class="dc-embed-author-icon" src="%s" alt="">`, html.EscapeString(icon))
		}
		if url := c.Attrs["author-url"]; url != "" {
			fmt.Fprintf(b, `<a href="%s">%s</a>`, html.EscapeString(url), html.EscapeString(name))
		} else {
			b.WriteString(html.EscapeString(name))
		}
		b.WriteString(`</div>`)
	}

	if title := c.Attrs["embed-title"]; title != "" {
		if url := c.Attrs["url"]; url != "" {
			fmt.Fprintf(b, `<div class="dc-embed-title"><a href="%s">%s</a></div>`,
				html.EscapeString(url), html.EscapeString(title))
		} else {
			fmt.Fprintf(b, `<div class="dc-embed-title">%s</div>`, html.EscapeString(title))
		}
	}

	r.writeChildren(b, c)

	if img := c.Attrs["image"]; img != "" {
		fmt.Fprintf(b, `<img class="dc-embed-image" src="%s" alt="">`, html.EscapeString(img))
	}
	if thumb := c.Attrs["thumbnail"]; thumb != "" {
		fmt.Fprintf(b, `<img class="dc-embed-thumbnail" src="%s" alt="">`, html.EscapeString(thumb))
	}
	b.WriteString(`</div>`)
}

func colorStyle(color string) string {
	if color == "" {
		return ""
	}
	return fmt.Sprintf(` style="color:%s"`, html.EscapeString(color))
}

func hasBool(c *domain.Component, name string) bool {
	for _, b := range c.Bools {
		if b == name {
			return true
		}
	}
	return false
}
