package transcript

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

const maxEmbedFields = 25

// renderEmbeds maps each message embed onto a discord-embed component.
// Text parts go through the content renderer so mentions and markdown
// inside embeds resolve the same way message bodies do.
func renderEmbeds(ctx context.Context, m *domain.Message, o *Options) []*domain.Component {
	var out []*domain.Component
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		out = append(out, renderEmbed(ctx, e, o))
	}
	return out
}

func renderEmbed(ctx context.Context, e *discordgo.MessageEmbed, o *Options) *domain.Component {
	c := domain.NewComponent("discord-embed").Set("slot", "embeds")

	if e.Color != 0 {
		c.Set("color", fmt.Sprintf("#%06x", e.Color))
	}
	if e.Author != nil {
		c.Set("author-name", e.Author.Name)
		if e.Author.IconURL != "" {
			c.Set("author-image", e.Author.IconURL)
		}
		if e.Author.URL != "" {
			c.Set("author-url", e.Author.URL)
		}
	}
	if e.Title != "" {
		c.Set("embed-title", e.Title)
	}
	if e.URL != "" {
		c.Set("url", e.URL)
	}
	if e.Image != nil && e.Image.URL != "" {
		c.Set("image", e.Image.URL)
	}
	if e.Thumbnail != nil && e.Thumbnail.URL != "" {
		c.Set("thumbnail", e.Thumbnail.URL)
	}

	if e.Description != "" {
		desc := domain.NewComponent("discord-embed-description").Set("slot", "description")
		desc.Append(renderContent(ctx, e.Description, RenderModeDefault, o)...)
		c.Append(desc)
	}

	if len(e.Fields) > 0 {
		fields := domain.NewComponent("discord-embed-fields").Set("slot", "fields")
		for i, f := range e.Fields {
			if f == nil {
				continue
			}
			if i >= maxEmbedFields {
				break
			}
			field := domain.NewComponent("discord-embed-field").
				Set("field-title", f.Name)
			if f.Inline {
				field.SetBool("inline")
			}
			field.Append(renderContent(ctx, f.Value, RenderModeDefault, o)...)
			fields.Append(field)
		}
		c.Append(fields)
	}

	if e.Footer != nil && e.Footer.Text != "" {
		footer := domain.NewComponent("discord-embed-footer").Set("slot", "footer")
		if e.Footer.IconURL != "" {
			footer.Set("footer-image", e.Footer.IconURL)
		}
		text := e.Footer.Text
		if e.Timestamp != "" {
			text += " • " + e.Timestamp
		}
		footer.Append(domain.RawNode(template.HTML(html.EscapeString(text))))
		c.Append(footer)
	}

	return c
}

// renderReactions maps the message's reactions onto one block, or nil.
func renderReactions(m *domain.Message) *domain.Component {
	if len(m.Reactions) == 0 {
		return nil
	}

	group := domain.NewComponent("discord-reactions").Set("slot", "reactions")
	for _, r := range m.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		reaction := domain.NewComponent("discord-reaction").
			Set("count", strconv.Itoa(r.Count)).
			Set("name", r.Emoji.Name)
		if r.Emoji.ID != "" {
			url := discordgo.EndpointEmoji(r.Emoji.ID)
			if r.Emoji.Animated {
				url = discordgo.EndpointEmojiAnimated(r.Emoji.ID)
			}
			reaction.Set("emoji", url)
		}
		group.Append(reaction)
	}
	return group
}
