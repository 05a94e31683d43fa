package transcript

import (
	"context"
	"html/template"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// Messages closer together than this, from the same author, collapse into
// one run with a single author header.
const messageRunWindow = 7 * time.Minute

const messageTimestampFormat = "01/02/2006 3:04 PM"

// renderMessage composes one message into its visual unit. prev is the
// previous renderable message, used for run grouping. Returns nil for
// message kinds the transcript does not reproduce; the assembler filters
// those out.
func renderMessage(ctx context.Context, m *domain.Message, prev *domain.Message, o *Options) *domain.Component {
	if !renderable(m) {
		return nil
	}

	c := domain.NewComponent("discord-message").
		Set("id", "m-"+m.ID).
		Set("profile", m.Author.ID).
		Set("timestamp", m.Timestamp.UTC().Format(messageTimestampFormat))

	if isContinuation(prev, m) {
		c.SetBool("continuation")
	}
	if m.EditedAt != nil {
		c.SetBool("edited")
	}

	if reply := renderReply(ctx, m, o); reply != nil {
		c.Append(reply)
	} else if m.Interaction != nil && m.Interaction.User != nil {
		c.Append(domain.NewComponent("discord-command").
			Set("slot", "reply").
			Set("profile", m.Interaction.User.ID).
			Set("command", "/"+m.Interaction.Name))
	}

	c.Append(renderContent(ctx, m.Content, RenderModeDefault, o)...)
	c.Append(renderAttachments(ctx, m, o))
	c.Append(renderEmbeds(ctx, m, o)...)
	c.Append(renderReactions(m))

	return c
}

func renderable(m *domain.Message) bool {
	if m == nil || m.Author == nil {
		return false
	}
	switch m.Type {
	case discordgo.MessageTypeDefault, discordgo.MessageTypeReply, discordgo.MessageTypeChatInputCommand:
		return true
	}
	return false
}

// isContinuation reports whether m continues prev's run: same author, not
// a reply or command response, and close enough in time.
func isContinuation(prev, m *domain.Message) bool {
	if prev == nil || prev.Author == nil {
		return false
	}
	if m.Reference != nil || m.Interaction != nil {
		return false
	}
	if prev.Author.ID != m.Author.ID {
		return false
	}
	return m.Timestamp.Sub(prev.Timestamp) <= messageRunWindow
}

// renderReply builds the reply-preview slot: a compact rendering of the
// referenced message wrapped in a jump link, or a deleted placeholder.
func renderReply(ctx context.Context, m *domain.Message, o *Options) *domain.Component {
	if m.Reference == nil {
		return nil
	}

	reply := domain.NewComponent("discord-reply").Set("slot", "reply")

	ref := m.Reference.Message
	if ref == nil || ref.Author == nil {
		reply.Append(domain.RawNode(template.HTML("<em>Original message was deleted</em>")))
		return reply
	}

	reply.Set("profile", ref.Author.ID)
	if ref.EditedAt != nil {
		reply.SetBool("edited")
	}

	anchor := "m-" + ref.ID
	link := domain.NewComponent("a").
		Set("class", "dc-reply-link").
		Set("href", "#"+anchor).
		Set("onclick", "scrollToMessage(event, '"+anchor+"')")

	if ref.Content != "" {
		link.Append(renderContent(ctx, ref.Content, RenderModeCompact, o)...)
	} else if len(ref.Attachments) > 0 || len(ref.Embeds) > 0 {
		link.Append(domain.RawNode(template.HTML("<em>Click to see attachment</em>")))
	} else {
		link.Append(domain.RawNode(template.HTML("<em>Click to see message</em>")))
	}

	reply.Append(link)
	return reply
}
