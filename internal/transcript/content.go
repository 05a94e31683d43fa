package transcript

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// RenderMode selects the output shape of the content renderer.
type RenderMode int

const (
	// RenderModeDefault is the full inline rendering used for message
	// bodies and embed descriptions.
	RenderModeDefault RenderMode = iota
	// RenderModeCompact flattens everything onto a single line, used for
	// reply previews and the channel topic banner.
	RenderModeCompact
)

// Placeholder strings for resolver misses. A miss never fails the render.
const (
	placeholderUser    = "Unknown User"
	placeholderChannel = "deleted-channel"
	placeholderRole    = "Unknown Role"
)

// contentToken matches, in one pass, every construct of the message markup
// dialect that cannot be handled by plain text substitution: code spans,
// spoilers, the three mention forms, custom emoji and timestamps.
var contentToken = regexp.MustCompile("(?s)" +
	"```(?:[a-zA-Z0-9_+-]*\n)?(.+?)```" + // 1: fenced code block
	"|`([^`\n]+)`" + // 2: inline code
	`|\|\|(.+?)\|\|` + // 3: spoiler
	`|<#(\d+)>` + // 4: channel mention
	`|<@&(\d+)>` + // 5: role mention
	`|<@!?(\d+)>` + // 6: user mention
	`|<(a?):([A-Za-z0-9_~]+):(\d+)>` + // 7,8,9: custom emoji
	`|<t:(-?\d+)(?::([tTdDfFR]))?>`) // 10,11: timestamp

var (
	mdBoldItalic = regexp.MustCompile(`(?s)\*\*\*(.+?)\*\*\*`)
	mdBold       = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
	mdUnderline  = regexp.MustCompile(`(?s)__(.+?)__`)
	mdStrike     = regexp.MustCompile(`(?s)~~(.+?)~~`)
	mdItalicStar = regexp.MustCompile(`\*([^*\n]+)\*`)
	mdItalicLow  = regexp.MustCompile(`_([^_\n]+)_`)
)

// renderContent parses raw message markup into an ordered node sequence.
// Mentions are resolved through the context's callbacks; a miss renders a
// literal placeholder. All text ends up HTML-escaped.
func renderContent(ctx context.Context, raw string, mode RenderMode, o *Options) []*domain.Component {
	if raw == "" {
		return nil
	}

	var nodes []*domain.Component
	pos := 0
	for pos < len(raw) {
		loc := contentToken.FindStringSubmatchIndex(raw[pos:])
		if loc == nil {
			nodes = appendText(nodes, raw[pos:], mode)
			break
		}
		if loc[0] > 0 {
			nodes = appendText(nodes, raw[pos:pos+loc[0]], mode)
		}

		group := func(n int) (string, bool) {
			if loc[2*n] < 0 {
				return "", false
			}
			return raw[pos+loc[2*n] : pos+loc[2*n+1]], true
		}

		switch {
		case hasGroup(loc, 1): // fenced code block
			code, _ := group(1)
			nodes = append(nodes, codeBlockNode(code, mode))
		case hasGroup(loc, 2): // inline code
			code, _ := group(2)
			nodes = append(nodes, domain.RawNode(template.HTML("<code>"+html.EscapeString(code)+"</code>")))
		case hasGroup(loc, 3): // spoiler
			inner, _ := group(3)
			spoiler := domain.NewComponent("discord-spoiler")
			spoiler.Append(renderContent(ctx, inner, mode, o)...)
			nodes = append(nodes, spoiler)
		case hasGroup(loc, 4): // channel mention
			id, _ := group(4)
			nodes = append(nodes, channelMentionNode(ctx, id, o))
		case hasGroup(loc, 5): // role mention
			id, _ := group(5)
			nodes = append(nodes, roleMentionNode(ctx, id, o))
		case hasGroup(loc, 6): // user mention
			id, _ := group(6)
			nodes = append(nodes, userMentionNode(ctx, id, o))
		case hasGroup(loc, 8): // custom emoji
			animated, _ := group(7)
			name, _ := group(8)
			id, _ := group(9)
			nodes = append(nodes, emojiNode(name, id, animated == "a"))
		case hasGroup(loc, 10): // timestamp
			unix, _ := group(10)
			style, _ := group(11)
			nodes = append(nodes, timestampNode(unix, style))
		}

		pos += loc[1]
	}

	return nodes
}

func hasGroup(loc []int, n int) bool { return loc[2*n] >= 0 }

// appendText escapes a plain text run, applies the inline markdown rules
// and appends the result as a raw leaf.
func appendText(nodes []*domain.Component, text string, mode RenderMode) []*domain.Component {
	if text == "" {
		return nodes
	}
	return append(nodes, domain.RawNode(markdownInline(text, mode)))
}

// markdownInline renders the markdown emphasis subset of the dialect on an
// already token-free text run. Escaping happens first; the replacement
// tags are the only unescaped markup introduced.
func markdownInline(text string, mode RenderMode) template.HTML {
	s := html.EscapeString(text)

	s = mdBoldItalic.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = mdBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = mdUnderline.ReplaceAllString(s, "<u>$1</u>")
	s = mdStrike.ReplaceAllString(s, "<s>$1</s>")
	s = mdItalicStar.ReplaceAllString(s, "<em>$1</em>")
	s = mdItalicLow.ReplaceAllString(s, "<em>$1</em>")

	if mode == RenderModeCompact {
		s = strings.ReplaceAll(s, "\n", " ")
	} else {
		s = strings.ReplaceAll(s, "\n", "<br>")
	}
	return template.HTML(s)
}

func codeBlockNode(code string, mode RenderMode) *domain.Component {
	escaped := html.EscapeString(strings.TrimSuffix(code, "\n"))
	if mode == RenderModeCompact {
		flat := strings.ReplaceAll(escaped, "\n", " ")
		return domain.RawNode(template.HTML("<code>" + flat + "</code>"))
	}
	return domain.RawNode(template.HTML("<pre><code>" + escaped + "</code></pre>"))
}

func channelMentionNode(ctx context.Context, id string, o *Options) *domain.Component {
	name := placeholderChannel
	mention := domain.NewComponent("discord-mention").Set("type", "channel")
	if ch, ok := o.Resolvers.Channel(ctx, id); ok && ch != nil {
		name = ch.Name
		switch ch.Type {
		case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
			mention.Set("type", "voice")
		case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
			mention.Set("type", "thread")
		case discordgo.ChannelTypeGuildForum:
			mention.Set("type", "forum")
		}
	}
	mention.Append(domain.RawNode(template.HTML(html.EscapeString(name))))
	return mention
}

func userMentionNode(ctx context.Context, id string, o *Options) *domain.Component {
	name := placeholderUser
	if user, ok := o.Resolvers.User(ctx, id); ok && user != nil {
		name = displayName(nil, user)
	}
	mention := domain.NewComponent("discord-mention").Set("type", "user")
	mention.Append(domain.RawNode(template.HTML(html.EscapeString(name))))
	return mention
}

func roleMentionNode(ctx context.Context, id string, o *Options) *domain.Component {
	name := placeholderRole
	mention := domain.NewComponent("discord-mention").Set("type", "role")
	if role, ok := o.Resolvers.Role(ctx, id); ok && role != nil {
		name = role.Name
		if role.Color != 0 {
			mention.Set("color", fmt.Sprintf("#%06x", role.Color))
		}
	}
	mention.Append(domain.RawNode(template.HTML(html.EscapeString(name))))
	return mention
}

func emojiNode(name, id string, animated bool) *domain.Component {
	url := discordgo.EndpointEmoji(id)
	if animated {
		url = discordgo.EndpointEmojiAnimated(id)
	}
	return domain.NewComponent("discord-custom-emoji").
		Set("name", ":"+name+":").
		Set("url", url)
}

// timestampNode renders <t:unix[:style]> markers as absolute times in UTC.
// The relative style has no stable meaning in a static document, so it
// falls back to the full date form.
func timestampNode(unix, style string) *domain.Component {
	secs, err := strconv.ParseInt(unix, 10, 64)
	if err != nil {
		return domain.RawNode(template.HTML(html.EscapeString("<t:" + unix + ">")))
	}
	t := time.Unix(secs, 0).UTC()

	var formatted string
	switch style {
	case "t":
		formatted = t.Format("3:04 PM")
	case "T":
		formatted = t.Format("3:04:05 PM")
	case "d":
		formatted = t.Format("01/02/2006")
	case "D":
		formatted = t.Format("January 2, 2006")
	case "F":
		formatted = t.Format("Monday, January 2, 2006 3:04 PM")
	default:
		formatted = t.Format("January 2, 2006 3:04 PM")
	}
	return domain.RawNode(template.HTML(`<span class="dc-timestamp">` + html.EscapeString(formatted) + `</span>`))
}
