package transcript

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var documentTmpl = template.Must(template.ParseFS(templateFS, "templates/document.html.tmpl"))

const runtimeURLFormat = "https://cdn.jsdelivr.net/npm/@derockdev/discord-components-core@%s/dist/derockdev-discord-components-core/derockdev-discord-components-core.esm.js"

const dmTranscriptLabel = "Direct Message Transcript"

type documentData struct {
	Title           string
	Favicon         string
	Hydrate         bool
	ScrollScript    template.JS
	SpoilerScript   template.JS
	ProfilesJSON    template.JS
	RuntimeURL      string
	ComponentStyles template.CSS
	Body            template.HTML
}

// Render is the sole entry point: it walks the message list and produces
// the complete transcript document as a single HTML string.
//
// Profile building and per-message rendering run concurrently; they read
// the same message list but write disjoint outputs. Message results land
// in fixed slots so completion order never reorders the document.
func Render(ctx context.Context, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	o := opts.withDefaults()

	var profiles map[string]domain.Profile
	rendered := make([]*domain.Component, len(o.Messages))

	// Run grouping depends on the previous renderable message, which is
	// known up front; compute it before fanning out.
	prev := make([]*domain.Message, len(o.Messages))
	var lastRenderable *domain.Message
	for i, m := range o.Messages {
		prev[i] = lastRenderable
		if renderable(m) {
			lastRenderable = m
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profiles = buildProfiles(gctx, &o)
		return nil
	})
	for i, m := range o.Messages {
		i, m := i, m
		g.Go(func() error {
			rendered[i] = renderMessage(gctx, m, prev[i], &o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("transcript: render messages: %w", err)
	}

	root := domain.NewComponent("discord-messages")
	root.Append(renderHeader(ctx, &o))
	for _, c := range rendered {
		root.Append(c) // nil (suppressed) entries are skipped
	}
	root.Append(renderFooter(&o))

	var renderer domain.ComponentRenderer
	if o.Hydrate {
		renderer = &staticRenderer{profiles: profiles}
	} else {
		renderer = deferredRenderer{}
	}
	body, err := renderer.Render(root)
	if err != nil {
		return "", fmt.Errorf("transcript: render component tree: %w", err)
	}

	data := documentData{
		Title:         documentTitle(o.Channel),
		Favicon:       faviconURL(&o),
		Hydrate:       o.Hydrate,
		ScrollScript:  template.JS(scrollToMessageScript),
		SpoilerScript: template.JS(revealSpoilerScript),
		Body:          body,
	}
	if o.Hydrate {
		data.ComponentStyles = template.CSS(staticStyles)
	} else {
		encoded, err := json.Marshal(profiles)
		if err != nil {
			return "", fmt.Errorf("transcript: encode profiles: %w", err)
		}
		data.ProfilesJSON = template.JS(encoded)
		data.RuntimeURL = fmt.Sprintf(runtimeURLFormat, o.ComponentVersion)
	}

	var b strings.Builder
	if err := documentTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("transcript: execute document template: %w", err)
	}
	return b.String(), nil
}

// renderHeader builds the channel banner. Labels dispatch on the channel
// kind tag; the topic goes through the content renderer in compact mode.
func renderHeader(ctx context.Context, o *Options) *domain.Component {
	ch := o.Channel
	h := domain.NewComponent("discord-header")

	if ch.Kind == domain.KindDirect {
		h.Set("guild", dmTranscriptLabel)
		recipient := "Unknown Recipient"
		if ch.Recipient != nil {
			recipient = ch.Recipient.String()
		}
		h.Set("channel", recipient)
	} else {
		if ch.Guild != nil {
			h.Set("guild", ch.Guild.Name)
			if icon := guildIconURL(ch.Guild, "128", o); icon != "" {
				h.Set("icon", icon)
			}
		}
		h.Set("channel", ch.Name)
	}

	switch {
	case ch.Kind == domain.KindThread:
		parent := "Unknown Channel"
		if ch.Parent != nil {
			parent = ch.Parent.Name
		}
		h.Append(textNode("Thread in " + parent))
	case ch.Kind == domain.KindDirect:
		h.Append(textNode("Direct Messages"))
	case ch.Kind == domain.KindVoiceText:
		h.Append(textNode("Voice channel " + ch.Name))
	case ch.Kind == domain.KindCategory:
		h.Append(textNode("Category channel"))
	case ch.Topic != "":
		h.Append(renderContent(ctx, ch.Topic, RenderModeCompact, o)...)
	default:
		h.Append(textNode("This channel has no description."))
	}

	return h
}

// renderFooter builds the message count line. The configured footer
// template, when set, takes over with {number} and {s} substituted.
func renderFooter(o *Options) *domain.Component {
	count := len(o.Messages)
	plural := "s"
	if count == 1 {
		plural = ""
	}

	var text string
	if o.FooterText != "" {
		text = strings.ReplaceAll(o.FooterText, "{number}", strconv.Itoa(count))
		text = strings.ReplaceAll(text, "{s}", plural)
	} else {
		text = fmt.Sprintf("%d message%s saved | Transcript generated at %s",
			count, plural, o.Now().UTC().Format("01/02/2006, 3:04:05 PM"))
	}

	markup := `<div class="dc-footer">` + html.EscapeString(text)
	if o.PoweredBy {
		markup += ` <span>Powered by <a href="https://github.com/martyport/discord-transcript-generator">discord-transcript-generator</a>.</span>`
	}
	markup += `</div>`
	return domain.RawNode(template.HTML(markup))
}

func documentTitle(ch *domain.Channel) string {
	if ch.Kind == domain.KindDirect {
		return dmTranscriptLabel
	}
	return ch.Name + " | Transcript"
}

func faviconURL(o *Options) string {
	if o.Favicon != "guild" {
		return o.Favicon
	}
	if o.Channel.Guild == nil {
		return ""
	}
	return guildIconURL(o.Channel.Guild, "16", o)
}

func guildIconURL(g *domain.Guild, size string, o *Options) string {
	if g.Icon == "" {
		return ""
	}
	if o.CustomGuildIconURL != "" {
		return expandURLTemplate(o.CustomGuildIconURL, "[guildId]", g.ID, "[guildIcon]", g.Icon)
	}
	return discordgo.EndpointGuildIcon(g.ID, g.Icon) + "?size=" + size
}

func textNode(s string) *domain.Component {
	return domain.RawNode(template.HTML(html.EscapeString(s)))
}
