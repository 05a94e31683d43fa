package transcript

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// renderAttachments maps a message's attachments onto one visual block.
// Returns nil when the message has none.
func renderAttachments(ctx context.Context, m *domain.Message, o *Options) *domain.Component {
	if len(m.Attachments) == 0 {
		return nil
	}

	group := domain.NewComponent("discord-attachments").Set("slot", "attachments")
	for _, a := range m.Attachments {
		group.Append(renderAttachment(ctx, m, a, o))
	}
	return group
}

func renderAttachment(ctx context.Context, m *domain.Message, a *discordgo.MessageAttachment, o *Options) *domain.Component {
	url := a.URL
	if o.CustomAttachmentURL != "" {
		url = expandURLTemplate(o.CustomAttachmentURL,
			"[channelId]", m.ChannelID,
			"[messageId]", m.ID,
			"[attachmentId]", a.ID,
			"[attachmentName]", a.Filename,
		)
	}

	kind := attachmentKind(a.ContentType)

	// Best effort: a failed download keeps the remote URL.
	if o.SaveImages && kind == "image" {
		if data, contentType, err := o.FetchAsset(ctx, url); err == nil {
			if contentType == "" {
				contentType = a.ContentType
			}
			url = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
		} else {
			o.Logger.Warn("image inline failed, keeping remote url", "attachment", a.ID, "err", err)
		}
	}

	c := domain.NewComponent("discord-attachment").
		Set("slot", "attachment").
		Set("type", kind).
		Set("size", humanize.Bytes(uint64(a.Size))).
		Set("url", url).
		Set("alt", a.Filename)
	if a.Width > 0 {
		c.Set("width", strconv.Itoa(a.Width))
	}
	if a.Height > 0 {
		c.Set("height", strconv.Itoa(a.Height))
	}
	return c
}

// attachmentKind classifies by the first MIME segment; anything without a
// recognized content type is a generic file.
func attachmentKind(contentType string) string {
	first, _, _ := strings.Cut(contentType, "/")
	switch first {
	case "audio", "video", "image":
		return first
	}
	return "file"
}
