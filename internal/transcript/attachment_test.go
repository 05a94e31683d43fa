package transcript

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

func TestAttachmentKind_Classification(t *testing.T) {
	cases := map[string]string{
		"image/png":       "image",
		"video/mp4":       "video",
		"audio/mpeg":      "audio",
		"application/zip": "file",
		"":                "file",
	}
	for contentType, want := range cases {
		if got := attachmentKind(contentType); got != want {
			t.Errorf("%q: expected %q, got %q", contentType, want, got)
		}
	}
}

func attachedMessage(a *discordgo.MessageAttachment) *domain.Message {
	m := testMessage("10", testUser("123", "alice"), "", fixedNow)
	m.Attachments = append(m.Attachments, a)
	return m
}

func TestRenderAttachments_NoneIsAbsent(t *testing.T) {
	o := testOptions(guildChannel())
	m := testMessage("10", testUser("123", "alice"), "hi", fixedNow)
	if got := renderAttachments(context.Background(), m, &o); got != nil {
		t.Errorf("expected nil block for zero attachments, got %+v", got)
	}
}

func TestRenderAttachment_Basic(t *testing.T) {
	o := testOptions(guildChannel())
	m := attachedMessage(&discordgo.MessageAttachment{
		ID: "a1", Filename: "photo.png", ContentType: "image/png",
		URL: "https://cdn/photo.png", Size: 2048, Width: 640, Height: 480,
	})

	block := renderAttachments(context.Background(), m, &o)
	if block == nil || len(block.Children) != 1 {
		t.Fatalf("expected one attachment child, got %+v", block)
	}
	a := block.Children[0]
	if a.Attrs["type"] != "image" {
		t.Errorf("expected image type, got %q", a.Attrs["type"])
	}
	if a.Attrs["url"] != "https://cdn/photo.png" {
		t.Errorf("unexpected url %q", a.Attrs["url"])
	}
	if a.Attrs["alt"] != "photo.png" {
		t.Errorf("unexpected alt %q", a.Attrs["alt"])
	}
	if a.Attrs["width"] != "640" || a.Attrs["height"] != "480" {
		t.Errorf("dimensions not carried: %+v", a.Attrs)
	}
	if a.Attrs["size"] == "" {
		t.Error("size must be formatted")
	}
}

func TestRenderAttachment_URLTemplate(t *testing.T) {
	o := testOptions(guildChannel())
	o.CustomAttachmentURL = "https://proxy/[channelId]/[messageId]/[attachmentId]/[attachmentName]"
	m := attachedMessage(&discordgo.MessageAttachment{
		ID: "a1", Filename: "doc.pdf", URL: "https://cdn/doc.pdf",
	})

	block := renderAttachments(context.Background(), m, &o)
	want := "https://proxy/500/10/a1/doc.pdf"
	if got := block.Children[0].Attrs["url"]; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderAttachment_SaveImagesInlines(t *testing.T) {
	o := testOptions(guildChannel())
	o.SaveImages = true
	o.FetchAsset = func(ctx context.Context, url string) ([]byte, string, error) {
		return []byte{1, 2, 3}, "image/png", nil
	}
	m := attachedMessage(&discordgo.MessageAttachment{
		ID: "a1", Filename: "p.png", ContentType: "image/png", URL: "https://cdn/p.png",
	})

	block := renderAttachments(context.Background(), m, &o)
	url := block.Children[0].Attrs["url"]
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("expected data uri, got %q", url)
	}
}

func TestRenderAttachment_SaveImagesFetchFailureKeepsURL(t *testing.T) {
	o := testOptions(guildChannel())
	o.SaveImages = true
	o.FetchAsset = func(ctx context.Context, url string) ([]byte, string, error) {
		return nil, "", fmt.Errorf("boom")
	}
	m := attachedMessage(&discordgo.MessageAttachment{
		ID: "a1", Filename: "p.png", ContentType: "image/png", URL: "https://cdn/p.png",
	})

	block := renderAttachments(context.Background(), m, &o)
	if got := block.Children[0].Attrs["url"]; got != "https://cdn/p.png" {
		t.Errorf("fetch failure must keep the original url, got %q", got)
	}
}

func TestRenderAttachment_NonImageNeverFetched(t *testing.T) {
	o := testOptions(guildChannel())
	o.SaveImages = true
	fetched := false
	o.FetchAsset = func(ctx context.Context, url string) ([]byte, string, error) {
		fetched = true
		return []byte{1}, "video/mp4", nil
	}
	m := attachedMessage(&discordgo.MessageAttachment{
		ID: "a1", Filename: "v.mp4", ContentType: "video/mp4", URL: "https://cdn/v.mp4",
	})

	renderAttachments(context.Background(), m, &o)
	if fetched {
		t.Error("only images may be inlined")
	}
}
