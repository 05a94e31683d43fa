package transcript

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

func TestRender_EndToEndDirectMessage(t *testing.T) {
	m := testMessage("1", testUser("123", "alice"), "hello <world> & friends", fixedNow)
	o := testOptions(dmChannel(), m)

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Direct Message Transcript",
		"hello &lt;world&gt; &amp; friends",
		"1 message saved",
		"window.$discordMessage",
		`"author":"alice"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("expected %q in document", want)
		}
	}
	if strings.Contains(doc, "<world>") {
		t.Error("unescaped message text leaked into the document")
	}
}

func TestRender_FooterPluralization(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{0, "0 messages saved"},
		{1, "1 message saved"},
		{2, "2 messages saved"},
	}
	for _, tc := range cases {
		var msgs []*domain.Message
		for i := 0; i < tc.count; i++ {
			msgs = append(msgs, testMessage(string(rune('1'+i)), testUser("123", "alice"), "m", fixedNow))
		}
		o := testOptions(dmChannel(), msgs...)
		doc, err := Render(context.Background(), o)
		if err != nil {
			t.Fatalf("render %d messages: %v", tc.count, err)
		}
		if !strings.Contains(doc, tc.want) {
			t.Errorf("%d messages: expected %q in footer", tc.count, tc.want)
		}
	}
}

// The configured footer template is honored, with {number} and {s}
// substituted; the built-in literal is only the fallback.
func TestRender_FooterOverrideHonored(t *testing.T) {
	o := testOptions(dmChannel(),
		testMessage("1", testUser("123", "alice"), "a", fixedNow),
		testMessage("2", testUser("123", "alice"), "b", fixedNow),
	)
	o.FooterText = "Exported {number} message{s}."

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, "Exported 2 messages.") {
		t.Error("footer override was not applied")
	}
	if strings.Contains(doc, "messages saved") {
		t.Error("built-in footer must not appear when overridden")
	}
}

func TestRender_Deterministic(t *testing.T) {
	msgs := []*domain.Message{
		testMessage("1", testUser("123", "alice"), "one <@123> **bold**", fixedNow),
		testMessage("2", testUser("124", "bob"), "two ||secret||", fixedNow.Add(time.Minute)),
	}
	o := testOptions(guildChannel(), msgs...)

	first, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Error("identical inputs must produce byte-identical output")
	}
}

func TestRender_GuildHeaderAndTopic(t *testing.T) {
	o := testOptions(guildChannel(), testMessage("1", testUser("123", "alice"), "hi", fixedNow))

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Test Guild", "general", "the topic"} {
		if !strings.Contains(doc, want) {
			t.Errorf("expected %q in header", want)
		}
	}
}

func TestRender_NoTopicPlaceholder(t *testing.T) {
	ch := guildChannel()
	ch.Topic = ""
	o := testOptions(ch, testMessage("1", testUser("123", "alice"), "hi", fixedNow))

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, "This channel has no description.") {
		t.Error("expected no-description placeholder")
	}
}

func TestRender_ThreadHeader(t *testing.T) {
	ch := &domain.Channel{
		Kind:   domain.KindThread,
		ID:     "700",
		Name:   "a thread",
		Parent: &domain.Channel{Kind: domain.KindGuildText, ID: "500", Name: "general"},
		Guild:  &domain.Guild{ID: "42", Name: "Test Guild"},
	}
	o := testOptions(ch, testMessage("1", testUser("123", "alice"), "hi", fixedNow))

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, "Thread in general") {
		t.Error("expected thread header label")
	}
}

func TestRender_DeferredReferencesRuntime(t *testing.T) {
	o := testOptions(dmChannel(), testMessage("1", testUser("123", "alice"), "hi", fixedNow))
	o.ComponentVersion = "9.9.9"

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, "discord-components-core@9.9.9") {
		t.Error("expected runtime script pinned to the configured version")
	}
	if !strings.Contains(doc, "<discord-message") {
		t.Error("deferred mode must leave components as authored tags")
	}
}

func TestRender_HydratedIsSelfContained(t *testing.T) {
	m := testMessage("1", testUser("123", "alice"), "psst ||secret||", fixedNow)
	o := testOptions(dmChannel(), m)
	o.Hydrate = true

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(doc, "cdn.jsdelivr.net") {
		t.Error("hydrated output must not reference the external runtime")
	}
	if strings.Contains(doc, "<discord-message") {
		t.Error("hydrated output must not contain authored component tags")
	}
	if !strings.Contains(doc, "alice") {
		t.Error("author name must be pre-rendered from the profile directory")
	}
	if !strings.Contains(doc, `class="dc-spoiler"`) {
		t.Error("spoiler must be pre-rendered")
	}
	if !strings.Contains(doc, "dc-spoiler--revealed") {
		t.Error("spoiler reveal script must be appended in hydrated mode")
	}
}

func TestRender_SuppressedMessagesFiltered(t *testing.T) {
	visible := testMessage("1", testUser("123", "alice"), "visible", fixedNow)
	system := testMessage("2", testUser("123", "alice"), "pin", fixedNow)
	system.Type = 6 // channel pinned message
	o := testOptions(guildChannel(), visible, system)

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, "visible") {
		t.Error("renderable message missing")
	}
	// The count still reflects the fetched list.
	if !strings.Contains(doc, "2 messages saved") {
		t.Error("footer counts the full message list")
	}
	if strings.Contains(doc, `id="m-2"`) {
		t.Error("suppressed message must not appear in the body")
	}
}

func TestRender_MissingChannelFails(t *testing.T) {
	o := testOptions(nil)
	if _, err := Render(context.Background(), o); err == nil {
		t.Fatal("expected error without a channel")
	}
}

func TestRender_MissingResolversFail(t *testing.T) {
	o := testOptions(dmChannel())
	o.Resolvers.User = nil
	if _, err := Render(context.Background(), o); err == nil {
		t.Fatal("expected error without resolver callbacks")
	}
}

func TestRender_FaviconOverride(t *testing.T) {
	o := testOptions(dmChannel(), testMessage("1", testUser("123", "alice"), "hi", fixedNow))
	o.Favicon = "https://example.com/icon.png"

	doc, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(doc, `href="https://example.com/icon.png"`) {
		t.Error("expected configured favicon url")
	}
}
