package transcript

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// testResolvers serves a small fixed world: user 123, role 900, channel
// 500. Everything else is a miss.
func testResolvers() domain.Resolvers {
	return domain.Resolvers{
		Channel: func(ctx context.Context, id string) (*discordgo.Channel, bool) {
			if id == "500" {
				return &discordgo.Channel{ID: "500", Name: "general", Type: discordgo.ChannelTypeGuildText}, true
			}
			return nil, false
		},
		User: func(ctx context.Context, id string) (*discordgo.User, bool) {
			if id == "123" {
				return &discordgo.User{ID: "123", Username: "alice", GlobalName: "Alice"}, true
			}
			return nil, false
		},
		Role: func(ctx context.Context, id string) (*discordgo.Role, bool) {
			if id == "900" {
				return &discordgo.Role{ID: "900", Name: "Moderator", Color: 0x1abc2f, Hoist: true, Position: 5}, true
			}
			return nil, false
		},
	}
}

func testOptions(channel *domain.Channel, messages ...*domain.Message) Options {
	return Options{
		Messages:  messages,
		Channel:   channel,
		Resolvers: testResolvers(),
		Now:       func() time.Time { return fixedNow },
		Logger:    testLogger(),
	}
}

func dmChannel() *domain.Channel {
	return &domain.Channel{
		Kind:      domain.KindDirect,
		ID:        "1",
		Recipient: &discordgo.User{ID: "123", Username: "alice"},
	}
}

func guildChannel() *domain.Channel {
	return &domain.Channel{
		Kind:  domain.KindGuildText,
		ID:    "500",
		Name:  "general",
		Topic: "the topic",
		Guild: &domain.Guild{ID: "42", Name: "Test Guild", Icon: "iconhash"},
	}
}

func testUser(id, name string) *discordgo.User {
	return &discordgo.User{ID: id, Username: name}
}

func testMessage(id string, author *discordgo.User, content string, ts time.Time) *domain.Message {
	return &domain.Message{
		ID:        id,
		ChannelID: "500",
		Type:      discordgo.MessageTypeDefault,
		Author:    author,
		Content:   content,
		Timestamp: ts,
	}
}

// renderNodes flattens a node sequence with the deferred renderer for
// string assertions.
func renderNodes(t *testing.T, nodes []*domain.Component) string {
	t.Helper()
	wrapper := domain.NewComponent("wrap")
	wrapper.Append(nodes...)
	out, err := deferredRenderer{}.Render(wrapper)
	if err != nil {
		t.Fatalf("render nodes: %v", err)
	}
	s := string(out)
	return s[len("<wrap>") : len(s)-len("</wrap>")]
}
