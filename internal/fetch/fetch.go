// Package fetch supplies the transcript pipeline with fully populated
// messages, channels and resolver callbacks backed by a Discord session.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

const pageSize = 100

// Client wraps a Discord session for read-only history access. Lookups
// hit the session state first and fall back to the REST API; results are
// cached for the lifetime of the client.
type Client struct {
	session *discordgo.Session
	logger  *slog.Logger

	mu          sync.Mutex
	guildID     string
	users       map[string]*discordgo.User
	channels    map[string]*discordgo.Channel
	members     map[string]*discordgo.Member
	roles       map[string]*discordgo.Role
	rolesLoaded bool
}

// Connect opens a REST-only client with a bot token. No gateway
// connection is made; history export needs none.
func Connect(token string, logger *slog.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return New(session, logger), nil
}

// New wraps an existing session.
func New(session *discordgo.Session, logger *slog.Logger) *Client {
	return &Client{
		session:  session,
		logger:   logger,
		users:    make(map[string]*discordgo.User),
		channels: make(map[string]*discordgo.Channel),
		members:  make(map[string]*discordgo.Member),
		roles:    make(map[string]*discordgo.Role),
	}
}

// Channel fetches a channel and converts it to the tagged render model,
// including its guild and, for threads, the parent channel.
func (c *Client) Channel(ctx context.Context, id string) (*domain.Channel, error) {
	ch, err := c.rawChannel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", id, err)
	}

	c.mu.Lock()
	c.guildID = ch.GuildID
	c.mu.Unlock()

	out := &domain.Channel{
		Kind:  domain.ChannelKindOf(ch.Type),
		ID:    ch.ID,
		Name:  ch.Name,
		Topic: ch.Topic,
	}

	if out.Kind == domain.KindDirect {
		if len(ch.Recipients) > 0 {
			out.Recipient = ch.Recipients[0]
		}
		return out, nil
	}

	if guild, err := c.guild(ctx, ch.GuildID); err == nil {
		out.Guild = &domain.Guild{ID: guild.ID, Name: guild.Name, Icon: guild.Icon}
	} else {
		c.logger.Warn("guild lookup failed", "guild_id", ch.GuildID, "err", err)
	}

	if out.Kind == domain.KindThread && ch.ParentID != "" {
		if parent, err := c.rawChannel(ctx, ch.ParentID); err == nil {
			out.Parent = &domain.Channel{
				Kind:  domain.ChannelKindOf(parent.Type),
				ID:    parent.ID,
				Name:  parent.Name,
				Topic: parent.Topic,
				Guild: out.Guild,
			}
		}
	}

	return out, nil
}

// Messages walks the channel history backwards in pages and returns up to
// limit messages (0 means everything), oldest first, converted for the
// renderer.
func (c *Client) Messages(ctx context.Context, channelID string, limit int) ([]*domain.Message, error) {
	var raw []*discordgo.Message
	before := ""
	for {
		n := pageSize
		if limit > 0 && limit-len(raw) < n {
			n = limit - len(raw)
		}
		if n <= 0 {
			break
		}

		page, err := c.session.ChannelMessages(channelID, n, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch messages of %s: %w", channelID, err)
		}
		raw = append(raw, page...)
		if len(page) < n {
			break
		}
		before = page[len(page)-1].ID
	}

	// The API returns newest first.
	out := make([]*domain.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		out = append(out, c.convert(ctx, raw[i], true))
	}
	c.logger.Info("fetched channel history", "channel_id", channelID, "messages", len(out))
	return out, nil
}

// convert maps an API message onto the render model. withThread controls
// whether a started thread is hydrated with its last message; nested
// conversions never recurse into threads.
func (c *Client) convert(ctx context.Context, m *discordgo.Message, withThread bool) *domain.Message {
	if m == nil {
		return nil
	}

	out := &domain.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		Type:        m.Type,
		Author:      m.Author,
		Member:      m.Member,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
		EditedAt:    m.EditedTimestamp,
		Attachments: m.Attachments,
		Embeds:      m.Embeds,
		Reactions:   m.Reactions,
	}

	if out.Member == nil && m.Author != nil {
		out.Member = c.member(ctx, m.Author)
	}

	if m.MessageReference != nil {
		out.Reference = &domain.Reference{
			MessageID: m.MessageReference.MessageID,
			Message:   c.convert(ctx, m.ReferencedMessage, false),
		}
	}

	if m.Interaction != nil && m.Interaction.User != nil {
		out.Interaction = &domain.Interaction{
			Name: m.Interaction.Name,
			User: m.Interaction.User,
		}
	}

	if withThread && m.Thread != nil {
		thread := &domain.Thread{ID: m.Thread.ID, Name: m.Thread.Name}
		if m.Thread.LastMessageID != "" {
			last, err := c.session.ChannelMessage(m.Thread.ID, m.Thread.LastMessageID, discordgo.WithContext(ctx))
			if err != nil {
				c.logger.Warn("thread last message lookup failed", "thread_id", m.Thread.ID, "err", err)
			} else {
				thread.LastMessage = c.convert(ctx, last, false)
			}
		}
		out.Thread = thread
	}

	return out
}

// Resolvers returns the ID lookup callbacks the renderer needs. Lookup
// failures degrade to misses; the renderer shows placeholders for those.
func (c *Client) Resolvers() domain.Resolvers {
	return domain.Resolvers{
		Channel: func(ctx context.Context, id string) (*discordgo.Channel, bool) {
			ch, err := c.rawChannel(ctx, id)
			return ch, err == nil && ch != nil
		},
		User: func(ctx context.Context, id string) (*discordgo.User, bool) {
			u := c.user(ctx, id)
			return u, u != nil
		},
		Role: func(ctx context.Context, id string) (*discordgo.Role, bool) {
			r := c.role(ctx, id)
			return r, r != nil
		},
	}
}

func (c *Client) rawChannel(ctx context.Context, id string) (*discordgo.Channel, error) {
	c.mu.Lock()
	if ch, ok := c.channels[id]; ok {
		c.mu.Unlock()
		return ch, nil
	}
	c.mu.Unlock()

	ch, err := c.session.State.Channel(id)
	if err != nil || ch == nil {
		ch, err = c.session.Channel(id, discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.channels[id] = ch
	c.mu.Unlock()
	return ch, nil
}

func (c *Client) guild(ctx context.Context, id string) (*discordgo.Guild, error) {
	if g, err := c.session.State.Guild(id); err == nil && g != nil {
		return g, nil
	}
	return c.session.Guild(id, discordgo.WithContext(ctx))
}

func (c *Client) user(ctx context.Context, id string) *discordgo.User {
	c.mu.Lock()
	if u, ok := c.users[id]; ok {
		c.mu.Unlock()
		return u
	}
	c.mu.Unlock()

	u, err := c.session.User(id, discordgo.WithContext(ctx))
	if err != nil {
		c.logger.Debug("user lookup failed", "user_id", id, "err", err)
		u = nil
	}

	c.mu.Lock()
	c.users[id] = u
	c.mu.Unlock()
	return u
}

func (c *Client) member(ctx context.Context, author *discordgo.User) *discordgo.Member {
	c.mu.Lock()
	guildID := c.guildID
	if m, ok := c.members[author.ID]; ok {
		c.mu.Unlock()
		return m
	}
	c.mu.Unlock()

	if guildID == "" {
		return nil
	}

	m, err := c.session.State.Member(guildID, author.ID)
	if err != nil || m == nil {
		m, err = c.session.GuildMember(guildID, author.ID, discordgo.WithContext(ctx))
		if err != nil {
			c.logger.Debug("member lookup failed", "user_id", author.ID, "err", err)
			m = nil
		}
	}
	if m != nil {
		if m.User == nil {
			m.User = author
		}
		if m.GuildID == "" {
			m.GuildID = guildID
		}
	}

	c.mu.Lock()
	c.members[author.ID] = m
	c.mu.Unlock()
	return m
}

// role loads the guild's role list once and serves lookups from it.
func (c *Client) role(ctx context.Context, id string) *discordgo.Role {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rolesLoaded && c.guildID != "" {
		roles, err := c.session.GuildRoles(c.guildID, discordgo.WithContext(ctx))
		if err != nil {
			c.logger.Debug("role list fetch failed", "guild_id", c.guildID, "err", err)
		} else {
			for _, r := range roles {
				c.roles[r.ID] = r
			}
			c.rolesLoaded = true
		}
	}
	return c.roles[id]
}
