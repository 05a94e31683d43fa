package domain

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Message is one unit of a transcript, fully populated by the upstream
// source before rendering starts. The pipeline only reads it.
type Message struct {
	ID        string
	ChannelID string
	Type      discordgo.MessageType

	Author *discordgo.User
	Member *discordgo.Member // nil outside guilds or when unknown

	Content   string
	Timestamp time.Time
	EditedAt  *time.Time

	Attachments []*discordgo.MessageAttachment
	Embeds      []*discordgo.MessageEmbed
	Reactions   []*discordgo.MessageReactions

	Reference   *Reference   // set when the message is a reply
	Interaction *Interaction // set when the message answers a slash command
	Thread      *Thread      // set when the message started a thread
}

// Reference points at the message being replied to. Message is nil when
// the referenced message was deleted.
type Reference struct {
	MessageID string
	Message   *Message
}

// Interaction carries the user that invoked the slash command a message
// responds to. No member context is available for invokers.
type Interaction struct {
	Name string
	User *discordgo.User
}

// Thread describes a thread started from a message. LastMessage is nil
// when the thread is empty or its last message could not be fetched.
type Thread struct {
	ID          string
	Name        string
	LastMessage *Message
}
