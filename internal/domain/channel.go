package domain

import "github.com/bwmarrin/discordgo"

// ChannelKind tags the channel variants the renderer distinguishes.
// Header layout and labels dispatch on this tag.
type ChannelKind int

const (
	KindDirect ChannelKind = iota
	KindGuildText
	KindVoiceText
	KindCategory
	KindThread
	KindForum
)

// Channel is the rendered channel. Field presence depends on Kind:
// Recipient is set for direct channels only, Parent for threads only,
// Guild for everything except direct channels.
type Channel struct {
	Kind  ChannelKind
	ID    string
	Name  string
	Topic string

	Recipient *discordgo.User
	Parent    *Channel
	Guild     *Guild
}

// Guild is the minimal server context the renderer needs.
type Guild struct {
	ID   string
	Name string
	Icon string
}

// ChannelKindOf maps a discordgo channel type onto the renderer's tag.
func ChannelKindOf(t discordgo.ChannelType) ChannelKind {
	switch t {
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return KindDirect
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return KindVoiceText
	case discordgo.ChannelTypeGuildCategory:
		return KindCategory
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
		return KindThread
	case discordgo.ChannelTypeGuildForum:
		return KindForum
	default:
		return KindGuildText
	}
}
