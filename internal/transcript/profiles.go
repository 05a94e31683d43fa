package transcript

import (
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// buildProfiles scans the message list once and derives the profile
// directory embedded into the document. Exactly one entry per author ID;
// thread starters overwrite earlier entries so the thread-side identity
// wins (display names and roles can change between the parent message and
// thread activity). This stage never fails: every field degrades to its
// zero value instead.
func buildProfiles(ctx context.Context, o *Options) map[string]domain.Profile {
	profiles := make(map[string]domain.Profile)

	for _, m := range o.Messages {
		if m.Author != nil {
			if _, ok := profiles[m.Author.ID]; !ok {
				profiles[m.Author.ID] = buildProfile(ctx, m.Member, m.Author, o)
			}
		}

		// Slash-command invokers carry no member context, so the guild
		// fields stay absent for them.
		if m.Interaction != nil && m.Interaction.User != nil {
			if _, ok := profiles[m.Interaction.User.ID]; !ok {
				profiles[m.Interaction.User.ID] = buildProfile(ctx, nil, m.Interaction.User, o)
			}
		}

		if m.Thread != nil && m.Thread.LastMessage != nil && m.Thread.LastMessage.Author != nil {
			last := m.Thread.LastMessage
			profiles[last.Author.ID] = buildProfile(ctx, last.Member, last.Author, o)
		}
	}

	return profiles
}

func buildProfile(ctx context.Context, member *discordgo.Member, author *discordgo.User, o *Options) domain.Profile {
	p := domain.Profile{
		Author:   displayName(member, author),
		Avatar:   avatarURL(member, author, o),
		Bot:      author.Bot,
		Verified: author.PublicFlags&discordgo.UserFlagVerifiedBot != 0,
	}

	if member == nil {
		return p
	}

	roles := resolveMemberRoles(ctx, member, o)

	if color := displayColor(roles); color != 0 {
		p.RoleColor = fmt.Sprintf("#%06x", color)
	}

	if hoisted := hoistedRole(roles); hoisted != nil {
		p.RoleName = hoisted.Name
		if hoisted.Icon != "" {
			if o.CustomRoleIconURL != "" {
				p.RoleIcon = expandURLTemplate(o.CustomRoleIconURL,
					"[guildId]", member.GuildID,
					"[roleId]", hoisted.ID,
					"[roleIcon]", hoisted.Icon,
				)
			} else {
				p.RoleIcon = discordgo.EndpointRoleIcon(hoisted.ID, hoisted.Icon)
			}
		}
	}

	return p
}

// displayName picks the first non-empty of nickname, global display name,
// username.
func displayName(member *discordgo.Member, author *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if author.GlobalName != "" {
		return author.GlobalName
	}
	return author.Username
}

func avatarURL(member *discordgo.Member, author *discordgo.User, o *Options) string {
	if o.CustomAvatarURL != "" {
		hash := author.Avatar
		if hash == "" {
			hash = "null"
		}
		return expandURLTemplate(o.CustomAvatarURL, "[userId]", author.ID, "[userAvatar]", hash)
	}
	if member != nil && member.Avatar != "" {
		// Member.AvatarURL needs the user attached to build the path.
		withUser := *member
		if withUser.User == nil {
			withUser.User = author
		}
		return withUser.AvatarURL("64")
	}
	return author.AvatarURL("64")
}

// resolveMemberRoles resolves the member's role IDs and returns the hits
// sorted by position, highest first. Misses are simply skipped.
func resolveMemberRoles(ctx context.Context, member *discordgo.Member, o *Options) []*discordgo.Role {
	var roles []*discordgo.Role
	for _, id := range member.Roles {
		if role, ok := o.Resolvers.Role(ctx, id); ok && role != nil {
			roles = append(roles, role)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position > roles[j].Position
	})
	return roles
}

// displayColor returns the color of the highest role with a custom color.
// Zero means no custom color anywhere; pure black is the upstream "no
// color" sentinel.
func displayColor(roles []*discordgo.Role) int {
	for _, role := range roles {
		if role.Color != 0 {
			return role.Color
		}
	}
	return 0
}

// hoistedRole returns the highest role displayed separately, or nil.
func hoistedRole(roles []*discordgo.Role) *discordgo.Role {
	for _, role := range roles {
		if role.Hoist {
			return role
		}
	}
	return nil
}
