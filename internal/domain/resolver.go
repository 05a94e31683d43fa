package domain

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Resolvers are the caller-supplied ID lookups used to fill in mention and
// role display data. Each returns its object and true on a hit, or false
// when the ID cannot be resolved; a miss is never an error. Implementations
// may block on I/O and must respect ctx.
type Resolvers struct {
	Channel func(ctx context.Context, id string) (*discordgo.Channel, bool)
	User    func(ctx context.Context, id string) (*discordgo.User, bool)
	Role    func(ctx context.Context, id string) (*discordgo.Role, bool)
}
