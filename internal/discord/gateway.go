package discord

import (
	"context"
	"fmt"

	"github.com/moonlit/verifybot/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Gateway adapts the Discord session to the guild operations the verification
// service needs.
type Gateway struct {
	session  *discordgo.Session
	roleName string
	logger   *zap.SugaredLogger
}

func NewGateway(session *discordgo.Session, roleName string, logger *zap.SugaredLogger) *Gateway {
	return &Gateway{
		session:  session,
		roleName: roleName,
		logger:   logger,
	}
}

// SharedGuild returns the first guild the bot shares with the user. The state
// cache is consulted first; a REST fetch covers members the cache missed.
func (g *Gateway) SharedGuild(ctx context.Context, userID string) (string, error) {
	for _, guild := range g.session.State.Guilds {
		if member, err := g.session.State.Member(guild.ID, userID); err == nil && member != nil {
			return guild.ID, nil
		}

		if _, err := g.session.GuildMember(guild.ID, userID, discordgo.WithContext(ctx)); err == nil {
			return guild.ID, nil
		}
	}

	return "", service.ErrNotInGuild
}

// EnsureMember checks current membership. Any fetch failure is treated as
// not-a-member, matching the reply the user gets.
func (g *Gateway) EnsureMember(ctx context.Context, guildID string, userID string) error {
	if member, err := g.session.State.Member(guildID, userID); err == nil && member != nil {
		return nil
	}

	if _, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx)); err != nil {
		g.logger.Debugw("member fetch failed", "guild_id", guildID, "user_id", userID, "error", err)
		return service.ErrNotAMember
	}

	return nil
}

// GrantVerifiedRole reuses an existing role of the configured name, creates it
// when absent, and grants it to the member.
func (g *Gateway) GrantVerifiedRole(ctx context.Context, guildID string, userID string) error {
	roleID, err := g.resolveRole(ctx, guildID)
	if err != nil {
		return err
	}

	if err := g.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add role to member failed: %w", err)
	}

	return nil
}

func (g *Gateway) resolveRole(ctx context.Context, guildID string) (string, error) {
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("list guild roles failed: %w", err)
	}

	for _, role := range roles {
		if role.Name == g.roleName {
			return role.ID, nil
		}
	}

	role, err := g.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name: g.roleName,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create verified role failed: %w", err)
	}

	return role.ID, nil
}
