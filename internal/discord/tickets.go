package discord

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

var channelSlugRegexp = regexp.MustCompile(`[^a-z0-9-]`)

// handleVerifyButton opens a private ticket channel for the pressing user and
// posts the DM instructions there.
func (b *Bot) handleVerifyButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		b.respondEphemeral(s, i, "❌ Please use this button inside a server.")
		return
	}

	user := i.Member.User

	categoryID, err := b.ensureTicketCategory(s, i.GuildID)
	if err != nil {
		b.logger.Errorw("ensure ticket category failed", "guild_id", i.GuildID, "error", err)
		b.respondEphemeral(s, i, replyUnexpected)
		return
	}

	ticket, err := b.createTicketChannel(s, i.GuildID, categoryID, user)
	if err != nil {
		b.logger.Errorw("create ticket channel failed", "guild_id", i.GuildID, "user_id", user.ID, "error", err)
		b.respondEphemeral(s, i, replyUnexpected)
		return
	}

	welcome := fmt.Sprintf("%s 👋 Send me a direct message with `!email your@email.com` to start verification.", user.Mention())
	if _, err := s.ChannelMessageSend(ticket.ID, welcome); err != nil {
		b.logger.Errorw("send ticket welcome failed", "channel_id", ticket.ID, "error", err)
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Your verification channel is ready: <#%s>", ticket.ID))
}

// ensureTicketCategory reuses the configured category when it exists and
// creates it otherwise.
func (b *Bot) ensureTicketCategory(s *discordgo.Session, guildID string) (string, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("list guild channels failed: %w", err)
	}

	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == b.config.TicketCategory {
			return channel.ID, nil
		}
	}

	category, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: b.config.TicketCategory,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("create ticket category failed: %w", err)
	}

	return category.ID, nil
}

// createTicketChannel creates a text channel only the requesting user and the
// bot can see. The everyone role id equals the guild id.
func (b *Bot) createTicketChannel(s *discordgo.Session, guildID string, categoryID string, user *discordgo.User) (*discordgo.Channel, error) {
	memberPerms := int64(discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory)

	return s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ticketChannelName(user.Username),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		Topic:    fmt.Sprintf("Verification channel - %s", user.ID),
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    user.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: memberPerms,
			},
			{
				ID:    s.State.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: memberPerms | int64(discordgo.PermissionManageChannels),
			},
		},
	})
}

// ticketChannelName slugs the username and appends a short random suffix so
// repeated presses never collide.
func ticketChannelName(username string) string {
	slug := channelSlugRegexp.ReplaceAllString(strings.ToLower(username), "")
	if len(slug) > 80 {
		slug = slug[:80]
	}

	return fmt.Sprintf("verify-%s-%s", slug, uuid.NewString()[:8])
}
