package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

const (
	verifyCommandName    = "verify"
	broadcastCommandName = "broadcast"

	verifyButtonID = "verify-start"
)

// registerCommands bulk-overwrites the guild slash commands so removed ones
// disappear on restart.
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        verifyCommandName,
			Description: "Post the public verification button (admins only)",
		},
		{
			Name:        broadcastCommandName,
			Description: "Repeat a message into this channel (bot owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Text to broadcast",
					Required:    true,
				},
			},
		},
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(b.config.ApplicationID, b.config.GuildID, commands)

	return err
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case verifyCommandName:
			b.handleVerifyCommand(s, i)
		case broadcastCommandName:
			b.handleBroadcastCommand(s, i)
		}
	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID == verifyButtonID {
			b.handleVerifyButton(s, i)
		}
	}
}

// handleVerifyCommand posts the public "start verification" button into the
// invoking channel. Requires the Manage Server permission.
func (b *Bot) handleVerifyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		b.respondEphemeral(s, i, "❌ This command only works inside a server.")
		return
	}

	if i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		b.respondEphemeral(s, i, "❌ You don't have permission to use this command.")
		return
	}

	_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content: "Press \"📩 Start verification\" below to begin (a private channel will be created for you).",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "📩 Start verification",
						Style:    discordgo.SuccessButton,
						CustomID: verifyButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Errorw("post verify button failed", "channel_id", i.ChannelID, "error", err)
		b.respondEphemeral(s, i, replyUnexpected)
		return
	}

	b.respondEphemeral(s, i, "✅ Verification button posted.")
}

// handleBroadcastCommand repeats the given message into the invoking channel.
// Restricted to the configured creator, gated by the cooldown.
func (b *Bot) handleBroadcastCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	if b.config.CreatorID == "" || userID != b.config.CreatorID {
		b.respondEphemeral(s, i, "❌ You don't have permission to use this command.")
		return
	}

	if !b.broadcaster.TryAcquire(userID, broadcastCommandName) {
		b.respondEphemeral(s, i, "🕒 Please wait before using this again.")
		return
	}

	message := i.ApplicationCommandData().Options[0].StringValue()
	channelID := i.ChannelID

	b.respondEphemeral(s, i, "🚀 Broadcasting...")

	go func() {
		err := b.broadcaster.Run(context.Background(), message, func(content string) error {
			_, sendErr := s.ChannelMessageSend(channelID, content)
			return sendErr
		})
		if err != nil {
			b.logger.Errorw("broadcast failed", "channel_id", channelID, "error", err)
		}
	}()
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Errorw("interaction respond failed", "error", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}

	return ""
}
