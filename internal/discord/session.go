package discord

import (
	"fmt"

	"github.com/moonlit/verifybot/internal/config"

	"github.com/bwmarrin/discordgo"
)

// NewSession builds the gateway session with the intents the bot needs:
// guild/member tracking for membership lookups, message content for the DM
// commands.
func NewSession(cfg config.DiscordConfig) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session failed: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	session.State.TrackMembers = true

	return session, nil
}
