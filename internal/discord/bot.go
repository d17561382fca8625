package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/moonlit/verifybot/internal/broadcast"
	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	emailCommand = "!email"
	codeCommand  = "!code"
)

// Bot wires the Discord session to the verification service and the
// broadcaster: DM commands, slash commands, and the verify button.
type Bot struct {
	session      *discordgo.Session
	services     *service.Services
	broadcaster  *broadcast.Broadcaster
	config       config.DiscordConfig
	verification config.VerificationConfig
	logger       *zap.SugaredLogger
}

func NewBot(
	session *discordgo.Session,
	services *service.Services,
	broadcaster *broadcast.Broadcaster,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) *Bot {
	bot := &Bot{
		session:      session,
		services:     services,
		broadcaster:  broadcaster,
		config:       cfg.Discord,
		verification: cfg.Verification,
		logger:       logger,
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	return bot
}

// Start opens the gateway connection and registers the guild slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session failed: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("register commands failed: %w", err)
	}

	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Infow("bot online", "username", r.User.Username)
}

// onMessageCreate routes the DM text commands. Anything else in a DM is
// ignored; guild messages are never handled here.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID != "" || m.Author == nil || m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	switch {
	case strings.HasPrefix(content, emailCommand+" "):
		b.handleEmail(s, m, strings.TrimSpace(strings.TrimPrefix(content, emailCommand)))
	case strings.HasPrefix(content, codeCommand+" "):
		b.handleCode(s, m, strings.TrimSpace(strings.TrimPrefix(content, codeCommand)))
	}
}

func (b *Bot) handleEmail(s *discordgo.Session, m *discordgo.MessageCreate, address string) {
	ctx, cancel := b.operationContext()
	defer cancel()

	expiresIn, err := b.services.Verifications.RequestVerification(ctx, m.Author.ID, address)
	if err != nil {
		b.logUnexpected("request verification failed", m.Author.ID, err)
		b.reply(s, m.ChannelID, errorReply(err))
		return
	}

	b.reply(s, m.ChannelID, requestAcceptedReply(address, expiresIn))
}

func (b *Bot) handleCode(s *discordgo.Session, m *discordgo.MessageCreate, code string) {
	ctx, cancel := b.operationContext()
	defer cancel()

	if err := b.services.Verifications.ConfirmCode(ctx, m.Author.ID, code); err != nil {
		b.logUnexpected("confirm code failed", m.Author.ID, err)
		b.reply(s, m.ChannelID, errorReply(err))
		return
	}

	b.reply(s, m.ChannelID, verifiedReply(b.config.VerifiedRoleName))
}

func (b *Bot) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.verification.OperationTimeout)
}

func (b *Bot) reply(s *discordgo.Session, channelID string, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Errorw("send reply failed", "channel_id", channelID, "error", err)
	}
}

// logUnexpected records failures that are not part of the user-facing error
// taxonomy. Known failures already produce a specific reply and need no log.
func (b *Bot) logUnexpected(msg string, userID string, err error) {
	if errorReply(err) != replyUnexpected {
		return
	}

	b.logger.Errorw(msg, "user_id", userID, "error", err)
}
