package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/moonlit/verifybot/internal/api/http"
	"github.com/moonlit/verifybot/internal/broadcast"
	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/internal/db"
	"github.com/moonlit/verifybot/internal/discord"
	"github.com/moonlit/verifybot/internal/repository"
	"github.com/moonlit/verifybot/internal/server"
	"github.com/moonlit/verifybot/internal/service"
	"github.com/moonlit/verifybot/pkg/email/smtp"
	"github.com/moonlit/verifybot/pkg/hash"
	"github.com/moonlit/verifybot/pkg/logger"
	"github.com/moonlit/verifybot/pkg/otp"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env)

	appLogger.Infow("starting verification bot", "env", cfg.Env)
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("mysql connect problem", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Errorw("error when closing", "error", err)
		}
	}()
	appLogger.Info("mysql connection done")

	if err := db.Bootstrap(dbMySQL); err != nil {
		appLogger.Errorw("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	hasher := hash.NewSHA256Hasher()
	codeGenerator := otp.NewCodeGenerator()

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Errorw("smtp sender creation failed", "error", err)
		return
	}

	// Discord session & guild gateway
	session, err := discord.NewSession(cfg.Discord)
	if err != nil {
		appLogger.Errorw("discord session creation failed", "error", err)
		return
	}
	guilds := discord.NewGateway(session, cfg.Discord.VerifiedRoleName, appLogger)

	// Services, Repos & Bot
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Logger:        appLogger,
		Config:        cfg,
		Hasher:        hasher,
		CodeGenerator: codeGenerator,
		EmailSender:   emailSender,
		Repos:         repos,
		Guilds:        guilds,
	})

	broadcaster := broadcast.New(cfg.Broadcast, appLogger)

	bot := discord.NewBot(session, services, broadcaster, cfg, appLogger)
	if err := bot.Start(); err != nil {
		appLogger.Errorw("bot start failed", "error", err)
		return
	}
	defer func() {
		if err := bot.Stop(); err != nil {
			appLogger.Errorw("bot stop failed", "error", err)
		}
	}()
	appLogger.Info("bot started")

	// Keep-alive HTTP Server
	srv := server.NewServer(cfg, apiHttp.NewHandler().Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("error occurred while running http server", "error", err)
		}
	}()
	appLogger.Info("keep-alive server started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Errorw("failed to stop server", "error", err)
	}

	appLogger.Info("app stopped")
}
