package config

import (
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string `env:"ENV" env-required:"true"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer   HttpServer
	Database     Database
	Limiter      Limiter
	Discord      DiscordConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
	Broadcast    BroadcastConfig
}

type HttpServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"10"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"10"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type DiscordConfig struct {
	Token            string `env:"DISCORD_TOKEN" env-required:"true"`
	ApplicationID    string `env:"DISCORD_CLIENT_ID" env-required:"true"`
	GuildID          string `env:"DISCORD_GUILD_ID" env-required:"true"`
	CreatorID        string `env:"DISCORD_CREATOR_ID" env-default:"" env-description:"the only user allowed to run broadcast commands"`
	VerifiedRoleName string `env:"DISCORD_VERIFIED_ROLE" env-default:"Verified Member"`
	TicketCategory   string `env:"DISCORD_TICKET_CATEGORY" env-default:"Verification"`
}

type SMTPConfig struct {
	Provider string `env:"SMTP_PROVIDER" env-default:"gmail" env-description:"one of gmail/outlook/yahoo/custom"`
	Host     string `env:"SMTP_HOST" env-default:""`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER" env-required:"true"`
	Pass     string `env:"SMTP_PASS" env-required:"true"`
	From     string `env:"FROM_EMAIL" env-required:"true"`
}

type VerificationConfig struct {
	CodeExpiry       time.Duration `env:"CODE_EXPIRE_WINDOW" env-default:"10m"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" env-default:"15s" env-description:"bound on each external call: store, mail, role grant"`
}

type BroadcastConfig struct {
	Repeats          int           `env:"BROADCAST_REPEATS" env-default:"5"`
	MessagesPerSec   int           `env:"BROADCAST_MESSAGES_PER_SEC" env-default:"2"`
	MaxMessageLength int           `env:"BROADCAST_MAX_MESSAGE_LENGTH" env-default:"1900"`
	Cooldown         time.Duration `env:"BROADCAST_COOLDOWN" env-default:"100ms"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	resolveSMTPProvider(&cfg.SMTP)

	return &cfg
}

// resolveSMTPProvider fills host and port from the well-known relays unless a
// custom relay is configured explicitly.
func resolveSMTPProvider(cfg *SMTPConfig) {
	switch strings.ToLower(cfg.Provider) {
	case "gmail":
		cfg.Host = "smtp.gmail.com"
		cfg.Port = 587
	case "outlook":
		cfg.Host = "smtp.office365.com"
		cfg.Port = 587
	case "yahoo":
		cfg.Host = "smtp.mail.yahoo.com"
		cfg.Port = 587
	case "custom":
		// keep SMTP_HOST / SMTP_PORT as given
	default:
		cfg.Host = "smtp.gmail.com"
		cfg.Port = 587
	}
}
