package config

import (
	"github.com/urfave/cli/v3"
)

// Telegram holds CLI flags for the Telegram bot bridge
type Telegram struct {
	botToken string
}

// Flags returns CLI flags for Telegram configuration
func (x *Telegram) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "telegram-bot-token",
			Usage:       "Telegram bot token. When absent the bot bridge is disabled",
			Sources:     cli.EnvVars("KANBOT_TELEGRAM_BOT_TOKEN"),
			Destination: &x.botToken,
		},
	}
}

// IsConfigured reports whether a bot token is set
func (x *Telegram) IsConfigured() bool {
	return x.botToken != ""
}

// BotToken returns the configured bot token
func (x *Telegram) BotToken() string {
	return x.botToken
}
