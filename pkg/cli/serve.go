package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/kanbot/pkg/cli/config"
	httpctrl "github.com/secmon-lab/kanbot/pkg/controller/http"
	"github.com/secmon-lab/kanbot/pkg/service/eventbus"
	"github.com/secmon-lab/kanbot/pkg/service/notify"
	"github.com/secmon-lab/kanbot/pkg/service/session"
	"github.com/secmon-lab/kanbot/pkg/service/telegram"
	"github.com/secmon-lab/kanbot/pkg/service/worker"
	"github.com/secmon-lab/kanbot/pkg/usecase"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var telegramCfg config.Telegram
	var boardCfg config.Board

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KANBOT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, telegramCfg.Flags()...)
	flags = append(flags, boardCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and Telegram bridge",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			defaultColumns, err := boardCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load board configuration")
			}

			sessions := session.New()
			defer sessions.Close()

			bus := eventbus.New()

			ucOpts := []usecase.Option{
				usecase.WithBroadcaster(bus),
				usecase.WithDefaultColumns(defaultColumns),
			}

			// The bot bridge is optional: without a token the server still
			// runs, only chat linking, notifications and reminders are
			// unavailable.
			var gateway *telegram.Gateway
			var reminder *worker.DueReminderWorker
			if telegramCfg.IsConfigured() {
				gw, err := telegram.New(ctx, telegramCfg.BotToken(), repo, sessions, bus)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize telegram gateway")
				}
				gateway = gw
				reminder = worker.NewDueReminderWorker(repo, gw, time.Minute, time.Hour)
				ucOpts = append(ucOpts, usecase.WithNotifier(notify.New(repo, gw)))
				logging.Default().Info("Telegram bridge enabled")
			} else {
				logging.Default().Info("Telegram bot token not configured, bot bridge disabled")
			}

			uc := usecase.New(repo, sessions, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, bus),
				ReadHeaderTimeout: 30 * time.Second,
			}

			if gateway != nil {
				gateway.Start(ctx)
				reminder.Start(ctx)
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if gateway != nil {
					reminder.Stop()
					gateway.Stop()
				}
				return err

			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the poller first so no new conversations arrive while
				// the HTTP side drains
				if gateway != nil {
					reminder.Stop()
					gateway.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
