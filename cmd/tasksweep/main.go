// Command tasksweep polls the configured lists and moves checked items
// from each low-priority list onto its primary list. It takes no flags:
// first run triggers interactive setup, after which it loops until
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"tasksweep/internal/authflow"
	"tasksweep/internal/backend/googletasks"
	"tasksweep/internal/cache"
	"tasksweep/internal/config"
	"tasksweep/internal/exitcode"
	"tasksweep/internal/logger"
	"tasksweep/internal/migrate"
	"tasksweep/internal/poller"
	"tasksweep/internal/secret"
	"tasksweep/internal/service"
	"tasksweep/internal/setup"
	"tasksweep/internal/tray"
)

const (
	// intervalEnv overrides the poll interval (a Go duration).
	intervalEnv = "TASKSWEEP_POLL_INTERVAL"

	// oauthClientFile, if present in the config dir, enables token
	// refresh. Without it the stored access token is used as-is.
	oauthClientFile = "oauth_client.json"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; ignore its absence.
	_ = godotenv.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if err := logger.Init(logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid LOG_LEVEL: %v\n", err)
		return exitcode.ConfigError
	}

	// Cancel on interrupt. The tray quit action shares the same cancel.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg := config.New("")

	prompter := setup.NewTerminalPrompter()

	settings, err := cfg.LoadSettings()
	switch {
	case err == nil:
		logger.Info("loaded settings", logger.Fields{
			"username":  settings.Username,
			"list_sets": len(settings.ListSets),
		})
	case errors.Is(err, fs.ErrNotExist):
		fmt.Println("First run: no settings found, starting setup.")
		settings, err = setup.FirstRun(prompter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: setup failed: %v\n", err)
			return exitcode.ConfigError
		}
		if err := cfg.SaveSettings(settings); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitcode.ConfigError
		}
		fmt.Printf("Settings written to %s\n", cfg.SettingsPath())
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitcode.ConfigError
	}

	store := secret.NewFileStore(cfg.Dir)
	token, err := secret.GetToken(ctx, store, settings.Username, prompter, func(ctx context.Context, tok *oauth2.Token) error {
		client, err := googletasks.New(ctx, tokenSource(ctx, cfg, tok))
		if err != nil {
			return err
		}
		_, err = client.Lists(ctx)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitcode.AuthError
	}

	client, err := googletasks.New(ctx, tokenSource(ctx, cfg, token))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitcode.AuthError
	}

	noteCache := cache.New(client)
	engine := migrate.NewEngine(client, noteCache)
	p := poller.New(engine, noteCache, settings, pollInterval())

	trayCtl := tray.New()
	trayCtl.Start(cancel)
	defer trayCtl.Stop()

	if err := p.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, service.ErrAuth) {
			return exitcode.AuthError
		}
		return exitcode.ConfigError
	}
	return exitcode.Success
}

// tokenSource wraps the stored token. With oauth_client.json present the
// token refreshes automatically; otherwise the access token is used
// directly and expires on the service's schedule.
func tokenSource(ctx context.Context, cfg *config.Config, token *oauth2.Token) oauth2.TokenSource {
	clientJSON, err := os.ReadFile(filepath.Join(cfg.Dir, oauthClientFile))
	if err == nil {
		if oc, err := authflow.ParseClient(clientJSON); err == nil {
			return oc.TokenSource(ctx, token)
		}
	}
	return oauth2.StaticTokenSource(token)
}

func pollInterval() time.Duration {
	raw := os.Getenv(intervalEnv)
	if raw == "" {
		return poller.DefaultInterval
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		logger.Warn("ignoring invalid poll interval", err, logger.Fields{
			"value": raw,
		})
		return poller.DefaultInterval
	}
	return interval
}
