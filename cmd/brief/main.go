// Command brief asks a question and streams the answer to the terminal.
//
// Usage:
//
//	COZE_API_TOKEN=... COZE_BOT_ID=... BRIEF_USER_ID=u_42 brief [flags] [question]
//	GEMINI_API_KEY=...                  BRIEF_USER_ID=u_42 brief [flags] [question]
//
// Without -q the interactive TUI starts, asking question first if given.
//
// Flags:
//
//	-q string         Ask once, print the answer to stdout and exit
//	-config string    Path to TOML config file (default: ~/.brief/config.toml)
//	-provider string  Provider: coze, gemini (auto-detected from credentials if omitted)
//	-user string      Subject the question is asked on behalf of
//	-bot string       Coze bot ID
//	-base-url string  Coze API base URL
//	-api-key string   API key (overrides the selected provider's env var)
//	-model string     Gemini model ID
//	-log string       Write logs to this file
//	-no-save          Do not save transcripts
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fwojciec/brief"
	bt "github.com/fwojciec/brief/bubbletea"
	briefjson "github.com/fwojciec/brief/json"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "brief: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		question   = flag.String("q", "", "Ask once, print the answer to stdout and exit")
		configPath = flag.String("config", "", "Path to TOML config file (default: ~/.brief/config.toml)")
		noSave     = flag.Bool("no-save", false, "Do not save transcripts")
		o          overrides
	)
	flag.StringVar(&o.Provider, "provider", "", "Provider: coze, gemini (auto-detected from credentials if omitted)")
	flag.StringVar(&o.UserID, "user", "", "Subject the question is asked on behalf of")
	flag.StringVar(&o.BotID, "bot", "", "Coze bot ID")
	flag.StringVar(&o.BaseURL, "base-url", "", "Coze API base URL")
	flag.StringVar(&o.APIKey, "api-key", "", "API key (overrides the selected provider's env var)")
	flag.StringVar(&o.Model, "model", "", "Gemini model ID")
	flag.StringVar(&o.LogFile, "log", "", "Write logs to this file")
	flag.Parse()

	// A missing .env file is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	path := *configPath
	if path == "" {
		path = defaultConfigPath(home)
	}
	fileCfg, err := loadConfig(path, *configPath != "")
	if err != nil {
		return err
	}
	cfg := resolve(fileCfg, environ{
		CozeToken:   os.Getenv("COZE_API_TOKEN"),
		CozeBotID:   os.Getenv("COZE_BOT_ID"),
		CozeBaseURL: os.Getenv("COZE_BASE_URL"),
		UserID:      os.Getenv("BRIEF_USER_ID"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		Provider:    os.Getenv("BRIEF_PROVIDER"),
	}, o)
	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = defaultTranscriptDir(home)
	}

	var logger *slog.Logger
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	provider, err := resolveProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var opts []brief.Option
	if logger != nil {
		opts = append(opts, brief.WithLogger(logger))
	}

	var save func(brief.Snapshot) error
	if !*noSave {
		dir := cfg.TranscriptDir
		save = func(s brief.Snapshot) error {
			return briefjson.Save(transcriptPath(dir, s.SessionID), s)
		}
	}

	if *question != "" {
		snap, err := ask(ctx, provider, cfg.UserID, *question, os.Stdout, opts...)
		if err != nil {
			return err
		}
		if save != nil {
			if err := save(snap); err != nil {
				return fmt.Errorf("save transcript: %w", err)
			}
		}
		return outcome(snap)
	}

	mailbox := bt.NewMailbox()
	ctl := brief.New(provider, append(opts, brief.WithObserver(mailbox.Observe))...)
	var tuiOpts []bt.Option
	if initial := strings.TrimSpace(strings.Join(flag.Args(), " ")); initial != "" {
		tuiOpts = append(tuiOpts, bt.WithInitialQuery(initial))
	}
	if save != nil {
		tuiOpts = append(tuiOpts, bt.WithSaver(save))
	}
	m := bt.New(ctl, mailbox, cfg.UserID, brief.DefaultTheme(), tuiOpts...)

	err = bt.Run(ctx, m)
	ctl.Cancel()
	ctl.Wait()
	if err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func transcriptPath(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".json")
}
