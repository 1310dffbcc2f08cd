package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	providerCoze   = "coze"
	providerGemini = "gemini"
)

// config is the resolved CLI configuration. Field tags name the keys of the
// optional TOML config file.
type config struct {
	Provider      string       `toml:"provider"`
	UserID        string       `toml:"user_id"`
	LogFile       string       `toml:"log_file"`
	TranscriptDir string       `toml:"transcript_dir"`
	Coze          cozeConfig   `toml:"coze"`
	Gemini        geminiConfig `toml:"gemini"`
}

type cozeConfig struct {
	Token   string `toml:"token"`
	BotID   string `toml:"bot_id"`
	BaseURL string `toml:"base_url"`
}

type geminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// environ holds the environment variables the CLI reads. Env is only read
// in main() and passed down as values.
type environ struct {
	CozeToken   string // COZE_API_TOKEN
	CozeBotID   string // COZE_BOT_ID
	CozeBaseURL string // COZE_BASE_URL
	UserID      string // BRIEF_USER_ID
	GeminiKey   string // GEMINI_API_KEY
	Provider    string // BRIEF_PROVIDER
}

// overrides holds flag values. Empty strings mean the flag was not set.
type overrides struct {
	Provider string
	UserID   string
	BotID    string
	BaseURL  string
	APIKey   string
	Model    string
	LogFile  string
}

func defaultConfigPath(home string) string {
	return filepath.Join(home, ".brief", "config.toml")
}

func defaultTranscriptDir(home string) string {
	return filepath.Join(home, ".brief", "transcripts")
}

// loadConfig reads the TOML file at path. A missing file is an error only
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (config, error) {
	var cfg config
	_, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return config{}, nil
	default:
		return config{}, fmt.Errorf("read config %s: %w", path, err)
	}
}

// resolve layers env and flags over the file config. Flags win over env,
// env wins over the file.
func resolve(cfg config, env environ, o overrides) config {
	set(&cfg.Provider, env.Provider, o.Provider)
	set(&cfg.UserID, env.UserID, o.UserID)
	set(&cfg.LogFile, o.LogFile)
	set(&cfg.Coze.Token, env.CozeToken)
	set(&cfg.Coze.BotID, env.CozeBotID, o.BotID)
	set(&cfg.Coze.BaseURL, env.CozeBaseURL, o.BaseURL)
	set(&cfg.Gemini.APIKey, env.GeminiKey)
	set(&cfg.Gemini.Model, o.Model)

	// -api-key applies to whichever provider ends up selected.
	if o.APIKey != "" {
		switch cfg.Provider {
		case providerGemini:
			cfg.Gemini.APIKey = o.APIKey
		default:
			cfg.Coze.Token = o.APIKey
		}
	}
	return cfg
}

// set assigns each non-empty value to dst in order, so the last non-empty
// value wins.
func set(dst *string, values ...string) {
	for _, v := range values {
		if v != "" {
			*dst = v
		}
	}
}
