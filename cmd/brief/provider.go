package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/coze"
	"github.com/fwojciec/brief/gemini"
)

// resolveProvider selects and constructs the provider from cfg. When no
// provider is named it is inferred from which credentials are present.
// A nil logger keeps the provider's default.
func resolveProvider(ctx context.Context, cfg config, logger *slog.Logger) (brief.Provider, error) {
	provider := cfg.Provider
	if provider == "" {
		hasCoze := cfg.Coze.Token != ""
		hasGemini := cfg.Gemini.APIKey != ""
		switch {
		case hasCoze && hasGemini:
			return nil, fmt.Errorf("multiple API keys found (COZE_API_TOKEN, GEMINI_API_KEY): use -provider flag to select")
		case hasCoze:
			provider = providerCoze
		case hasGemini:
			provider = providerGemini
		default:
			return nil, fmt.Errorf("no API key found: set COZE_API_TOKEN or GEMINI_API_KEY (or use -provider and -api-key flags)")
		}
	}

	switch provider {
	case providerCoze:
		if cfg.Coze.Token == "" {
			return nil, fmt.Errorf("COZE_API_TOKEN not set (use -api-key flag, environment variable or config file)")
		}
		if cfg.Coze.BotID == "" {
			return nil, fmt.Errorf("COZE_BOT_ID not set (use -bot flag, environment variable or config file)")
		}
		var opts []coze.Option
		if cfg.Coze.BaseURL != "" {
			opts = append(opts, coze.WithBaseURL(cfg.Coze.BaseURL))
		}
		if logger != nil {
			opts = append(opts, coze.WithLogger(logger))
		}
		return coze.New(cfg.Coze.Token, cfg.Coze.BotID, opts...), nil
	case providerGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag, environment variable or config file)")
		}
		var opts []gemini.Option
		if cfg.Gemini.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Gemini.Model))
		}
		client, err := gemini.New(ctx, cfg.Gemini.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be %q or %q", provider, providerCoze, providerGemini)
	}
}
