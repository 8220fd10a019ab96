package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	provider, err := newProviderFromEnv(ctx)
	if err != nil {
		log.Fatalw("provider configuration", "error", err)
	}

	var generator *Generator
	if provider != nil {
		cfg := DefaultGeneratorConfig()
		if v := os.Getenv("WORDSEARCH_MAX_ATTEMPTS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				log.Fatalw("invalid WORDSEARCH_MAX_ATTEMPTS", "value", v)
			}
			cfg.MaxAttempts = n
		}
		generator = NewGenerator(provider, cfg, log)
		log.Infow("generator ready", "model", provider.ModelID(), "max_attempts", cfg.MaxAttempts)
	} else {
		log.Info("no model provider configured, puzzle generation disabled")
	}

	srv := NewServer(NewStore(), generator, log)

	log.Infow("server listening", "addr", "http://localhost:"+port)
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		log.Fatalw("server", "error", err)
	}
}

// newProviderFromEnv builds the model provider from the environment.
// WORDSEARCH_PROVIDER selects "gemini" or "openai" explicitly; missing
// credentials for an explicit selection is fatal. When unset, the first
// provider with credentials present wins; none at all means the server
// runs with generation disabled.
func newProviderFromEnv(ctx context.Context) (Provider, error) {
	gemini := GeminiConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		ProjectID: os.Getenv("GCP_PROJECT_ID"),
		Region:    os.Getenv("GCP_REGION"),
		Model:     os.Getenv("WORDSEARCH_MODEL"),
	}
	openaiCfg := OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("WORDSEARCH_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}

	switch name := os.Getenv("WORDSEARCH_PROVIDER"); name {
	case "gemini":
		return NewGeminiProvider(ctx, gemini)
	case "openai":
		return NewOpenAIProvider(openaiCfg)
	case "":
		if gemini.APIKey != "" || gemini.ProjectID != "" {
			return NewGeminiProvider(ctx, gemini)
		}
		if openaiCfg.APIKey != "" {
			return NewOpenAIProvider(openaiCfg)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
