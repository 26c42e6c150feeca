package config

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ZaguanLabs/badtl"
	"github.com/ZaguanLabs/badtl/cache"
	"github.com/ZaguanLabs/badtl/internal/logging"
	"github.com/ZaguanLabs/badtl/processor"
	"github.com/ZaguanLabs/badtl/provider"
)

// Stack is a ready-to-run translator together with the parts it was built
// from.
type Stack struct {
	Translator *badtl.Translator
	Provider   badtl.AIProvider
	Cache      badtl.TranslationCache
	Logger     *slog.Logger

	closers []io.Closer
}

// Close releases cache connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build validates s and constructs the provider, cache and translator it
// describes. Logs are written to logOut.
func Build(s *Settings, logOut io.Writer) (*Stack, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.FromStrings(logOut, s.LogLevel, s.LogFormat)
	if err != nil {
		return nil, &badtl.ConfigError{Field: "LogLevel", Message: err.Error()}
	}

	stack := &Stack{Logger: logger}

	p, err := buildProvider(s, logger)
	if err != nil {
		return nil, err
	}
	stack.Provider = p

	c, closer, err := buildCache(s)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		stack.closers = append(stack.closers, closer)
	}

	cfg := s.Config()
	opts := []badtl.TranslatorOption{
		badtl.WithConfig(cfg),
		badtl.WithWorkers(s.Workers),
		badtl.WithContext(s.Context),
		badtl.WithLogger(logger),
		badtl.WithProcessor(processor.NewDialogueProcessor()),
	}
	if c != nil {
		stack.Cache = c
		opts = append(opts, badtl.WithCache(c))
		if s.Cache == CacheRedis || s.Cache == CacheSQLite {
			opts = append(opts, badtl.WithCacheScope(s.Provider))
		}
	}

	stack.Translator = badtl.NewTranslator(p, opts...)
	logger.Debug("translator built",
		"provider", s.Provider,
		"cache", s.Cache,
		"route", stack.Translator.Route(),
	)
	return stack, nil
}

// buildProvider returns the selected provider wrapped in rate limiting and
// retries. Every retry attempt pays a rate-limit token.
func buildProvider(s *Settings, logger *slog.Logger) (badtl.AIProvider, error) {
	var p badtl.AIProvider

	switch s.Provider {
	case ProviderGoogle:
		p = provider.NewGoogleProvider(provider.GoogleConfig{BaseURL: s.GoogleURL, Timeout: s.ProviderTimeout})
	case ProviderScript:
		sp, err := provider.NewScriptProvider(provider.ScriptConfig{URL: s.ScriptURL, Timeout: s.ProviderTimeout})
		if err != nil {
			return nil, err
		}
		p = sp
	case ProviderWeb:
		p = provider.NewWebProvider(provider.WebConfig{BaseURL: s.WebURL, Timeout: s.ProviderTimeout})
	case ProviderOpenAI:
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  s.OpenAIKey,
			Model:   s.OpenAIModel,
			BaseURL: s.OpenAIBaseURL,
		})
	case ProviderMock:
		p = provider.NewMockProvider()
	}

	if s.RequestsPerMinute > 0 {
		p = badtl.NewRateLimitedProvider(p, badtl.RateLimitConfig{
			RequestsPerMinute: s.RequestsPerMinute,
			BurstSize:         s.BurstSize,
		})
	}

	if s.MaxRetries > 0 {
		p = badtl.NewRetryableProvider(p, badtl.RetryConfig{
			MaxRetries: s.MaxRetries,
			BaseDelay:  s.RetryBaseDelay,
			MaxDelay:   s.RetryMaxDelay,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				logger.Warn("retrying translation", "attempt", attempt, "delay", delay, "error", err)
			},
		})
	}

	return p, nil
}

func buildCache(s *Settings) (badtl.TranslationCache, io.Closer, error) {
	switch s.Cache {
	case CacheMemory:
		return cache.NewInMemoryCache(s.CacheTTL), nil, nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       s.RedisURL,
			TTL:       s.CacheTTL,
			KeyPrefix: s.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, rc, nil
	case CacheSQLite:
		sc, err := cache.NewSQLiteCache(cache.SQLiteConfig{Path: s.SQLitePath, TTL: s.CacheTTL})
		if err != nil {
			return nil, nil, err
		}
		return sc, sc, nil
	}
	return nil, nil, nil
}
