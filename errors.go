package badtl

import "fmt"

// TranslationError reports a chain that stopped at a hop. The chunk it
// belonged to is passed through untranslated.
type TranslationError struct {
	Hop   Hop
	Chunk int // Chunk index, -1 when unknown
	Cause error
}

func (e *TranslationError) Error() string {
	if e.Chunk >= 0 {
		return fmt.Sprintf("translation failed at hop %s (chunk %d): %v", e.Hop, e.Chunk, e.Cause)
	}
	return fmt.Sprintf("translation failed at hop %s: %v", e.Hop, e.Cause)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation provider failure (HTTP error, rate limit, etc.).
type ProviderError struct {
	Message    string
	Cause      error
	StatusCode int  // HTTP status, 0 when not applicable
	Retryable  bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure. The transforms
// themselves are total; only reading and writing the stream can fail.
type ProcessorError struct {
	Op          string // "encode", "decode", "apply", ...
	Message     string
	Cause       error
	ContentType string
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s %s): %s: %v", e.ContentType, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s %s): %s", e.ContentType, e.Op, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s %s", e.Field, e.Message)
}

// CountMismatchError indicates the provider returned a different number of
// translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
