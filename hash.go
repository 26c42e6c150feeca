package badtl

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of text. Whitespace is significant in
// dialogue chunks, so the text is hashed as is.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates the cache key for one hop of one text.
func CacheKey(hash, fromLang, toLang string) string {
	return hash + ":" + fromLang + ":" + toLang
}

// CacheKeyExtended also includes the provider name, for caches shared between
// providers that translate the same hop differently.
func CacheKeyExtended(hash, fromLang, toLang, provider string) string {
	return CacheKey(hash, fromLang, toLang) + ":" + provider
}
