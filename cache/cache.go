// Package cache stores the result of individual translation hops so repeated
// runs over the same dialogue skip the provider.
//
// Keys are built with badtl.CacheKey: the SHA-256 of the hop input followed by
// the hop's source and target language.
package cache

import "github.com/ZaguanLabs/badtl"

// TranslationCache is the interface for translation caching.
type TranslationCache = badtl.TranslationCache

// ExportableCache is a cache that can list its live entries.
type ExportableCache interface {
	TranslationCache
	// Entries returns every non-expired key-value pair.
	Entries() (map[string]string, error)
}
