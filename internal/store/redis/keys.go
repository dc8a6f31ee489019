package redis

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	// KeyDocument holds the YAML text of the served document
	KeyDocument = "navdesk:document"
	// KeyDocumentMeta is a hash with the mirror's bookkeeping fields
	KeyDocumentMeta = "navdesk:document:meta"
	// KeyPrefixCache is the prefix for cached search resolutions
	KeyPrefixCache = "navdesk:cache:"
	// KeyUsage is a hash of link URL -> jump count
	KeyUsage = "navdesk:usage"
)

// CacheKey returns the Redis key for a cached search query.
// Queries are normalised and hashed so arbitrary input stays a short key.
func CacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return KeyPrefixCache + hex.EncodeToString(sum[:])
}
