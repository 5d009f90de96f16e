package parsecache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// ParseCache caches lucene.ParseResult values keyed by query text and the
// default operator they were parsed under — two different default operators
// for the same text are two different results and must not collide.
type ParseCache struct {
	cache *Cache
}

// NewParseCache creates a new parse cache with the specified max size and TTL.
func NewParseCache(maxSize int, ttl time.Duration) *ParseCache {
	return &ParseCache{
		cache: NewCache(maxSize, ttl),
	}
}

// Get retrieves a cached parse result.
func (pc *ParseCache) Get(query string, defaultOp lucene.Operator) (lucene.ParseResult, bool) {
	key := MakeKey(query, defaultOp)
	value, found := pc.cache.Get(key)
	if !found {
		return lucene.ParseResult{}, false
	}

	result, ok := value.(lucene.ParseResult)
	if !ok {
		pc.cache.Delete(key)
		return lucene.ParseResult{}, false
	}

	return result, true
}

// GetOrParse returns the cached result for query/defaultOp, parsing and
// populating the cache on a miss.
func (pc *ParseCache) GetOrParse(query string, defaultOp lucene.Operator) lucene.ParseResult {
	if result, ok := pc.Get(query, defaultOp); ok {
		return result
	}
	result := lucene.Parse(query, defaultOp)
	pc.Set(query, defaultOp, result)
	return result
}

// Set stores a parse result in the cache.
func (pc *ParseCache) Set(query string, defaultOp lucene.Operator, result lucene.ParseResult) {
	key := MakeKey(query, defaultOp)
	pc.cache.Set(key, result)
}

// Delete removes a cached entry.
func (pc *ParseCache) Delete(query string, defaultOp lucene.Operator) {
	key := MakeKey(query, defaultOp)
	pc.cache.Delete(key)
}

// Clear removes all cached entries.
func (pc *ParseCache) Clear() {
	pc.cache.Clear()
}

// Len returns the current number of cached entries.
func (pc *ParseCache) Len() int {
	return pc.cache.Len()
}

// MakeKey creates a cache key from query text and default operator, hashed
// to a fixed-length string so arbitrarily long query text never blows up
// map key storage.
func MakeKey(query string, defaultOp lucene.Operator) string {
	input := strconv.Itoa(int(defaultOp)) + "|" + query
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
