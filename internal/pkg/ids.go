package pkg

import (
	"strings"
	"sync/atomic"
)

// Sequence hands out monotonically increasing identifiers starting at 1.
type Sequence struct {
	last atomic.Int64
}

// Next - returns the next identifier.
func (that *Sequence) Next() int64 {
	return that.last.Add(1)
}

// NormalizeQuery - folds a free-text query into a cache key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
