package seen

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded in-process set; the least recently added ids are
// forgotten first, so a very old id may be reported as new again.
type LRU struct {
	cache *lru.Cache[string, struct{}]
}

func NewLRU(capacity int) (*LRU, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("seen lru: capacity must be > 0")
	}
	c, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

func (l *LRU) Add(_ context.Context, id string) (bool, error) {
	found, _ := l.cache.ContainsOrAdd(id, struct{}{})
	return !found, nil
}

func (l *LRU) Len() int {
	return l.cache.Len()
}
