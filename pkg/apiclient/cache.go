package apiclient

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cacheValue holds exactly one of a post detail entry, a list entry
// (feed page, author page) or a likers page. All views are cached in the
// same space so an optimistic update can touch every view of a post at
// once.
type cacheValue struct {
	detail *PostDetail
	list   []FullPost
	likers []Author
}

func (v cacheValue) clone() cacheValue {
	out := cacheValue{}
	if v.detail != nil {
		d := *v.detail
		out.detail = &d
	}
	if v.list != nil {
		out.list = make([]FullPost, len(v.list))
		copy(out.list, v.list)
	}
	if v.likers != nil {
		out.likers = make([]Author, len(v.likers))
		copy(out.likers, v.likers)
	}
	return out
}

// queryCache is an LRU+TTL cache with a version counter per key. The
// version is bumped whenever an optimistic update touches a key, so a
// fetch that started before the update silently drops its result instead
// of clobbering the speculative state (last-write-wins on cache keys).
type queryCache struct {
	mu       sync.Mutex
	entries  *expirable.LRU[string, cacheValue]
	versions map[string]uint64
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	return &queryCache{
		entries:  expirable.NewLRU[string, cacheValue](size, nil, ttl),
		versions: make(map[string]uint64),
	}
}

func (qc *queryCache) get(key string) (cacheValue, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	v, ok := qc.entries.Get(key)
	return v, ok
}

func (qc *queryCache) version(key string) uint64 {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	v, ok := qc.versions[key]
	if !ok {
		// materialize the counter so an invalidation that lands while
		// the fetch is in flight has something to bump
		qc.versions[key] = 0
	}
	return v
}

// setIfVersion stores the fetched value only when no optimistic update
// has touched the key since the fetch began.
func (qc *queryCache) setIfVersion(key string, version uint64, value cacheValue) bool {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	if qc.versions[key] != version {
		return false
	}
	qc.entries.Add(key, value)
	return true
}

func (qc *queryCache) invalidate(key string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.versions[key]++
	qc.entries.Remove(key)
}

// invalidatePrefix drops every entry whose key starts with prefix and
// bumps the matching versions so in-flight fetches discard their results.
func (qc *queryCache) invalidatePrefix(prefix string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for _, key := range qc.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			qc.entries.Remove(key)
		}
	}
	for key := range qc.versions {
		if strings.HasPrefix(key, prefix) {
			qc.versions[key]++
		}
	}
}

func (qc *queryCache) purge() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for _, key := range qc.entries.Keys() {
		qc.versions[key]++
	}
	qc.entries.Purge()
}

// snapshot is the pre-mutation state of every entry touched by an
// optimistic update, used to roll the cache back on failure.
type snapshot map[string]cacheValue

// mutate applies fn to every cached entry, bumps the version of the keys
// fn reports as touched and returns their pre-mutation snapshots.
func (qc *queryCache) mutate(fn func(value *cacheValue) bool) snapshot {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	snap := make(snapshot)
	for _, key := range qc.entries.Keys() {
		current, ok := qc.entries.Peek(key)
		if !ok {
			continue
		}
		next := current.clone()
		if !fn(&next) {
			continue
		}
		snap[key] = current
		qc.versions[key]++
		qc.entries.Add(key, next)
	}
	return snap
}

// restore puts the snapshotted entries back after a failed mutation.
func (qc *queryCache) restore(snap snapshot) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for key, value := range snap {
		qc.versions[key]++
		qc.entries.Add(key, value)
	}
}

// reconcile applies fn to the previously touched keys so the cache
// reflects server-confirmed state after a successful mutation.
func (qc *queryCache) reconcile(snap snapshot, fn func(value *cacheValue)) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for key := range snap {
		current, ok := qc.entries.Peek(key)
		if !ok {
			continue
		}
		next := current.clone()
		fn(&next)
		qc.entries.Add(key, next)
	}
}
