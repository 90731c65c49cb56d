// Package cache implements the cache coordinator: TTL memoization of reads
// keyed by namespace, and a single choke point for invalidation. Every
// mutating operation declares which namespaces it makes stale; invalidation
// is coarse-grained and flushes whole namespaces. The timeline is a derived
// view over the friendship and post stores, so both stores' mutation sets
// include every timeline namespace.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Namespace identifies one independently keyed cache region
type Namespace string

const (
	UserByID                  Namespace = "user-by-id"
	UserByUsername            Namespace = "user-by-username"
	AllUsers                  Namespace = "all-users"
	PostByID                  Namespace = "post-by-id"
	AllPosts                  Namespace = "all-posts"
	PaginatedPosts            Namespace = "paginated-posts"
	PostsByUser               Namespace = "posts-by-user"
	SearchResults             Namespace = "search-results"
	FriendsOfUser             Namespace = "friends-of-user"
	FriendCount               Namespace = "friend-count"
	Timeline                  Namespace = "timeline"
	TimelinePaginated         Namespace = "timeline-paginated"
	TimelineByDate            Namespace = "timeline-by-date"
	TimelineFilteredPaginated Namespace = "timeline-filtered-paginated"
)

// namespaces lists every region the coordinator manages
var namespaces = []Namespace{
	UserByID, UserByUsername, AllUsers,
	PostByID, AllPosts, PaginatedPosts, PostsByUser, SearchResults,
	FriendsOfUser, FriendCount,
	Timeline, TimelinePaginated, TimelineByDate, TimelineFilteredPaginated,
}

// TimelineNamespaces are the four timeline variants; any mutation of either
// upstream store (posts or friendships) invalidates all of them.
var TimelineNamespaces = []Namespace{
	Timeline, TimelinePaginated, TimelineByDate, TimelineFilteredPaginated,
}

// Invalidation sets, one per mutation class.
var (
	// UserWrite covers user updates
	UserWrite = []Namespace{UserByID, UserByUsername, AllUsers}

	// PostCreate omits post-by-id and paginated-posts: neither has a
	// meaning before the post exists
	PostCreate = join([]Namespace{AllPosts, PostsByUser, SearchResults}, TimelineNamespaces)

	// PostWrite covers post update and delete
	PostWrite = join([]Namespace{PostByID, AllPosts, PaginatedPosts, PostsByUser, SearchResults}, TimelineNamespaces)

	// FriendshipWrite covers adding and removing friendships
	FriendshipWrite = join([]Namespace{FriendsOfUser, FriendCount}, TimelineNamespaces)

	// UserCascadeDelete covers user deletion together with the cascaded
	// post and friendship deletes
	UserCascadeDelete = join(UserWrite, PostWrite, FriendshipWrite)
)

func join(sets ...[]Namespace) []Namespace {
	var out []Namespace
	seen := make(map[Namespace]bool)
	for _, set := range sets {
		for _, ns := range set {
			if !seen[ns] {
				seen[ns] = true
				out = append(out, ns)
			}
		}
	}
	return out
}

// DefaultTTL is the uniform expiry applied to every namespace
const DefaultTTL = 60 * time.Second

// Coordinator memoizes values per namespace with a uniform TTL. The
// namespace map is fixed at construction, so concurrent access only ever
// goes through the underlying caches, which are safe for concurrent use.
type Coordinator struct {
	ttl    time.Duration
	caches map[Namespace]*gocache.Cache
}

// NewCoordinator creates a coordinator with the given TTL. A cleanup
// interval of 0 disables the background janitor; expired entries behave as
// absent and are purged lazily on read.
func NewCoordinator(ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	caches := make(map[Namespace]*gocache.Cache, len(namespaces))
	for _, ns := range namespaces {
		caches[ns] = gocache.New(ttl, 0)
	}
	return &Coordinator{ttl: ttl, caches: caches}
}

// Get returns the cached value for key in ns, if present and not expired
func (c *Coordinator) Get(ns Namespace, key string) (interface{}, bool) {
	store, ok := c.caches[ns]
	if !ok {
		return nil, false
	}
	return store.Get(key)
}

// Put stores value under key in ns with expiry now+TTL
func (c *Coordinator) Put(ns Namespace, key string, value interface{}) {
	if store, ok := c.caches[ns]; ok {
		store.Set(key, value, gocache.DefaultExpiration)
	}
}

// Invalidate clears all keys in every listed namespace. A read issued after
// Invalidate returns never observes a pre-invalidation value.
func (c *Coordinator) Invalidate(nss ...Namespace) {
	for _, ns := range nss {
		if store, ok := c.caches[ns]; ok {
			store.Flush()
		}
	}
}
