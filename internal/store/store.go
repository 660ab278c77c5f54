// Package store keeps named collections of JSON records behind a pluggable
// backend. Every collection is read and written whole; callers serialise
// their read-modify-write sequences with Store.Lock.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Collection names.
const (
	Users           = "users"
	Products        = "products"
	Categories      = "categories"
	Cart            = "cart"
	Orders          = "orders"
	Reviews         = "reviews"
	Likes           = "likes"
	Wishlist        = "wishlist"
	Coupons         = "coupons"
	Notifications   = "notifications"
	Help            = "help"
	HelpfulVotes    = "helpful_votes"
	ContactMessages = "contact_messages"
	BlogPosts       = "blog_posts"
	Analytics       = "analytics"
)

// ListCollections are the collections stored as JSON arrays.
var ListCollections = []string{
	Users, Products, Categories, Cart, Orders, Reviews, Likes, Wishlist,
	Coupons, Notifications, Help, HelpfulVotes, ContactMessages, BlogPosts,
}

// ErrMissing is returned by a Backend when the collection was never written.
var ErrMissing = errors.New("collection does not exist")

// Backend persists whole collections as encoded bytes.
type Backend interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Name() string
}

// Error carries the collection and operation that failed.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v [operation=%s, collection=%s]", e.Err, e.Op, e.Collection)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(err error, op, collection string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Collection: collection, Err: err}
}

type Store struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		locks:   make(map[string]*sync.RWMutex),
	}
}

func (s *Store) Backend() Backend {
	return s.backend
}

// Exists reports whether the collection has ever been written.
func (s *Store) Exists(name string) (bool, error) {
	_, err := s.backend.Read(name)
	if errors.Is(err, ErrMissing) {
		return false, nil
	}
	if err != nil {
		return false, wrapError(err, "exists", name)
	}
	return true, nil
}

func (s *Store) lockFor(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[name] = l
	}
	return l
}

// Lock takes the write lock of every named collection and returns the
// release function. Locks are always acquired in name order so that two
// operations touching overlapping collections cannot deadlock. A caller must
// not call Lock or RLock again before releasing.
func (s *Store) Lock(names ...string) func() {
	return s.acquire(names, false)
}

// RLock is Lock for read-only operations.
func (s *Store) RLock(names ...string) func() {
	return s.acquire(names, true)
}

func (s *Store) acquire(names []string, shared bool) func() {
	ordered := uniqueSorted(names)
	held := make([]*sync.RWMutex, 0, len(ordered))
	for _, name := range ordered {
		l := s.lockFor(name)
		if shared {
			l.RLock()
		} else {
			l.Lock()
		}
		held = append(held, l)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				if shared {
					held[i].RUnlock()
				} else {
					held[i].Unlock()
				}
			}
		})
	}
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
