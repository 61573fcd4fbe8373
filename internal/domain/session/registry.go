// Package session keeps interactive timelines, one surface each, in a
// bounded registry. The least recently used session is evicted and
// unmounted when the registry is full.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/timeline"
)

// DefaultLimit is the registry size when none is given.
const DefaultLimit = 256

// ErrClosed is returned by Do on a session that was removed or evicted.
var ErrClosed = errors.New("session closed")

// Session owns one surface and its timeline. All access goes through Do,
// so interactions on one session run strictly one at a time.
type Session struct {
	ID       string
	Viewport render.Viewport
	Filter   model.Filter
	Created  time.Time

	mu       sync.Mutex
	surface  *scene.Surface
	timeline *timeline.Timeline
	closed   bool
}

// Do runs fn with exclusive access to the session's timeline.
func (s *Session) Do(fn func(tl *timeline.Timeline) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.timeline)
}

// Mount draws events on the session surface.
func (s *Session) Mount(events []model.Event) error {
	return s.Do(func(tl *timeline.Timeline) error {
		tl.Mount(s.surface, s.Viewport, events)
		return nil
	})
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timeline.Unmount()
	s.closed = true
}

// Option configures a Registry.
type Option func(*Registry)

// WithLimit bounds the number of live sessions.
func WithLimit(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithEvictHook runs fn for every session leaving the registry, whether
// evicted or removed.
func WithEvictHook(fn func(*Session)) Option {
	return func(r *Registry) { r.onEvict = fn }
}

// WithTimelineOptions applies opts to every new timeline.
func WithTimelineOptions(opts ...timeline.Option) Option {
	return func(r *Registry) { r.opts = append(r.opts, opts...) }
}

// Registry is safe for concurrent use.
type Registry struct {
	limit   int
	opts    []timeline.Option
	onEvict func(*Session)
	cache   *lru.Cache[string, *Session]
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{limit: DefaultLimit, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	cache, err := lru.NewWithEvict(r.limit, func(_ string, s *Session) {
		s.close()
		if r.onEvict != nil {
			r.onEvict(s)
		}
	})
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// Create registers an unmounted session for vp.
func (r *Registry) Create(vp render.Viewport, filter model.Filter) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Viewport: vp,
		Filter:   filter,
		Created:  r.now(),
		surface:  scene.NewSurface(vp.Width, vp.Height),
		timeline: timeline.New(r.opts...),
	}
	r.cache.Add(s.ID, s)
	return s
}

// Get returns a live session and marks it recently used.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.cache.Get(id)
}

// Remove closes and drops a session.
func (r *Registry) Remove(id string) bool {
	return r.cache.Remove(id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return r.cache.Len() }

// Limit returns the capacity.
func (r *Registry) Limit() int { return r.limit }

// Purge closes every session.
func (r *Registry) Purge() { r.cache.Purge() }
