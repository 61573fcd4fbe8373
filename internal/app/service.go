// Package service provides the application service behind the HTTP API:
// event fetching, interactive timeline sessions and stateless renders.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/epochline/internal/adapters/export"
	"github.com/okian/epochline/internal/adapters/repository"
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/session"
	"github.com/okian/epochline/internal/domain/timeline"
	"github.com/okian/epochline/internal/domain/tooltip"
	"github.com/okian/epochline/internal/domain/zoom"
	"github.com/okian/epochline/pkg/logger"
	"github.com/okian/epochline/pkg/metrics"
)

var (
	// ErrSessionNotFound is returned for unknown, closed or evicted sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrBadRequest is returned for malformed viewports and gestures.
	ErrBadRequest = errors.New("bad request")
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
)

// DefaultViewport is used when a request carries no size.
var DefaultViewport = render.Viewport{Width: 1440, Height: 850}

// Rasterizer converts an SVG document into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, format export.Format, width, height int) ([]byte, error)
}

// OpenRequest describes a new interactive session.
type OpenRequest struct {
	Viewport render.Viewport `json:"viewport"`
	Filter   model.Filter    `json:"filter"`
}

// PointerRequest is a pointer position, or a pointer leaving the surface.
type PointerRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Leave bool    `json:"leave,omitempty"`
}

// SnapshotRequest describes a stateless render.
type SnapshotRequest struct {
	Viewport  render.Viewport `json:"viewport"`
	Transform scale.Transform `json:"transform"`
	Filter    model.Filter    `json:"filter"`
}

// SessionState is the state of one session after an operation.
type SessionState struct {
	ID string `json:"id"`
	timeline.State
}

// Service implements the API dependencies of the timeline server.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	rasterizer Rasterizer
	sessions   *session.Registry

	catalog      era.Catalog
	timelineOpts []timeline.Option
	resolved     []timeline.Option
	sessionLimit int
	viewport     render.Viewport
	rasterWait   time.Duration

	started   bool
	startedAt time.Time
	now       func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the event store. Without one, Start loads the built-in
// sample into memory.
func WithStore(st repository.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithCatalog replaces the era catalog.
func WithCatalog(c era.Catalog) Option {
	return func(s *Service) {
		if len(c.Periods) > 0 {
			s.catalog = c
		}
	}
}

// WithTimelineOptions applies opts to every timeline the service creates.
func WithTimelineOptions(opts ...timeline.Option) Option {
	return func(s *Service) { s.timelineOpts = append(s.timelineOpts, opts...) }
}

// WithSessionLimit bounds live sessions.
func WithSessionLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionLimit = n
		}
	}
}

// WithDefaultViewport sets the size used by requests that carry none.
func WithDefaultViewport(vp render.Viewport) Option {
	return func(s *Service) {
		if vp.Valid() {
			s.viewport = vp
		}
	}
}

// WithRasterizer sets the image exporter.
func WithRasterizer(r Rasterizer) Option {
	return func(s *Service) { s.rasterizer = r }
}

// WithRasterTimeout bounds the default rasterizer.
func WithRasterTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.rasterWait = d
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:      era.Default(),
		sessionLimit: session.DefaultLimit,
		viewport:     DefaultViewport,
		rasterWait:   export.DefaultTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store, the session registry and the rasterizer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting timeline service...")

	if s.store == nil {
		mem := repository.NewMemoryStore()
		recs, err := repository.Sample()
		if err != nil {
			return fmt.Errorf("load sample events: %w", err)
		}
		if _, err := repository.Load(ctx, mem, recs); err != nil {
			return fmt.Errorf("load sample events: %w", err)
		}
		s.store = mem
		s.logger.Info(ctx, "using in-memory store with sample events", logger.Int("records", len(recs)))
	}
	if s.rasterizer == nil {
		s.rasterizer = export.New(export.WithTimeout(s.rasterWait))
	}

	opts := append([]timeline.Option{
		timeline.WithCatalog(s.catalog),
		timeline.WithObserver(func(r zoom.Result) {
			if r.Corrected {
				metrics.RecordPanCorrection()
			}
		}),
	}, s.timelineOpts...)
	s.resolved = opts

	reg, err := session.NewRegistry(
		session.WithLimit(s.sessionLimit),
		session.WithTimelineOptions(opts...),
		session.WithEvictHook(func(sess *session.Session) {
			metrics.RecordSessionEvicted()
			s.logger.Debug(context.Background(), "session closed", logger.String("session", sess.ID))
		}),
	)
	if err != nil {
		return fmt.Errorf("create session registry: %w", err)
	}
	s.sessions = reg

	if start, end, ok := s.catalog.Coverage(); ok {
		s.logger.Debug(ctx, "era catalog loaded",
			logger.Int("periods", len(s.catalog.Periods)),
			logger.Int("from", start),
			logger.Int("to", end),
		)
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "timeline service started",
		logger.Int("sessionLimit", s.sessionLimit),
		logger.Int("eras", len(s.catalog.Periods)),
	)
	return nil
}

// Stop closes every session and the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping timeline service...")

	s.sessions.Purge()
	metrics.UpdateActiveSessions(0)
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "timeline service stopped")
}

func (s *Service) registry() (*session.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

// Events returns approved events in ascending start year, narrowed by
// filter. A failed fetch is logged and yields an empty set.
func (s *Service) Events(ctx context.Context, filter model.Filter) []model.Event {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return []model.Event{}
	}

	events, err := st.ListApproved(ctx)
	if err != nil {
		metrics.RecordEventFetchError()
		s.logger.Error(ctx, "fetch events", logger.Error(err))
		return []model.Event{}
	}
	events = filter.Apply(events)
	metrics.UpdateEventsLoaded(len(events))
	return events
}

// Event returns one stored record.
func (s *Service) Event(ctx context.Context, id string) (repository.Record, error) {
	if _, err := s.registry(); err != nil {
		return repository.Record{}, err
	}
	return s.store.Get(ctx, id)
}

// Open creates a session, mounts the current events on it and returns its state.
func (s *Service) Open(ctx context.Context, req OpenRequest) (SessionState, error) {
	reg, err := s.registry()
	if err != nil {
		return SessionState{}, err
	}
	vp, err := s.viewportOf(req.Viewport)
	if err != nil {
		return SessionState{}, err
	}

	events := s.Events(ctx, req.Filter)
	sess := reg.Create(vp, req.Filter)
	start := time.Now()
	if err := sess.Mount(events); err != nil {
		return SessionState{}, s.sessionErr(sess.ID, err)
	}
	metrics.RecordRenderDuration("mount", msSince(start))
	metrics.UpdateActiveSessions(reg.Len())

	s.logger.Info(ctx, "session opened",
		logger.String("session", sess.ID),
		logger.Int("events", len(events)),
		logger.Float64("width", vp.Width),
		logger.Float64("height", vp.Height),
	)
	return s.state(sess)
}

// Gesture applies one zoom or pan interaction.
func (s *Service) Gesture(ctx context.Context, id string, g zoom.Gesture) (SessionState, error) {
	var out timeline.State
	err := s.do(id, func(tl *timeline.Timeline) error {
		start := time.Now()
		st, err := tl.Zoom(g)
		if err != nil {
			return err
		}
		metrics.RecordRenderDuration("update", msSince(start))
		metrics.RecordZoom(g.Kind)
		out = st
		return nil
	})
	if errors.Is(err, zoom.ErrUnknownGesture) {
		return SessionState{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err != nil {
		return SessionState{}, err
	}
	s.logger.Debug(ctx, "gesture applied",
		logger.String("session", id),
		logger.String("kind", g.Kind),
		logger.Float64("k", out.Transform.K),
		logger.Bool("corrected", out.Corrected),
	)
	return SessionState{ID: id, State: out}, nil
}

// Pointer moves the pointer over the session surface.
func (s *Service) Pointer(_ context.Context, id string, req PointerRequest) (SessionState, error) {
	var out timeline.State
	err := s.do(id, func(tl *timeline.Timeline) error {
		before := tl.State().Hover.Target
		var (
			st  timeline.State
			err error
		)
		if req.Leave {
			st, err = tl.PointerLeave()
		} else {
			st, err = tl.Pointer(tooltip.Point{X: req.X, Y: req.Y})
		}
		if err != nil {
			return err
		}
		if st.Hover.Target != before {
			metrics.RecordHover(hoverLayer(st.Hover.Target))
		}
		out = st
		return nil
	})
	if err != nil {
		return SessionState{}, err
	}
	return SessionState{ID: id, State: out}, nil
}

// SVG returns the session surface as an SVG document.
func (s *Service) SVG(_ context.Context, id string) ([]byte, error) {
	var out []byte
	err := s.do(id, func(tl *timeline.Timeline) error {
		out = tl.SVG()
		if out == nil {
			return timeline.ErrNotMounted
		}
		return nil
	})
	return out, err
}

// Reload fetches the events again and re-mounts the session with them.
func (s *Service) Reload(ctx context.Context, id string) (SessionState, error) {
	reg, err := s.registry()
	if err != nil {
		return SessionState{}, err
	}
	sess, ok := reg.Get(id)
	if !ok {
		return SessionState{}, fmt.Errorf("reload %s: %w", id, ErrSessionNotFound)
	}
	events := s.Events(ctx, sess.Filter)
	start := time.Now()
	if err := sess.Mount(events); err != nil {
		return SessionState{}, s.sessionErr(id, err)
	}
	metrics.RecordRenderDuration("mount", msSince(start))
	s.logger.Info(ctx, "session reloaded", logger.String("session", id), logger.Int("events", len(events)))
	return s.state(sess)
}

// Close drops a session.
func (s *Service) Close(ctx context.Context, id string) error {
	reg, err := s.registry()
	if err != nil {
		return err
	}
	if !reg.Remove(id) {
		return fmt.Errorf("close %s: %w", id, ErrSessionNotFound)
	}
	metrics.UpdateActiveSessions(reg.Len())
	s.logger.Info(ctx, "session closed", logger.String("session", id))
	return nil
}

// Snapshot renders the current events at the requested transform without
// keeping a session.
func (s *Service) Snapshot(ctx context.Context, req SnapshotRequest) ([]byte, timeline.State, error) {
	if _, err := s.registry(); err != nil {
		return nil, timeline.State{}, err
	}
	vp, err := s.viewportOf(req.Viewport)
	if err != nil {
		return nil, timeline.State{}, err
	}
	tr := req.Transform
	if tr.K == 0 {
		tr.K = 1
	}

	events := s.Events(ctx, req.Filter)
	start := time.Now()
	svg, st, err := timeline.Render(vp, events, tr, s.resolved...)
	if err != nil {
		return nil, timeline.State{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	metrics.RecordRenderDuration("snapshot", msSince(start))
	return svg, st, nil
}

// Raster renders a snapshot and converts it to format.
func (s *Service) Raster(ctx context.Context, req SnapshotRequest, format export.Format) ([]byte, error) {
	svg, st, err := s.Snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	img, err := s.rasterizer.Rasterize(ctx, svg, format, int(st.Viewport.Width), int(st.Viewport.Height))
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordRaster(string(format), outcome, msSince(start))
	if err != nil {
		s.logger.Error(ctx, "raster export", logger.String("format", string(format)), logger.Error(err))
		return nil, err
	}
	return img, nil
}

// Catalog returns the era catalog.
func (s *Service) Catalog() era.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"sessionLimit": s.sessionLimit,
		"eras":         len(s.catalog.Periods),
		"eraTiers":     s.catalog.Tiers(),
	}
	if s.started {
		stats["sessions"] = s.sessions.Len()
		stats["uptimeSeconds"] = int(s.now().Sub(s.startedAt).Seconds())
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["storedEvents"] = n
		}
		metrics.UpdateActiveSessions(s.sessions.Len())
	}
	return stats
}

func (s *Service) do(id string, fn func(*timeline.Timeline) error) error {
	reg, err := s.registry()
	if err != nil {
		return err
	}
	sess, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if err := sess.Do(fn); err != nil {
		return s.sessionErr(id, err)
	}
	return nil
}

func (s *Service) state(sess *session.Session) (SessionState, error) {
	var out timeline.State
	err := sess.Do(func(tl *timeline.Timeline) error {
		out = tl.State()
		return nil
	})
	if err != nil {
		return SessionState{}, s.sessionErr(sess.ID, err)
	}
	return SessionState{ID: sess.ID, State: out}, nil
}

func (s *Service) sessionErr(id string, err error) error {
	if errors.Is(err, session.ErrClosed) {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return err
}

func (s *Service) viewportOf(vp render.Viewport) (render.Viewport, error) {
	if vp == (render.Viewport{}) {
		return s.viewport, nil
	}
	if !vp.Valid() {
		return render.Viewport{}, fmt.Errorf("%w: viewport %vx%v", ErrBadRequest, vp.Width, vp.Height)
	}
	return vp, nil
}

func hoverLayer(target string) string {
	switch {
	case target == "":
		return "none"
	case strings.HasPrefix(target, "era:"):
		return "eras"
	default:
		return "events"
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
