// Package timeline wires the scale, the layers and the zoom controller onto
// one drawing surface and owns the mount lifecycle.
package timeline

import (
	"errors"

	"github.com/okian/epochline/internal/domain/axis"
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/eventlayer"
	"github.com/okian/epochline/internal/domain/lifespan"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/tooltip"
	"github.com/okian/epochline/internal/domain/zoom"
)

// ErrNotMounted is returned by interactions on an unmounted timeline.
var ErrNotMounted = errors.New("timeline not mounted")

// BackgroundGroup holds the background rectangle.
const BackgroundGroup = "background"

// ZOrder lists the surface layers from bottom to top.
var ZOrder = []string{
	BackgroundGroup,
	axis.Group,
	eventlayer.Group,
	eventlayer.LabelGroup,
	era.Group,
	lifespan.Group,
	tooltip.EventGroup,
	tooltip.EraGroup,
}

type hoverable interface {
	HitTest(c *render.Context, pt tooltip.Point) (string, bool)
	Enter(c *render.Context, key string, pt tooltip.Point) (tooltip.Panel, bool)
	Move(c *render.Context, pt tooltip.Point) (tooltip.Panel, bool)
	Leave(c *render.Context)
}

// State is a snapshot of the timeline after an interaction.
type State struct {
	Mounted   bool            `json:"mounted"`
	Viewport  render.Viewport `json:"viewport"`
	Transform scale.Transform `json:"transform"`
	Corrected bool            `json:"corrected"`
	Domain    [2]float64      `json:"domain"`
	Events    int             `json:"events"`
	Hover     tooltip.State   `json:"hover"`
	Tooltip   *tooltip.Panel  `json:"tooltip,omitempty"`
}

// Timeline is the composition root. It is not safe for concurrent use;
// callers serialize access per surface.
type Timeline struct {
	cfg settings

	surface *scene.Surface
	ctx     *render.Context
	events  *eventlayer.Layer
	eras    *era.Layer
	ctrl    *zoom.Controller

	last  zoom.Result
	hover tooltip.State
	owner hoverable
	panel *tooltip.Panel
	count int
}

// New creates an unmounted timeline.
func New(opts ...Option) *Timeline {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Timeline{cfg: cfg}
}

// Mounted reports whether a surface is attached.
func (t *Timeline) Mounted() bool { return t.surface != nil }

// Surface returns the attached surface, or nil.
func (t *Timeline) Surface() *scene.Surface { return t.surface }

// Mount clears s and draws every layer for events at identity zoom. A nil
// surface or an empty viewport leaves the timeline as it was. Mounting
// again replaces the event set wholesale.
func (t *Timeline) Mount(s *scene.Surface, vp render.Viewport, events []model.Event) {
	if s == nil || !vp.Valid() {
		return
	}
	s.Clear()
	s.Resize(vp.Width, vp.Height)
	for _, id := range ZOrder {
		s.Layer(id)
	}
	s.Layer(BackgroundGroup).Set("fill", &scene.Rect{
		Width:  vp.Width,
		Height: vp.Height,
		Fill:   t.cfg.theme.Background,
	})

	base := scale.NewLinear(t.cfg.initial.Start, t.cfg.initial.End, 0, vp.Width)
	ctx := &render.Context{
		Surface:      s,
		Scale:        base,
		Viewport:     vp,
		Theme:        t.cfg.theme,
		BottomMargin: t.cfg.bottomMargin,
	}

	t.events = eventlayer.New(events)
	t.eras = era.NewLayer(t.cfg.catalog)
	layers := []render.Layer{
		axis.New(t.cfg.tickCount),
		t.events,
		t.eras,
		lifespan.New(t.cfg.anchorRatio, t.cfg.catalog.Tiers()),
	}
	for _, l := range layers {
		l.Draw(ctx)
	}

	opts := []zoom.Option{zoom.WithExtent(t.cfg.extent), zoom.WithBounds(t.cfg.bounds)}
	for _, fn := range t.cfg.observers {
		opts = append(opts, zoom.WithObserver(fn))
	}
	t.ctrl = zoom.New(ctx, base, layers, opts...)

	t.surface = s
	t.ctx = ctx
	t.count = len(events)
	t.last = zoom.Result{Transform: scale.Identity}
	t.resetHover()
}

// Unmount clears the surface and detaches it.
func (t *Timeline) Unmount() {
	if t.surface == nil {
		return
	}
	t.surface.Clear()
	t.surface = nil
	t.ctx = nil
	t.ctrl = nil
	t.events = nil
	t.eras = nil
	t.resetHover()
}

// Zoom applies one gesture.
func (t *Timeline) Zoom(g zoom.Gesture) (State, error) {
	if t.ctrl == nil {
		return State{}, ErrNotMounted
	}
	r, err := t.ctrl.Apply(g)
	if err != nil {
		return t.State(), err
	}
	t.last = r
	return t.State(), nil
}

// Pointer moves the pointer to pt, entering, following or leaving hovered
// elements. Events are hit-tested before era bands.
func (t *Timeline) Pointer(pt tooltip.Point) (State, error) {
	if t.ctx == nil {
		return State{}, ErrNotMounted
	}
	var (
		key   string
		owner hoverable
	)
	for _, h := range []hoverable{t.events, t.eras} {
		if k, ok := h.HitTest(t.ctx, pt); ok {
			key, owner = k, h
			break
		}
	}

	switch {
	case key == "":
		t.leave()
	case key == t.hover.Target:
		if p, ok := t.owner.Move(t.ctx, pt); ok {
			t.panel = &p
		}
		t.hover = tooltip.Hovering(key, pt)
	default:
		t.leave()
		if p, ok := owner.Enter(t.ctx, key, pt); ok {
			t.owner = owner
			t.hover = tooltip.Hovering(key, pt)
			t.panel = &p
		}
	}
	return t.State(), nil
}

// PointerLeave ends any hover, as when the pointer leaves the surface.
func (t *Timeline) PointerLeave() (State, error) {
	if t.ctx == nil {
		return State{}, ErrNotMounted
	}
	t.leave()
	return t.State(), nil
}

// State returns the current snapshot.
func (t *Timeline) State() State {
	if t.ctx == nil {
		return State{}
	}
	d0, d1 := t.ctx.Scale.Domain()
	st := State{
		Mounted:   true,
		Viewport:  t.ctx.Viewport,
		Transform: t.ctrl.Transform(),
		Corrected: t.last.Corrected,
		Domain:    [2]float64{d0, d1},
		Events:    t.count,
		Hover:     t.hover,
	}
	if t.panel != nil {
		p := *t.panel
		st.Tooltip = &p
	}
	return st
}

// SVG serializes the surface, or returns nil when unmounted.
func (t *Timeline) SVG() []byte {
	if t.surface == nil {
		return nil
	}
	return t.surface.SVG()
}

func (t *Timeline) leave() {
	if t.owner != nil {
		t.owner.Leave(t.ctx)
	}
	t.resetHover()
}

func (t *Timeline) resetHover() {
	t.hover = tooltip.Idle()
	t.owner = nil
	t.panel = nil
}
