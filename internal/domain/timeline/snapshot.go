package timeline

import (
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/zoom"
)

// Render mounts events on a fresh surface, applies tr through the usual
// clamping and returns the resulting SVG with its state.
func Render(vp render.Viewport, events []model.Event, tr scale.Transform, opts ...Option) ([]byte, State, error) {
	t := New(opts...)
	t.Mount(scene.NewSurface(vp.Width, vp.Height), vp, events)
	if !t.Mounted() {
		return nil, State{}, ErrNotMounted
	}
	st, err := t.Zoom(zoom.Gesture{Kind: zoom.KindSet, K: tr.K, TX: tr.X})
	if err != nil {
		return nil, State{}, err
	}
	return t.SVG(), st, nil
}
