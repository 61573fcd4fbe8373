package timeline_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/eventlayer"
	"github.com/okian/epochline/internal/domain/lifespan"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/timeline"
	"github.com/okian/epochline/internal/domain/tooltip"
	"github.com/okian/epochline/internal/domain/zoom"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

var viewport = render.Viewport{Width: 1000, Height: 800}

func sampleEvents() []model.Event {
	return []model.Event{
		{ID: "rome", Title: "Fall of Rome", Year: 476},
		{ID: "ww2", Title: "World War II", Year: 1939, EndYear: intPtr(1945)},
	}
}

func TestMount(t *testing.T) {
	Convey("Given a timeline", t, func() {
		tl := timeline.New()

		Convey("When mounting without a surface", func() {
			tl.Mount(nil, viewport, sampleEvents())

			Convey("Then nothing happens", func() {
				So(tl.Mounted(), ShouldBeFalse)
				So(tl.SVG(), ShouldBeNil)
				_, err := tl.Zoom(zoom.Gesture{Kind: zoom.KindReset})
				So(errors.Is(err, timeline.ErrNotMounted), ShouldBeTrue)
				_, err = tl.Pointer(tooltip.Point{})
				So(errors.Is(err, timeline.ErrNotMounted), ShouldBeTrue)
			})
		})

		Convey("When mounting on a surface", func() {
			s := scene.NewSurface(1, 1)
			tl.Mount(s, viewport, sampleEvents())

			Convey("Then the layers exist in z-order", func() {
				So(s.Layers(), ShouldResemble, timeline.ZOrder)
				So(s.Width, ShouldEqual, 1000)
			})

			Convey("And the tooltips start hidden", func() {
				for _, id := range []string{tooltip.EventGroup, tooltip.EraGroup} {
					g, _ := s.Lookup(id)
					So(g.Hidden, ShouldBeTrue)
				}
			})

			Convey("And the state is at identity", func() {
				st := tl.State()
				So(st.Mounted, ShouldBeTrue)
				So(st.Transform, ShouldResemble, scale.Identity)
				So(st.Domain, ShouldResemble, [2]float64{-3000, 2025})
				So(st.Events, ShouldEqual, 2)
			})

			Convey("And mounting again with fewer events leaves nothing stale", func() {
				before := s.Count()
				tl.Mount(s, viewport, sampleEvents())
				So(s.Count(), ShouldEqual, before)

				tl.Mount(s, viewport, sampleEvents()[:1])
				marks, _ := s.Lookup(eventlayer.Group)
				So(marks.Len(), ShouldEqual, 1)
				So(marks.Child("event:ww2"), ShouldBeNil)
			})

			Convey("And unmounting clears the surface", func() {
				tl.Unmount()
				So(tl.Mounted(), ShouldBeFalse)
				So(s.Count(), ShouldEqual, 0)
			})
		})

		Convey("When mounting with no events", func() {
			s := scene.NewSurface(1000, 800)
			tl.Mount(s, viewport, nil)

			Convey("Then axis, eras and lifespan still draw", func() {
				marks, _ := s.Lookup(eventlayer.Group)
				eras, _ := s.Lookup(era.Group)
				life, _ := s.Lookup(lifespan.Group)
				So(marks.Len(), ShouldEqual, 0)
				So(eras.Len(), ShouldEqual, 15)
				So(life.Len(), ShouldEqual, 4)
				So(string(tl.SVG()), ShouldContainSubstring, "3000 BCE")
			})
		})
	})
}

func TestZoomSync(t *testing.T) {
	Convey("Given a mounted timeline", t, func() {
		var results []zoom.Result
		tl := timeline.New(timeline.WithObserver(func(r zoom.Result) { results = append(results, r) }))
		s := scene.NewSurface(1000, 800)
		tl.Mount(s, viewport, sampleEvents())
		base := scale.NewLinear(-3000, 2025, 0, 1000)

		Convey("When zooming to k=2 about year zero", func() {
			st, err := tl.Zoom(zoom.Gesture{Kind: zoom.KindZoom, K: 2, X: base.Map(0)})
			So(err, ShouldBeNil)
			current := base.Rescale(st.Transform)

			Convey("Then every layer reflects the same transform", func() {
				marks, _ := s.Lookup(eventlayer.Group)
				So(marks.Circle("event:rome").CX, ShouldAlmostEqual, current.Map(476), 1e-9)
				So(marks.Child("event:ww2").Rect("bar").X, ShouldAlmostEqual, current.Map(1939), 1e-9)

				eras, _ := s.Lookup(era.Group)
				So(eras.Child(era.Key(3)).Rect("bar").X, ShouldAlmostEqual, current.Map(-3300), 1e-9)

				life, _ := s.Lookup(lifespan.Group)
				l := life.Line("line")
				So(l.X2-l.X1, ShouldAlmostEqual, 2*lifespan.Width(base), 1e-6)

				So(st.Domain[1]-st.Domain[0], ShouldAlmostEqual, 5025.0/2, 1e-6)
				So(results, ShouldHaveLength, 1)
			})

			Convey("And zero keeps its pixel", func() {
				So(current.Map(0), ShouldAlmostEqual, base.Map(0), 1e-9)
			})
		})

		Convey("When zooming out past the bounds", func() {
			st, err := tl.Zoom(zoom.Gesture{Kind: zoom.KindZoom, K: 0.5, X: 0})
			So(err, ShouldBeNil)

			Convey("Then the state reports the correction", func() {
				So(st.Corrected, ShouldBeTrue)
				So(results[0].Corrected, ShouldBeTrue)
			})
		})

		Convey("When the gesture is unknown", func() {
			_, err := tl.Zoom(zoom.Gesture{Kind: "twist"})
			So(errors.Is(err, zoom.ErrUnknownGesture), ShouldBeTrue)
		})
	})
}

func TestPointer(t *testing.T) {
	Convey("Given a mounted timeline", t, func() {
		tl := timeline.New()
		s := scene.NewSurface(1000, 800)
		tl.Mount(s, viewport, sampleEvents())
		base := scale.NewLinear(-3000, 2025, 0, 1000)
		rome := tooltip.Point{X: base.Map(476), Y: 400}

		Convey("When the pointer reaches an event", func() {
			st, err := tl.Pointer(rome)
			So(err, ShouldBeNil)

			Convey("Then it is hovered with a tooltip", func() {
				So(st.Hover.Target, ShouldEqual, "event:rome")
				So(st.Tooltip, ShouldNotBeNil)
				So(st.Tooltip.Lines[0].Text, ShouldEqual, "Fall of Rome")
				So(st.Tooltip.Lines[1].Text, ShouldEqual, "476 CE")
			})

			Convey("And moving within it follows the pointer", func() {
				moved := tooltip.Point{X: rome.X + 2, Y: 401}
				st2, _ := tl.Pointer(moved)
				So(st2.Hover.Target, ShouldEqual, "event:rome")
				So(st2.Tooltip.Width, ShouldEqual, st.Tooltip.Width)
				So(st2.Tooltip.X+st2.Tooltip.Width/2, ShouldAlmostEqual, moved.X, 1e-9)
			})

			Convey("And moving to an era switches tooltips", func() {
				st2, _ := tl.Pointer(tooltip.Point{X: 200, Y: 737})
				So(st2.Hover.Target, ShouldEqual, era.Key(3))
				evTip, _ := s.Lookup(tooltip.EventGroup)
				eraTip, _ := s.Lookup(tooltip.EraGroup)
				So(evTip.Hidden, ShouldBeTrue)
				So(eraTip.Hidden, ShouldBeFalse)
			})

			Convey("And leaving the surface hides everything", func() {
				st2, _ := tl.PointerLeave()
				So(st2.Hover.Active(), ShouldBeFalse)
				So(st2.Tooltip, ShouldBeNil)
				marks, _ := s.Lookup(eventlayer.Group)
				So(marks.Circle("event:rome").R, ShouldEqual, eventlayer.MarkerRadius)
			})
		})

		Convey("When the pointer is over empty space", func() {
			st, _ := tl.Pointer(tooltip.Point{X: 10, Y: 10})
			So(st.Hover.Active(), ShouldBeFalse)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a stateless render request", t, func() {
		svg, st, err := timeline.Render(viewport, sampleEvents(), scale.Transform{K: 4, X: -2000})

		Convey("Then an SVG document comes back with the applied transform", func() {
			So(err, ShouldBeNil)
			So(strings.HasPrefix(string(svg), "<svg"), ShouldBeTrue)
			So(st.Transform.K, ShouldEqual, 4)
			So(string(svg), ShouldContainSubstring, lifespan.Text)
		})

		Convey("And an empty viewport is refused", func() {
			_, _, err := timeline.Render(render.Viewport{}, nil, scale.Identity)
			So(errors.Is(err, timeline.ErrNotMounted), ShouldBeTrue)
		})

		Convey("And an infinite viewport is refused", func() {
			_, _, err := timeline.Render(render.Viewport{Width: math.Inf(1), Height: 800}, sampleEvents(), scale.Identity)
			So(errors.Is(err, timeline.ErrNotMounted), ShouldBeTrue)
		})
	})
}
