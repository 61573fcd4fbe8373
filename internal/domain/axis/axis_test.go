package axis_test

import (
	"testing"

	"github.com/okian/epochline/internal/domain/axis"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	. "github.com/smartystreets/goconvey/convey"
)

func newContext() *render.Context {
	return &render.Context{
		Surface:      scene.NewSurface(1000, 800),
		Scale:        scale.NewLinear(-3000, 2025, 0, 1000),
		Viewport:     render.Viewport{Width: 1000, Height: 800},
		Theme:        render.DefaultTheme(),
		BottomMargin: 100,
	}
}

func TestAxis(t *testing.T) {
	Convey("Given an axis over the initial domain", t, func() {
		c := newContext()
		a := axis.New(10)
		a.Draw(c)
		g, ok := c.Surface.Lookup(axis.Group)

		Convey("Then the group sits at the axis line", func() {
			So(ok, ShouldBeTrue)
			So(g.Y, ShouldEqual, 700)
		})

		Convey("And ticks are labelled with eras", func() {
			first := g.Text("tick:0")
			So(first, ShouldNotBeNil)
			So(first.Content, ShouldEqual, "3000 BCE")
			So(first.Fill, ShouldEqual, "#888")
			So(g.Len(), ShouldEqual, 12)
		})

		Convey("When the scale is zoomed", func() {
			p0 := c.Scale.Map(0)
			c.Scale = scale.NewLinear(-3000, 2025, 0, 1000).Rescale(scale.Transform{K: 2, X: -p0})
			a.Update(c)

			Convey("Then ticks are regenerated at a finer step without duplicates", func() {
				ticks := axis.Ticks(c.Scale, 10)
				So(ticks[1].Value-ticks[0].Value, ShouldBeLessThan, 500)
				So(g.Len(), ShouldEqual, len(ticks)+1)
			})

			Convey("And running the update again changes nothing", func() {
				before := string(c.Surface.SVG())
				a.Update(c)
				So(string(c.Surface.SVG()), ShouldEqual, before)
			})
		})
	})
}

func TestTicks(t *testing.T) {
	Convey("Given a scale", t, func() {
		s := scale.NewLinear(-3000, 2025, 0, 1000)

		Convey("Then tick positions follow the mapping", func() {
			for _, tk := range axis.Ticks(s, 10) {
				So(tk.X, ShouldAlmostEqual, s.Map(tk.Value), 1e-9)
			}
		})

		Convey("And year zero is CE", func() {
			ticks := axis.Ticks(s, 10)
			So(ticks[6].Value, ShouldEqual, 0)
			So(ticks[6].Label, ShouldEqual, "0 CE")
		})

		Convey("And panning the left edge just below zero still labels 0 CE", func() {
			ticks := axis.Ticks(scale.NewLinear(-100, 4900, 0, 1000), 10)
			So(ticks[0].Value, ShouldEqual, 0)
			So(ticks[0].Label, ShouldEqual, "0 CE")
		})
	})
}
