package eventlayer_test

import (
	"strings"
	"testing"

	"github.com/okian/epochline/internal/domain/eventlayer"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/tooltip"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func newContext() *render.Context {
	return &render.Context{
		Surface:      scene.NewSurface(1000, 800),
		Scale:        scale.NewLinear(-3000, 2025, 0, 1000),
		Viewport:     render.Viewport{Width: 1000, Height: 800},
		Theme:        render.DefaultTheme(),
		BottomMargin: 100,
	}
}

func TestPartition(t *testing.T) {
	Convey("Given mixed events", t, func() {
		events := []model.Event{
			{ID: "a", Title: "Fall of Rome", Year: 476},
			{ID: "b", Title: "World War II", Year: 1939, EndYear: intPtr(1945)},
			{ID: "c", Title: "Coronation", Year: 800, EndYear: intPtr(800)},
		}
		points, ranges := eventlayer.Partition(events)

		Convey("Then equal end years count as points", func() {
			So(points, ShouldHaveLength, 2)
			So(points[1].ID, ShouldEqual, "c")
			So(ranges, ShouldHaveLength, 1)
			So(ranges[0].ID, ShouldEqual, "b")
		})
	})
}

func TestBarWidth(t *testing.T) {
	Convey("Given bar endpoints", t, func() {
		So(eventlayer.BarWidth(10, 50), ShouldEqual, 40)
		So(eventlayer.BarWidth(50, 10), ShouldEqual, 0)
	})
}

func TestContent(t *testing.T) {
	Convey("Given an event with a long summary", t, func() {
		e := model.Event{Title: "World War II", Year: 1939, EndYear: intPtr(1945), Summary: strPtr(strings.Repeat("x", 80))}
		c := eventlayer.Content(e)

		Convey("Then the tooltip shows title, range and a cut summary", func() {
			So(c.Lines, ShouldHaveLength, 3)
			So(c.Lines[0].Text, ShouldEqual, "World War II")
			So(c.Lines[0].Bold, ShouldBeTrue)
			So(c.Lines[1].Text, ShouldEqual, "1939 CE — 1945 CE")
			So(c.Lines[2].Text, ShouldEqual, strings.Repeat("x", 60)+"...")
		})

		Convey("And a missing summary is omitted", func() {
			e.Summary = nil
			So(eventlayer.Content(e).Lines, ShouldHaveLength, 2)
		})

		Convey("And large BCE years are grouped", func() {
			So(eventlayer.DateLabel(model.Event{Year: -300000}), ShouldEqual, "300,000 BCE")
		})
	})
}

func TestDraw(t *testing.T) {
	Convey("Given the fall of Rome on the initial domain", t, func() {
		c := newContext()
		l := eventlayer.New([]model.Event{{ID: "rome", Title: "Fall of Rome", Year: 476}})
		l.Draw(c)
		marks, _ := c.Surface.Lookup(eventlayer.Group)
		labels, _ := c.Surface.Lookup(eventlayer.LabelGroup)

		Convey("Then the marker lands at the interpolated pixel", func() {
			m := marks.Circle("event:rome")
			So(m, ShouldNotBeNil)
			So(m.CX, ShouldAlmostEqual, 691.74, 0.01)
			So(m.CY, ShouldEqual, 400)
			So(m.R, ShouldEqual, eventlayer.MarkerRadius)
		})

		Convey("And the label is centred above it", func() {
			lb := labels.Text("event:rome")
			So(lb.X, ShouldAlmostEqual, marks.Circle("event:rome").CX, 1e-9)
			So(lb.Y, ShouldEqual, 400-eventlayer.LabelOffset)
			So(lb.Content, ShouldEqual, "Fall of Rome")
		})

		Convey("And drawing again leaves no duplicates", func() {
			l.Draw(c)
			So(marks.Len(), ShouldEqual, 1)
			So(labels.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given a range event", t, func() {
		c := newContext()
		l := eventlayer.New([]model.Event{{ID: "ww2", Title: "World War II", Year: 1939, EndYear: intPtr(1945)}})
		l.Draw(c)
		marks, _ := c.Surface.Lookup(eventlayer.Group)
		labels, _ := c.Surface.Lookup(eventlayer.LabelGroup)
		g := marks.Child("event:ww2")

		Convey("Then a capsule and two caps sit at the scaled years", func() {
			x0, x1 := c.Scale.Map(1939), c.Scale.Map(1945)
			So(g, ShouldNotBeNil)
			So(g.Len(), ShouldEqual, 3)
			So(g.Rect("bar").X, ShouldAlmostEqual, x0, 1e-9)
			So(g.Rect("bar").Width, ShouldAlmostEqual, x1-x0, 1e-9)
			So(g.Rect("bar").Height, ShouldEqual, eventlayer.BarHeight)
			So(g.Circle("start").CX, ShouldAlmostEqual, x0, 1e-9)
			So(g.Circle("end").CX, ShouldAlmostEqual, x1, 1e-9)
			So(labels.Text("event:ww2").X, ShouldAlmostEqual, (x0+x1)/2, 1e-9)
		})

		Convey("When hovering it", func() {
			pt := tooltip.Point{X: c.Scale.Map(1942), Y: 401}
			key, ok := l.HitTest(c, pt)
			So(ok, ShouldBeTrue)
			So(key, ShouldEqual, "event:ww2")
			p, shown := l.Enter(c, key, pt)

			Convey("Then the tooltip shows the formatted range above the pointer", func() {
				So(shown, ShouldBeTrue)
				So(p.Lines[1].Text, ShouldEqual, "1939 CE — 1945 CE")
				So(p.Y+p.Height, ShouldAlmostEqual, pt.Y-tooltip.Offset, 1e-9)
				So(g.Rect("bar").Opacity, ShouldEqual, eventlayer.HoverOpacity)
			})

			Convey("And moving keeps the panel size", func() {
				moved, ok := l.Move(c, tooltip.Point{X: 10, Y: 300})
				So(ok, ShouldBeTrue)
				So(moved.Width, ShouldEqual, p.Width)
			})

			Convey("And leaving restores full opacity and hides the tooltip", func() {
				l.Leave(c)
				So(g.Rect("bar").Opacity, ShouldEqual, scene.Opaque)
				tip, _ := c.Surface.Lookup(tooltip.EventGroup)
				So(tip.Hidden, ShouldBeTrue)
				So(l.Hovered(), ShouldEqual, "")
			})
		})
	})

	Convey("Given a malformed range", t, func() {
		c := newContext()
		l := eventlayer.New([]model.Event{{ID: "bad", Title: "Backwards", Year: 1900, EndYear: intPtr(1800)}})
		l.Draw(c)
		marks, _ := c.Surface.Lookup(eventlayer.Group)

		Convey("Then the bar has zero width at every zoom", func() {
			So(marks.Child("event:bad").Rect("bar").Width, ShouldEqual, 0)
			c.Scale = scale.NewLinear(-3000, 2025, 0, 1000).Rescale(scale.Transform{K: 40, X: -30000})
			l.Update(c)
			So(marks.Child("event:bad").Rect("bar").Width, ShouldEqual, 0)
		})
	})

	Convey("Given no events", t, func() {
		c := newContext()
		l := eventlayer.New(nil)
		l.Draw(c)
		marks, _ := c.Surface.Lookup(eventlayer.Group)

		Convey("Then the groups exist but stay empty", func() {
			So(marks.Len(), ShouldEqual, 0)
			_, ok := l.HitTest(c, tooltip.Point{X: 500, Y: 400})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestHover(t *testing.T) {
	Convey("Given two point events", t, func() {
		c := newContext()
		l := eventlayer.New([]model.Event{
			{ID: "a", Title: "Fall of Rome", Year: 476},
			{ID: "b", Title: "Moon landing", Year: 1969},
		})
		l.Draw(c)
		marks, _ := c.Surface.Lookup(eventlayer.Group)
		ax := c.Scale.Map(476)

		Convey("Then a pointer on the marker hits it", func() {
			key, ok := l.HitTest(c, tooltip.Point{X: ax + 3, Y: 403})
			So(ok, ShouldBeTrue)
			So(key, ShouldEqual, "event:a")
		})

		Convey("And a pointer far away hits nothing", func() {
			_, ok := l.HitTest(c, tooltip.Point{X: ax, Y: 100})
			So(ok, ShouldBeFalse)
		})

		Convey("When entering one then the other", func() {
			l.Enter(c, "event:a", tooltip.Point{X: ax, Y: 400})
			So(marks.Circle("event:a").R, ShouldEqual, eventlayer.HoverRadius)
			l.Enter(c, "event:b", tooltip.Point{X: c.Scale.Map(1969), Y: 400})

			Convey("Then only the second is enlarged", func() {
				So(marks.Circle("event:a").R, ShouldEqual, eventlayer.MarkerRadius)
				So(marks.Circle("event:b").R, ShouldEqual, eventlayer.HoverRadius)
				So(l.Hovered(), ShouldEqual, "event:b")
			})
		})

		Convey("And events sharing an id get distinct keys", func() {
			dup := eventlayer.New([]model.Event{{ID: "x", Title: "one"}, {ID: "x", Title: "two"}})
			So(dup.Keys(), ShouldResemble, []string{"event:x", "event:x~1"})

			Convey("Even when an id looks like a position", func() {
				tricky := eventlayer.New([]model.Event{{ID: "#1", Title: "named"}, {Title: "anonymous"}, {ID: "#1~1", Title: "late"}})
				keys := tricky.Keys()
				So(keys, ShouldResemble, []string{"event:#1", "event:#1~1", "event:#1~1~1"})

				ctx := newContext()
				tricky.Draw(ctx)
				marks, _ := ctx.Surface.Lookup(eventlayer.Group)
				So(marks.Len(), ShouldEqual, 3)
			})
		})
	})
}
