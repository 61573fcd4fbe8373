package era_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/tooltip"
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

func TestCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := era.Default()

		Convey("Then it holds fifteen periods on three tiers", func() {
			So(c.Periods, ShouldHaveLength, 15)
			So(c.Tiers(), ShouldEqual, 3)
			So(c.Tier(0), ShouldHaveLength, 10)
			So(c.Tier(2)[0].Name, ShouldEqual, "Industrial Revolution")
		})

		Convey("And tier 0 starts in the Paleolithic", func() {
			start, end, ok := c.Coverage()
			So(ok, ShouldBeTrue)
			So(start, ShouldEqual, -300000)
			So(end, ShouldEqual, 2030)
			So(c.Covers(-300000, 2025), ShouldBeTrue)
			So(c.Covers(-300000, 2500), ShouldBeFalse)
		})
	})

	Convey("Given malformed catalogs", t, func() {
		Convey("Then a gap in tier 0 is rejected", func() {
			_, err := era.Parse([]byte(`
periods:
  - { name: A, short_name: A, start_year: 0, end_year: 10, color: "#000", tier: 0 }
  - { name: B, short_name: B, start_year: 20, end_year: 30, color: "#000", tier: 0 }
`))
			So(errors.Is(err, era.ErrInvalidCatalog), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "gap between A and B")
		})

		Convey("And an overlap in tier 0 is rejected", func() {
			c := era.Catalog{Periods: []model.Period{
				{Name: "A", StartYear: 0, EndYear: 10},
				{Name: "B", StartYear: 5, EndYear: 30},
			}}
			So(errors.Is(c.Validate(), era.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("And overlays may overlap freely", func() {
			c := era.Catalog{Periods: []model.Period{
				{Name: "A", StartYear: 0, EndYear: 10},
				{Name: "X", StartYear: 2, EndYear: 8, Tier: 1},
				{Name: "Y", StartYear: 3, EndYear: 9, Tier: 1},
			}}
			So(c.Validate(), ShouldBeNil)
		})

		Convey("And inverted periods are rejected", func() {
			c := era.Catalog{Periods: []model.Period{{Name: "A", StartYear: 10, EndYear: 0}}}
			So(errors.Is(c.Validate(), era.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("And bad yaml is an error", func() {
			_, err := era.Parse([]byte("periods: [:"))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a catalog file", t, func() {
		path := filepath.Join(t.TempDir(), "eras.yaml")
		So(os.WriteFile(path, []byte(`
periods:
  - { name: Only, short_name: O, start_year: -10, end_year: 10, color: "#123456", tier: 0 }
`), 0o600), ShouldBeNil)

		Convey("Then it loads", func() {
			c, err := era.Load(path)
			So(err, ShouldBeNil)
			So(c.Periods[0].Color, ShouldEqual, "#123456")
		})

		Convey("And a missing file is an error", func() {
			_, err := era.Load(filepath.Join(t.TempDir(), "nope.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLabel(t *testing.T) {
	Convey("Given a period", t, func() {
		p := model.Period{Name: "Bronze Age", ShortName: "Bronze"}

		Convey("Then narrow bands have no label", func() {
			So(era.Label(p, 0), ShouldEqual, "")
			So(era.Label(p, 30), ShouldEqual, "")
			So(era.Label(p, 39.99), ShouldEqual, "")
		})

		Convey("And medium bands use the short name", func() {
			So(era.Label(p, 40), ShouldEqual, "Bronze")
			So(era.Label(p, 79.99), ShouldEqual, "Bronze")
		})

		Convey("And wide bands use the full name", func() {
			So(era.Label(p, 80), ShouldEqual, "Bronze Age")
			So(era.Label(p, 85), ShouldEqual, "Bronze Age")
		})

		Convey("And the choice never regresses as width grows", func() {
			rank := map[string]int{"": 0, "Bronze": 1, "Bronze Age": 2}
			prev := 0
			for w := 0.0; w <= 200; w += 0.5 {
				r := rank[era.Label(p, w)]
				So(r, ShouldBeGreaterThanOrEqualTo, prev)
				prev = r
			}
		})
	})
}

func TestTierY(t *testing.T) {
	Convey("Given a base offset", t, func() {
		So(era.TierY(0, 730), ShouldEqual, 730)
		So(era.TierY(2, 730), ShouldEqual, 730+2*(era.BarHeight+era.TierGap))
		So(era.StackBottom(3, 730), ShouldEqual, 784)
	})
}

func TestLayer(t *testing.T) {
	Convey("Given the band layer over the initial domain", t, func() {
		c := newContext()
		l := era.NewLayer(era.Default())
		l.Draw(c)
		g, _ := c.Surface.Lookup(era.Group)

		Convey("Then every period has one band at its tier", func() {
			So(g.Len(), ShouldEqual, 15)
			bronze := g.Child(era.Key(3))
			So(bronze.Rect("bar").Y, ShouldEqual, 730)
			So(bronze.Rect("bar").X, ShouldAlmostEqual, c.Scale.Map(-3300), 1e-9)
			So(bronze.Rect("bar").Opacity, ShouldEqual, era.Opacity)
			renaissance := g.Child(era.Key(10))
			So(renaissance.Rect("bar").Y, ShouldEqual, 730+era.BarHeight+era.TierGap)
		})

		Convey("And labels follow the rendered width", func() {
			for i, p := range era.Default().Periods {
				band := g.Child(era.Key(i))
				So(band.Text("label").Content, ShouldEqual, era.Label(p, band.Rect("bar").Width))
			}
			So(g.Child(era.Key(3)).Text("label").Content, ShouldEqual, "Bronze Age")
		})

		Convey("When zooming in", func() {
			cold := g.Child(era.Key(12))
			before := cold.Rect("bar").Width
			So(cold.Text("label").Content, ShouldEqual, "")

			p0 := c.Scale.Map(1969)
			c.Scale = scale.NewLinear(-3000, 2025, 0, 1000).Rescale(scale.Transform{K: 10, X: p0 - 10*p0})
			l.Update(c)

			Convey("Then bands widen and relabel", func() {
				So(cold.Rect("bar").Width, ShouldAlmostEqual, 10*before, 1e-6)
				So(cold.Text("label").Content, ShouldEqual, "Cold War")
			})
		})

		Convey("When hovering a band", func() {
			pt := tooltip.Point{X: 200, Y: 737}
			key, ok := l.HitTest(c, pt)
			So(ok, ShouldBeTrue)
			So(key, ShouldEqual, era.Key(3))
			p, shown := l.Enter(c, key, pt)

			Convey("Then it is fully opaque and the tooltip names it", func() {
				So(shown, ShouldBeTrue)
				So(g.Child(key).Rect("bar").Opacity, ShouldEqual, scene.Opaque)
				So(p.Lines[0].Text, ShouldEqual, "Bronze Age")
				So(p.Lines[1].Text, ShouldEqual, "3300 BCE — 1200 BCE")
			})

			Convey("And leaving restores the base opacity", func() {
				l.Leave(c)
				So(g.Child(key).Rect("bar").Opacity, ShouldEqual, era.Opacity)
				tip, _ := c.Surface.Lookup(tooltip.EraGroup)
				So(tip.Hidden, ShouldBeTrue)
			})
		})

		Convey("And pointers between tiers hit nothing", func() {
			_, ok := l.HitTest(c, tooltip.Point{X: 200, Y: 730 + era.BarHeight + 2})
			So(ok, ShouldBeFalse)
		})

		Convey("And unknown keys have no content", func() {
			_, ok := l.Resolve("era:99")
			So(ok, ShouldBeFalse)
			_, ok = l.Resolve("event:1")
			So(ok, ShouldBeFalse)
		})
	})
}
