package render

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestContext(t *testing.T) {
	Convey("Given a render context", t, func() {
		c := &Context{Viewport: Viewport{Width: 1000, Height: 800}, BottomMargin: 100}

		Convey("Then the axis sits above the bottom margin", func() {
			So(c.AxisY(), ShouldEqual, 700)
		})

		Convey("And events are centred vertically", func() {
			So(c.CenterY(), ShouldEqual, 400)
		})

		Convey("And viewports need positive dimensions", func() {
			So(c.Viewport.Valid(), ShouldBeTrue)
			So(Viewport{Width: 0, Height: 10}.Valid(), ShouldBeFalse)
		})

		Convey("And infinite, NaN or oversized viewports are refused", func() {
			So(Viewport{Width: math.Inf(1), Height: 800}.Valid(), ShouldBeFalse)
			So(Viewport{Width: 800, Height: math.NaN()}.Valid(), ShouldBeFalse)
			So(Viewport{Width: MaxDimension + 1, Height: 800}.Valid(), ShouldBeFalse)
			So(Viewport{Width: MaxDimension, Height: MaxDimension}.Valid(), ShouldBeTrue)
		})
	})
}
