package yearfmt_test

import (
	"math"
	"strings"
	"testing"

	"github.com/okian/epochline/internal/domain/yearfmt"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLabel(t *testing.T) {
	Convey("Given axis tick values", t, func() {
		Convey("Then negative years are BCE by absolute value", func() {
			So(yearfmt.Label(-3000), ShouldEqual, "3000 BCE")
			So(yearfmt.Label(-10000), ShouldEqual, "10000 BCE")
		})

		Convey("And zero and positive years are CE", func() {
			So(yearfmt.Label(0), ShouldEqual, "0 CE")
			So(yearfmt.Label(1500), ShouldEqual, "1500 CE")
		})

		Convey("And negative zero is plain CE zero", func() {
			So(yearfmt.Label(math.Copysign(0, -1)), ShouldEqual, "0 CE")
		})

		Convey("And fractional ticks keep their digits", func() {
			So(yearfmt.Label(1939.5), ShouldEqual, "1939.5 CE")
		})
	})
}

func TestSpan(t *testing.T) {
	Convey("Given event dates", t, func() {
		end := 1945

		Convey("Then a range joins both labels", func() {
			So(yearfmt.Span(1939, &end), ShouldEqual, "1939 CE — 1945 CE")
		})

		Convey("And a point shows a single label", func() {
			So(yearfmt.Span(476, nil), ShouldEqual, "476 CE")
			same := 476
			So(yearfmt.Span(476, &same), ShouldEqual, "476 CE")
		})

		Convey("And large magnitudes are grouped", func() {
			So(yearfmt.Grouped(-300000), ShouldEqual, "300,000 BCE")
			So(yearfmt.Grouped(-10000), ShouldEqual, "10,000 BCE")
			So(yearfmt.Grouped(-3300), ShouldEqual, "3300 BCE")
		})
	})
}

func TestTruncate(t *testing.T) {
	Convey("Given summaries", t, func() {
		Convey("Then short text is unchanged", func() {
			So(yearfmt.Truncate("short", yearfmt.SummaryLimit), ShouldEqual, "short")
		})

		Convey("And long text is cut with an ellipsis", func() {
			long := strings.Repeat("a", 75)
			out := yearfmt.Truncate(long, yearfmt.SummaryLimit)
			So(out, ShouldEqual, strings.Repeat("a", 60)+"...")
		})

		Convey("And multi-byte text is cut on characters", func() {
			long := strings.Repeat("é", 61)
			So(yearfmt.Truncate(long, 60), ShouldEqual, strings.Repeat("é", 60)+"...")
		})
	})
}
