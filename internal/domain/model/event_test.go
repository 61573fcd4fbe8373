package model_test

import (
	"testing"

	"github.com/okian/epochline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestEvent(t *testing.T) {
	Convey("Given timeline events", t, func() {
		point := model.Event{ID: "a", Title: "Fall of Rome", Year: 476}
		same := model.Event{ID: "b", Title: "Coronation", Year: 800, EndYear: intPtr(800)}
		ranged := model.Event{ID: "c", Title: "World War II", Year: 1939, EndYear: intPtr(1945)}

		Convey("Then events without a distinct end year are points", func() {
			So(point.IsRange(), ShouldBeFalse)
			So(same.IsRange(), ShouldBeFalse)
			So(point.End(), ShouldEqual, 476)
		})

		Convey("And events with a distinct end year are ranges", func() {
			So(ranged.IsRange(), ShouldBeTrue)
			So(ranged.End(), ShouldEqual, 1945)
		})

		Convey("And malformed ranges are still ranges", func() {
			bad := model.Event{Title: "Backwards", Year: 1900, EndYear: intPtr(1800)}
			So(bad.IsRange(), ShouldBeTrue)
		})

		Convey("And keys prefer the id over the position", func() {
			So(point.Key(3), ShouldEqual, "event:a")
			So(model.Event{Title: "anonymous"}.Key(3), ShouldEqual, "event:#3")
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given a mixed event set", t, func() {
		events := []model.Event{
			{ID: "1", Title: "one", Scope: "global", Importance: 5},
			{ID: "2", Title: "two", Scope: "local", Importance: 1},
			{ID: "3", Title: "three", Scope: "regional", Importance: 3},
		}

		Convey("When the filter is empty", func() {
			out := model.Filter{}.Apply(events)

			Convey("Then every event passes", func() {
				So(out, ShouldHaveLength, 3)
			})
		})

		Convey("When filtering by scope and importance", func() {
			out := model.Filter{Scopes: []string{"global", "regional"}, MinImportance: 4}.Apply(events)

			Convey("Then only matching events remain in order", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].ID, ShouldEqual, "1")
			})
		})
	})
}
