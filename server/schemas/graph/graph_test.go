/*
Copyright 2014-2017 Bo Blanton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package graph

import (
	"testing"

	"github.com/richiksc/badlogvis/server/schemas/series"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGraphNames(t *testing.T) {

	test_list := map[string][2]string{
		"base":             {"", "base"},
		"folder/base":      {"folder", "base"},
		"a/b/c":            {"a/b", "c"},
		"/rooted":          {"", "rooted"},
		"trailing/":        {"trailing", ""},
		"":                 {"", ""},
		"net/eth0/rx_byte": {"net/eth0", "rx_byte"},
	}

	Convey("Graph name splitting", t, func() {
		for name, want := range test_list {
			g := New(name, "u", "time", false)
			t.Logf("name: %q -> (%q, %q)", name, g.NameFolder(), g.NameBase())
			So(g.Name(), ShouldEqual, name)
			So(g.NameFolder(), ShouldEqual, want[0])
			So(g.NameBase(), ShouldEqual, want[1])
		}
	})
}

func TestGraphMeta(t *testing.T) {

	Convey("Graph metadata", t, func() {
		g := New("f/b", "ms", "s", true)
		So(g.Virt, ShouldBeTrue)
		So(g.Joinable, ShouldBeFalse)

		Convey("join topics should be de-duped", func() {
			g.AddJoinTopic("a")
			g.AddJoinTopic("b")
			g.AddJoinTopic("a")
			So(g.Joinable, ShouldBeTrue)
			So(g.JoinTopics, ShouldResemble, []string{"a", "b"})
		})

		Convey("totals should be looked up by series", func() {
			g.Totals = append(g.Totals, Total{Series: "x", Value: 4})
			v, ok := g.Total("x")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 4)
			_, ok = g.Total("y")
			So(ok, ShouldBeFalse)
		})

		Convey("point count should only see visible series", func() {
			g.Series = append(g.Series, series.FromPairs("a", [][2]float64{{1, 1}, {2, 2}}))
			g.Hidden = append(g.Hidden, series.FromPairs("h", [][2]float64{{1, 1}}))
			So(g.PointCount(), ShouldEqual, 2)
		})
	})
}
