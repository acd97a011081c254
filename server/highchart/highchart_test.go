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

package highchart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/schemas/series"
	. "github.com/smartystreets/goconvey/convey"
)

// pull the config object back out of a rendered block
func configOf(t *testing.T, out string) map[string]interface{} {
	start := strings.Index(out, "var cfg = ")
	end := strings.Index(out, ";\n\tcfg.xAxis.events")
	if start < 0 || end < 0 {
		t.Fatalf("no config in output: %s", out)
	}
	cfg := make(map[string]interface{})
	if err := json.Unmarshal([]byte(out[start+len("var cfg = "):end]), &cfg); err != nil {
		t.Fatalf("bad config json: %v", err)
	}
	return cfg
}

func testGraph(name string, pairs ...[][2]float64) *graph.Graph {
	g := graph.New(name, "ms", "time", false)
	for i, p := range pairs {
		g.Series = append(g.Series, series.FromPairs(string(rune('a'+i)), p))
	}
	return g
}

func TestRender(t *testing.T) {

	Convey("Rendering a graph", t, func() {

		g := testGraph("db/latency", [][2]float64{{0, 3}, {1, 4}}, [][2]float64{{0, -2}, {1.5, 1e-7}})

		Convey("should emit the container and the script", func() {
			out, err := Render(g)
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, `<div id="db/latency" style="`+ContainerStyle+`"></div>`)
			So(out, ShouldContainSubstring, `Highcharts.chart("db/latency", cfg);`)
			So(out, ShouldContainSubstring, "cfg.xAxis.events = {setExtremes: syncExtremes};")
			So(out, ShouldContainSubstring, `"data":[[0,-2],[1.5,1e-07]]`)
		})

		Convey("should set title, subtitle and x axis", func() {
			out, _ := Render(g)
			cfg := configOf(t, out)
			So(cfg["title"].(map[string]interface{})["text"], ShouldEqual, "latency (ms)")
			So(cfg["subtitle"].(map[string]interface{})["text"], ShouldEqual, "db/latency")
			So(cfg["xAxis"].(map[string]interface{})["title"].(map[string]interface{})["text"], ShouldEqual, "time")
			So(cfg["chart"].(map[string]interface{})["type"], ShouldEqual, LINE_CHART)

			ser := cfg["series"].([]interface{})
			So(len(ser), ShouldEqual, 2)
			So(ser[0].(map[string]interface{})["name"], ShouldEqual, "a")
		})

		Convey("virtual graphs get a bracketed subtitle", func() {
			g.Virt = true
			out, _ := Render(g)
			cfg := configOf(t, out)
			So(cfg["subtitle"].(map[string]interface{})["text"], ShouldEqual, "[ db/latency ]")
		})

		Convey("area graphs should be area charts", func() {
			g.Area = true
			out, _ := Render(g)
			cfg := configOf(t, out)
			So(cfg["chart"].(map[string]interface{})["type"], ShouldEqual, AREA_CHART)
		})

		Convey("log graphs should get a log axis", func() {
			g.Log = true
			out, _ := Render(g)
			cfg := configOf(t, out)
			y := cfg["yAxis"].(map[string]interface{})
			So(y["type"], ShouldEqual, LOG_AXIS)
			_, hasMin := y["min"]
			So(hasMin, ShouldBeFalse)
		})

		Convey("the data min should be computed", func() {
			c, err := Build(g)
			So(err, ShouldBeNil)
			So(c.DataMin, ShouldEqual, -2.0)
		})

		Convey("should fail on an empty visible series", func() {
			g.Series = append(g.Series, series.New("empty", nil))
			_, err := Render(g)
			So(errors.Is(err, schemas.ErrEmptySeries), ShouldBeTrue)
		})

		Convey("should fail with nothing to draw", func() {
			_, err := Render(graph.New("nothing", "u", "t", false))
			So(errors.Is(err, schemas.ErrEmptySeriesSet), ShouldBeTrue)
		})

		Convey("hidden series should not be drawn", func() {
			g.Hidden = append(g.Hidden, series.FromPairs("secret", [][2]float64{{0, -100}}))
			out, _ := Render(g)
			So(out, ShouldNotContainSubstring, "secret")
		})

		Convey("names should be escaped", func() {
			bad := testGraph(`x"</script>`, [][2]float64{{0, 1}})
			out, err := Render(bad)
			So(err, ShouldBeNil)
			So(strings.Count(out, "</script>"), ShouldEqual, 1)
			So(out, ShouldContainSubstring, `id="x&#34;&lt;/script&gt;"`)
		})
	})
}

func TestRenderZero(t *testing.T) {

	Convey("The zero flag", t, func() {

		for _, data := range [][][2]float64{
			{{0, 5}, {1, 10}},
			{{0, -5}, {1, 10}},
			{{0, 0}, {1, 0}},
		} {
			g := testGraph("z", data)

			g.Zero = true
			out, err := Render(g)
			So(err, ShouldBeNil)
			y := configOf(t, out)["yAxis"].(map[string]interface{})
			So(y["min"], ShouldEqual, 0.0)
			So(out, ShouldContainSubstring, `"yAxis":{"min":0}`)

			g.Zero = false
			out, err = Render(g)
			So(err, ShouldBeNil)
			_, has := configOf(t, out)["yAxis"]
			So(has, ShouldBeFalse)
		}
	})
}

func TestRenderPure(t *testing.T) {

	Convey("Rendering twice should give the same bytes", t, func() {
		g := testGraph("p/q", [][2]float64{{1, 0.1}, {2, 0.2}, {3, 0.30000000000000004}})
		a, err := Render(g)
		So(err, ShouldBeNil)
		b, _ := Render(g)
		So(a, ShouldEqual, b)
		So(a, ShouldContainSubstring, "[3,0.30000000000000004]")
	})
}
