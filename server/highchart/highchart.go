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

/*
	Highcharts output for one Graph

	the block is a container div (id = full graph name) and a script that builds the
	chart config and hands it to Highcharts.chart. The x axis `setExtremes` event is
	bound to a page level `syncExtremes` function so zoom/pan follows across charts

	<div id="{name}" ...></div>
	<script>
	(function() {
		var cfg = {chart json};
		cfg.xAxis.events = {setExtremes: syncExtremes};
		Highcharts.chart("{name}", cfg);
	})();
	</script>
*/

package highchart

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/schemas/series"
)

const (
	LINE_CHART = "line"
	AREA_CHART = "area"
	LOG_AXIS   = "logarithmic"

	ContainerStyle = "min-width: 310px; height: 400px; margin: 0 auto"
	SyncFunction   = "syncExtremes"
)

type Text struct {
	Text string `json:"text" yaml:"text"`
}

type ChartOpts struct {
	Type     string `json:"type" yaml:"type"`
	ZoomType string `json:"zoomType" yaml:"zoomType"`
}

type YAxis struct {
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Type string   `json:"type,omitempty" yaml:"type,omitempty"`
}

type XAxis struct {
	Title Text `json:"title" yaml:"title"`
}

type Credits struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Chart is the Highcharts config object
type Chart struct {
	Chart    ChartOpts        `json:"chart" yaml:"chart"`
	Title    Text             `json:"title" yaml:"title"`
	Subtitle Text             `json:"subtitle" yaml:"subtitle"`
	YAxis    *YAxis           `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	XAxis    XAxis            `json:"xAxis" yaml:"xAxis"`
	Credits  Credits          `json:"credits" yaml:"credits"`
	Series   []*series.Series `json:"series" yaml:"series"`

	// Container is the div id, DataMin the smallest visible y value
	Container string  `json:"-" yaml:"-"`
	DataMin   float64 `json:"-" yaml:"-"`
}

// Title is "{base} ({unit})"
func Title(g *graph.Graph) string {
	return fmt.Sprintf("%s (%s)", g.NameBase(), g.Unit)
}

// Subtitle is the full name, bracketed for virtual graphs
func Subtitle(g *graph.Graph) string {
	if g.Virt {
		return "[ " + g.Name() + " ]"
	}
	return g.Name()
}

// Build makes the chart config. Every visible series needs at least one point
func Build(g *graph.Graph) (*Chart, error) {
	if len(g.Series) == 0 {
		return nil, fmt.Errorf("graph %q: %w", g.Name(), schemas.ErrEmptySeriesSet)
	}

	dataMin := 0.0
	for i, s := range g.Series {
		m, err := s.MinY()
		if err != nil {
			return nil, fmt.Errorf("graph %q series %q: %w", g.Name(), s.Name, err)
		}
		if i == 0 || m < dataMin {
			dataMin = m
		}
	}

	c := &Chart{
		Chart:     ChartOpts{Type: LINE_CHART, ZoomType: "x"},
		Title:     Text{Text: Title(g)},
		Subtitle:  Text{Text: Subtitle(g)},
		XAxis:     XAxis{Title: Text{Text: g.XUnit}},
		Series:    g.Series,
		Container: g.Name(),
		DataMin:   dataMin,
	}
	if g.Area {
		c.Chart.Type = AREA_CHART
	}
	if g.Zero || g.Log {
		c.YAxis = new(YAxis)
		if g.Zero {
			zero := 0.0
			c.YAxis.Min = &zero
		}
		if g.Log {
			c.YAxis.Type = LOG_AXIS
		}
	}
	return c, nil
}

// Script is the javascript that draws the chart into its container
func (c *Chart) Script() (string, error) {
	cfg, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	id, err := json.Marshal(c.Container)
	if err != nil {
		return "", err
	}

	buf := new(strings.Builder)
	buf.WriteString("<script>\n(function() {\n\tvar cfg = ")
	buf.Write(cfg)
	buf.WriteString(";\n\tcfg.xAxis.events = {setExtremes: ")
	buf.WriteString(SyncFunction)
	buf.WriteString("};\n\tHighcharts.chart(")
	buf.Write(id)
	buf.WriteString(", cfg);\n})();\n</script>")
	return buf.String(), nil
}

// Div is the container element
func (c *Chart) Div() string {
	return fmt.Sprintf("<div id=\"%s\" style=\"%s\"></div>", html.EscapeString(c.Container), ContainerStyle)
}

// Render gives the full div + script block for a graph
func Render(g *graph.Graph) (string, error) {
	c, err := Build(g)
	if err != nil {
		return "", err
	}
	script, err := c.Script()
	if err != nil {
		return "", fmt.Errorf("graph %q: %w", g.Name(), err)
	}
	return c.Div() + "\n" + script, nil
}
