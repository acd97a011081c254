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
	The dashboard page

	one HTML document holding every rendered chart block, grouped by graph folder in
	the order the folders first show up. Failed graphs get a line with their error
	instead of a chart. The page defines `syncExtremes` which every chart binds to its
	x axis so zooming one zooms them all
*/

package pages

import (
	"html/template"
	"io"
	"time"

	"github.com/richiksc/badlogvis/server/pipeline"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/schemas/series"
)

const DEFAULT_TITLE = "badlogvis"

// SYNC_EXTREMES_SCRIPT keeps the x range of all charts on the page together
var SYNC_EXTREMES_SCRIPT = `
function syncExtremes(e) {
	var thisChart = this.chart;
	if (e.trigger === 'syncExtremes') {
		return;
	}
	Highcharts.charts.forEach(function (chart) {
		if (chart && chart !== thisChart && chart.xAxis[0].setExtremes) {
			chart.xAxis[0].setExtremes(e.min, e.max, undefined, false, {trigger: 'syncExtremes'});
		}
	});
}
`

var DASHBOARD_PAGE = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
	<script src="{{.HighchartsURL}}"></script>
	<link rel="stylesheet" href="//netdna.bootstrapcdn.com/bootstrap/3.1.1/css/bootstrap.min.css">
	<style type="text/css">
		.failed{
			color: #a94442;
			font-family: monospace;
		}
		.totals{
			margin: 0 0 20px 0;
		}
	</style>
	<script type="text/javascript">{{.SyncScript}}</script>
</head>
<body>

<div class="container">

	<div class="page-header">
		<div class="row">
			<div class="col-sm-12"><h1>{{.Title}} <small>{{.Rendered}} graphs{{if .Failed}}, {{.Failed}} failed{{end}}</small></h1></div>
		</div>
	</div>

	{{range .Sections}}
	<div class="row">
		<div class="col-sm-12">
		{{if .Folder}}<h3>{{.Folder}}</h3>{{end}}
		{{range .Blocks}}
			{{if .Err}}
			<p class="failed">{{.Name}}: {{.Err}}</p>
			{{else}}
			{{.HTML}}
			{{if .Totals}}<ul class="list-inline totals">{{range .Totals}}<li><strong>{{.Series}}</strong> total {{.Value}}</li>{{end}}</ul>{{end}}
			{{end}}
		{{end}}
		</div>
	</div>
	{{end}}

	<div class="footer small">
		<hr>
		<ul class="list-inline pull-left">
			<li>generated {{.Generated}}</li>
		</ul>
		<div class="clearfix"></div>
	</div>

</div>

</body>
</html>
`

var dashboardTemplate = template.Must(template.New("dashboard").Parse(DASHBOARD_PAGE))

type Total struct {
	Series string
	Value  string
}

// Block is one graph on the page
type Block struct {
	Name   string
	HTML   template.HTML
	Totals []Total
	Err    string
}

// Section is every graph sharing a folder
type Section struct {
	Folder string
	Blocks []Block
}

type Page struct {
	Title         string
	HighchartsURL string
	SyncScript    template.JS
	Sections      []Section
	Rendered      int
	Failed        int
	Generated     string
}

// New lays the pipeline results out as a page, sections in first-seen folder order
func New(title string, highchartsURL string, results []*pipeline.Result) *Page {
	if title == "" {
		title = DEFAULT_TITLE
	}
	p := &Page{
		Title:         title,
		HighchartsURL: highchartsURL,
		SyncScript:    template.JS(SYNC_EXTREMES_SCRIPT),
		Generated:     time.Now().UTC().Format(time.RFC3339),
	}

	idx := make(map[string]int)
	for _, res := range results {
		folder := Folder(res)
		i, ok := idx[folder]
		if !ok {
			i = len(p.Sections)
			idx[folder] = i
			p.Sections = append(p.Sections, Section{Folder: folder})
		}
		p.Sections[i].Blocks = append(p.Sections[i].Blocks, blockOf(res))
		if res.Err != nil {
			p.Failed++
		} else {
			p.Rendered++
		}
	}
	return p
}

// Folder is the graph folder, taken from the name if the graph never got built
func Folder(res *pipeline.Result) string {
	if res.Graph != nil {
		return res.Graph.NameFolder()
	}
	folder, _ := graph.SplitName(res.Name)
	return folder
}

func blockOf(res *pipeline.Result) Block {
	b := Block{Name: res.Name}
	if res.Err != nil {
		b.Err = res.Err.Error()
		return b
	}
	// the chart block escapes its own content
	b.HTML = template.HTML(res.Text)
	for _, t := range res.Graph.Totals {
		b.Totals = append(b.Totals, Total{Series: t.Series, Value: series.FormatFloat(t.Value)})
	}
	return b
}

// Write renders the page
func (p *Page) Write(w io.Writer) error {
	return dashboardTemplate.Execute(w, p)
}

// Render is New + Write
func Render(w io.Writer, title string, highchartsURL string, results []*pipeline.Result) error {
	return New(title, highchartsURL, results).Write(w)
}
