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
	A Graph is a named set of series sharing one x-axis unit plus the render flags

	names are paths, "folder/sub/base" -> folder "folder/sub", base "base".
	The name is fixed at construction so the base/folder split never drifts
*/

package graph

import (
	"strings"

	"github.com/richiksc/badlogvis/server/schemas/series"
)

const PathSep = "/"

// SplitName gives (folder, base) for a path style name
func SplitName(name string) (folder string, base string) {
	idx := strings.LastIndex(name, PathSep)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(PathSep):]
}

// Total is the integral total of one series
type Total struct {
	Series string  `json:"series" yaml:"series"`
	Value  float64 `json:"value" yaml:"value"`
}

type Graph struct {
	name       string
	nameBase   string
	nameFolder string

	Unit  string
	XUnit string

	// Series is what gets drawn, Hidden took part in the transforms but is not drawn
	Series []*series.Series
	Hidden []*series.Series

	Virt     bool
	Joinable bool
	Area     bool
	Zero     bool
	Log      bool

	JoinTopics []string
	Totals     []Total
	XAxis      []string
}

func New(name string, unit string, xUnit string, virt bool) *Graph {
	folder, base := SplitName(name)
	return &Graph{
		name:       name,
		nameBase:   base,
		nameFolder: folder,
		Unit:       unit,
		XUnit:      xUnit,
		Virt:       virt,
	}
}

func (g *Graph) Name() string {
	return g.name
}

func (g *Graph) NameBase() string {
	return g.nameBase
}

func (g *Graph) NameFolder() string {
	return g.nameFolder
}

// AddJoinTopic records a topic once, keeping first-seen order
func (g *Graph) AddJoinTopic(topic string) {
	g.Joinable = true
	for _, t := range g.JoinTopics {
		if t == topic {
			return
		}
	}
	g.JoinTopics = append(g.JoinTopics, topic)
}

// Total finds the integral total for a series name
func (g *Graph) Total(seriesName string) (float64, bool) {
	for _, t := range g.Totals {
		if t.Series == seriesName {
			return t.Value, true
		}
	}
	return 0, false
}

// PointCount is the number of visible points
func (g *Graph) PointCount() int {
	ct := 0
	for _, s := range g.Series {
		ct += s.Len()
	}
	return ct
}
