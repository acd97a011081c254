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
	Graph assembly

	takes the tagged series for one graph and

	  - picks and runs the (single) transform each series asked for
	  - moves `hide` series out of the drawn list (their totals and flags still count)
	  - ORs area/zero/log into the graph flags
	  - marks the graph joinable and records the join topics
	  - records `xaxis` series names for whoever consumes them

	series keep the order they came in
*/

package assembler

import (
	"fmt"

	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/attribute"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/schemas/series"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("assembler")

// TaggedSeries is a series plus the attributes it carries
type TaggedSeries struct {
	Series     *series.Series
	Attributes attribute.Set
}

// RawSeries is a series plus its unparsed attribute tokens
type RawSeries struct {
	Series *series.Series
	Tokens []string
}

// TransformFor picks the transform for an attribute set.
// More than one distinct transform is an error, not a guess
func TransformFor(attrs attribute.Set) (series.Transform, error) {
	ts := attrs.Transforms()
	switch len(ts) {
	case 0:
		return series.NONE, nil
	case 1:
	default:
		return series.NONE, fmt.Errorf("%v: %w", ts, schemas.ErrAmbiguousTransform)
	}
	switch ts[0] {
	case attribute.Differentiate:
		return series.DIFFERENTIATE, nil
	case attribute.Integrate:
		return series.INTEGRATE, nil
	case attribute.Delta:
		return series.DELTA, nil
	}
	return series.NONE, nil
}

// Assemble builds the Graph for one rendering pass
func Assemble(name, unit, xUnit string, tagged []TaggedSeries, virt bool) (*graph.Graph, error) {
	g := graph.New(name, unit, xUnit, virt)

	for i, ts := range tagged {
		if ts.Series == nil {
			return nil, fmt.Errorf("graph %q series #%d: %w", name, i, schemas.ErrMissingSeries)
		}
		trans, err := TransformFor(ts.Attributes)
		if err != nil {
			return nil, fmt.Errorf("graph %q series %q: %w", name, ts.Series.Name, err)
		}
		out, total, err := ts.Series.Apply(trans)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", name, err)
		}
		if total != nil {
			g.Totals = append(g.Totals, graph.Total{Series: out.Name, Value: *total})
		}

		hidden := false
		for _, a := range ts.Attributes {
			switch a.Kind {
			case attribute.Hide:
				hidden = true
			case attribute.Area:
				g.Area = true
			case attribute.Zero:
				g.Zero = true
			case attribute.Log:
				g.Log = true
			case attribute.Join:
				g.AddJoinTopic(a.Topic)
			case attribute.Xaxis:
				g.XAxis = append(g.XAxis, out.Name)
			case attribute.Differentiate, attribute.Integrate, attribute.Delta:
				// handled above
			}
		}

		if hidden {
			g.Hidden = append(g.Hidden, out)
		} else {
			g.Series = append(g.Series, out)
		}
	}

	if len(g.Series) == 0 {
		return nil, fmt.Errorf("graph %q: %w", name, schemas.ErrEmptySeriesSet)
	}

	log.Debug("Assembled graph %s: %d visible, %d hidden series (area=%v zero=%v log=%v joinable=%v)",
		name, len(g.Series), len(g.Hidden), g.Area, g.Zero, g.Log, g.Joinable)
	return g, nil
}

// AssembleTokens parses the raw tokens of every series then assembles
func AssembleTokens(name, unit, xUnit string, raw []RawSeries, virt bool) (*graph.Graph, error) {
	tagged := make([]TaggedSeries, 0, len(raw))
	for _, r := range raw {
		attrs, err := attribute.ParseAll(r.Tokens)
		if err != nil {
			sname := ""
			if r.Series != nil {
				sname = r.Series.Name
			}
			return nil, fmt.Errorf("graph %q series %q: %w", name, sname, err)
		}
		tagged = append(tagged, TaggedSeries{Series: r.Series, Attributes: attrs})
	}
	return Assemble(name, unit, xUnit, tagged, virt)
}
