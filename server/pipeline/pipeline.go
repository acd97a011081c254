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
	Render pipeline

	for every configured graph: load each series, parse its attribute tokens, assemble
	the Graph and render the chart block. Graphs run concurrently (bounded by
	render.workers), results come back in the order the graphs were declared and a
	failing graph never stops the others
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/richiksc/badlogvis/server/assembler"
	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/highchart"
	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/attribute"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/schemas/series"
	"github.com/richiksc/badlogvis/server/source"
	"github.com/richiksc/badlogvis/server/stats"
	"golang.org/x/sync/errgroup"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("pipeline")

// Result is the outcome for one graph, Err set means nothing else is
type Result struct {
	Name  string
	Graph *graph.Graph
	Chart *highchart.Chart
	Text  string
	Err   error
}

func (r *Result) Ok() bool {
	return r.Err == nil
}

// known error kinds, for the stats
var errKinds = []error{
	schemas.ErrUnknownAttribute,
	schemas.ErrInvalidJoinTarget,
	schemas.ErrInsufficientPoints,
	schemas.ErrDegenerateDomain,
	schemas.ErrAmbiguousTransform,
	schemas.ErrEmptySeriesSet,
	schemas.ErrEmptySeries,
	schemas.ErrMissingSeries,
	schemas.ErrNoSeriesSource,
	schemas.ErrBadPoint,
	context.Canceled,
	context.DeadlineExceeded,
}

// ErrorKind names the sentinel behind err, "other" if there is none
func ErrorKind(err error) string {
	for _, k := range errKinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "other"
}

// Tokens parses a series' attribute tokens. When not strict, unknown tokens
// are dropped with a warning, a bad join target is always an error
func Tokens(graphName string, sc config.SeriesConfig, strict bool) (attribute.Set, error) {
	attrs := make(attribute.Set, 0, len(sc.Attributes))
	for _, tok := range sc.Attributes {
		a, err := attribute.Parse(tok)
		if err != nil {
			if !strict && errors.Is(err, schemas.ErrUnknownAttribute) {
				log.Warning("Graph %s series %s: ignoring attribute %q", graphName, sc.Name, tok)
				continue
			}
			return nil, fmt.Errorf("graph %q series %q: %w", graphName, sc.Name, err)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// RunGraph does the full load/assemble/render for a single graph
func RunGraph(ctx context.Context, gc config.GraphConfig, loader source.Loader, strict bool) *Result {
	res := &Result{Name: gc.Name}

	tagged := make([]assembler.TaggedSeries, 0, len(gc.Series))
	for _, sc := range gc.Series {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		attrs, err := Tokens(gc.Name, sc, strict)
		if err != nil {
			res.Err = err
			return res
		}
		s, err := loader.Load(ctx, sc)
		if err != nil {
			res.Err = fmt.Errorf("graph %q: %w", gc.Name, err)
			return res
		}
		stats.SeriesPoints.Add(float64(s.Len()))
		tagged = append(tagged, assembler.TaggedSeries{Series: s, Attributes: attrs})
	}

	g, err := assembler.Assemble(gc.Name, gc.Unit, gc.XUnit, tagged, gc.Virtual)
	if err != nil {
		res.Err = err
		return res
	}
	chart, err := highchart.Build(g)
	if err != nil {
		res.Err = err
		return res
	}
	script, err := chart.Script()
	if err != nil {
		res.Err = fmt.Errorf("graph %q: %w", gc.Name, err)
		return res
	}

	for _, t := range g.Totals {
		log.Info("Graph %s: total for %s = %s", gc.Name, t.Series, series.FormatFloat(t.Value))
	}

	res.Graph = g
	res.Chart = chart
	res.Text = chart.Div() + "\n" + script
	return res
}

// Run renders every graph of the dashboard. The returned error is only ever the
// context's, graph failures live in their Result
func Run(ctx context.Context, cfg *config.DashboardConfig, loader source.Loader) ([]*Result, error) {
	defer stats.ObserveSince(stats.RenderDuration, time.Now())

	workers := cfg.Render.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	strict := cfg.Render.Strict()

	results := make([]*Result, len(cfg.Graphs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := range cfg.Graphs {
		if egCtx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			results[i] = RunGraph(egCtx, cfg.Graphs[i], loader, strict)
			return nil
		})
	}
	eg.Wait()

	failed := 0
	for i, res := range results {
		if res == nil {
			res = &Result{Name: cfg.Graphs[i].Name, Err: ctx.Err()}
			results[i] = res
		}
		if res.Err != nil {
			failed++
			log.Error("Graph %s failed: %v", res.Name, res.Err)
			stats.GraphDone(ErrorKind(res.Err))
			continue
		}
		stats.GraphDone("")
	}
	log.Notice("Rendered %d graphs (%d failed)", len(results)-failed, failed)
	return results, ctx.Err()
}

// Failed gives the failed results, in order
func Failed(results []*Result) []*Result {
	out := make([]*Result, 0)
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Check parses every attribute token of the dashboard without loading any data,
// one error per bad series
func Check(cfg *config.DashboardConfig) []error {
	errs := make([]error, 0)
	strict := cfg.Render.Strict()
	for _, gc := range cfg.Graphs {
		for _, sc := range gc.Series {
			attrs, err := Tokens(gc.Name, sc, strict)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if _, err := assembler.TransformFor(attrs); err != nil {
				errs = append(errs, fmt.Errorf("graph %q series %q: %w", gc.Name, sc.Name, err))
			}
		}
	}
	return errs
}
