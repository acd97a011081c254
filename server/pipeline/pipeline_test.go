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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/attribute"
	"github.com/richiksc/badlogvis/server/schemas/series"
	"github.com/richiksc/badlogvis/server/source"
	. "github.com/smartystreets/goconvey/convey"
)

// counts loads and fails on demand
type countLoader struct {
	inner source.Loader
	fail  map[string]error
	loads int32
}

func (c *countLoader) Load(ctx context.Context, sc config.SeriesConfig) (*series.Series, error) {
	atomic.AddInt32(&c.loads, 1)
	if err, ok := c.fail[sc.Name]; ok {
		return nil, err
	}
	return c.inner.Load(ctx, sc)
}

func inline(name string, attrs ...string) config.SeriesConfig {
	return config.SeriesConfig{
		Name:       name,
		Points:     [][2]float64{{0, 0}, {1, 2}, {2, 0}},
		Attributes: attrs,
	}
}

func dashboard(workers int, graphs ...config.GraphConfig) *config.DashboardConfig {
	cfg := &config.DashboardConfig{Graphs: graphs}
	cfg.Render.Workers = workers
	return cfg
}

func TestTokens(t *testing.T) {

	Convey("Parsing series tokens", t, func() {

		Convey("strict mode should fail unknown tokens", func() {
			_, err := Tokens("g", inline("s", "area", "stack"), true)
			So(errors.Is(err, schemas.ErrUnknownAttribute), ShouldBeTrue)
		})

		Convey("lax mode should drop unknown tokens", func() {
			attrs, err := Tokens("g", inline("s", "area", "stack", "zero"), false)
			So(err, ShouldBeNil)
			So(attrs, ShouldResemble, attribute.Set{{Kind: attribute.Area}, {Kind: attribute.Zero}})
		})

		Convey("an empty join is always an error", func() {
			_, err := Tokens("g", inline("s", "join:"), false)
			So(errors.Is(err, schemas.ErrInvalidJoinTarget), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {

	Convey("Running a dashboard", t, func() {
		ctx := context.Background()
		loader := &countLoader{inner: source.NewFileLoader(""), fail: map[string]error{}}

		Convey("should keep declaration order", func() {
			graphs := make([]config.GraphConfig, 0)
			for i := 0; i < 20; i++ {
				graphs = append(graphs, config.GraphConfig{
					Name:   fmt.Sprintf("f%d/g%d", i%3, i),
					Unit:   "u",
					XUnit:  "s",
					Series: []config.SeriesConfig{inline("a"), inline("b", "delta")},
				})
			}
			res, err := Run(ctx, dashboard(4, graphs...), loader)
			So(err, ShouldBeNil)
			So(len(res), ShouldEqual, 20)
			for i, r := range res {
				So(r.Name, ShouldEqual, graphs[i].Name)
				So(r.Ok(), ShouldBeTrue)
				So(r.Text, ShouldStartWith, `<div id="`+graphs[i].Name+`"`)
				So(r.Graph.Series[0].Name, ShouldEqual, "a")
				So(r.Graph.Series[1].Name, ShouldEqual, "b")
			}
			So(atomic.LoadInt32(&loader.loads), ShouldEqual, 40)
			So(len(Failed(res)), ShouldEqual, 0)
		})

		Convey("should isolate failing graphs", func() {
			loader.fail["broken"] = fmt.Errorf("disk on fire: %w", schemas.ErrBadPoint)
			res, err := Run(ctx, dashboard(2,
				config.GraphConfig{Name: "one", Series: []config.SeriesConfig{inline("a", "differentiate")}},
				config.GraphConfig{Name: "two", Series: []config.SeriesConfig{inline("broken")}},
				config.GraphConfig{Name: "three", Series: []config.SeriesConfig{inline("a", "hide")}},
				config.GraphConfig{Name: "four", Series: []config.SeriesConfig{inline("a", "delta", "integrate")}},
				config.GraphConfig{Name: "five", Series: []config.SeriesConfig{inline("a", "integrate")}},
			), loader)
			So(err, ShouldBeNil)
			So(res[0].Ok(), ShouldBeTrue)
			So(errors.Is(res[1].Err, schemas.ErrBadPoint), ShouldBeTrue)
			So(errors.Is(res[2].Err, schemas.ErrEmptySeriesSet), ShouldBeTrue)
			So(errors.Is(res[3].Err, schemas.ErrAmbiguousTransform), ShouldBeTrue)
			So(res[4].Ok(), ShouldBeTrue)
			tot, ok := res[4].Graph.Total("a")
			So(ok, ShouldBeTrue)
			So(tot, ShouldEqual, 2.0)

			failed := Failed(res)
			So(len(failed), ShouldEqual, 3)
			So(failed[0].Name, ShouldEqual, "two")
		})

		Convey("should honor strict_attributes", func() {
			lax := false
			cfg := dashboard(1, config.GraphConfig{Name: "g", Series: []config.SeriesConfig{inline("a", "sparkle")}})

			res, _ := Run(ctx, cfg, loader)
			So(errors.Is(res[0].Err, schemas.ErrUnknownAttribute), ShouldBeTrue)

			cfg.Render.StrictAttributes = &lax
			res, _ = Run(ctx, cfg, loader)
			So(res[0].Ok(), ShouldBeTrue)
		})

		Convey("should stop on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res, err := Run(cctx, dashboard(1,
				config.GraphConfig{Name: "a", Series: []config.SeriesConfig{inline("a")}},
				config.GraphConfig{Name: "b", Series: []config.SeriesConfig{inline("a")}},
			), loader)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(len(res), ShouldEqual, 2)
			for _, r := range res {
				So(errors.Is(r.Err, context.Canceled), ShouldBeTrue)
			}
		})
	})
}

func TestCheck(t *testing.T) {

	Convey("Checking a dashboard", t, func() {
		cfg := dashboard(1,
			config.GraphConfig{Name: "ok", Series: []config.SeriesConfig{inline("a", "zero", "join:net")}},
			config.GraphConfig{Name: "bad", Series: []config.SeriesConfig{
				inline("a", "sparkle"),
				inline("b", "integrate", "differentiate"),
				inline("c", "join:"),
				{Name: "d", File: "never/read.tsv"},
			}},
		)

		errs := Check(cfg)
		So(len(errs), ShouldEqual, 3)
		So(errors.Is(errs[0], schemas.ErrUnknownAttribute), ShouldBeTrue)
		So(errors.Is(errs[1], schemas.ErrAmbiguousTransform), ShouldBeTrue)
		So(errors.Is(errs[2], schemas.ErrInvalidJoinTarget), ShouldBeTrue)
		So(errs[1].Error(), ShouldContainSubstring, `series "b"`)

		lax := false
		cfg.Render.StrictAttributes = &lax
		So(len(Check(cfg)), ShouldEqual, 2)
	})
}

func TestErrorKind(t *testing.T) {

	Convey("Error kinds", t, func() {
		So(ErrorKind(fmt.Errorf("x: %w", schemas.ErrEmptySeries)), ShouldEqual, schemas.ErrEmptySeries.Error())
		So(ErrorKind(errors.New("what")), ShouldEqual, "other")
		So(strings.Contains(ErrorKind(context.Canceled), "canceled"), ShouldBeTrue)
	})
}
