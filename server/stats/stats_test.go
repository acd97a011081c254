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

package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeName(t *testing.T) {

	Convey("Sanitizing names", t, func() {
		test_list := map[string]string{
			"insufficient points": "insufficient_points",
			"net/eth0":            "net_eth0",
			"a..b":                "a.b",
			"join:{x}":            "join__x_",
			"ok":                  "ok",
		}
		for in, out := range test_list {
			So(SanitizeName(in), ShouldEqual, out)
		}
	})
}

func TestCounters(t *testing.T) {

	Convey("Graph outcomes", t, func() {
		ok := testutil.ToFloat64(GraphsRendered.WithLabelValues(STATUS_OK))
		fail := testutil.ToFloat64(GraphsRendered.WithLabelValues(STATUS_FAIL))
		kind := testutil.ToFloat64(GraphErrors.WithLabelValues("empty_series"))

		GraphDone("")
		GraphDone("empty series")

		So(testutil.ToFloat64(GraphsRendered.WithLabelValues(STATUS_OK)), ShouldEqual, ok+1)
		So(testutil.ToFloat64(GraphsRendered.WithLabelValues(STATUS_FAIL)), ShouldEqual, fail+1)
		So(testutil.ToFloat64(GraphErrors.WithLabelValues("empty_series")), ShouldEqual, kind+1)
	})

	Convey("Timers", t, func() {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "blv_test_timer"})
		ObserveSince(h, time.Now().Add(-time.Second))
		So(testutil.CollectAndCount(h), ShouldEqual, 1)
	})
}
