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

package lrucache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type TValue string

func (v TValue) Size() int {
	return len(v)
}

func TestLRUCache(t *testing.T) {

	var strs = []string{
		"moooooooooooo",
		"poooooooooooo",
		"goooooooooooo",
		"toooooooooooo",
		"yoooooooooooo",
		"uoooooooooooo",
		"ioooooooooooo",
	}
	base_s := uint64(len(strs[0]))
	size := uint64(base_s * 4)

	Convey("LRUcache should", t, func() {
		lru := NewLRUCache(size)

		Convey("have a capacity", func() {
			So(lru.GetCapacity(), ShouldEqual, size)
		})

		Convey("accept some keys and push out the oldest", func() {
			var lastOut string
			for _, st := range strs {
				rm, _ := lru.Set(st, TValue(st))
				if rm != "" {
					lastOut = rm
				}
			}
			l, s, c, _, _ := lru.Stats()
			So(l, ShouldEqual, 4)
			So(s, ShouldEqual, size)
			So(c, ShouldEqual, size)
			So(lastOut, ShouldEqual, strs[2])

			_, ok := lru.Get(strs[0])
			So(ok, ShouldBeFalse)
			v, ok := lru.Get(strs[3])
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, TValue(strs[3]))
			So(lru.Keys()[0], ShouldEqual, strs[3])
		})

		Convey("track replaced sizes", func() {
			lru.Set("a", TValue("123"))
			lru.Set("a", TValue("12345"))
			_, s, _, _, _ := lru.Stats()
			So(s, ShouldEqual, 5)
		})

		Convey("delete and clear", func() {
			lru.Set("a", TValue("1"))
			lru.Set("b", TValue("2"))
			So(lru.Delete("a"), ShouldBeTrue)
			So(lru.Delete("a"), ShouldBeFalse)
			lru.Clear()
			l, s, _, _, _ := lru.Stats()
			So(l, ShouldEqual, 0)
			So(s, ShouldEqual, 0)
		})

		Convey("count hits and misses", func() {
			lru.Set("a", TValue("1"))
			lru.Get("a")
			lru.Get("b")
			So(lru.StatsJSON(), ShouldContainSubstring, `"Hits": 1, "Misses": 1`)
		})

		Convey("shrink with the capacity", func() {
			for _, st := range strs[:4] {
				lru.Set(st, TValue(st))
			}
			lru.SetCapacity(base_s)
			So(lru.Keys(), ShouldResemble, []string{strs[3]})
		})
	})
}
