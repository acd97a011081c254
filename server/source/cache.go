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

package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/lrucache"
	"github.com/richiksc/badlogvis/server/schemas/series"
)

// rough bytes per cached point
const pointSize = 16

type cachedFile struct {
	modTime time.Time
	size    int64
	points  []series.Point
}

func (c *cachedFile) Size() int {
	return len(c.points)*pointSize + 64
}

// CachedLoader keeps parsed files around until they change on disk
type CachedLoader struct {
	*FileLoader
	cache *lrucache.LRUCache
}

func NewCachedLoader(baseDir string, capacity uint64) *CachedLoader {
	return &CachedLoader{
		FileLoader: NewFileLoader(baseDir),
		cache:      lrucache.NewLRUCache(capacity),
	}
}

func cacheKey(fname string, conf config.SeriesConfig) string {
	return fmt.Sprintf("%s|%q|%d|%d", fname, conf.Comma, conf.XColumn, conf.YColumn)
}

func (cl *CachedLoader) Load(ctx context.Context, conf config.SeriesConfig) (*series.Series, error) {
	if conf.File == "" {
		return cl.FileLoader.Load(ctx, conf)
	}
	fname := cl.Path(conf.File)
	info, err := os.Stat(fname)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", conf.Name, err)
	}

	key := cacheKey(fname, conf)
	if v, ok := cl.cache.Get(key); ok {
		cf := v.(*cachedFile)
		if cf.modTime.Equal(info.ModTime()) && cf.size == info.Size() {
			// callers own what they get back
			pts := make([]series.Point, len(cf.points))
			copy(pts, cf.points)
			return series.New(conf.Name, pts), nil
		}
	}

	s, err := cl.FileLoader.Load(ctx, conf)
	if err != nil {
		return nil, err
	}
	pts := make([]series.Point, len(s.Points))
	copy(pts, s.Points)
	if rm, _ := cl.cache.Set(key, &cachedFile{modTime: info.ModTime(), size: info.Size(), points: pts}); rm != "" {
		log.Debug("Pushed %s out of the series cache", rm)
	}
	return s, nil
}

func (cl *CachedLoader) StatsJSON() string {
	return cl.cache.StatsJSON()
}
