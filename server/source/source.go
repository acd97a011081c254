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
	Series sources

	a series either carries its points inline in the dashboard or names a delimited
	text file (tab separated by default, `#` comments)

		# x	y
		1485984333	12.5
		1485984334	13

	x may be a number or a date/time string (stored as unix seconds). A first line
	that does not parse is taken as a header and skipped
*/

package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/schemas/series"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("source")

const DEFAULT_COMMA = '\t'

// Loader gets the points for one configured series
type Loader interface {
	Load(ctx context.Context, conf config.SeriesConfig) (*series.Series, error)
}

// FileLoader reads inline points or files relative to BaseDir
type FileLoader struct {
	BaseDir string
}

func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{BaseDir: baseDir}
}

// Path resolves a series file against BaseDir
func (fl *FileLoader) Path(file string) string {
	if filepath.IsAbs(file) || fl.BaseDir == "" {
		return file
	}
	return filepath.Join(fl.BaseDir, file)
}

func (fl *FileLoader) Load(ctx context.Context, conf config.SeriesConfig) (*series.Series, error) {
	if conf.File == "" {
		if conf.Points == nil {
			return nil, fmt.Errorf("series %q: %w", conf.Name, schemas.ErrNoSeriesSource)
		}
		return series.FromPairs(conf.Name, conf.Points), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fname := fl.Path(conf.File)
	fp, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", conf.Name, err)
	}
	defer fp.Close()

	comma, err := commaRune(conf.Comma)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", conf.Name, err)
	}
	pts, err := ReadPoints(fp, comma, conf.XColumn, conf.YColumn)
	if err != nil {
		return nil, fmt.Errorf("series %q (%s): %w", conf.Name, fname, err)
	}
	log.Debug("Loaded %d points for %s from %s", len(pts), conf.Name, fname)
	return series.New(conf.Name, pts), nil
}

func commaRune(c string) (rune, error) {
	switch c {
	case "":
		return DEFAULT_COMMA, nil
	case "\\t", "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(c)
	if size != len(c) {
		return 0, fmt.Errorf("`comma` must be a single character, got %q", c)
	}
	return r, nil
}

// ParseX reads a number or a date/time as unix seconds
func ParseX(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return 0, err
	}
	return float64(t.UnixNano()) / float64(time.Second), nil
}

// ReadPoints parses delimited rows into points, in file order
func ReadPoints(r io.Reader, comma rune, xCol, yCol int) ([]series.Point, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	need := xCol
	if yCol > need {
		need = yCol
	}

	pts := make([]series.Point, 0)
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		if len(row) <= need {
			if first {
				first = false
				continue
			}
			return nil, fmt.Errorf("line %d: want %d columns, have %d: %w", line, need+1, len(row), schemas.ErrBadPoint)
		}
		x, xerr := ParseX(row[xCol])
		y, yerr := strconv.ParseFloat(strings.TrimSpace(row[yCol]), 64)
		if xerr != nil || yerr != nil {
			if first {
				// a header
				first = false
				continue
			}
			return nil, fmt.Errorf("line %d: %q %q: %w", line, row[xCol], row[yCol], schemas.ErrBadPoint)
		}
		first = false
		pts = append(pts, series.Point{X: x, Y: y})
	}
	return pts, nil
}
