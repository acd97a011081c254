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
	A named list of (x, y) points

	points are expected in non-decreasing x order, nothing in here sorts them.
	A Point marshals to json (and yaml) as the pair `[x,y]` which is what the chart engine wants
*/

package series

import (
	"math"
	"strconv"

	"github.com/richiksc/badlogvis/server/schemas"
	"gonum.org/v1/gonum/floats"
)

var nullBytes = []byte("null")

type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// AppendFloat writes the shortest decimal that parses back to v.
// Plain notation inside [1e-6, 1e21), exponent form outside of it, and
// `null` for NaN/Inf so the output is always valid json and javascript
func AppendFloat(b []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(b, nullBytes...)
	}
	abs := math.Abs(v)
	mode := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		mode = 'e'
	}
	return strconv.AppendFloat(b, v, mode, -1, 64)
}

// FormatFloat is AppendFloat into a new string
func FormatFloat(v float64) string {
	return string(AppendFloat(nil, v))
}

// MarshalJSON gives `[x,y]`
func (p Point) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 32)
	b = append(b, '[')
	b = AppendFloat(b, p.X)
	b = append(b, ',')
	b = AppendFloat(b, p.Y)
	return append(b, ']'), nil
}

// MarshalYAML gives the same `[x,y]` pair, nil (null) for NaN/Inf
func (p Point) MarshalYAML() (interface{}, error) {
	return []interface{}{yamlFloat(p.X), yamlFloat(p.Y)}, nil
}

func yamlFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

type Series struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"data" yaml:"data"`
}

func New(name string, points []Point) *Series {
	return &Series{Name: name, Points: points}
}

// FromPairs is a handy constructor from literal [x,y] pairs
func FromPairs(name string, pairs [][2]float64) *Series {
	pts := make([]Point, len(pairs))
	for i, p := range pairs {
		pts[i] = Point{X: p[0], Y: p[1]}
	}
	return New(name, pts)
}

func (s *Series) Len() int {
	return len(s.Points)
}

// Clone is a deep copy
func (s *Series) Clone() *Series {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	return New(s.Name, pts)
}

// columns splits the points into fresh x and y slices
func (s *Series) columns() (xs []float64, ys []float64) {
	xs = make([]float64, len(s.Points))
	ys = make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// MinY is the smallest y value, ErrEmptySeries if there are no points
func (s *Series) MinY() (float64, error) {
	if len(s.Points) == 0 {
		return 0, schemas.ErrEmptySeries
	}
	_, ys := s.columns()
	return floats.Min(ys), nil
}
