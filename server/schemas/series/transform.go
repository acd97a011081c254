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
	Series transforms

	differentiate: n-1 points, (x[i+1], (y[i+1]-y[i]) / (x[i+1]-x[i]))
	integrate:     n points, trapezoidal running area, area[0] = 0, plus the total
	delta:         n points, y[0] then y[i]-y[i-1]

	none of these touch the input, each returns a fresh Series with the same name
*/

package series

import (
	"fmt"

	"github.com/richiksc/badlogvis/server/schemas"
	"gonum.org/v1/gonum/floats"
)

type Transform uint8

const (
	NONE Transform = iota
	DIFFERENTIATE
	INTEGRATE
	DELTA
)

func (t Transform) String() string {
	switch t {
	case DIFFERENTIATE:
		return "differentiate"
	case INTEGRATE:
		return "integrate"
	case DELTA:
		return "delta"
	default:
		return "none"
	}
}

// Differentiate is the discrete derivative
func (s *Series) Differentiate() (*Series, error) {
	n := len(s.Points)
	if n < 2 {
		return nil, fmt.Errorf("differentiate %q needs 2 points, has %d: %w", s.Name, n, schemas.ErrInsufficientPoints)
	}
	xs, ys := s.columns()
	for i := 1; i < n; i++ {
		if xs[i] == xs[i-1] {
			return nil, fmt.Errorf("differentiate %q at x=%v: %w", s.Name, xs[i], schemas.ErrDegenerateDomain)
		}
	}

	dx := floats.SubTo(make([]float64, n-1), xs[1:], xs[:n-1])
	dy := floats.SubTo(make([]float64, n-1), ys[1:], ys[:n-1])
	floats.DivTo(dy, dy, dx)

	out := make([]Point, n-1)
	for i := range out {
		out[i] = Point{X: xs[i+1], Y: dy[i]}
	}
	return New(s.Name, out), nil
}

// Integrate is the cumulative trapezoidal integral and its total
func (s *Series) Integrate() (*Series, float64, error) {
	n := len(s.Points)
	if n < 1 {
		return nil, 0, fmt.Errorf("integrate %q: %w", s.Name, schemas.ErrInsufficientPoints)
	}
	out := make([]Point, n)
	out[0] = Point{X: s.Points[0].X, Y: 0}
	area := 0.0
	for i := 1; i < n; i++ {
		prev, cur := s.Points[i-1], s.Points[i]
		area = area + 0.5*(cur.Y+prev.Y)*(cur.X-prev.X)
		out[i] = Point{X: cur.X, Y: area}
	}
	return New(s.Name, out), area, nil
}

// Delta is the point to point difference, the first point passes through
func (s *Series) Delta() *Series {
	n := len(s.Points)
	out := make([]Point, n)
	if n == 0 {
		return New(s.Name, out)
	}
	xs, ys := s.columns()
	d := make([]float64, n)
	d[0] = ys[0]
	floats.SubTo(d[1:], ys[1:], ys[:n-1])
	for i := range out {
		out[i] = Point{X: xs[i], Y: d[i]}
	}
	return New(s.Name, out)
}

// Apply runs one transform. total is only non-nil for INTEGRATE.
// NONE hands back a copy so callers never share the input points
func (s *Series) Apply(t Transform) (out *Series, total *float64, err error) {
	switch t {
	case DIFFERENTIATE:
		out, err = s.Differentiate()
		return out, nil, err
	case INTEGRATE:
		var tot float64
		out, tot, err = s.Integrate()
		if err != nil {
			return nil, nil, err
		}
		return out, &tot, nil
	case DELTA:
		return s.Delta(), nil, nil
	default:
		return s.Clone(), nil, nil
	}
}
