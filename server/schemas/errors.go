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
	Error definitions

	callers wrap these with context (fmt.Errorf("...: %w", Err...)) and match with errors.Is
*/

package schemas

import (
	"errors"
)

// attribute parsing
var ErrUnknownAttribute = errors.New("unknown attribute")
var ErrInvalidJoinTarget = errors.New("join attribute needs a non-empty topic")

// transforms
var ErrInsufficientPoints = errors.New("not enough points for transform")
var ErrDegenerateDomain = errors.New("zero-width x interval")
var ErrAmbiguousTransform = errors.New("more than one transform requested for a series")

// assembly and rendering
var ErrEmptySeriesSet = errors.New("graph has no visible series")
var ErrEmptySeries = errors.New("series has no points")
var ErrMissingSeries = errors.New("series data missing")

// config and sources
var ErrNoGraphs = errors.New("no graphs defined")
var ErrNoSeriesSource = errors.New("series needs either a `file` or inline `points`")
var ErrBadPoint = errors.New("cannot parse point")
