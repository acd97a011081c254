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
   Series attributes

   a series in a dashboard can carry a list of directive tokens

      hide, area, xaxis, differentiate, integrate, delta, zero, log, join:{topic}

   matching is case sensitive and exact, except for `join:` which is a prefix
   followed by a non-empty topic name
*/

package attribute

import (
	"fmt"
	"strings"

	"github.com/richiksc/badlogvis/server/schemas"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("attribute")

// JoinPrefix leads every join token
const JoinPrefix = "join:"

// Kind is the closed set of attribute variants
type Kind uint8

const (
	Hide Kind = iota + 1
	Area
	Xaxis
	Differentiate
	Integrate
	Delta
	Zero
	Log
	Join
)

var kindNames = map[Kind]string{
	Hide:          "hide",
	Area:          "area",
	Xaxis:         "xaxis",
	Differentiate: "differentiate",
	Integrate:     "integrate",
	Delta:         "delta",
	Zero:          "zero",
	Log:           "log",
	Join:          "join",
}

// tokens that map one-to-one onto a Kind
var exactTokens = map[string]Kind{
	"hide":          Hide,
	"area":          Area,
	"xaxis":         Xaxis,
	"differentiate": Differentiate,
	"zero":          Zero,
	"integrate":     Integrate,
	"delta":         Delta,
	"log":           Log,
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsTransform is true for the kinds that select a numeric transform
func (k Kind) IsTransform() bool {
	return k == Differentiate || k == Integrate || k == Delta
}

// Attribute is one parsed directive. Topic is only set for Join
type Attribute struct {
	Kind  Kind
	Topic string
}

// JoinOn is a Join attribute for a topic
func JoinOn(topic string) Attribute {
	return Attribute{Kind: Join, Topic: topic}
}

// Parse maps a raw token onto its Attribute
func Parse(token string) (Attribute, error) {
	if k, ok := exactTokens[token]; ok {
		return Attribute{Kind: k}, nil
	}
	if strings.HasPrefix(token, JoinPrefix) {
		topic := token[len(JoinPrefix):]
		if len(topic) == 0 {
			log.Debug("Failed to join topic: %q", token)
			return Attribute{}, fmt.Errorf("%q: %w", token, schemas.ErrInvalidJoinTarget)
		}
		return JoinOn(topic), nil
	}
	log.Debug("Unknown attribute: %q", token)
	return Attribute{}, fmt.Errorf("%q: %w", token, schemas.ErrUnknownAttribute)
}

// ParseAll parses every token, stopping at the first bad one
func ParseAll(tokens []string) ([]Attribute, error) {
	out := make([]Attribute, 0, len(tokens))
	for _, t := range tokens {
		a, err := Parse(t)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// String gives back the token form, so Parse(a.String()) == a
func (a Attribute) String() string {
	if a.Kind == Join {
		return JoinPrefix + a.Topic
	}
	return a.Kind.String()
}

func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Attribute) UnmarshalText(text []byte) error {
	got, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = got
	return nil
}

// Set is the attribute list for one series
type Set []Attribute

// Has is true if any member is of kind k
func (s Set) Has(k Kind) bool {
	for _, a := range s {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Transforms is the distinct transform kinds in the set, in first-seen order
func (s Set) Transforms() []Kind {
	var out []Kind
	for _, a := range s {
		if !a.Kind.IsTransform() {
			continue
		}
		seen := false
		for _, k := range out {
			if k == a.Kind {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, a.Kind)
		}
	}
	return out
}

// Topics is every join topic in the set, in order
func (s Set) Topics() []string {
	var out []string
	for _, a := range s {
		if a.Kind == Join {
			out = append(out, a.Topic)
		}
	}
	return out
}
