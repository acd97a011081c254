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
Config files do not do ENV variables on their own.

This gets "around" that by basically replacing

$ENV{VAR_NAME:default}

w/ the VAR_NAME from the env if present or the default (everything after the first ':')

*/

package envreplace

import (
	"bytes"
	"os"
	"regexp"
)

var envReg = regexp.MustCompile(`\$ENV\{(.*?)\}`)

// Lookup is how variables are resolved, swapped out in tests
var Lookup = os.Getenv

func ReplaceEnv(inbys []byte) []byte {
	return envReg.ReplaceAllFunc(inbys, func(mtch []byte) []byte {
		inner := mtch[len("$ENV{") : len(mtch)-1]
		if len(inner) == 0 {
			return mtch
		}
		parts := bytes.SplitN(inner, []byte(":"), 2)
		if env := Lookup(string(parts[0])); len(env) > 0 {
			return []byte(env)
		}
		if len(parts) == 2 {
			return parts[1]
		}
		return []byte("")
	})
}
