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

/** logger **/

package config

import (
	"io"
	"os"
	"strings"

	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("config")

const (
	JSON_LOG_FORMAT    = `{time="%{time:2006-01-02 15:04:05.000Z07:00}", module="%{module}", file="%{shortfile}", id="%{id}", level="%{level:.6s}", message="%{message}"}`
	COLOR_LOG_FORMAT   = `%{color}%{time:2006-01-02T15:04:05.000Z07:00} %{level:.4s} %{id} [%{module}] (%{shortfile}) - %{color:reset} %{message}`
	DEFAULT_LOG_FORMAT = `%{time:2006-01-02 15:04:05.000Z07:00} %{level:.4s} %{id} [%{module}] (%{shortfile}) - %{message}`
)

type LogConfig struct {
	Format string `toml:"format" json:"format,omitempty" yaml:"format"`
	File   string `toml:"file" json:"file,omitempty" yaml:"file"`
	Level  string `toml:"level" json:"level,omitempty" yaml:"level"`
}

// FormatString turns the named format into a go-logging format
func (c *LogConfig) FormatString() string {
	switch c.Format {
	case "json":
		return JSON_LOG_FORMAT
	case "color":
		return COLOR_LOG_FORMAT
	case "", "default":
		return DEFAULT_LOG_FORMAT
	default:
		// a raw go-logging format string
		return c.Format
	}
}

// LogLevel maps the config level, INFO if unset or unknown
func (c *LogConfig) LogLevel() logging.Level {
	lvl, err := logging.LogLevel(strings.ToUpper(c.Level))
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// Writer is where the log goes: stdout, stderr or an appended file
func (c *LogConfig) Writer() (io.Writer, error) {
	switch c.File {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(c.File, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	}
}

func (c *LogConfig) Start() error {
	out, err := c.Writer()
	if err != nil {
		return err
	}
	formatter, err := logging.NewStringFormatter(c.FormatString())
	if err != nil {
		return err
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(out, "", 0), formatter)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(c.LogLevel(), "")
	logging.SetBackend(leveled)
	return nil
}
