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
   Dashboard config

   TOML (default) or YAML (.yaml, .yml), both with $ENV{VAR:default} substitution

   example

	[log]
	level = "INFO"

	[http]
	listen = "$ENV{BLV_LISTEN:127.0.0.1:8090}"

	[render]
	workers = 4
	title = "router logs"

	[[graph]]
	name = "net/eth0"
	unit = "bytes"
	x_unit = "s"

	    [[graph.series]]
	    name = "rx"
	    file = "logs/rx.tsv"
	    attributes = ["differentiate", "zero"]

	    [[graph.series]]
	    name = "tx"
	    points = [[0, 1], [1, 4]]
	    attributes = ["join:net"]
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/richiksc/badlogvis/server/schemas"
	"github.com/richiksc/badlogvis/server/utils/envreplace"
	"github.com/richiksc/badlogvis/server/utils/tomlenv"
	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_LISTEN         = "127.0.0.1:8090"
	DEFAULT_HIGHCHARTS_URL = "https://code.highcharts.com/highcharts.js"
	DEFAULT_X_UNIT         = "time"
)

type HttpConfig struct {
	Listen     string `toml:"listen" json:"listen,omitempty" yaml:"listen"`
	BasePath   string `toml:"base_path" json:"base_path,omitempty" yaml:"base_path"`
	Logfile    string `toml:"logfile" json:"logfile,omitempty" yaml:"logfile"`
	EnableGzip bool   `toml:"enable_gzip" json:"enable_gzip,omitempty" yaml:"enable_gzip"`
}

type RenderConfig struct {
	Workers          int    `toml:"workers" json:"workers,omitempty" yaml:"workers"`
	Title            string `toml:"title" json:"title,omitempty" yaml:"title"`
	HighchartsURL    string `toml:"highcharts_url" json:"highcharts_url,omitempty" yaml:"highcharts_url"`
	StrictAttributes *bool  `toml:"strict_attributes" json:"strict_attributes,omitempty" yaml:"strict_attributes"`

	// bytes of parsed series files kept between requests by `serve`, 0 is off
	CacheSize uint64 `toml:"cache_size" json:"cache_size,omitempty" yaml:"cache_size"`
}

// Strict is on unless turned off
func (c *RenderConfig) Strict() bool {
	return c.StrictAttributes == nil || *c.StrictAttributes
}

type SeriesConfig struct {
	Name       string       `toml:"name" json:"name" yaml:"name"`
	File       string       `toml:"file" json:"file,omitempty" yaml:"file"`
	Points     [][2]float64 `toml:"points" json:"points,omitempty" yaml:"points"`
	Attributes []string     `toml:"attributes" json:"attributes,omitempty" yaml:"attributes"`

	// file parsing, columns are 0 based
	XColumn int    `toml:"x_column" json:"x_column,omitempty" yaml:"x_column"`
	YColumn int    `toml:"y_column" json:"y_column,omitempty" yaml:"y_column"`
	Comma   string `toml:"comma" json:"comma,omitempty" yaml:"comma"`
}

type GraphConfig struct {
	Name    string         `toml:"name" json:"name" yaml:"name"`
	Unit    string         `toml:"unit" json:"unit,omitempty" yaml:"unit"`
	XUnit   string         `toml:"x_unit" json:"x_unit,omitempty" yaml:"x_unit"`
	Virtual bool           `toml:"virtual" json:"virtual,omitempty" yaml:"virtual"`
	Series  []SeriesConfig `toml:"series" json:"series" yaml:"series"`
}

type DashboardConfig struct {
	System  SystemConfig  `toml:"system" json:"system,omitempty" yaml:"system"`
	Logger  LogConfig     `toml:"log" json:"log,omitempty" yaml:"log"`
	Profile ProfileConfig `toml:"profile" json:"profile,omitempty" yaml:"profile"`
	Http    HttpConfig    `toml:"http" json:"http,omitempty" yaml:"http"`
	Render  RenderConfig  `toml:"render" json:"render,omitempty" yaml:"render"`
	Graphs  []GraphConfig `toml:"graph" json:"graph" yaml:"graph"`

	// relative series files are found from here
	BaseDir string `toml:"-" json:"-" yaml:"-"`
}

// ParseConfigFile reads and checks a dashboard, the extension picks the decoder
func ParseConfigFile(filename string) (*DashboardConfig, error) {
	bits, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var cfg *DashboardConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		cfg, err = ParseConfigYaml(bits)
	default:
		cfg, err = ParseConfigString(string(bits))
	}
	if err != nil {
		log.Critical("Error decoding config file %s: %s", filename, err)
		return nil, err
	}
	cfg.BaseDir = filepath.Dir(filename)
	return cfg, nil
}

// ParseConfigString decodes a TOML dashboard
func ParseConfigString(inconf string) (*DashboardConfig, error) {
	cfg := new(DashboardConfig)
	if _, err := tomlenv.Decode(inconf, cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

// ParseConfigYaml decodes a YAML dashboard
func ParseConfigYaml(inbys []byte) (*DashboardConfig, error) {
	cfg := new(DashboardConfig)
	if err := yaml.Unmarshal(envreplace.ReplaceEnv(inbys), cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

func (c *DashboardConfig) setDefaults() {
	if c.Http.Listen == "" {
		c.Http.Listen = DEFAULT_LISTEN
	}
	if c.Http.Logfile == "" {
		c.Http.Logfile = "stdout"
	}
	if c.Render.HighchartsURL == "" {
		c.Render.HighchartsURL = DEFAULT_HIGHCHARTS_URL
	}
	for i := range c.Graphs {
		if c.Graphs[i].XUnit == "" {
			c.Graphs[i].XUnit = DEFAULT_X_UNIT
		}
		for j := range c.Graphs[i].Series {
			s := &c.Graphs[i].Series[j]
			// x in the first column, y in the second unless told otherwise
			if s.XColumn == 0 && s.YColumn == 0 {
				s.YColumn = 1
			}
		}
	}
}

// Validate is structural only, attribute tokens are left to the pipeline
func (c *DashboardConfig) Validate() error {
	if len(c.Graphs) == 0 {
		return schemas.ErrNoGraphs
	}
	seen := make(map[string]bool)
	for _, g := range c.Graphs {
		if g.Name == "" {
			return fmt.Errorf("every graph needs a `name`")
		}
		if seen[g.Name] {
			return fmt.Errorf("graph %q defined more than once", g.Name)
		}
		seen[g.Name] = true
		for _, s := range g.Series {
			if s.File == "" && s.Points == nil {
				return fmt.Errorf("graph %q series %q: %w", g.Name, s.Name, schemas.ErrNoSeriesSource)
			}
			if s.XColumn < 0 || s.YColumn < 0 {
				return fmt.Errorf("graph %q series %q: columns cannot be negative", g.Name, s.Name)
			}
		}
	}
	return nil
}

// Start brings up the ambient bits (logging first so the rest can log)
func (c *DashboardConfig) Start() error {
	if err := c.Logger.Start(); err != nil {
		return err
	}
	c.Profile.Start()
	return c.System.Start()
}

// Graph finds a graph by name
func (c *DashboardConfig) Graph(name string) (*GraphConfig, bool) {
	for i := range c.Graphs {
		if c.Graphs[i].Name == name {
			return &c.Graphs[i], true
		}
	}
	return nil, false
}
