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

/** "system" config elements **/

package config

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
)

type SystemConfig struct {
	PIDfile string `toml:"pid_file" json:"pid_file,omitempty" yaml:"pid_file"`
	NumProc int    `toml:"num_procs" json:"num_procs,omitempty" yaml:"num_procs"`
	GoGc    int    `toml:"gc_percent" json:"gc_percent,omitempty" yaml:"gc_percent"`
}

func (c *SystemConfig) Start() error {
	if c.NumProc <= 0 {
		c.NumProc = runtime.NumCPU()
	}
	log.Notice("[System] Setting GOMAXPROCS to %d", c.NumProc)
	runtime.GOMAXPROCS(c.NumProc)

	if c.GoGc > 0 {
		log.Notice("[System] Setting GC percent to %d%%", c.GoGc)
		debug.SetGCPercent(c.GoGc)
	}
	return c.PidFile()
}

// PidFile writes our pid, refusing if another live process owns the file
func (c *SystemConfig) PidFile() error {
	if c.PIDfile == "" {
		return nil
	}
	contents, err := os.ReadFile(c.PIDfile)
	if err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
		if err != nil {
			return fmt.Errorf("reading process id from pidfile '%s': %w", c.PIDfile, err)
		}
		if pid != os.Getpid() {
			// err is always nil on POSIX, so send signal 0 to see if it's alive
			if process, err := os.FindProcess(pid); err == nil && process.Signal(syscall.Signal(0)) == nil {
				return fmt.Errorf("process %d is already running", pid)
			}
		}
	}
	if err = os.WriteFile(c.PIDfile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("unable to write pidfile '%s': %w", c.PIDfile, err)
	}
	log.Info("Wrote pid to pidfile '%s'", c.PIDfile)
	return nil
}

// RemovePidFile is for the way out
func (c *SystemConfig) RemovePidFile() {
	if c.PIDfile != "" {
		os.Remove(c.PIDfile)
	}
}
