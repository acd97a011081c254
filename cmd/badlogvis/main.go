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
	badlogvis

	badlogvis render -c dash.toml -o out.html   write the dashboard page
	badlogvis serve -c dash.toml                serve it (and single charts) over http
	badlogvis check -c dash.toml                check the config and every attribute token
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/richiksc/badlogvis/server/api/http"
	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/pages"
	"github.com/richiksc/badlogvis/server/pipeline"
	"github.com/richiksc/badlogvis/server/source"
	"github.com/richiksc/badlogvis/server/utils/shutdown"
	"github.com/spf13/cobra"
	logging "gopkg.in/op/go-logging.v1"
)

// compile passing -ldflags "-X main.BadlogvisBuild=<build sha1>"
var BadlogvisBuild string

var log = logging.MustGetLogger("main")

var (
	configFile  string
	logFile     string
	logLevel    string
	outputPath  string
	listen      string
	failOnError bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "badlogvis",
		Short:         "Turn logged time series into Highcharts dashboards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "dashboard config file (.toml, .yaml, .yml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "override the log file (stdout, stderr, or a path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "", "override the log level")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard page",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	renderCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non zero if any graph failed")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over http",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "override http.listen")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check the dashboard config and attribute tokens",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "badlogvis build: %s\n", BadlogvisBuild)
		},
	}

	rootCmd.AddCommand(renderCmd, serveCmd, checkCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseConfig() (*config.DashboardConfig, error) {
	if configFile == "" {
		return nil, fmt.Errorf("a config file is required (-c)")
	}
	return config.ParseConfigFile(configFile)
}

// loadConfig parses the config, applies the flag overrides and starts the ambient bits
func loadConfig() (*config.DashboardConfig, error) {
	conf, err := parseConfig()
	if err != nil {
		return nil, err
	}

	//overrides
	if len(logFile) > 0 {
		conf.Logger.File = logFile
	}
	if len(logLevel) > 0 {
		conf.Logger.Level = logLevel
	}
	if err := conf.Start(); err != nil {
		return nil, err
	}
	return conf, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	defer conf.System.RemovePidFile()

	ctx, cancel := shutdown.Trap(context.Background())
	defer cancel()

	results, err := pipeline.Run(ctx, conf, source.NewFileLoader(conf.BaseDir))
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		fp, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer fp.Close()
		out = fp
	}
	if err := pages.Render(out, conf.Render.Title, conf.Render.HighchartsURL, results); err != nil {
		return err
	}
	if outputPath != "" {
		log.Notice("Wrote %d graphs to %s", len(results), outputPath)
	}

	if failed := pipeline.Failed(results); failOnError && len(failed) > 0 {
		return fmt.Errorf("%d of %d graphs failed", len(failed), len(results))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	defer conf.System.RemovePidFile()

	if len(listen) > 0 {
		conf.Http.Listen = listen
	}

	ctx, cancel := shutdown.Trap(context.Background())
	defer cancel()

	var loader source.Loader = source.NewFileLoader(conf.BaseDir)
	if conf.Render.CacheSize > 0 {
		loader = source.NewCachedLoader(conf.BaseDir, conf.Render.CacheSize)
	}
	srv := http.New(conf, loader)
	err = srv.Start(ctx)
	shutdown.WaitOnShutdown()
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	conf, err := parseConfig()
	if err != nil {
		return err
	}
	errs := pipeline.Check(conf)
	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d bad series", len(errs))
	}

	series := 0
	for _, g := range conf.Graphs {
		series += len(g.Series)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d graphs, %d series\n", len(conf.Graphs), series)
	return nil
}
