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
	The chart viewer

	GET /                     the full dashboard page (every graph re-read and re-rendered)
	GET /graphs               graph list (json, ?format=yaml)
	GET /graph/{name}         one chart block (div + script)
	GET /graph/{name}.json    one chart config object (?format=yaml)
	GET /metrics              prometheus

	everything sits under http.base_path
*/

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richiksc/badlogvis/server/config"
	"github.com/richiksc/badlogvis/server/pages"
	"github.com/richiksc/badlogvis/server/pipeline"
	"github.com/richiksc/badlogvis/server/schemas/graph"
	"github.com/richiksc/badlogvis/server/source"
	"github.com/richiksc/badlogvis/server/utils/shutdown"
	logging "gopkg.in/op/go-logging.v1"
	"gopkg.in/yaml.v2"
)

var log = logging.MustGetLogger("http")

// GraphInfo is the /graphs listing entry
type GraphInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Folder  string   `json:"folder" yaml:"folder"`
	Base    string   `json:"base" yaml:"base"`
	Unit    string   `json:"unit" yaml:"unit"`
	XUnit   string   `json:"x_unit" yaml:"x_unit"`
	Virtual bool     `json:"virtual" yaml:"virtual"`
	Series  []string `json:"series" yaml:"series"`
}

type Server struct {
	Conf   *config.DashboardConfig
	Loader source.Loader
	Router *mux.Router

	handler http.Handler
}

func New(conf *config.DashboardConfig, loader source.Loader) *Server {
	s := &Server{Conf: conf, Loader: loader}
	s.RegisterHandlers()
	return s
}

func (s *Server) RegisterHandlers() http.Handler {
	s.Router = mux.NewRouter()
	base := s.Router
	if bp := strings.TrimSuffix(s.Conf.Http.BasePath, "/"); bp != "" {
		base = s.Router.PathPrefix(bp).Subrouter()
	}
	base.Use(Instrument)

	base.HandleFunc("/", s.Index).Methods("GET")
	base.HandleFunc("/graphs", s.List).Methods("GET")
	base.HandleFunc("/graph/{name:.+}.json", s.GraphJson).Methods("GET")
	base.HandleFunc("/graph/{name:.+}", s.GraphBlock).Methods("GET")
	base.Handle("/metrics", promhttp.Handler()).Methods("GET")

	var h http.Handler = CorsHandler(s.Router)
	if s.Conf.Http.EnableGzip {
		h = CompressHandler(h)
	}
	s.handler = h
	return h
}

// ServeHTTP is the full handler without the access log
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) OutError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Cache-Control", "private, max-age=0, no-cache")
	w.Header().Set("Content-Type", "text/plain")
	http.Error(w, msg, code)
	log.Error(msg)
}

func (s *Server) OutOk(w http.ResponseWriter, data interface{}, format string) {
	switch format {
	case "yaml":
		s.OutYaml(w, data)
	default:
		s.OutJson(w, data)
	}
}

// OutJson generic output in json formats
func (s *Server) OutJson(w http.ResponseWriter, data interface{}) {

	// trap any encoding issues here
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Json Out Render Err: %v", r)
			log.Critical(msg)
			s.OutError(w, msg, http.StatusInternalServerError)
			debug.PrintStack()
			return
		}
	}()

	bs, err := json.Marshal(data)
	if err != nil {
		s.OutError(w, fmt.Sprintf("Json Out Render Err: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=0, no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.Write(bs)
}

// OutYaml generic output in yaml formats
func (s *Server) OutYaml(w http.ResponseWriter, data interface{}) {

	// trap any encoding issues here
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Yaml Out Render Err: %v", r)
			log.Critical(msg)
			s.OutError(w, msg, http.StatusInternalServerError)
			debug.PrintStack()
			return
		}
	}()

	bs, err := yaml.Marshal(data)
	if err != nil {
		s.OutError(w, fmt.Sprintf("Yaml Out Render Err: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=0, no-cache")
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(bs)
}

// OutHtml for pages and chart blocks
func (s *Server) OutHtml(w http.ResponseWriter, body []byte) {
	w.Header().Set("Cache-Control", "private, max-age=0, no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// Index re-runs the whole dashboard, failed graphs show up on the page
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	results, err := pipeline.Run(r.Context(), s.Conf, s.Loader)
	if err != nil {
		s.OutError(w, fmt.Sprintf("render cancelled: %v", err), http.StatusServiceUnavailable)
		return
	}
	buf := new(bytes.Buffer)
	if err := pages.Render(buf, s.Conf.Render.Title, s.Conf.Render.HighchartsURL, results); err != nil {
		s.OutError(w, fmt.Sprintf("page render: %v", err), http.StatusInternalServerError)
		return
	}
	s.OutHtml(w, buf.Bytes())
}

func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	out := make([]GraphInfo, 0, len(s.Conf.Graphs))
	for _, gc := range s.Conf.Graphs {
		folder, base := graph.SplitName(gc.Name)
		names := make([]string, 0, len(gc.Series))
		for _, sc := range gc.Series {
			names = append(names, sc.Name)
		}
		out = append(out, GraphInfo{
			Name:    gc.Name,
			Folder:  folder,
			Base:    base,
			Unit:    gc.Unit,
			XUnit:   gc.XUnit,
			Virtual: gc.Virtual,
			Series:  names,
		})
	}
	s.OutOk(w, out, r.FormValue("format"))
}

// runGraph finds and renders one graph, writing the error response itself
func (s *Server) runGraph(w http.ResponseWriter, r *http.Request, name string) (*pipeline.Result, bool) {
	gc, ok := s.Conf.Graph(name)
	if !ok {
		s.OutError(w, fmt.Sprintf("no graph named %q", name), http.StatusNotFound)
		return nil, false
	}
	res := pipeline.RunGraph(r.Context(), *gc, s.Loader, s.Conf.Render.Strict())
	if res.Err != nil {
		code := http.StatusUnprocessableEntity
		if pipeline.ErrorKind(res.Err) == "other" {
			code = http.StatusInternalServerError
		}
		if errors.Is(res.Err, context.Canceled) {
			code = http.StatusServiceUnavailable
		}
		s.OutError(w, res.Err.Error(), code)
		return nil, false
	}
	return res, true
}

func graphName(r *http.Request) string {
	return strings.TrimSuffix(mux.Vars(r)["name"], "/")
}

func (s *Server) GraphBlock(w http.ResponseWriter, r *http.Request) {
	s.graphBlock(w, r, graphName(r))
}

func (s *Server) graphBlock(w http.ResponseWriter, r *http.Request, name string) {
	res, ok := s.runGraph(w, r, name)
	if !ok {
		return
	}
	s.OutHtml(w, []byte(res.Text))
}

// GraphJson serves the chart object; when no graph has the name minus
// `.json` but one has the full name, that graph's block is served instead
func (s *Server) GraphJson(w http.ResponseWriter, r *http.Request) {
	name := graphName(r)
	if _, ok := s.Conf.Graph(name); !ok {
		if _, ok := s.Conf.Graph(name + ".json"); ok {
			s.graphBlock(w, r, name+".json")
			return
		}
	}
	res, ok := s.runGraph(w, r, name)
	if !ok {
		return
	}
	s.OutOk(w, res.Chart, r.FormValue("format"))
}

// Start serves until the context is done
func (s *Server) Start(ctx context.Context) error {
	log.Notice("Starting http server on %s, base path: %s", s.Conf.Http.Listen, s.Conf.Http.BasePath)

	out, err := AccessLogWriter(s.Conf.Http.Logfile)
	if err != nil {
		return fmt.Errorf("could not open http logfile %s: %w", s.Conf.Http.Logfile, err)
	}

	conn, err := net.Listen("tcp", s.Conf.Http.Listen)
	if err != nil {
		return fmt.Errorf("could not make http socket: %w", err)
	}

	srv := &http.Server{
		Handler:           WriteLog(s.handler, out),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(conn)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown.AddToShutdown()
		defer shutdown.ReleaseFromShutdown()
		log.Warning("Shutting down http server")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
