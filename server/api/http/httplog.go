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

/** HTTP loggers **/

package http

import (
	"io"
	golanglog "log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/richiksc/badlogvis/server/stats"
)

// mock struct to be a writer interface
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = 200
	}
	n, err := w.ResponseWriter.Write(b)
	w.length += n
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLogWriter opens the access log target: stdout, stderr, none or a file
func AccessLogWriter(logfile string) (io.Writer, error) {
	switch logfile {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "none":
		return io.Discard, nil
	}
	return os.OpenFile(logfile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
}

// WriteLog logs the Http Status for a request into out and returns a
// http handler function which is a wrapper to log the requests.
func WriteLog(handle http.Handler, out io.Writer) http.HandlerFunc {
	logger := golanglog.New(out, "", 0)
	return func(w http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wr := &statusWriter{ResponseWriter: w}

		handle.ServeHTTP(wr, request)
		end := time.Now()
		path := request.URL.Path
		if request.URL.RawQuery != "" {
			path += "?" + request.URL.RawQuery
		}
		logger.Printf(
			"%v %s %s \"%s %s %s\" %d %d \"%s\" %v",
			end.Format("2006/01/02 15:04:05"),
			request.Host,
			request.RemoteAddr,
			request.Method,
			path,
			request.Proto,
			wr.status,
			wr.length,
			request.Header.Get("User-Agent"),
			end.Sub(start),
		)
	}
}

// Instrument counts and times requests by their route template, it has to sit
// inside the router (mux.Router.Use) so the route is known
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		start := time.Now()
		wr := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(wr, r)

		if wr.status == 0 {
			wr.status = http.StatusOK
		}
		stats.HttpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wr.status)).Inc()
		stats.ObserveSince(stats.HttpRequestDuration.WithLabelValues(r.Method, route), start)
	})
}
