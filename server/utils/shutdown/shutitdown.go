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
 This is a helper WaitGroup singleton that helps with doing shutdowns in a nice fashion

 basically anything that needs to finish up (flush a file, close a socket) on the way
 out should add itself to the waitgroup and release when done.

 the "root" caller of the shutdown (usually a SIGINT signal) then should wait for everything to finish
*/
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("shutdown")

//signelton
var _SHUTDOWN_WAITGROUP sync.WaitGroup

func AddToShutdown() {
	_SHUTDOWN_WAITGROUP.Add(1)
}

func ReleaseFromShutdown() {
	_SHUTDOWN_WAITGROUP.Done()
}

func WaitOnShutdown() {
	_SHUTDOWN_WAITGROUP.Wait()
}

// Trap gives a context cancelled on SIGINT, SIGTERM or SIGQUIT
func Trap(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sc)
		select {
		case s := <-sc:
			log.Warning("Caught %s: shutting down", s)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
