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

package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrap(t *testing.T) {

	Convey("Trapping signals", t, func() {

		Convey("should cancel on a signal", func() {
			ctx, cancel := Trap(context.Background())
			defer cancel()
			So(syscall.Kill(syscall.Getpid(), syscall.SIGQUIT), ShouldBeNil)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
				t.Fatal("signal never arrived")
			}
			So(ctx.Err(), ShouldNotBeNil)
		})

		Convey("should follow the parent", func() {
			parent, pcancel := context.WithCancel(context.Background())
			ctx, cancel := Trap(parent)
			defer cancel()
			pcancel()
			<-ctx.Done()
			So(ctx.Err(), ShouldEqual, context.Canceled)
		})
	})

	Convey("The shutdown group", t, func() {
		AddToShutdown()
		done := make(chan bool)
		go func() {
			WaitOnShutdown()
			close(done)
		}()
		ReleaseFromShutdown()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("wait never returned")
		}
	})
}
