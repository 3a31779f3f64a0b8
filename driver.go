package main

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

var errDriverStopped = errors.New("session driver stopped")

// Driver runs a Session on a single goroutine. All host calls happen on that
// goroutine; other goroutines reach the session through Driver methods, which
// post a call and wait for it to finish.
//
// Callbacks registered on the session run on the driver goroutine and must
// not call back into the Driver.
type Driver struct {
	session   *Session
	calls     chan func()
	done      chan struct{}
	connected atomic.Bool
}

func NewDriver(session *Session) *Driver {
	d := &Driver{
		session: session,
		calls:   make(chan func()),
		done:    make(chan struct{}),
	}
	session.Subscribe(Callbacks{
		Connected:    func() { d.connected.Store(true) },
		Disconnected: func() { d.connected.Store(false) },
	})
	return d
}

// Run drives the session until ctx is cancelled, then disconnects.
func (d *Driver) Run(ctx context.Context) error {
	// SimConnect handles are tied to the thread that opened them.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.done)
	defer d.session.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.calls:
			fn()
		case <-d.session.Ticks():
			d.session.Dispatch()
		}
	}
}

func (d *Driver) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case d.calls <- func() {
		defer close(finished)
		fn()
	}:
	case <-d.done:
		return errDriverStopped
	}
	<-finished
	return nil
}

func (d *Driver) Connect() error {
	var err error
	if derr := d.do(func() { err = d.session.Connect() }); derr != nil {
		return derr
	}
	return err
}

func (d *Driver) Disconnect() {
	_ = d.do(d.session.Disconnect)
}

func (d *Driver) IsConnected() bool {
	return d.connected.Load()
}

func (d *Driver) State() SessionState {
	state := StateDisconnected
	_ = d.do(func() { state = d.session.State() })
	return state
}

func (d *Driver) Transmit(cmd CommandID, payload uint32) error {
	var err error
	if derr := d.do(func() { err = d.session.Transmit(cmd, payload) }); derr != nil {
		return derr
	}
	return err
}

func (d *Driver) Subscribe(cb Callbacks) error {
	return d.do(func() { d.session.Subscribe(cb) })
}
