package main

import (
	"errors"
	"net"
	"sync"
)

const singleInstanceAddr = "127.0.0.1:49877"

var errAlreadyRunning = errors.New("another instance is already running")

type SingleInstance struct {
	listener net.Listener
	mu       sync.Mutex
	onShow   func()
}

// NewSingleInstance claims addr. If another instance holds it, that instance
// is asked to show its window and errAlreadyRunning is returned.
func NewSingleInstance(addr string) (*SingleInstance, error) {
	si := &SingleInstance{}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		conn, dialErr := net.Dial("tcp", addr)
		if dialErr == nil {
			conn.Write([]byte("show"))
			conn.Close()
		}
		return nil, errAlreadyRunning
	}

	si.listener = listener
	go si.listenLoop()
	return si, nil
}

func (si *SingleInstance) Addr() string {
	return si.listener.Addr().String()
}

func (si *SingleInstance) SetOnShow(fn func()) {
	si.mu.Lock()
	si.onShow = fn
	si.mu.Unlock()
}

func (si *SingleInstance) Close() {
	si.listener.Close()
}

func (si *SingleInstance) listenLoop() {
	for {
		conn, err := si.listener.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 4)
		conn.Read(buf)
		conn.Close()

		if string(buf) == "show" {
			si.mu.Lock()
			fn := si.onShow
			si.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}
