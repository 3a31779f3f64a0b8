//go:build !windows

package main

import "errors"

type simConnectTransport struct{}

func NewSimConnectTransport() HostTransport {
	return simConnectTransport{}
}

func (simConnectTransport) Name() string {
	return "SimConnect"
}

func (simConnectTransport) Open(string) (HostConn, error) {
	return nil, errors.New("SimConnect not available on this platform")
}
