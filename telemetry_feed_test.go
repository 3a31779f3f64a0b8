package main

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTelemetryFeedBroadcast(t *testing.T) {
	feed := NewTelemetryFeed("", nil)
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + feedPath
	a := dialFeed(t, url)
	b := dialFeed(t, url)

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	feed.Publish(sampleAircraftData())

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var view InstrumentView
		require.NoError(t, conn.ReadJSON(&view))
		assert.Equal(t, "down", view.GearHandle)
		assert.Equal(t, 270.0, view.HeadingDegrees)
		assert.True(t, view.ParkingBrake)
	}
}

func TestTelemetryFeedClientLeaves(t *testing.T) {
	feed := NewTelemetryFeed("", nil)
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	conn := dialFeed(t, "ws"+strings.TrimPrefix(srv.URL, "http")+feedPath)
	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return feed.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	feed.Publish(sampleAircraftData())
}

func TestTelemetryFeedSlowClientDropsFrames(t *testing.T) {
	feed := NewTelemetryFeed("", nil)
	c := &feedClient{send: make(chan []byte, feedClientBuffer)}
	feed.clients[c] = struct{}{}

	for range feedClientBuffer * 3 {
		feed.Publish(sampleAircraftData())
	}

	assert.Len(t, c.send, feedClientBuffer)
}

func TestTelemetryFeedRun(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	feed := NewTelemetryFeed(addr, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		conn, _, err = websocket.DefaultDialer.Dial("ws://"+addr+feedPath, nil)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	defer conn.Close()
	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("feed did not shut down")
	}
	assert.Equal(t, 0, feed.ClientCount())
}

func TestTelemetryFeedRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	feed := NewTelemetryFeed(ln.Addr().String(), nil)
	assert.Error(t, feed.Run(context.Background()))
}
