package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstanceSignalsFirst(t *testing.T) {
	first, err := NewSingleInstance("127.0.0.1:0")
	require.NoError(t, err)
	defer first.Close()

	var shown atomic.Int32
	first.SetOnShow(func() { shown.Add(1) })

	second, err := NewSingleInstance(first.Addr())
	assert.Nil(t, second)
	assert.ErrorIs(t, err, errAlreadyRunning)

	require.Eventually(t, func() bool {
		return shown.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
