package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/postboard/internal/logger"
)

func quietEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

func TestServeReturnsListenError(t *testing.T) {
	logger.SetOutput(io.Discard, io.Discard)

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), quietEcho(), "not-a-valid-address") }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not report the listen error")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	logger.SetOutput(io.Discard, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, quietEcho(), "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
