package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/ogurasousui/codex-skill-tracker/internal/platform/config"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	lis := fasthttputil.NewInmemoryListener()
	srv := New(config.ServerConfig{ListenAddr: "inmemory", MaxBodyBytes: 1024}, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTeapot)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return lis.Dial() },
	}
	status, _, err := client.Get(nil, "http://inmemory/anything")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusTeapot, status)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestServer_RunInvalidAddress(t *testing.T) {
	t.Parallel()

	srv := New(config.ServerConfig{ListenAddr: "invalid-address"}, func(*fasthttp.RequestCtx) {})

	err := srv.Run(context.Background())
	assert.Error(t, err)
}
