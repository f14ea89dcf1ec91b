package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/auth"
	httphandlers "github.com/ViniZap4/lumi-notes/http"
	"github.com/ViniZap4/lumi-notes/store/sqlite"
)

func TestServeDrainsBeforeReturning(t *testing.T) {
	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	app := httphandlers.NewServer(st, auth.NewIssuer("test-secret", time.Hour), zerolog.Nop()).App([]string{"*"})
	entered := make(chan struct{})
	app.Get("/slow", func(c *fiber.Ctx) error {
		close(entered)
		time.Sleep(200 * time.Millisecond)
		return c.SendString("finished")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- serve(ctx, app, ln, zerolog.Nop()) }()

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err != nil {
			got <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		got <- result{body: string(b), err: err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	// serve has returned, so the in-flight response is already complete
	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, "finished", r.body)
	case <-time.After(5 * time.Second):
		t.Fatal("response was not delivered")
	}
}

func TestServeReturnsWhenListenerCloses(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), app, ln, zerolog.Nop()) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serve hung on a closed listener")
	}
}
