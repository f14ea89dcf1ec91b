// Package apitest runs the notes API on an in-memory database so client
// packages can be tested end to end.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/ViniZap4/lumi-notes/auth"
	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
	httphandlers "github.com/ViniZap4/lumi-notes/http"
	"github.com/ViniZap4/lumi-notes/store/sqlite"
)

const Password = "secret123"

// Start serves a fresh API until the test ends.
func Start(t testing.TB) *httptest.Server {
	t.Helper()
	st, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := httphandlers.NewServer(st, auth.NewIssuer("apitest-secret", time.Hour), zerolog.Nop())
	ts := httptest.NewServer(adaptor.FiberApp(srv.App([]string{"*"})))
	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})
	return ts
}

// StaticAuth is a fixed bearer token. Expired records whether the client
// reported a rejected token.
type StaticAuth struct {
	Value   string
	Expired bool
}

func (a *StaticAuth) Token() string { return a.Value }
func (a *StaticAuth) Expire()       { a.Expired = true }

// SignUp registers name and returns a client authenticated as that user.
func SignUp(t testing.TB, baseURL, name string) *client.Client {
	t.Helper()
	ctx := context.Background()
	c := client.New(baseURL)
	_, err := c.Register(ctx, domain.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: Password,
		FullName: name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	resp, err := c.Login(ctx, name+"@example.com", Password)
	if err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
	c.UseAuth(&StaticAuth{Value: resp.Token})
	return c
}
