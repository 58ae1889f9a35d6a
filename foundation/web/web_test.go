package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/web"
)

func Test_App(t *testing.T) {
	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown, mw("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		if v.TraceID == "" {
			return errors.New("missing trace id")
		}

		resp := struct {
			ID string `json:"id"`
		}{
			ID: web.Param(r, "id"),
		}

		if err := web.Respond(ctx, w, resp, http.StatusOK); err != nil {
			return err
		}

		if v.StatusCode != http.StatusOK {
			return errors.New("status code not recorded")
		}

		return nil
	}
	app.Handle(http.MethodGet, "v1", "/items/:id", h, mw("route"))

	app.Handle(http.MethodGet, "", "/boom", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/items/42", nil))

	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"id":"42"}` {
		t.Fatalf("Should respond with the route parameter, got %d %s", w.Code, w.Body.String())
	}

	if len(order) != 2 || order[0] != "app" || order[1] != "route" {
		t.Fatalf("Should run the app middleware before the route middleware, got %v", order)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	select {
	case <-shutdown:
	default:
		t.Fatalf("Should signal shutdown on a shutdown error.")
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"bill"}`))
	if err := web.Decode(r, &v); err != nil || v.Name != "bill" {
		t.Fatalf("Should be able to decode the payload: %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatalf("Should reject a malformed payload.")
	}
}
