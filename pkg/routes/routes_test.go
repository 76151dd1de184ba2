package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/albmartin/po-intake/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: respond("list")},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: respond("find")},
			{Method: http.MethodDelete, Pattern: "/{id}", Handler: respond("delete")},
		},
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/runs", "list"},
		{http.MethodGet, "/runs/abc", "find"},
		{http.MethodDelete, "/runs/abc", "delete"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
			t.Errorf("%s %s: status %d, body %q", tt.method, tt.path, rec.Code, rec.Body.String())
		}
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: respond("runs")},
		},
		Children: []routes.Group{
			{
				Prefix: "/message",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "/{messageId}", Handler: respond("by-message")},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/message/msg-1", nil))
	if rec.Body.String() != "by-message" {
		t.Errorf("body = %q, want by-message", rec.Body.String())
	}
}

func TestRegisterMethodMismatch(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: respond("list")},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
